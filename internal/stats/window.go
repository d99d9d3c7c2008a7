package stats

import "strconv"

// UpdateWindow records a match score in the "last four" window.
// A full window is reset to just the new score rather than sliding.
func UpdateWindow(window []string, score int) []string {
	entry := strconv.Itoa(score)

	var next []string
	if len(window) < WindowSize {
		next = make([]string, 0, len(window)+1)
		next = append(next, window...)
		next = append(next, entry)
	} else {
		// Also covers over-long windows written before the cap existed.
		next = []string{entry}
	}

	if len(next) > WindowSize {
		next = next[len(next)-WindowSize:]
	}
	return next
}
