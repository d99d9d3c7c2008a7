package stats

import (
	"strconv"
	"strings"

	"github.com/mauv0809/cricket-stats/internal/player"
)

// ParseValue reads a stored metric value. Anything that is not a non-negative
// base-10 integer yields ok == false.
func ParseValue(s string) (n int, ok bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Aggregate sums the values of entries, substituting 0 for malformed values.
// Every substitution is reported in malformed, indexed by position in entries.
func Aggregate(metric player.Metric, entries []player.MatchEntry) (total int, malformed []player.MalformedEntry) {
	for i, e := range entries {
		n, ok := ParseValue(e.Value)
		if !ok {
			malformed = append(malformed, player.MalformedEntry{Metric: metric, Index: i, Value: e.Value})
			continue
		}
		total += n
	}
	return total, malformed
}

// sumValues adds raw values with the same 0-substitution as Aggregate.
func sumValues(values []string) int {
	total := 0
	for _, v := range values {
		if n, ok := ParseValue(v); ok {
			total += n
		}
	}
	return total
}

// Validate returns the first value of card that would be substituted during aggregation.
func Validate(card Scorecard) error {
	for _, m := range metricsInOrder {
		for i, v := range card.Values(m) {
			if _, ok := ParseValue(v); !ok {
				return player.MalformedEntry{Metric: m, Index: i, Value: v}
			}
		}
	}
	return nil
}
