package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateWindow(t *testing.T) {
	testCases := []struct {
		name   string
		window []string
		score  int
		want   []string
	}{
		{"empty", nil, 5, []string{"5"}},
		{"partial", []string{"10", "20"}, 30, []string{"10", "20", "30"}},
		{"fills to four", []string{"10", "20", "15"}, 25, []string{"10", "20", "15", "25"}},
		{"full resets", []string{"10", "20", "15", "25"}, 30, []string{"30"}},
		{"over-long resets", []string{"1", "2", "3", "4", "5"}, 9, []string{"9"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, UpdateWindow(tc.window, tc.score))
		})
	}
}

func TestUpdateWindow_DoesNotMutateInput(t *testing.T) {
	in := make([]string, 2, 8)
	in[0], in[1] = "1", "2"
	_ = UpdateWindow(in, 3)
	assert.Equal(t, []string{"1", "2"}, in)
	assert.Equal(t, "", in[:3][2], "backing array untouched")
}

func TestUpdateWindow_FiveScoresResetOnFull(t *testing.T) {
	var window []string
	for _, score := range []int{1, 2, 3, 4, 5} {
		window = UpdateWindow(window, score)
		assert.LessOrEqual(t, len(window), WindowSize)
	}
	assert.Equal(t, []string{"5"}, window)
}
