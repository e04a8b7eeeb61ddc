package progress

import (
	"strconv"
	"strings"
	"time"
)

const (
	// BarWidth is the number of cells in a rendered bar.
	BarWidth = 60

	barFill  = "■"
	barEmpty = " "
)

// Filled returns how many of the BarWidth cells percent covers.
func Filled(percent int) int {
	if percent <= 0 {
		return 0
	}
	if percent >= 100 {
		return BarWidth
	}
	return BarWidth * percent / 100
}

// RenderBar formats one bar line. The result is deterministic for a given
// (percent, elapsed, eta) triple and carries no line terminator.
func RenderBar(percent int, elapsed, eta time.Duration) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := Filled(percent)

	var b strings.Builder
	b.Grow(BarWidth*len(barFill) + 64)
	b.WriteByte('[')
	b.WriteString(strings.Repeat(barFill, filled))
	b.WriteString(strings.Repeat(barEmpty, BarWidth-filled))
	b.WriteString("] ")
	b.WriteString(strconv.Itoa(percent))
	b.WriteString("% Elapsed: ")
	b.WriteString(FormatClock(elapsed))
	b.WriteString(" | Remaining: ")
	b.WriteString(FormatClock(eta))
	return b.String()
}
