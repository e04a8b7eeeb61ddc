package progress

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var decodingPattern = regexp.MustCompile(`Decoding::\s+(\d+)%\|.*?<([0-9:]+),`)

// Sample is one parsed progress reading.
type Sample struct {
	Percent int
	ETA     time.Duration
}

// ParseLine extracts a Sample from a decoder output line. Lines that do not
// match, carry a percent above 100, or have a malformed ETA report false.
func ParseLine(line string) (Sample, bool) {
	match := decodingPattern.FindStringSubmatch(line)
	if match == nil {
		return Sample{}, false
	}
	percent, err := strconv.Atoi(match[1])
	if err != nil || percent < 0 || percent > 100 {
		return Sample{}, false
	}
	eta, err := ParseClock(match[2])
	if err != nil {
		return Sample{}, false
	}
	return Sample{Percent: percent, ETA: eta}, true
}

// IsDone reports whether line carries the decoder's completion marker.
func IsDone(line string) bool {
	return strings.Contains(strings.ToLower(line), "done")
}

// ParseClock converts "HH:MM:SS" or "MM:SS" into a duration.
func ParseClock(value string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("clock %q: expected HH:MM:SS", value)
	}
	var fields [3]int
	offset := 3 - len(parts)
	for i, part := range parts {
		if part == "" {
			return 0, fmt.Errorf("clock %q: empty field", value)
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return 0, fmt.Errorf("clock %q: %w", value, err)
		}
		fields[offset+i] = n
	}
	if fields[1] > 59 || fields[2] > 59 {
		return 0, errors.New("clock " + strconv.Quote(value) + ": minutes and seconds must be below 60")
	}
	return time.Duration(fields[0])*time.Hour +
		time.Duration(fields[1])*time.Minute +
		time.Duration(fields[2])*time.Second, nil
}

// FormatClock renders d as HH:MM:SS, truncating sub-second precision.
// Hours are not wrapped at 24.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
