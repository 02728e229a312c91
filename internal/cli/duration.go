package cli

import (
	"strconv"
	"time"
)

// parseDuration accepts Go durations ("500ms", "2s") and bare numbers of
// seconds ("1", "0.5").
func parseDuration(s string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	return time.ParseDuration(s)
}
