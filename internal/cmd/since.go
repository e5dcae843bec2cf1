package cmd

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// dayWeekPattern matches the shorthands time.ParseDuration has no unit for.
var dayWeekPattern = regexp.MustCompile(`^(\d+)([dw])$`)

// parseSince resolves a human age expression to an epoch-seconds cutoff.
// Accepts Go durations ("90m", "12h"), day/week shorthands ("1d", "2w"),
// and absolute dates ("2026-08-24", "2026-08-24 10:00:00", RFC3339).
func parseSince(value string, now time.Time) (int64, error) {
	if m := dayWeekPattern.FindStringSubmatch(value); m != nil {
		n, _ := strconv.Atoi(m[1])
		hours := 24 * n
		if m[2] == "w" {
			hours *= 7
		}
		return now.Add(-time.Duration(hours) * time.Hour).Unix(), nil
	}

	if d, err := time.ParseDuration(value); err == nil {
		return now.Add(-d).Unix(), nil
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t.Unix(), nil
		}
	}

	return 0, fmt.Errorf("cannot parse time expression %q", value)
}
