package parser

import (
	"fmt"
	"regexp"
	"strconv"
)

// timePattern matches the epoch-seconds part of the audit message id,
// e.g. "audit(1616222101.123:45)".
var timePattern = regexp.MustCompile(`audit\(([0-9]+)\.`)

// NoTimestampError reports an audit message without the embedded
// "audit(<epoch>." timestamp. Every record needs a time, so this is a hard
// failure: it signals an upstream format change, not an expected variation.
type NoTimestampError struct {
	Msg string
}

func (e *NoTimestampError) Error() string {
	return fmt.Sprintf("no audit timestamp in %q", e.Msg)
}

// EventTime extracts the Unix timestamp embedded in an audit message value.
func EventTime(msg string) (int64, error) {
	m := timePattern.FindStringSubmatch(msg)
	if m == nil {
		return 0, &NoTimestampError{Msg: msg}
	}
	return strconv.ParseInt(m[1], 10, 64)
}
