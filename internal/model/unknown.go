package model

// UnknownRecord wraps a line the classifier could not make sense of.
// It keeps the raw text verbatim and takes no part in dedup-by-count or
// profile grouping; two unknown records are the same iff their lines match.
type UnknownRecord struct {
	Line string
}

// NewUnknownRecord wraps a raw log line.
func NewUnknownRecord(line string) UnknownRecord {
	return UnknownRecord{Line: line}
}

func (u UnknownRecord) Render() string {
	return "Unrecognized line: " + u.Line
}
