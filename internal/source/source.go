package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jlkcz/auditparser/internal/model"
	"github.com/jlkcz/auditparser/internal/parser"
)

// maxLineSize bounds a single audit line; auditd messages stay well under.
const maxLineSize = 1024 * 1024

// MissingRequiredFieldError reports a line without a field the scan itself
// needs (type, or profile while a filter is set). Unlike a missing identity
// field this is not recovered: it means the input is not auditd output.
type MissingRequiredFieldError struct {
	Field string
	Line  string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("line without required field %q: %s", e.Field, e.Line)
}

// Result holds the classified output of one scan.
type Result struct {
	Records []model.Record
	Unknown []model.UnknownRecord
}

// Scanner classifies AVC events from an audit log, applying an age cutoff
// and an optional profile filter.
type Scanner struct {
	cutoff int64
	filter Filter
}

// New creates a Scanner. Lines with an embedded timestamp before cutoff
// (epoch seconds) are skipped; the boundary itself is kept.
func New(cutoff int64, filter Filter) *Scanner {
	return &Scanner{cutoff: cutoff, filter: filter}
}

// Classify runs the per-line pipeline on one raw line. It returns either a
// classified record, an unknown record, or neither when the line is
// filtered out (too old, not AVC, or profile mismatch).
func (s *Scanner) Classify(line string) (model.Record, *model.UnknownRecord, error) {
	t, err := parser.EventTime(line)
	if err != nil {
		return nil, nil, err
	}
	if t < s.cutoff {
		return nil, nil, nil
	}

	fields := parser.ParseFields(line)

	typ, ok := fields["type"]
	if !ok {
		return nil, nil, &MissingRequiredFieldError{Field: "type", Line: line}
	}
	if typ != "AVC" {
		// Other audit event types are noise for this tool.
		return nil, nil, nil
	}

	if s.filter.Active() {
		profile, ok := fields["profile"]
		if !ok {
			return nil, nil, &MissingRequiredFieldError{Field: "profile", Line: line}
		}
		if !s.filter.matches(profile) {
			return nil, nil, nil
		}
	}

	rec, err := parser.NewRecord(fields)
	if err != nil {
		var missing *model.MissingFieldError
		var unknownOp *parser.UnknownOperationError
		if errors.As(err, &missing) || errors.As(err, &unknownOp) {
			u := model.NewUnknownRecord(line)
			return nil, &u, nil
		}
		return nil, nil, err
	}
	return rec, nil, nil
}

// Scan consumes the reader line by line and classifies every qualifying
// line. The source is read once to completion; the result is materialized.
func (s *Scanner) Scan(r io.Reader) (*Result, error) {
	res := &Result{}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for sc.Scan() {
		rec, unknown, err := s.Classify(sc.Text())
		if err != nil {
			return nil, err
		}
		switch {
		case rec != nil:
			res.Records = append(res.Records, rec)
		case unknown != nil:
			res.Unknown = append(res.Unknown, *unknown)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}
	return res, nil
}

// ScanFile opens path and scans it to completion.
func (s *Scanner) ScanFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return s.Scan(f)
}
