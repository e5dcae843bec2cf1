package parser

import (
	"fmt"

	"github.com/jlkcz/auditparser/internal/model"
)

// UnknownOperationError reports an operation value the factory has no
// record kind for. Callers recover it by keeping the raw line as an
// unknown record.
type UnknownOperationError struct {
	Operation string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("unknown operation %q", e.Operation)
}

// fileOperations is the set of operation values classified as file events.
var fileOperations = map[string]bool{
	"file_inherit": true,
	"file_lock":    true,
	"file_mmap":    true,
	"file_perm":    true,
	"mknod":        true,
	"open":         true,
	"rename_dest":  true,
	"rename_src":   true,
	"unlink":       true,
	"chmod":        true,
	"chown":        true,
	"truncate":     true,
}

// NewRecord builds the record kind matching the operation field.
// Fails with *model.MissingFieldError when a required attribute is absent,
// with *UnknownOperationError for unrecognized operations, and with
// *NoTimestampError when the msg field lacks the embedded time. The first
// two are recoverable (the line degrades to unknown); the last is not.
func NewRecord(fields Fields) (model.Record, error) {
	op, ok := fields["operation"]
	if !ok {
		return nil, &model.MissingFieldError{Field: "operation"}
	}
	msg, ok := fields["msg"]
	if !ok {
		return nil, &model.MissingFieldError{Field: "msg"}
	}

	t, err := EventTime(msg)
	if err != nil {
		return nil, err
	}

	switch {
	case op == "capable":
		return model.NewCapabilityRecord(fields, t)
	case op == "exec":
		return model.NewExecRecord(fields, t)
	case op == "signal":
		return model.NewSignalRecord(fields, t)
	case op == "profile_load" || op == "profile_replace" || op == "profile_remove":
		return model.NewProfileLoadRecord(fields, t)
	case op == "change_profile":
		return model.NewChangeProfileRecord(fields, t)
	case op == "change_hat":
		return model.NewChangeHatRecord(fields, t)
	case fileOperations[op]:
		return model.NewFileRecord(fields, t)
	default:
		return nil, &UnknownOperationError{Operation: op}
	}
}
