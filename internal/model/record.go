package model

import (
	"fmt"
	"strings"
)

// Kind discriminates the concrete record types produced by the classifier.
type Kind string

const (
	KindFile          Kind = "file"
	KindExec          Kind = "exec"
	KindCapability    Kind = "capability"
	KindSignal        Kind = "signal"
	KindProfileLoad   Kind = "profile_load"
	KindChangeProfile Kind = "change_profile"
	KindChangeHat     Kind = "change_hat"
)

// Row is the tabular projection of a record.
type Row struct {
	Count     int    `json:"count"`
	Operation string `json:"operation"`
	Content   string `json:"content"`
	Apparmor  string `json:"apparmor"`
	Time      int64  `json:"time"`
}

// Record is the capability set every classified AVC event exposes.
type Record interface {
	Kind() Kind

	// IdentityKey returns the kind-discriminated tuple of identity field
	// values. Two records are structurally equal iff their keys are equal;
	// records of different kinds never share a key.
	IdentityKey() string

	Profile() string
	Time() int64
	Count() int
	SetCount(n int)

	// Render produces the one-line human string for this record.
	Render() string

	// SuggestFix returns a candidate policy rule to relax the profile,
	// or false for kinds with no actionable fix.
	SuggestFix() (string, bool)

	Row() Row
}

// MissingFieldError reports a required attribute absent from the parsed
// fields of a line. Kind is empty when the failure happens before the
// record kind is known.
type MissingFieldError struct {
	Kind  Kind
	Field string
}

func (e *MissingFieldError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("missing field %q", e.Field)
	}
	return fmt.Sprintf("missing field %q for %s record", e.Field, e.Kind)
}

// base holds the attributes common to all record kinds.
type base struct {
	Apparmor  string
	Operation string
	profile   string
	time      int64
	count     int
}

func (b *base) Profile() string { return b.profile }
func (b *base) Time() int64     { return b.time }
func (b *base) Count() int      { return b.count }
func (b *base) SetCount(n int)  { b.count = n }

// baseKeys must be present for any kind to be constructed at all.
var baseKeys = []string{"apparmor", "operation", "msg"}

// newBase validates the common attributes and captures the shared part.
// The profile attribute is optional here; kinds that key on it require it
// explicitly.
func newBase(kind Kind, fields map[string]string, time int64) (base, error) {
	if err := require(kind, fields, baseKeys...); err != nil {
		return base{}, err
	}
	return base{
		Apparmor:  fields["apparmor"],
		Operation: fields["operation"],
		profile:   fields["profile"],
		time:      time,
	}, nil
}

// require fails with a MissingFieldError for the first absent key.
func require(kind Kind, fields map[string]string, keys ...string) error {
	for _, k := range keys {
		if _, ok := fields[k]; !ok {
			return &MissingFieldError{Kind: kind, Field: k}
		}
	}
	return nil
}

// identityKey joins the kind discriminator and the ordered identity field
// values into a single comparable string. The separator cannot occur in
// audit attribute values, so distinct tuples never collide.
func identityKey(kind Kind, values ...string) string {
	return string(kind) + "\x1f" + strings.Join(values, "\x1f")
}
