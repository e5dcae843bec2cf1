package model

import "fmt"

// ---------------------------------------------------------------------------
// File
// ---------------------------------------------------------------------------

// FileRecord represents file access events (permissions, manipulation).
type FileRecord struct {
	base
	Name          string
	RequestedMask string
	DeniedMask    string
}

// NewFileRecord builds a FileRecord from parsed fields and the event time.
func NewFileRecord(fields map[string]string, time int64) (*FileRecord, error) {
	b, err := newBase(KindFile, fields, time)
	if err != nil {
		return nil, err
	}
	if err := require(KindFile, fields, "profile", "name", "requested_mask", "denied_mask"); err != nil {
		return nil, err
	}
	return &FileRecord{
		base:          b,
		Name:          fields["name"],
		RequestedMask: fields["requested_mask"],
		DeniedMask:    fields["denied_mask"],
	}, nil
}

func (r *FileRecord) Kind() Kind { return KindFile }

func (r *FileRecord) IdentityKey() string {
	return identityKey(KindFile, r.Apparmor, r.Operation, r.profile, r.Name, r.RequestedMask, r.DeniedMask)
}

func (r *FileRecord) Render() string {
	return fmt.Sprintf("%s: %s(%s/%s) %s (%s|%d)",
		r.profile, r.Operation, r.RequestedMask, r.DeniedMask, r.Name, r.Apparmor, r.time)
}

func (r *FileRecord) SuggestFix() (string, bool) {
	return fmt.Sprintf("%s %s,", r.Name, r.RequestedMask), true
}

func (r *FileRecord) Row() Row {
	return Row{
		Count:     r.count,
		Operation: r.Operation,
		Content:   fmt.Sprintf("%s (%s)", r.Name, r.RequestedMask),
		Apparmor:  r.Apparmor,
		Time:      r.time,
	}
}

// ---------------------------------------------------------------------------
// Exec
// ---------------------------------------------------------------------------

// ExecRecord represents execution of other files.
type ExecRecord struct {
	base
	Name          string
	Comm          string
	RequestedMask string
	DeniedMask    string
}

// NewExecRecord builds an ExecRecord from parsed fields and the event time.
func NewExecRecord(fields map[string]string, time int64) (*ExecRecord, error) {
	b, err := newBase(KindExec, fields, time)
	if err != nil {
		return nil, err
	}
	if err := require(KindExec, fields, "profile", "name", "comm", "requested_mask", "denied_mask"); err != nil {
		return nil, err
	}
	return &ExecRecord{
		base:          b,
		Name:          fields["name"],
		Comm:          fields["comm"],
		RequestedMask: fields["requested_mask"],
		DeniedMask:    fields["denied_mask"],
	}, nil
}

func (r *ExecRecord) Kind() Kind { return KindExec }

func (r *ExecRecord) IdentityKey() string {
	return identityKey(KindExec, r.Apparmor, r.Operation, r.profile, r.Name, r.Comm, r.RequestedMask, r.DeniedMask)
}

func (r *ExecRecord) Render() string {
	return fmt.Sprintf("%s exec %s with comm=%s (%s/%s). (%s|%d)",
		r.profile, r.Name, r.Comm, r.RequestedMask, r.DeniedMask, r.Apparmor, r.time)
}

func (r *ExecRecord) SuggestFix() (string, bool) {
	return fmt.Sprintf("%s Pix,", r.Name), true
}

func (r *ExecRecord) Row() Row {
	return Row{
		Count:     r.count,
		Operation: r.Operation,
		Content:   fmt.Sprintf("%s comm=%s", r.Name, r.Comm),
		Apparmor:  r.Apparmor,
		Time:      r.time,
	}
}

// ---------------------------------------------------------------------------
// Capability
// ---------------------------------------------------------------------------

// CapabilityRecord represents denied or audited POSIX capabilities.
type CapabilityRecord struct {
	base
	Capname string
}

// NewCapabilityRecord builds a CapabilityRecord from parsed fields and the
// event time.
func NewCapabilityRecord(fields map[string]string, time int64) (*CapabilityRecord, error) {
	b, err := newBase(KindCapability, fields, time)
	if err != nil {
		return nil, err
	}
	if err := require(KindCapability, fields, "profile", "capname"); err != nil {
		return nil, err
	}
	return &CapabilityRecord{base: b, Capname: fields["capname"]}, nil
}

func (r *CapabilityRecord) Kind() Kind { return KindCapability }

// IdentityKey keys on profile and capability name only: the same missing
// capability is one finding no matter how many call sites trip it.
func (r *CapabilityRecord) IdentityKey() string {
	return identityKey(KindCapability, r.profile, r.Capname)
}

func (r *CapabilityRecord) Render() string {
	return fmt.Sprintf("%s: capability %s. (%s|%d)", r.profile, r.Capname, r.Apparmor, r.time)
}

func (r *CapabilityRecord) SuggestFix() (string, bool) {
	return fmt.Sprintf("capability %s,", r.Capname), true
}

func (r *CapabilityRecord) Row() Row {
	return Row{
		Count:     r.count,
		Operation: r.Operation,
		Content:   fmt.Sprintf("capability %s", r.Capname),
		Apparmor:  r.Apparmor,
		Time:      r.time,
	}
}

// ---------------------------------------------------------------------------
// Signal
// ---------------------------------------------------------------------------

// SignalRecord represents signal delivery between confined processes.
type SignalRecord struct {
	base
	RequestedMask string
	DeniedMask    string
	Signal        string
	Peer          string
}

// NewSignalRecord builds a SignalRecord from parsed fields and the event time.
func NewSignalRecord(fields map[string]string, time int64) (*SignalRecord, error) {
	b, err := newBase(KindSignal, fields, time)
	if err != nil {
		return nil, err
	}
	if err := require(KindSignal, fields, "profile", "requested_mask", "denied_mask", "signal", "peer"); err != nil {
		return nil, err
	}
	return &SignalRecord{
		base:          b,
		RequestedMask: fields["requested_mask"],
		DeniedMask:    fields["denied_mask"],
		Signal:        fields["signal"],
		Peer:          fields["peer"],
	}, nil
}

func (r *SignalRecord) Kind() Kind { return KindSignal }

func (r *SignalRecord) IdentityKey() string {
	return identityKey(KindSignal, r.profile, r.RequestedMask, r.DeniedMask, r.Signal, r.Peer)
}

func (r *SignalRecord) Render() string {
	return fmt.Sprintf("%s: signal (%s/%s %s) to %s. (%s|%d)",
		r.profile, r.RequestedMask, r.DeniedMask, r.Signal, r.Peer, r.Apparmor, r.time)
}

func (r *SignalRecord) SuggestFix() (string, bool) {
	return fmt.Sprintf("signal (%s) peer=%s,", r.RequestedMask, r.Peer), true
}

func (r *SignalRecord) Row() Row {
	return Row{
		Count:     r.count,
		Operation: r.Operation,
		Content:   fmt.Sprintf("signal %s to %s", r.Signal, r.Peer),
		Apparmor:  r.Apparmor,
		Time:      r.time,
	}
}

// ---------------------------------------------------------------------------
// ProfileLoad
// ---------------------------------------------------------------------------

// ProfileLoadRecord represents profile load, replace, and remove messages.
// These are informational: there is nothing to fix.
type ProfileLoadRecord struct {
	base
	Name string
}

// NewProfileLoadRecord builds a ProfileLoadRecord from parsed fields and
// the event time.
func NewProfileLoadRecord(fields map[string]string, time int64) (*ProfileLoadRecord, error) {
	b, err := newBase(KindProfileLoad, fields, time)
	if err != nil {
		return nil, err
	}
	if err := require(KindProfileLoad, fields, "name"); err != nil {
		return nil, err
	}
	return &ProfileLoadRecord{base: b, Name: fields["name"]}, nil
}

func (r *ProfileLoadRecord) Kind() Kind { return KindProfileLoad }

func (r *ProfileLoadRecord) IdentityKey() string {
	return identityKey(KindProfileLoad, r.Name)
}

func (r *ProfileLoadRecord) Render() string {
	return fmt.Sprintf("%s %s at: %d", r.Name, loadVerb(r.Operation), r.time)
}

func (r *ProfileLoadRecord) SuggestFix() (string, bool) { return "", false }

func (r *ProfileLoadRecord) Row() Row {
	return Row{
		Count:     r.count,
		Operation: r.Operation,
		Content:   r.Name,
		Apparmor:  r.Apparmor,
		Time:      r.time,
	}
}

// loadVerb maps the profile management operation to a report verb.
func loadVerb(operation string) string {
	switch operation {
	case "profile_load":
		return "loaded"
	case "profile_remove":
		return "removed"
	default:
		return "replaced"
	}
}

// ---------------------------------------------------------------------------
// ChangeProfile
// ---------------------------------------------------------------------------

// ChangeProfileRecord represents a process switching to another profile.
type ChangeProfileRecord struct {
	base
	Target string
}

// NewChangeProfileRecord builds a ChangeProfileRecord from parsed fields and
// the event time.
func NewChangeProfileRecord(fields map[string]string, time int64) (*ChangeProfileRecord, error) {
	b, err := newBase(KindChangeProfile, fields, time)
	if err != nil {
		return nil, err
	}
	if err := require(KindChangeProfile, fields, "profile", "target"); err != nil {
		return nil, err
	}
	return &ChangeProfileRecord{base: b, Target: fields["target"]}, nil
}

func (r *ChangeProfileRecord) Kind() Kind { return KindChangeProfile }

func (r *ChangeProfileRecord) IdentityKey() string {
	return identityKey(KindChangeProfile, r.profile, r.Target)
}

func (r *ChangeProfileRecord) Render() string {
	return fmt.Sprintf("%s changed profile to %s (%s|%d)", r.profile, r.Target, r.Apparmor, r.time)
}

func (r *ChangeProfileRecord) SuggestFix() (string, bool) { return "", false }

func (r *ChangeProfileRecord) Row() Row {
	return Row{
		Count:     r.count,
		Operation: r.Operation,
		Content:   fmt.Sprintf("to %s", r.Target),
		Apparmor:  r.Apparmor,
		Time:      r.time,
	}
}

// ---------------------------------------------------------------------------
// ChangeHat
// ---------------------------------------------------------------------------

// ChangeHatRecord represents a process switching into a hat of its profile.
type ChangeHatRecord struct {
	base
	Name string
}

// NewChangeHatRecord builds a ChangeHatRecord from parsed fields and the
// event time.
func NewChangeHatRecord(fields map[string]string, time int64) (*ChangeHatRecord, error) {
	b, err := newBase(KindChangeHat, fields, time)
	if err != nil {
		return nil, err
	}
	if err := require(KindChangeHat, fields, "profile", "name"); err != nil {
		return nil, err
	}
	return &ChangeHatRecord{base: b, Name: fields["name"]}, nil
}

func (r *ChangeHatRecord) Kind() Kind { return KindChangeHat }

func (r *ChangeHatRecord) IdentityKey() string {
	return identityKey(KindChangeHat, r.profile, r.Name)
}

func (r *ChangeHatRecord) Render() string {
	return fmt.Sprintf("%s changed to hat %s (%s|%d)", r.profile, r.Name, r.Apparmor, r.time)
}

func (r *ChangeHatRecord) SuggestFix() (string, bool) { return "", false }

func (r *ChangeHatRecord) Row() Row {
	return Row{
		Count:     r.count,
		Operation: r.Operation,
		Content:   fmt.Sprintf("hat %s", r.Name),
		Apparmor:  r.Apparmor,
		Time:      r.time,
	}
}
