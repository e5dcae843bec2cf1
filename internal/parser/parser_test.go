package parser

import (
	"errors"
	"testing"

	"github.com/jlkcz/auditparser/internal/model"
)

const sampleLine = `type=AVC msg=audit(1616222101.123:45): apparmor="ALLOWED" operation="file_perm" profile="apache2//DEFAULT_URI" name="/var/log/custom.access.log" pid=1234 comm="apache2" requested_mask="w" denied_mask="w"`

func TestParseFields(t *testing.T) {
	fields := ParseFields(sampleLine)

	if fields["type"] != "AVC" {
		t.Errorf("expected type AVC, got %q", fields["type"])
	}
	if fields["apparmor"] != "ALLOWED" {
		t.Errorf("expected apparmor ALLOWED, got %q", fields["apparmor"])
	}
	if fields["profile"] != "apache2//DEFAULT_URI" {
		t.Errorf("expected quoted profile value, got %q", fields["profile"])
	}
	if fields["name"] != "/var/log/custom.access.log" {
		t.Errorf("expected quoted name value, got %q", fields["name"])
	}
	if fields["pid"] != "1234" {
		t.Errorf("expected bare pid value, got %q", fields["pid"])
	}
	if fields["msg"] != "audit(1616222101.123:45):" {
		t.Errorf("expected msg token, got %q", fields["msg"])
	}
}

func TestParseFieldsQuotedKeepsSpaces(t *testing.T) {
	fields := ParseFields(`operation="open" name="/tmp/with space/file"`)

	if fields["name"] != "/tmp/with space/file" {
		t.Errorf("expected spaces preserved inside quotes, got %q", fields["name"])
	}
}

func TestParseFieldsControlChars(t *testing.T) {
	// auditd glues message parts together with control characters.
	fields := ParseFields("type=AVC\x1d\x1doperation=\"open\"\x00profile=\"x\"")

	if fields["type"] != "AVC" {
		t.Errorf("expected type AVC, got %q", fields["type"])
	}
	if fields["operation"] != "open" {
		t.Errorf("expected operation open, got %q", fields["operation"])
	}
	if fields["profile"] != "x" {
		t.Errorf("expected profile x, got %q", fields["profile"])
	}
}

func TestParseFieldsLastWriteWins(t *testing.T) {
	fields := ParseFields(`name="/first" name="/second"`)

	if fields["name"] != "/second" {
		t.Errorf("expected last occurrence to win, got %q", fields["name"])
	}
}

func TestParseFieldsSkipsMalformedSpans(t *testing.T) {
	fields := ParseFields(`garbage without equals type=AVC more garbage`)

	if len(fields) != 1 || fields["type"] != "AVC" {
		t.Errorf("expected only the type field, got %v", fields)
	}
}

func TestEventTime(t *testing.T) {
	ts, err := EventTime("audit(1616222101.123:45):")
	if err != nil {
		t.Fatal(err)
	}
	if ts != 1616222101 {
		t.Errorf("expected 1616222101, got %d", ts)
	}
}

func TestEventTimeMissing(t *testing.T) {
	_, err := EventTime("no timestamp here")
	if err == nil {
		t.Fatal("expected error for missing timestamp")
	}

	var nt *NoTimestampError
	if !errors.As(err, &nt) {
		t.Fatalf("expected NoTimestampError, got %T", err)
	}
}

func TestNewRecordDispatch(t *testing.T) {
	cases := []struct {
		operation string
		extra     map[string]string
		kind      model.Kind
	}{
		{"capable", map[string]string{"capname": "net_admin"}, model.KindCapability},
		{"exec", map[string]string{"name": "/bin/sh", "comm": "apache2", "requested_mask": "x", "denied_mask": "x"}, model.KindExec},
		{"signal", map[string]string{"requested_mask": "send", "denied_mask": "send", "signal": "term", "peer": "unconfined"}, model.KindSignal},
		{"profile_load", map[string]string{"name": "apache2"}, model.KindProfileLoad},
		{"profile_replace", map[string]string{"name": "apache2"}, model.KindProfileLoad},
		{"profile_remove", map[string]string{"name": "apache2"}, model.KindProfileLoad},
		{"change_profile", map[string]string{"target": "apache2"}, model.KindChangeProfile},
		{"change_hat", map[string]string{"name": "DEFAULT_URI"}, model.KindChangeHat},
		{"open", map[string]string{"name": "/etc/passwd", "requested_mask": "r", "denied_mask": "r"}, model.KindFile},
		{"file_mmap", map[string]string{"name": "/lib/x.so", "requested_mask": "m", "denied_mask": "m"}, model.KindFile},
		{"unlink", map[string]string{"name": "/tmp/x", "requested_mask": "d", "denied_mask": "d"}, model.KindFile},
	}

	for _, c := range cases {
		fields := Fields{
			"msg":       "audit(1616222101.123:45):",
			"apparmor":  "DENIED",
			"operation": c.operation,
			"profile":   "apache2",
		}
		for k, v := range c.extra {
			fields[k] = v
		}

		rec, err := NewRecord(fields)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", c.operation, err)
			continue
		}
		if rec.Kind() != c.kind {
			t.Errorf("%s: expected kind %s, got %s", c.operation, c.kind, rec.Kind())
		}
		if rec.Time() != 1616222101 {
			t.Errorf("%s: expected time 1616222101, got %d", c.operation, rec.Time())
		}
	}
}

func TestNewRecordUnknownOperation(t *testing.T) {
	_, err := NewRecord(Fields{
		"msg":       "audit(1616222101.123:45):",
		"apparmor":  "DENIED",
		"operation": "ptrace",
		"profile":   "gdb",
	})
	if err == nil {
		t.Fatal("expected error for unrecognized operation")
	}

	var uo *UnknownOperationError
	if !errors.As(err, &uo) {
		t.Fatalf("expected UnknownOperationError, got %T", err)
	}
	if uo.Operation != "ptrace" {
		t.Errorf("expected operation ptrace, got %q", uo.Operation)
	}
}

func TestNewRecordMissingOperation(t *testing.T) {
	_, err := NewRecord(Fields{"msg": "audit(1.0:1):", "apparmor": "DENIED"})
	if err == nil {
		t.Fatal("expected error for missing operation")
	}

	var mf *model.MissingFieldError
	if !errors.As(err, &mf) {
		t.Fatalf("expected MissingFieldError, got %T", err)
	}
}

func TestNewRecordMissingIdentityField(t *testing.T) {
	// A capable line without capname cannot build a capability record.
	_, err := NewRecord(Fields{
		"msg":       "audit(1.0:1):",
		"apparmor":  "DENIED",
		"operation": "capable",
		"profile":   "ntpd",
	})

	var mf *model.MissingFieldError
	if !errors.As(err, &mf) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
	if mf.Field != "capname" {
		t.Errorf("expected missing capname, got %q", mf.Field)
	}
}

func TestNewRecordBadTimestamp(t *testing.T) {
	_, err := NewRecord(Fields{
		"msg":       "mangled:45):",
		"apparmor":  "DENIED",
		"operation": "capable",
		"profile":   "ntpd",
		"capname":   "net_admin",
	})

	var nt *NoTimestampError
	if !errors.As(err, &nt) {
		t.Fatalf("expected NoTimestampError, got %v", err)
	}
}
