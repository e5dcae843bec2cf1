package model

import (
	"errors"
	"testing"
)

func fileFields() map[string]string {
	return map[string]string{
		"type":           "AVC",
		"msg":            "audit(1616222101.123:45):",
		"apparmor":       "ALLOWED",
		"operation":      "file_perm",
		"profile":        "apache2//DEFAULT_URI",
		"name":           "/var/log/custom.access.log",
		"requested_mask": "w",
		"denied_mask":    "w",
	}
}

func TestFileRecordIdentity(t *testing.T) {
	a, err := NewFileRecord(fileFields(), 1616222101)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewFileRecord(fileFields(), 1616229999) // only the time differs
	if err != nil {
		t.Fatal(err)
	}

	if a.IdentityKey() != b.IdentityKey() {
		t.Errorf("expected equal identity keys, got %q vs %q", a.IdentityKey(), b.IdentityKey())
	}
}

func TestFileRecordIdentityDiffers(t *testing.T) {
	a, _ := NewFileRecord(fileFields(), 1616222101)

	fields := fileFields()
	fields["name"] = "/etc/shadow"
	b, _ := NewFileRecord(fields, 1616222101)

	if a.IdentityKey() == b.IdentityKey() {
		t.Error("expected different identity keys for different names")
	}
}

func TestCrossKindNeverEqual(t *testing.T) {
	// An exec record built from a superset of the same field values must
	// never share an identity key with the file record.
	fields := fileFields()
	fields["comm"] = "apache2"

	f, err := NewFileRecord(fields, 1616222101)
	if err != nil {
		t.Fatal(err)
	}
	e, err := NewExecRecord(fields, 1616222101)
	if err != nil {
		t.Fatal(err)
	}

	if f.IdentityKey() == e.IdentityKey() {
		t.Error("file and exec records must not share identity keys")
	}
}

func TestMissingIdentityField(t *testing.T) {
	fields := fileFields()
	delete(fields, "denied_mask")

	_, err := NewFileRecord(fields, 1616222101)
	if err == nil {
		t.Fatal("expected error for missing denied_mask")
	}

	var mf *MissingFieldError
	if !errors.As(err, &mf) {
		t.Fatalf("expected MissingFieldError, got %T", err)
	}
	if mf.Field != "denied_mask" {
		t.Errorf("expected field denied_mask, got %q", mf.Field)
	}
	if mf.Kind != KindFile {
		t.Errorf("expected kind %s, got %s", KindFile, mf.Kind)
	}
}

func TestMissingBaseField(t *testing.T) {
	fields := fileFields()
	delete(fields, "apparmor")

	if _, err := NewFileRecord(fields, 1616222101); err == nil {
		t.Error("expected error for missing apparmor")
	}

	fields = fileFields()
	delete(fields, "msg")
	if _, err := NewCapabilityRecord(map[string]string{
		"apparmor": "DENIED", "operation": "capable",
		"profile": "ntpd", "capname": "net_admin",
	}, 0); err == nil {
		t.Error("expected error for missing msg")
	}
}

func TestFileRecordRow(t *testing.T) {
	r, err := NewFileRecord(fileFields(), 1616222101)
	if err != nil {
		t.Fatal(err)
	}

	row := r.Row()
	if row.Content != "/var/log/custom.access.log (w)" {
		t.Errorf("expected content '/var/log/custom.access.log (w)', got %q", row.Content)
	}
	if row.Operation != "file_perm" {
		t.Errorf("expected operation file_perm, got %q", row.Operation)
	}
	if row.Apparmor != "ALLOWED" {
		t.Errorf("expected apparmor ALLOWED, got %q", row.Apparmor)
	}
	if row.Time != 1616222101 {
		t.Errorf("expected time 1616222101, got %d", row.Time)
	}
}

func TestFileRecordRender(t *testing.T) {
	r, _ := NewFileRecord(fileFields(), 1616222101)

	want := "apache2//DEFAULT_URI: file_perm(w/w) /var/log/custom.access.log (ALLOWED|1616222101)"
	if got := r.Render(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSuggestFixPresence(t *testing.T) {
	file, _ := NewFileRecord(fileFields(), 0)
	if fix, ok := file.SuggestFix(); !ok || fix != "/var/log/custom.access.log w," {
		t.Errorf("unexpected file fix: %q (ok=%v)", fix, ok)
	}

	execFields := fileFields()
	execFields["operation"] = "exec"
	execFields["comm"] = "sh"
	exec, _ := NewExecRecord(execFields, 0)
	if fix, ok := exec.SuggestFix(); !ok || fix != "/var/log/custom.access.log Pix," {
		t.Errorf("unexpected exec fix: %q (ok=%v)", fix, ok)
	}

	cap, _ := NewCapabilityRecord(map[string]string{
		"apparmor": "DENIED", "operation": "capable", "msg": "audit(1.0:1):",
		"profile": "ntpd", "capname": "net_admin",
	}, 1)
	if fix, ok := cap.SuggestFix(); !ok || fix != "capability net_admin," {
		t.Errorf("unexpected capability fix: %q (ok=%v)", fix, ok)
	}

	sig, _ := NewSignalRecord(map[string]string{
		"apparmor": "DENIED", "operation": "signal", "msg": "audit(1.0:1):",
		"profile": "nginx", "requested_mask": "send", "denied_mask": "send",
		"signal": "term", "peer": "php-fpm",
	}, 1)
	if fix, ok := sig.SuggestFix(); !ok || fix != "signal (send) peer=php-fpm," {
		t.Errorf("unexpected signal fix: %q (ok=%v)", fix, ok)
	}
}

func TestSuggestFixAbsence(t *testing.T) {
	load, _ := NewProfileLoadRecord(map[string]string{
		"apparmor": "STATUS", "operation": "profile_replace", "msg": "audit(1.0:1):",
		"name": "apache2",
	}, 1)
	if _, ok := load.SuggestFix(); ok {
		t.Error("profile load records must not suggest fixes")
	}

	cp, _ := NewChangeProfileRecord(map[string]string{
		"apparmor": "ALLOWED", "operation": "change_profile", "msg": "audit(1.0:1):",
		"profile": "init", "target": "apache2",
	}, 1)
	if _, ok := cp.SuggestFix(); ok {
		t.Error("change_profile records must not suggest fixes")
	}

	ch, _ := NewChangeHatRecord(map[string]string{
		"apparmor": "ALLOWED", "operation": "change_hat", "msg": "audit(1.0:1):",
		"profile": "apache2", "name": "DEFAULT_URI",
	}, 1)
	if _, ok := ch.SuggestFix(); ok {
		t.Error("change_hat records must not suggest fixes")
	}
}

func TestCapabilityIdentityIgnoresAction(t *testing.T) {
	mk := func(action string) *CapabilityRecord {
		r, err := NewCapabilityRecord(map[string]string{
			"apparmor": action, "operation": "capable", "msg": "audit(1.0:1):",
			"profile": "ntpd", "capname": "sys_time",
		}, 1)
		if err != nil {
			t.Fatal(err)
		}
		return r
	}

	// Capability identity keys on profile and capname only.
	if mk("ALLOWED").IdentityKey() != mk("DENIED").IdentityKey() {
		t.Error("capability identity must ignore the apparmor action")
	}
}

func TestUnknownRecord(t *testing.T) {
	u := NewUnknownRecord("garbage in")
	if u.Render() != "Unrecognized line: garbage in" {
		t.Errorf("unexpected render: %q", u.Render())
	}
}
