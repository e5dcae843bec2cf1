package cmd

import (
	"testing"
	"time"
)

var sinceNow = time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

func TestParseSinceDays(t *testing.T) {
	got, err := parseSince("1d", sinceNow)
	if err != nil {
		t.Fatal(err)
	}
	if want := sinceNow.Add(-24 * time.Hour).Unix(); got != want {
		t.Errorf("expected %d, got %d", want, got)
	}
}

func TestParseSinceWeeks(t *testing.T) {
	got, err := parseSince("2w", sinceNow)
	if err != nil {
		t.Fatal(err)
	}
	if want := sinceNow.Add(-14 * 24 * time.Hour).Unix(); got != want {
		t.Errorf("expected %d, got %d", want, got)
	}
}

func TestParseSinceDuration(t *testing.T) {
	got, err := parseSince("90m", sinceNow)
	if err != nil {
		t.Fatal(err)
	}
	if want := sinceNow.Add(-90 * time.Minute).Unix(); got != want {
		t.Errorf("expected %d, got %d", want, got)
	}
}

func TestParseSinceAbsolute(t *testing.T) {
	got, err := parseSince("2026-08-24T10:00:00Z", sinceNow)
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC).Unix(); got != want {
		t.Errorf("expected %d, got %d", want, got)
	}
}

func TestParseSinceDateOnly(t *testing.T) {
	got, err := parseSince("2026-08-24", sinceNow)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2026, 8, 24, 0, 0, 0, 0, time.Local).Unix()
	if got != want {
		t.Errorf("expected %d, got %d", want, got)
	}
}

func TestParseSinceInvalid(t *testing.T) {
	if _, err := parseSince("yesterday-ish", sinceNow); err == nil {
		t.Error("expected error for unparseable expression")
	}
}
