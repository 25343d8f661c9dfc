package core

import (
	"testing"
	"time"
)

func TestNewAccountValidate(t *testing.T) {
	good := NewAccount{Name: "Gmail", URL: "https://gmail.com", Username: "u", Password: "p"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	// Category may be empty.
	good.Category = ""
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok with empty category, got %v", err)
	}

	cases := []struct {
		in   NewAccount
		want error
	}{
		{NewAccount{URL: "u", Username: "x", Password: "p"}, ErrEmptyName},
		{NewAccount{Name: "n", Username: "x", Password: "p"}, ErrEmptyURL},
		{NewAccount{Name: "n", URL: "u", Password: "p"}, ErrEmptyUsername},
		{NewAccount{Name: "n", URL: "u", Username: "x"}, ErrEmptyPassword},
		{NewAccount{Name: "  ", URL: "u", Username: "x", Password: "p"}, ErrEmptyName},
	}
	for i, tc := range cases {
		if err := tc.in.Validate(); err != tc.want {
			t.Fatalf("case %d: got %v, want %v", i, err, tc.want)
		}
	}
}

func TestNormalizeCategory(t *testing.T) {
	if got := NormalizeCategory("  Trabajo "); got != "trabajo" {
		t.Fatalf("got %q", got)
	}
	if got := NormalizeCategory(""); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestParseCreatedAt(t *testing.T) {
	for _, s := range []string{
		"2025-03-01T10:20:30Z",
		"2025-03-01T10:20:30.123456Z",
		"2025-03-01T10:20:30.123456",
	} {
		if _, err := ParseCreatedAt(s); err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
	}
	if _, err := ParseCreatedAt("not-a-date"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestPinStale(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	fresh := PinResponse{Timestamp: now.Add(-9 * time.Minute).UnixMilli()}
	if fresh.Stale(now) {
		t.Fatalf("9 minute old pin should not be stale")
	}
	old := PinResponse{Timestamp: now.Add(-11 * time.Minute).UnixMilli()}
	if !old.Stale(now) {
		t.Fatalf("11 minute old pin should be stale")
	}
	// Exactly at the boundary is still usable.
	edge := PinResponse{Timestamp: now.Add(-PinStaleAfter).UnixMilli()}
	if edge.Stale(now) {
		t.Fatalf("pin at boundary should not be stale")
	}
}

func TestNowISOLexicalOrder(t *testing.T) {
	// Same-second instants with different fraction widths must still sort
	// lexically in chronological order, since stores order by the raw text.
	base := time.Date(2025, 3, 1, 10, 20, 30, 0, time.UTC)
	earlier := NowISO(base.Add(500 * time.Millisecond))
	later := NowISO(base.Add(510 * time.Millisecond))
	if len(earlier) != len(later) {
		t.Fatalf("timestamps differ in width: %q vs %q", earlier, later)
	}
	if !(earlier < later) {
		t.Fatalf("lexical order diverges from chronological: %q >= %q", earlier, later)
	}
	if _, err := ParseCreatedAt(earlier); err != nil {
		t.Fatalf("parse %q: %v", earlier, err)
	}
}
