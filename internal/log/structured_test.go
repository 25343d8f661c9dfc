package log

import (
	"bytes"
	"context"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
)

func capturedLogger() (*StructuredLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := New(Config{
		Component: ComponentApp,
		Handler:   slog.NewTextHandler(&buf, nil),
	})
	return NewStructuredLogger(l), &buf
}

func TestLogAccountMutationFields(t *testing.T) {
	sl, buf := capturedLogger()

	sl.LogAccountMutation(context.Background(), OpCreate, "id-1", "Gmail", "trabajo", true)

	out := buf.String()
	for _, want := range []string{
		FieldAccountID + "=id-1",
		FieldAccountName + "=Gmail",
		FieldCategory + "=trabajo",
		FieldOperation + "=" + OpCreate,
		FieldComponent + "=" + ComponentAccounts,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("record missing %q: %s", want, out)
		}
	}
	if strings.Contains(out, "password") {
		t.Fatalf("mutation record must not mention passwords: %s", out)
	}
}

func TestRecordsCarrySingleComponentKey(t *testing.T) {
	sl, buf := capturedLogger()

	r := httptest.NewRequest("GET", "/ui/accounts?category=trabajo", nil)
	sl.LogHTTPStart(r.Context(), r, "10.0.0.1")
	sl.LogHTTPEnd(r.Context(), r, 200, 3, "10.0.0.1")
	sl.LogAccountMutation(r.Context(), OpDelete, "id-2", "", "", false)

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if n := strings.Count(line, FieldComponent+"="); n != 1 {
			t.Fatalf("expected exactly one component key, got %d in: %s", n, line)
		}
	}
}
