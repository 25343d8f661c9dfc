package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestParseFilterParams(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  FilterParams
	}{
		{"empty", "", FilterParams{}},
		{"category only", "category=trabajo", FilterParams{Category: "trabajo"}},
		{"search only", "q=gmail", FilterParams{SearchTerm: "gmail"}},
		{"both with whitespace", "category=+trabajo+&q=+git+", FilterParams{Category: "trabajo", SearchTerm: "git"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("parse query: %v", err)
			}
			got := ParseFilterParams(values)
			if got != tt.want {
				t.Errorf("ParseFilterParams() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func newParserFor(t *testing.T, contentType, body string) *RequestBodyParser {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/accounts", strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	p := NewRequestBodyParser(req)
	if err := p.Parse(); err != nil {
		t.Fatalf("parse: %v", err)
	}
	return p
}

func TestRequestBodyParserJSON(t *testing.T) {
	p := newParserFor(t, "application/json",
		`{"name":"Gmail","url":"https://gmail.com","username":"me","password":"s3cret","requiresDynamicPin":true,"category":"trabajo"}`)

	if !p.IsJSON() {
		t.Fatal("IsJSON() = false")
	}
	payload := p.AccountPayload()
	if payload.Name != "Gmail" || payload.URL != "https://gmail.com" {
		t.Errorf("payload %+v", payload)
	}
	if !payload.RequiresDynamicPin {
		t.Error("requiresDynamicPin not parsed from JSON boolean")
	}
	if payload.Category != "trabajo" {
		t.Errorf("category %q", payload.Category)
	}
}

func TestRequestBodyParserForm(t *testing.T) {
	p := newParserFor(t, "application/x-www-form-urlencoded",
		"name=Gmail&url=https%3A%2F%2Fgmail.com&username=me&password=s3cret&requiresDynamicPin=on")

	if p.IsJSON() {
		t.Fatal("IsJSON() = true for form body")
	}
	payload := p.AccountPayload()
	if payload.Name != "Gmail" {
		t.Errorf("name %q", payload.Name)
	}
	if !payload.RequiresDynamicPin {
		t.Error("checkbox 'on' not parsed as true")
	}
}

func TestRequestBodyParserEmptyBody(t *testing.T) {
	p := newParserFor(t, "application/x-www-form-urlencoded", "")

	payload := p.AccountPayload()
	if payload.Name != "" || payload.RequiresDynamicPin {
		t.Errorf("payload %+v", payload)
	}
}

func TestRequestBodyParserMalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/accounts", strings.NewReader(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	p := NewRequestBodyParser(req)
	if err := p.Parse(); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestGetBool(t *testing.T) {
	tests := []struct {
		body string
		want bool
	}{
		{"requiresDynamicPin=on", true},
		{"requiresDynamicPin=true", true},
		{"requiresDynamicPin=1", true},
		{"requiresDynamicPin=false", false},
		{"requiresDynamicPin=", false},
		{"", false},
	}
	for _, tt := range tests {
		p := newParserFor(t, "application/x-www-form-urlencoded", tt.body)
		if got := p.GetBool("requiresDynamicPin"); got != tt.want {
			t.Errorf("GetBool(%q) = %v, want %v", tt.body, got, tt.want)
		}
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  plain  ", "plain"},
		{"tab\tkept", "tab\tkept"},
		{"null\x00byte", "nullbyte"},
		{"bell\x07char", "bellchar"},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
