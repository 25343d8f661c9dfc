package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Account is a stored credential record. ID and CreatedAt are assigned
	// by the backing store on creation and never change afterwards.
	Account struct {
		ID                 string `json:"id"`
		Name               string `json:"name"`
		URL                string `json:"url"`
		Username           string `json:"username"`
		Password           string `json:"password"`
		RequiresDynamicPin bool   `json:"requiresDynamicPin"`
		Category           string `json:"category"`
		CreatedAt          string `json:"createdAt"` // ISO-8601
	}

	// NewAccount carries the caller-writable fields for a create operation.
	NewAccount struct {
		Name               string `json:"name"`
		URL                string `json:"url"`
		Username           string `json:"username"`
		Password           string `json:"password"`
		RequiresDynamicPin bool   `json:"requiresDynamicPin"`
		Category           string `json:"category"`
	}
)

var (
	ErrEmptyName     = errors.New("empty name")
	ErrEmptyURL      = errors.New("empty url")
	ErrEmptyUsername = errors.New("empty username")
	ErrEmptyPassword = errors.New("empty password")
)

// Validate checks the caller-enforced creation requirements. The category
// is free text and may be empty.
func (n NewAccount) Validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(n.URL) == "" {
		return ErrEmptyURL
	}
	if strings.TrimSpace(n.Username) == "" {
		return ErrEmptyUsername
	}
	if strings.TrimSpace(n.Password) == "" {
		return ErrEmptyPassword
	}
	return nil
}

// Validate applies the same field requirements to a full account, as used
// on update. ID presence is checked by the caller.
func (a Account) Validate() error {
	return NewAccount{
		Name:     a.Name,
		URL:      a.URL,
		Username: a.Username,
		Password: a.Password,
	}.Validate()
}

// NormalizeCategory lowercases and trims a user-supplied category. Derived
// views match categories exactly, so producers normalize before storage.
func NormalizeCategory(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ParseCreatedAt parses the stored ISO-8601 creation timestamp. Stores may
// emit fractional seconds or not.
func ParseCreatedAt(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.999999"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("invalid createdAt timestamp: " + s)
}

// NowISO returns the ISO-8601 representation stores use for createdAt.
// The fractional part is fixed width so that lexical order over stored
// values matches chronological order.
func NowISO(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
}
