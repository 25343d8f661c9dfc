// Package jsonfile persists accounts in a single JSON document on disk.
// It keeps the whole collection in memory and rewrites the file on every
// mutation, which is plenty for a single-user vault.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"cuentas/internal/core"
)

var ErrNotFound = errors.New("account not found")

type document struct {
	Accounts []core.Account `json:"accounts"`
}

type Store struct {
	path string

	mu       sync.Mutex
	accounts []core.Account
	lastID   int64
}

func New(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.accounts = []core.Account{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", s.path, err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", s.path, err)
	}
	if doc.Accounts == nil {
		doc.Accounts = []core.Account{}
	}
	s.accounts = doc.Accounts
	return nil
}

// flush writes the document to a temp file and renames it into place so a
// crash mid-write never leaves a truncated vault behind.
func (s *Store) flush() error {
	data, err := json.MarshalIndent(document{Accounts: s.accounts}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// nextID issues millisecond-timestamp identifiers, bumping forward when two
// writes land within the same millisecond.
func (s *Store) nextID(now time.Time) string {
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}

func (s *Store) List(_ context.Context) ([]core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Account, len(s.accounts))
	copy(out, s.accounts)
	return out, nil
}

func (s *Store) Create(_ context.Context, a core.NewAccount) error {
	if err := a.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	acc := core.Account{
		ID:                 s.nextID(now),
		Name:               a.Name,
		URL:                a.URL,
		Username:           a.Username,
		Password:           a.Password,
		RequiresDynamicPin: a.RequiresDynamicPin,
		Category:           a.Category,
		CreatedAt:          core.NowISO(now),
	}
	s.accounts = append([]core.Account{acc}, s.accounts...)
	if err := s.flush(); err != nil {
		s.accounts = s.accounts[1:]
		return err
	}
	return nil
}

func (s *Store) Update(_ context.Context, a core.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].ID != a.ID {
			continue
		}
		prev := s.accounts[i]
		a.ID = prev.ID
		a.CreatedAt = prev.CreatedAt
		s.accounts[i] = a
		if err := s.flush(); err != nil {
			s.accounts[i] = prev
			return err
		}
		return nil
	}
	return ErrNotFound
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].ID != id {
			continue
		}
		removed := s.accounts[i]
		s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
		if err := s.flush(); err != nil {
			s.accounts = append(s.accounts[:i], append([]core.Account{removed}, s.accounts[i:]...)...)
			return err
		}
		return nil
	}
	return ErrNotFound
}
