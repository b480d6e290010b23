// Package cookiefile guarda el token de sesión como lo haría una cookie del
// navegador: con vencimiento, en memoria o en un archivo del usuario.
package cookiefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"petlar-client/internal/ports/session"
)

type record struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires,omitempty"`
}

func (r record) expired(now time.Time) bool {
	return !r.Expires.IsZero() && !now.Before(r.Expires)
}

// capExpiry recorta el vencimiento al claim exp cuando el token es un JWT.
// No verifica la firma: solo la lee.
func capExpiry(token string, expires time.Time) time.Time {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return expires
	}
	if claims.ExpiresAt == nil {
		return expires
	}
	exp := claims.ExpiresAt.Time
	if expires.IsZero() || exp.Before(expires) {
		return exp
	}
	return expires
}

// -------------------------
// MemoryStore
// -------------------------

type MemoryStore struct {
	mu  sync.Mutex
	rec *record
	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) Get() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rec == nil {
		return "", session.ErrNoToken
	}
	if s.rec.expired(s.now()) {
		s.rec = nil
		return "", session.ErrNoToken
	}
	return s.rec.Token, nil
}

func (s *MemoryStore) Set(token string, expires time.Time) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("cookiefile: empty token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = &record{Token: token, Expires: capExpiry(token, expires)}
	return nil
}

func (s *MemoryStore) Remove() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = nil
	return nil
}

// -------------------------
// FileStore
// -------------------------

// FileStore persiste el token en un archivo 0600 (JSON con token y vencimiento).
type FileStore struct {
	path string

	mu  sync.Mutex
	now func() time.Time
}

func NewFileStore(path string) (*FileStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("cookiefile: path required")
	}
	return &FileStore{path: path, now: time.Now}, nil
}

// DefaultPath: <config dir del usuario>/petlar/token.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cookiefile: config dir: %w", err)
	}
	return filepath.Join(dir, "petlar", "token"), nil
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Get() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", session.ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("cookiefile: read: %w", err)
	}

	var rec record
	if err := json.Unmarshal(b, &rec); err != nil {
		return "", fmt.Errorf("cookiefile: decode: %w", err)
	}
	if rec.Token == "" {
		return "", session.ErrNoToken
	}
	if rec.expired(s.now()) {
		_ = os.Remove(s.path)
		return "", session.ErrNoToken
	}
	return rec.Token, nil
}

func (s *FileStore) Set(token string, expires time.Time) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("cookiefile: empty token")
	}

	b, err := json.Marshal(record{Token: token, Expires: capExpiry(token, expires)})
	if err != nil {
		return fmt.Errorf("cookiefile: encode: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("cookiefile: mkdir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("cookiefile: write: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("cookiefile: rename: %w", err)
	}
	return nil
}

func (s *FileStore) Remove() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("cookiefile: remove: %w", err)
	}
	return nil
}

var (
	_ session.TokenStore = (*MemoryStore)(nil)
	_ session.TokenStore = (*FileStore)(nil)
)
