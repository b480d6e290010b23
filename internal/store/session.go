package store

import (
	"errors"
	"fmt"
	"time"

	"petlar-client/internal/domain/users"
	"petlar-client/internal/platform/logger"
	"petlar-client/internal/ports/session"
)

// CookieTTL: vencimiento del token guardado tras un login (1 día).
const CookieTTL = 24 * time.Hour

// Session une el store de auth con la "cookie" del token.
// Implementa users.Session.
type Session struct {
	auth   *Store[AuthState]
	tokens session.TokenStore
	log    logger.Logger
	now    func() time.Time
}

// NewSession lee el token guardado para armar el estado inicial.
func NewSession(tokens session.TokenStore, log logger.Logger) (*Session, error) {
	if tokens == nil {
		return nil, errors.New("store: token store required")
	}
	if log == nil {
		log = logger.Nop()
	}

	token, err := tokens.Get()
	if err != nil && !errors.Is(err, session.ErrNoToken) {
		return nil, fmt.Errorf("store: read token: %w", err)
	}

	return &Session{
		auth:   New(InitialAuth(token), AuthReducer),
		tokens: tokens,
		log:    log.With(map[string]any{"component": "session"}),
		now:    time.Now,
	}, nil
}

func (s *Session) Auth() *Store[AuthState] { return s.auth }

func (s *Session) State() AuthState { return s.auth.State() }

// Token lee de la cookie: es la fuente de verdad para el gateway.
func (s *Session) Token() string {
	t, err := s.tokens.Get()
	if err != nil {
		return ""
	}
	return t
}

// SetToken guarda el token sin marcar la sesión como autenticada todavía.
func (s *Session) SetToken(token string) error {
	return s.tokens.Set(token, time.Time{})
}

func (s *Session) LoginSuccess(resp users.LoginResponse) error {
	if err := s.tokens.Set(resp.Token, s.now().Add(CookieTTL)); err != nil {
		return err
	}
	s.auth.Dispatch(LoginSuccess(resp))
	s.log.Info("login success", map[string]any{"user_id": resp.User.ID})
	return nil
}

func (s *Session) SetUser(u users.User) {
	s.auth.Dispatch(SetUser(u))
}

func (s *Session) ClearToken() error {
	if err := s.tokens.Remove(); err != nil {
		return fmt.Errorf("store: remove token: %w", err)
	}
	return nil
}

func (s *Session) Logout() error {
	s.auth.Dispatch(Logout())
	if err := s.tokens.Remove(); err != nil {
		return fmt.Errorf("store: remove token: %w", err)
	}
	return nil
}

var _ users.Session = (*Session)(nil)
