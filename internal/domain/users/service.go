package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotAuthenticated = errors.New("not authenticated")
)

type Service struct {
	repo    Repository
	session Session
}

func NewService(repo Repository, session Session) *Service {
	return &Service{repo: repo, session: session}
}

// Login: POST /api/login -> guarda token -> GET /api/users/me -> loginSuccess.
// Ante cualquier error se borra el token (solo la cookie, no el estado).
func (s *Service) Login(ctx context.Context, in LoginPayload) (LoginResponse, error) {
	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" || in.Password == "" {
		return LoginResponse{}, ErrInvalidInput
	}

	resp, err := s.login(ctx, in)
	if err != nil {
		_ = s.session.ClearToken()
		return LoginResponse{}, err
	}
	return resp, nil
}

func (s *Service) login(ctx context.Context, in LoginPayload) (LoginResponse, error) {
	token, err := s.repo.Login(ctx, in)
	if err != nil {
		return LoginResponse{}, err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return LoginResponse{}, errors.New("users: login response missing token")
	}

	if err := s.session.SetToken(token); err != nil {
		return LoginResponse{}, fmt.Errorf("users: store token: %w", err)
	}

	u, err := s.repo.Me(ctx)
	if err != nil {
		return LoginResponse{}, err
	}

	resp := LoginResponse{Token: token, User: u}
	if err := s.session.LoginSuccess(resp); err != nil {
		return LoginResponse{}, fmt.Errorf("users: login success: %w", err)
	}
	return resp, nil
}

func (s *Service) Logout() error {
	return s.session.Logout()
}

// Me solo consulta si hay token (equivale a enabled: !!token, sin retry).
func (s *Service) Me(ctx context.Context) (User, error) {
	if strings.TrimSpace(s.session.Token()) == "" {
		return User{}, ErrNotAuthenticated
	}
	u, err := s.repo.Me(ctx)
	if err != nil {
		return User{}, err
	}
	s.session.SetUser(u)
	return u, nil
}

func (s *Service) Register(ctx context.Context, in RegisterPayload) (User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return User{}, ErrInvalidInput
	}
	if in.ConfirmPassword != "" && in.ConfirmPassword != in.Password {
		return User{}, ErrInvalidInput
	}
	return s.repo.Register(ctx, in)
}
