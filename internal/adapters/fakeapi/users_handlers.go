package fakeapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"petlar-client/internal/domain/users"
	"petlar-client/internal/middleware"
	"petlar-client/internal/ports/backend"
)

func (s *server) registerUserRoutes(r chi.Router) {
	r.Post("/api/login", s.loginHandler)
	r.Get("/api/users/me", s.meHandler)
	r.Post("/api/users/cadastrar", s.registerHandler)
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type registerRequest struct {
	Name            string `json:"name"            validate:"required,max=80"`
	Email           string `json:"email"           validate:"required,email"`
	Password        string `json:"password"        validate:"required,min=4"`
	ConfirmPassword string `json:"confirmPassword" validate:"omitempty,eqfield=Password"`
	Phone           string `json:"phone"           validate:"max=20"`
}

// loginHandler godoc
// @Summary Login
// @Tags users
// @Accept json
// @Produce json
// @Param payload body loginRequest true "Credenciales"
// @Success 200 {object} loginResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/login [post]
func (s *server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "JSON inválido")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, r, http.StatusBadRequest, validationMessage(err))
		return
	}

	u, err := s.users.Authenticate(r.Context(), req.Email, req.Password)
	if errors.Is(err, backend.ErrInvalidCredentials) {
		writeError(w, r, http.StatusUnauthorized, "Credenciais inválidas")
		return
	}
	if err != nil {
		s.log.Error("authenticate failed", map[string]any{"err": err})
		writeError(w, r, http.StatusInternalServerError, "Erro interno")
		return
	}

	token, _, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		s.log.Error("token issue failed", map[string]any{"err": err})
		writeError(w, r, http.StatusInternalServerError, "Erro interno")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

// meHandler godoc
// @Summary Usuario autenticado
// @Tags users
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} users.User
// @Failure 401 {object} ErrorResponse
// @Router /api/users/me [get]
func (s *server) meHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		writeError(w, r, http.StatusUnauthorized, "Token inválido ou ausente")
		return
	}

	u, err := s.users.GetByID(r.Context(), claims.UserID)
	if err != nil {
		// token válido de un usuario que ya no existe
		writeError(w, r, http.StatusUnauthorized, "Usuário não encontrado")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// registerHandler godoc
// @Summary Registro de usuario
// @Tags users
// @Accept json
// @Produce json
// @Param payload body registerRequest true "Datos de la cuenta"
// @Success 201 {object} users.User
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "email ya registrado"
// @Router /api/users/cadastrar [post]
func (s *server) registerHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "JSON inválido")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validate.Struct(req); err != nil {
		writeError(w, r, http.StatusBadRequest, validationMessage(err))
		return
	}

	u, err := s.users.Create(r.Context(), users.RegisterPayload{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if errors.Is(err, backend.ErrConflict) {
		writeError(w, r, http.StatusConflict, "Email já cadastrado")
		return
	}
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, u)
}
