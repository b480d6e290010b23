package fakeapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"petlar-client/internal/domain/animals"
	"petlar-client/internal/middleware"
	"petlar-client/internal/platform/paging"
	"petlar-client/internal/ports/backend"
)

func (s *server) registerAnimalRoutes(r chi.Router) {
	// Revisión actual: especie como ?type=, alta autenticada.
	r.Route("/api/animals", func(ar chi.Router) {
		ar.Get("/", s.listAnimalsHandler(typeFromQuery))
		ar.Post("/", s.createAnimalHandler(anyType, true))
		ar.Get("/{id}", s.getAnimalHandler(anyType))
	})

	// Revisión anterior: una colección por especie.
	r.Route("/{species}", func(sr chi.Router) {
		sr.Get("/", s.listAnimalsHandler(typeFromPath))
		sr.Post("/", s.createAnimalHandler(typeFromPath, false))
		sr.Get("/{id}", s.getAnimalHandler(typeFromPath))
	})
}

// typeResolver decide el tipo del request. ok=false => 404 (especie desconocida).
type typeResolver func(r *http.Request) (t animals.Type, ok bool)

func typeFromQuery(r *http.Request) (animals.Type, bool) {
	return animals.Type(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("type")))), true
}

func typeFromPath(r *http.Request) (animals.Type, bool) {
	_, t, ok := animals.ParseSpecies(chi.URLParam(r, "species"))
	return t, ok
}

// anyType: el tipo, si hay, viene en el body.
func anyType(*http.Request) (animals.Type, bool) { return "", true }

type createAnimalRequest struct {
	Name        string           `json:"name"        validate:"required,max=80"`
	Type        animals.Type     `json:"type"        validate:"omitempty,oneof=CACHORRO GATO PASSARO OUTRO"`
	Age         int              `json:"age"         validate:"gte=0"`
	Breed       string           `json:"breed"       validate:"max=80"`
	Sex         animals.Sex      `json:"sex"         validate:"omitempty,oneof=Macho Fêmea"`
	Weight      *animals.Centikg `json:"weight"      validate:"omitempty,gte=0"`
	Size        animals.Size     `json:"size"        validate:"omitempty,oneof=Pequeno Médio Grande"`
	Description string           `json:"description" validate:"max=500"`
	URLImage    string           `json:"urlImage"    validate:"omitempty,url"`
	Author      string           `json:"author"`
	Phone       string           `json:"phone"`
}

// listAnimalsHandler godoc
// @Summary Listar animales
// @Description Devuelve un sobre paginado. En /api/animals la especie va en `type`; en /{species} va en el path.
// @Tags animals
// @Produce json
// @Param type query string false "CACHORRO | GATO | PASSARO | OUTRO"
// @Param status query string false "Disponível | Adotado"
// @Param page query int false "página (desde 0)"
// @Param size query int false "tamaño de página"
// @Success 200 {object} paging.Page[animals.Animal]
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "especie desconocida"
// @Router /api/animals [get]
func (s *server) listAnimalsHandler(resolve typeResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, ok := resolve(r)
		if !ok {
			writeError(w, r, http.StatusNotFound, "Espécie não encontrada")
			return
		}

		f := animals.Filter{Type: t}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			st, ok := animals.ParseStatus(raw)
			if !ok {
				writeError(w, r, http.StatusBadRequest, "Status inválido: "+raw)
				return
			}
			f.Status = st
		}

		number, err := intParam(r, "page", 0)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "Parâmetro page inválido")
			return
		}
		size, err := intParam(r, "size", s.pageSize)
		if err != nil || size <= 0 {
			writeError(w, r, http.StatusBadRequest, "Parâmetro size inválido")
			return
		}

		items, err := s.animals.Search(r.Context(), f)
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, "Erro interno")
			return
		}

		writeJSON(w, http.StatusOK, paging.NewPage(items, number, size))
	}
}

// getAnimalHandler godoc
// @Summary Detalle de un animal
// @Tags animals
// @Produce json
// @Param id path string true "ID del animal"
// @Success 200 {object} animals.Animal
// @Failure 404 {object} ErrorResponse
// @Router /api/animals/{id} [get]
func (s *server) getAnimalHandler(resolve typeResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, ok := resolve(r)
		if !ok {
			writeError(w, r, http.StatusNotFound, "Espécie não encontrada")
			return
		}

		id := chi.URLParam(r, "id")
		a, err := s.animals.GetByID(r.Context(), id)
		if errors.Is(err, backend.ErrNotFound) || (err == nil && t != "" && a.Type != t) {
			writeError(w, r, http.StatusNotFound, "Animal não encontrado com o ID: "+id)
			return
		}
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, "Erro interno")
			return
		}

		writeJSON(w, http.StatusOK, a)
	}
}

// createAnimalHandler godoc
// @Summary Alta de animal
// @Description En /api/animals exige `Authorization: Bearer <token>`; en /{species} no.
// @Tags animals
// @Accept json
// @Produce json
// @Param payload body createAnimalRequest true "Datos del animal; weight en centésimos de kilo"
// @Success 201 {object} animals.Animal
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/animals [post]
func (s *server) createAnimalHandler(resolve typeResolver, requireAuth bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if requireAuth {
			claims, ok := middleware.GetClaims(r.Context())
			if !ok || strings.TrimSpace(claims.UserID) == "" {
				writeError(w, r, http.StatusUnauthorized, "Token inválido ou ausente")
				return
			}
		}

		t, ok := resolve(r)
		if !ok {
			writeError(w, r, http.StatusNotFound, "Espécie não encontrada")
			return
		}

		var req createAnimalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, http.StatusBadRequest, "JSON inválido")
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		req.Type = animals.Type(strings.ToUpper(strings.TrimSpace(string(req.Type))))
		if t != "" {
			req.Type = t
		}
		if req.Type == "" {
			writeError(w, r, http.StatusBadRequest, "type: required")
			return
		}
		if err := s.validate.Struct(req); err != nil {
			writeError(w, r, http.StatusBadRequest, validationMessage(err))
			return
		}

		a, err := s.animals.Create(r.Context(), animals.CreateAnimal{
			Name:        req.Name,
			Type:        req.Type,
			Age:         req.Age,
			Breed:       strings.TrimSpace(req.Breed),
			Sex:         req.Sex,
			Weight:      req.Weight,
			Size:        req.Size,
			Description: strings.TrimSpace(req.Description),
			URLImage:    strings.TrimSpace(req.URLImage),
			Author:      strings.TrimSpace(req.Author),
			Phone:       strings.TrimSpace(req.Phone),
		})
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}

		s.log.Debug("animal created", map[string]any{"id": a.ID, "type": string(a.Type)})
		writeJSON(w, http.StatusCreated, a)
	}
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New("invalid " + name)
	}
	return n, nil
}
