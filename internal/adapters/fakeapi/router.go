// Package fakeapi es un backend PetLar de prueba (memoria o Postgres). Lo usan los tests end-to-end
// y el comando mock-server del CLI.
package fakeapi

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"petlar-client/internal/adapters/auth/jwtauth"
	mem "petlar-client/internal/adapters/storage/memory"
	"petlar-client/internal/middleware"
	"petlar-client/internal/platform/logger"
	"petlar-client/internal/ports/auth"
	"petlar-client/internal/ports/backend"
)

const DefaultPageSize = 20

type Options struct {
	// Tokens nil => JWT con un secreto aleatorio por proceso.
	Tokens interface {
		auth.TokenIssuer
		auth.AuthVerifier
	}

	// Stores nil => en memoria, vacíos.
	Animals backend.AnimalStore
	Users   backend.UserStore

	Logger   logger.Logger
	PageSize int
}

type server struct {
	animals  backend.AnimalStore
	users    backend.UserStore
	tokens   auth.TokenIssuer
	validate *validator.Validate
	pageSize int
	log      logger.Logger
}

func newValidator() *validator.Validate {
	v := validator.New()
	// nombres de campo como en el JSON
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

func NewRouter(opts Options) (http.Handler, error) {
	if opts.Tokens == nil {
		t, err := jwtauth.New(jwtauth.Config{Secret: uuid.NewString()})
		if err != nil {
			return nil, err
		}
		opts.Tokens = t
	}
	if opts.Animals == nil {
		opts.Animals = mem.NewAnimalRepo()
	}
	if opts.Users == nil {
		opts.Users = mem.NewUserRepo(0)
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}

	s := &server{
		animals:  opts.Animals,
		users:    opts.Users,
		tokens:   opts.Tokens,
		validate: newValidator(),
		pageSize: opts.PageSize,
		log:      opts.Logger.With(map[string]any{"component": "fakeapi"}),
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(s.log))
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.Tokens))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "Recurso não encontrado")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "Método não permitido")
	})

	// Rutas por módulo
	s.registerUserRoutes(r)
	s.registerAnimalRoutes(r)

	return r, nil
}
