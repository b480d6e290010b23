// Package backend define los almacenes que usa el backend de prueba (fakeapi).
package backend

import (
	"context"
	"errors"

	"petlar-client/internal/domain/animals"
	"petlar-client/internal/domain/users"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type AnimalStore interface {
	// Put inserta o reemplaza un animal con id propio (seed).
	Put(ctx context.Context, a animals.Animal) error
	// Create asigna id, estado Disponível y fecha de registro.
	Create(ctx context.Context, in animals.CreateAnimal) (animals.Animal, error)
	GetByID(ctx context.Context, id string) (animals.Animal, error)
	// Search devuelve los que cumplen el filtro, en orden de alta.
	Search(ctx context.Context, f animals.Filter) ([]animals.Animal, error)
}

type UserStore interface {
	Create(ctx context.Context, in users.RegisterPayload) (users.User, error)
	Authenticate(ctx context.Context, email, password string) (users.User, error)
	GetByID(ctx context.Context, id string) (users.User, error)
}
