package animals

import (
	"context"
	"errors"
	"strings"

	"petlar-client/internal/platform/paging"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, f Filter) (paging.Page[Animal], error) {
	f.Status = AdoptionStatus(strings.TrimSpace(string(f.Status)))
	f.Type = Type(strings.ToUpper(strings.TrimSpace(string(f.Type))))
	return s.repo.List(ctx, f)
}

func (s *Service) GetByID(ctx context.Context, id string) (Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Animal{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// Create limpia el payload y lo envía. La validación de negocio queda del lado
// del servidor; acá solo se exige nombre.
func (s *Service) Create(ctx context.Context, in CreateAnimal) (Animal, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return Animal{}, ErrInvalidInput
	}
	if in.Age < 0 {
		return Animal{}, ErrInvalidInput
	}
	in.Breed = strings.TrimSpace(in.Breed)
	in.Description = strings.TrimSpace(in.Description)
	in.URLImage = strings.TrimSpace(in.URLImage)
	in.Author = strings.TrimSpace(in.Author)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Type = Type(strings.ToUpper(strings.TrimSpace(string(in.Type))))

	return s.repo.Create(ctx, in)
}
