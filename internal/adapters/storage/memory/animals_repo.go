package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"petlar-client/internal/domain/animals"
	"petlar-client/internal/platform/paging"
	"petlar-client/internal/ports/backend"
)

var (
	ErrNotFound = backend.ErrNotFound
	ErrConflict = backend.ErrConflict
)

type storedAnimal struct {
	animals.Animal
	createdAt time.Time
}

// AnimalRepo guarda animales en memoria. Implementa animals.Repository.
type AnimalRepo struct {
	mu   sync.RWMutex
	byID map[string]storedAnimal
	now  func() time.Time
}

func NewAnimalRepo() *AnimalRepo {
	return &AnimalRepo{
		byID: make(map[string]storedAnimal),
		now:  time.Now,
	}
}

// Put inserta o reemplaza un animal con id propio (seed).
func (r *AnimalRepo) Put(_ context.Context, a animals.Animal) error {
	if strings.TrimSpace(a.ID) == "" {
		return errors.New("animal id required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	created := r.now()
	if prev, ok := r.byID[a.ID]; ok {
		created = prev.createdAt
	}
	r.byID[a.ID] = storedAnimal{Animal: a, createdAt: created}
	return nil
}

// Create asigna id, estado Disponível y fecha de registro.
func (r *AnimalRepo) Create(ctx context.Context, in animals.CreateAnimal) (animals.Animal, error) {
	if strings.TrimSpace(in.Name) == "" {
		return animals.Animal{}, errors.New("animal name required")
	}

	now := r.now()
	a := animals.Animal{
		ID:               uuid.NewString(),
		Name:             in.Name,
		Type:             in.Type,
		Age:              in.Age,
		Sex:              in.Sex,
		Breed:            in.Breed,
		Size:             in.Size,
		RegistrationDate: now.Format("2006-01-02"),
		Status:           animals.StatusAvailable,
		URLImage:         in.URLImage,
		Description:      in.Description,
	}
	if in.Weight != nil {
		a.Weight = *in.Weight
	}
	if in.Author != "" || in.Phone != "" {
		a.Author = &animals.Author{Name: in.Author, Phone: in.Phone}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[a.ID] = storedAnimal{Animal: a, createdAt: now}
	return a, nil
}

func (r *AnimalRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return animals.Animal{}, ErrNotFound
	}
	return a.Animal, nil
}

// Search devuelve los que cumplen el filtro, en orden de alta.
func (r *AnimalRepo) Search(ctx context.Context, f animals.Filter) ([]animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]storedAnimal, 0)
	for _, a := range r.byID {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.Type != "" && a.Type != f.Type {
			continue
		}
		matched = append(matched, a)
	}

	// Orden estable por alta asc, desempate por id
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].createdAt.Equal(matched[j].createdAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].createdAt.Before(matched[j].createdAt)
	})

	out := make([]animals.Animal, 0, len(matched))
	for _, a := range matched {
		out = append(out, a.Animal)
	}
	return out, nil
}

// List devuelve todo lo filtrado en una única página.
func (r *AnimalRepo) List(ctx context.Context, f animals.Filter) (paging.Page[animals.Animal], error) {
	items, err := r.Search(ctx, f)
	if err != nil {
		return paging.Page[animals.Animal]{}, err
	}
	return paging.NewPage(items, 0, 0), nil
}

var (
	_ animals.Repository  = (*AnimalRepo)(nil)
	_ backend.AnimalStore = (*AnimalRepo)(nil)
)
