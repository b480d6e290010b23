package animals

import (
	"context"

	"petlar-client/internal/platform/paging"
)

type Repository interface {
	List(ctx context.Context, f Filter) (paging.Page[Animal], error)
	GetByID(ctx context.Context, id string) (Animal, error)
	Create(ctx context.Context, in CreateAnimal) (Animal, error)
}
