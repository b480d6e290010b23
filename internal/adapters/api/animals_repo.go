// Package api implementa los repositorios del dominio sobre el gateway HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"

	"petlar-client/internal/domain/animals"
	"petlar-client/internal/platform/httpclient"
	"petlar-client/internal/platform/paging"
)

// Layout elige el juego de rutas del backend.
type Layout string

const (
	// LayoutAnimals: /api/animals, /api/animals/{id}; la especie va como ?type=.
	LayoutAnimals Layout = "animals"
	// LayoutSpecies: /{species}?status=, /{species}/{id}.
	LayoutSpecies Layout = "species"
)

var ErrSpeciesRequired = errors.New("api: species required for this layout")

func ParseLayout(s string) (Layout, error) {
	switch Layout(strings.ToLower(strings.TrimSpace(s))) {
	case "", LayoutAnimals:
		return LayoutAnimals, nil
	case LayoutSpecies:
		return LayoutSpecies, nil
	}
	return "", fmt.Errorf("api: unknown layout %q", s)
}

var allSpecies = []animals.Species{
	animals.SpeciesDogs,
	animals.SpeciesCats,
	animals.SpeciesBirds,
	animals.SpeciesOthers,
}

type AnimalsRepo struct {
	c       *httpclient.Client
	layout  Layout
	species animals.Species
}

func NewAnimalsRepo(c *httpclient.Client, layout Layout) *AnimalsRepo {
	if layout == "" {
		layout = LayoutAnimals
	}
	return &AnimalsRepo{c: c, layout: layout}
}

// WithSpecies fija la especie por defecto (detalle y alta en LayoutSpecies).
func (r *AnimalsRepo) WithSpecies(s animals.Species) *AnimalsRepo {
	cp := *r
	cp.species = s
	return &cp
}

func (r *AnimalsRepo) Layout() Layout { return r.layout }

func (r *AnimalsRepo) speciesFor(t animals.Type) (animals.Species, error) {
	if t != "" {
		if s, ok := t.Species(); ok {
			return s, nil
		}
		return "", fmt.Errorf("api: unknown animal type %q", t)
	}
	if r.species != "" {
		return r.species, nil
	}
	return "", ErrSpeciesRequired
}

// ListEndpoint arma la ruta del listado. En LayoutSpecies el tipo va en el path
// y solo status queda como query param.
func (r *AnimalsRepo) ListEndpoint(f animals.Filter) (string, error) {
	if r.layout == LayoutAnimals {
		return "/api/animals" + f.QueryString(), nil
	}
	s, err := r.speciesFor(f.Type)
	if err != nil {
		return "", err
	}
	return "/" + string(s) + animals.Filter{Status: f.Status}.QueryString(), nil
}

func (r *AnimalsRepo) DetailEndpoint(id string) (string, error) {
	id = url.PathEscape(strings.TrimSpace(id))
	if r.layout == LayoutAnimals {
		return "/api/animals/" + id, nil
	}
	s, err := r.speciesFor("")
	if err != nil {
		return "", err
	}
	return "/" + string(s) + "/" + id, nil
}

func (r *AnimalsRepo) createEndpoint(t animals.Type) (string, error) {
	if r.layout == LayoutAnimals {
		return "/api/animals", nil
	}
	s, err := r.speciesFor(t)
	if err != nil {
		return "", err
	}
	return "/" + string(s), nil
}

// List en LayoutSpecies sin tipo consulta todas las especies en paralelo y
// junta los resultados en una sola página.
func (r *AnimalsRepo) List(ctx context.Context, f animals.Filter) (paging.Page[animals.Animal], error) {
	if r.layout == LayoutSpecies && f.Type == "" && r.species == "" {
		return r.listAllSpecies(ctx, f)
	}

	endpoint, err := r.ListEndpoint(f)
	if err != nil {
		return paging.Page[animals.Animal]{}, err
	}
	res, err := httpclient.Do[paging.Result[animals.Animal]](ctx, r.c, endpoint, httpclient.RequestOptions{})
	if err != nil {
		return paging.Page[animals.Animal]{}, err
	}
	return toPage(res), nil
}

func (r *AnimalsRepo) listAllSpecies(ctx context.Context, f animals.Filter) (paging.Page[animals.Animal], error) {
	parts := make([][]animals.Animal, len(allSpecies))

	g, gctx := errgroup.WithContext(ctx)
	for i, s := range allSpecies {
		g.Go(func() error {
			endpoint := "/" + string(s) + animals.Filter{Status: f.Status}.QueryString()
			res, err := httpclient.Do[paging.Result[animals.Animal]](gctx, r.c, endpoint, httpclient.RequestOptions{})
			if err != nil {
				return fmt.Errorf("api: list %s: %w", s, err)
			}
			parts[i] = toPage(res).Content
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return paging.Page[animals.Animal]{}, err
	}

	all := make([]animals.Animal, 0)
	for _, p := range parts {
		all = append(all, p...)
	}
	return paging.NewPage(all, 0, 0), nil
}

func (r *AnimalsRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	endpoint, err := r.DetailEndpoint(id)
	if err != nil {
		return animals.Animal{}, err
	}
	return httpclient.Do[animals.Animal](ctx, r.c, endpoint, httpclient.RequestOptions{})
}

func (r *AnimalsRepo) Create(ctx context.Context, in animals.CreateAnimal) (animals.Animal, error) {
	endpoint, err := r.createEndpoint(in.Type)
	if err != nil {
		return animals.Animal{}, err
	}
	return httpclient.Do[animals.Animal](ctx, r.c, endpoint, httpclient.RequestOptions{
		Method: "POST",
		Body:   in,
	})
}

// toPage normaliza cualquier forma de respuesta del listado a una página.
func toPage(res paging.Result[animals.Animal]) paging.Page[animals.Animal] {
	switch res.Kind {
	case paging.KindList:
		if res.Page != nil {
			return paging.Page[animals.Animal]{Content: res.List, PageInfo: *res.Page}
		}
		return paging.NewPage(res.List, 0, 0)
	case paging.KindSingle:
		return paging.NewPage([]animals.Animal{res.Single}, 0, 0)
	}
	return paging.NewPage([]animals.Animal{}, 0, 0)
}

var _ animals.Repository = (*AnimalsRepo)(nil)
