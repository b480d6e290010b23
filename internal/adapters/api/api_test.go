package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petlar-client/internal/adapters/api"
	"petlar-client/internal/domain/animals"
	"petlar-client/internal/domain/users"
	"petlar-client/internal/platform/httpclient"
	"petlar-client/internal/query"
)

func newGateway(t *testing.T, h http.Handler, token httpclient.TokenSource) *httpclient.Client {
	t.Helper()
	ts := httptest.NewServer(h)
	tr := &http.Transport{}
	t.Cleanup(func() {
		tr.CloseIdleConnections()
		ts.Close()
	})
	c, err := httpclient.New(httpclient.Config{BaseURL: ts.URL, Transport: tr, Token: token})
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestParseLayout(t *testing.T) {
	l, err := api.ParseLayout("")
	require.NoError(t, err)
	assert.Equal(t, api.LayoutAnimals, l)

	l, err = api.ParseLayout(" Species ")
	require.NoError(t, err)
	assert.Equal(t, api.LayoutSpecies, l)

	_, err = api.ParseLayout("graphql")
	assert.Error(t, err)
}

func TestEndpoints(t *testing.T) {
	animalsRepo := api.NewAnimalsRepo(nil, api.LayoutAnimals)
	speciesRepo := api.NewAnimalsRepo(nil, api.LayoutSpecies)

	tests := []struct {
		name string
		repo *api.AnimalsRepo
		f    animals.Filter
		want string
	}{
		{"animals sin filtros", animalsRepo, animals.Filter{}, "/api/animals"},
		{"animals con tipo", animalsRepo, animals.Filter{Type: animals.TypeCat}, "/api/animals?type=GATO"},
		{"species con status", speciesRepo, animals.Filter{Type: animals.TypeDog, Status: animals.StatusAvailable}, "/dogs?status=Dispon%C3%ADvel"},
		{"species por defecto", speciesRepo.WithSpecies(animals.SpeciesBirds), animals.Filter{}, "/birds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.repo.ListEndpoint(tt.f)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := speciesRepo.DetailEndpoint("7")
	assert.ErrorIs(t, err, api.ErrSpeciesRequired)

	got, err := speciesRepo.WithSpecies(animals.SpeciesCats).DetailEndpoint("7")
	require.NoError(t, err)
	assert.Equal(t, "/cats/7", got)

	got, err = animalsRepo.DetailEndpoint("a b")
	require.NoError(t, err)
	assert.Equal(t, "/api/animals/a%20b", got)
}

func TestAnimalsRepo_ListPaginated(t *testing.T) {
	gw := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/animals", r.URL.Path)
		assert.Equal(t, "Adotado", r.URL.Query().Get("status"))
		_, _ = io.WriteString(w, `{"content":[{"id":"1","name":"Rex","status":"Adotado"}],"totalPages":3,"totalElements":21,"number":1,"size":10,"first":false,"last":false}`)
	}), nil)

	page, err := api.NewAnimalsRepo(gw, api.LayoutAnimals).List(context.Background(), animals.Filter{Status: animals.StatusAdopted})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Rex", page.Content[0].Name)
	assert.Equal(t, 21, page.TotalElements)
	assert.Equal(t, 1, page.Number)
}

func TestAnimalsRepo_ListBareArray(t *testing.T) {
	gw := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cats", r.URL.Path)
		_, _ = io.WriteString(w, `[{"id":"1","name":"Mia"},{"id":"2","name":"Tom"}]`)
	}), nil)

	page, err := api.NewAnimalsRepo(gw, api.LayoutSpecies).List(context.Background(), animals.Filter{Type: animals.TypeCat})
	require.NoError(t, err)
	assert.Len(t, page.Content, 2)
	assert.Equal(t, 2, page.TotalElements)
	assert.True(t, page.First)
	assert.True(t, page.Last)
}

func TestAnimalsRepo_ListAllSpeciesFansOut(t *testing.T) {
	var mu sync.Mutex
	var paths []string
	gw := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		_, _ = io.WriteString(w, `{"content":[{"id":"`+r.URL.Path+`","name":"x"}]}`)
	}), nil)

	page, err := api.NewAnimalsRepo(gw, api.LayoutSpecies).List(context.Background(), animals.Filter{})
	require.NoError(t, err)
	assert.Len(t, page.Content, 4)

	mu.Lock()
	defer mu.Unlock()
	sort.Strings(paths)
	assert.Equal(t, []string{"/birds", "/cats", "/dogs", "/others"}, paths)
}

func TestAnimalsRepo_ListAllSpeciesFailsOnAnyError(t *testing.T) {
	gw := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/birds" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = io.WriteString(w, `[]`)
	}), nil)

	_, err := api.NewAnimalsRepo(gw, api.LayoutSpecies).List(context.Background(), animals.Filter{})
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, httpclient.StatusOf(err))
}

func TestAnimalsRepo_GetByID_NotFound(t *testing.T) {
	gw := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"timestamp":"2025-01-01T00:00:00","path":"/api/animals/9","status":404,"message":"Animal não encontrado"}`)
	}), nil)

	_, err := api.NewAnimalsRepo(gw, api.LayoutAnimals).GetByID(context.Background(), "9")
	require.Error(t, err)

	var he *httpclient.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusNotFound, he.StatusCode)
	assert.Equal(t, "Animal não encontrado", he.Message())
}

func TestAnimalsRepo_CreateRequiresSpeciesInSpeciesLayout(t *testing.T) {
	repo := api.NewAnimalsRepo(nil, api.LayoutSpecies)
	_, err := repo.Create(context.Background(), animals.CreateAnimal{Name: "Bob"})
	assert.ErrorIs(t, err, api.ErrSpeciesRequired)

	_, err = repo.Create(context.Background(), animals.CreateAnimal{Name: "Bob", Type: "DINO"})
	assert.Error(t, err)
}

// Alta vía mutación: POST /dogs con el payload y 201 con la entidad creada.
func TestCreateMutation_PostsAndExposesCreatedEntity(t *testing.T) {
	created := animals.Animal{
		ID:     "42",
		Name:   "Bob",
		Type:   animals.TypeDog,
		Age:    24,
		Weight: 500,
		Status: animals.StatusAvailable,
	}

	var gotBody map[string]any
	gw := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/dogs", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		writeJSON(w, http.StatusCreated, created)
	}), nil)

	repo := api.NewAnimalsRepo(gw, api.LayoutSpecies).WithSpecies(animals.SpeciesDogs)
	svc := animals.NewService(repo)

	weight := animals.Centikg(500)
	m := query.NewMutation(query.MutationOptions[animals.CreateAnimal, animals.Animal]{
		Fn: svc.Create,
	})

	out, err := m.Mutate(context.Background(), animals.CreateAnimal{
		Name:   "Bob",
		Age:    24,
		Weight: &weight,
		Breed:  "SRD",
		Sex:    animals.SexMale,
		Size:   animals.SizeMedium,
	})
	require.NoError(t, err)
	assert.Equal(t, created, out)

	st := m.State()
	assert.Equal(t, query.StatusSuccess, st.Status)
	assert.Equal(t, created, st.Data)

	assert.Equal(t, "Bob", gotBody["name"])
	assert.EqualValues(t, 24, gotBody["age"])
	assert.EqualValues(t, 500, gotBody["weight"])
	assert.NotContains(t, gotBody, "id")
	assert.NotContains(t, gotBody, "status")
}

func TestUsersRepo_LoginMeRegister(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		var in users.LoginPayload
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		if in.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, "Credenciais inválidas")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"token": "tok-1"})
	})
	mux.HandleFunc("GET /api/users/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, users.User{ID: "u1", Name: "Ana", Email: "ana@petlar.dev"})
	})
	mux.HandleFunc("POST /api/users/cadastrar", func(w http.ResponseWriter, r *http.Request) {
		var in users.RegisterPayload
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		writeJSON(w, http.StatusCreated, users.User{ID: "u2", Name: in.Name, Email: in.Email})
	})

	var mu sync.Mutex
	token := ""
	gw := newGateway(t, mux, func() string {
		mu.Lock()
		defer mu.Unlock()
		return token
	})
	repo := api.NewUsersRepo(gw)
	ctx := context.Background()

	_, err := repo.Login(ctx, users.LoginPayload{Email: "ana@petlar.dev", Password: "nope"})
	require.Error(t, err)
	assert.Equal(t, "Credenciais inválidas", err.Error())

	tok, err := repo.Login(ctx, users.LoginPayload{Email: "ana@petlar.dev", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)

	_, err = repo.Me(ctx)
	assert.Equal(t, http.StatusUnauthorized, httpclient.StatusOf(err))

	mu.Lock()
	token = tok
	mu.Unlock()

	u, err := repo.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.Name)

	reg, err := repo.Register(ctx, users.RegisterPayload{Name: "Bia", Email: "bia@petlar.dev", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "u2", reg.ID)
}
