package fakeapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"petlar-client/internal/adapters/api"
	"petlar-client/internal/adapters/fakeapi"
	"petlar-client/internal/adapters/session/cookiefile"
	mem "petlar-client/internal/adapters/storage/memory"
	"petlar-client/internal/domain/animals"
	"petlar-client/internal/domain/users"
	"petlar-client/internal/fetch"
	"petlar-client/internal/platform/httpclient"
	"petlar-client/internal/platform/paging"
	"petlar-client/internal/store"
)

type env struct {
	url     string
	tr      *http.Transport
	session *store.Session
	gw      *httpclient.Client
}

func newEnv(t *testing.T) *env {
	t.Helper()

	repo := mem.NewAnimalRepo()
	require.NoError(t, fakeapi.Seed(context.Background(), repo))

	h, err := fakeapi.NewRouter(fakeapi.Options{
		Animals:  repo,
		Users:    mem.NewUserRepo(bcrypt.MinCost),
		PageSize: 50,
	})
	require.NoError(t, err)

	ts := httptest.NewServer(h)
	tr := &http.Transport{}
	t.Cleanup(func() {
		tr.CloseIdleConnections()
		ts.Close()
	})

	sess, err := store.NewSession(cookiefile.NewMemoryStore(), nil)
	require.NoError(t, err)

	gw, err := httpclient.New(httpclient.Config{BaseURL: ts.URL, Transport: tr, Token: sess.Token})
	require.NoError(t, err)

	return &env{url: ts.URL, tr: tr, session: sess, gw: gw}
}

func TestHTTP_Health(t *testing.T) {
	e := newEnv(t)
	st, body := doReq(t, e, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, st)
	assert.Equal(t, "ok", string(body))
}

func TestHTTP_EndToEnd_RegisterLoginCreate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	usersSvc := users.NewService(api.NewUsersRepo(e.gw), e.session)
	animalsSvc := animals.NewService(api.NewAnimalsRepo(e.gw, api.LayoutAnimals))

	// 1) Me sin token => no hay request
	_, err := usersSvc.Me(ctx)
	require.ErrorIs(t, err, users.ErrNotAuthenticated)

	// 2) Alta sin sesión => 401 con ErrorResponse
	_, err = animalsSvc.Create(ctx, animals.CreateAnimal{Name: "Bob", Type: animals.TypeDog})
	require.Error(t, err)
	var he *httpclient.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.StatusCode)
	assert.Equal(t, "Token inválido ou ausente", he.Message())

	// 3) Registro
	u, err := usersSvc.Register(ctx, users.RegisterPayload{
		Name: "Ana", Email: "ana@petlar.dev", Password: "segredo", ConfirmPassword: "segredo",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)

	// 4) Email repetido => 409
	_, err = usersSvc.Register(ctx, users.RegisterPayload{Name: "Ana", Email: "ana@petlar.dev", Password: "outra"})
	assert.Equal(t, http.StatusConflict, httpclient.StatusOf(err))

	// 5) Login con password incorrecto => sin token
	_, err = usersSvc.Login(ctx, users.LoginPayload{Email: "ana@petlar.dev", Password: "errado"})
	require.Error(t, err)
	assert.Empty(t, e.session.Token())
	assert.False(t, e.session.State().IsAuthenticated)

	// 6) Login correcto
	resp, err := usersSvc.Login(ctx, users.LoginPayload{Email: "ana@petlar.dev", Password: "segredo"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, resp.User.ID)
	assert.True(t, e.session.State().IsAuthenticated)
	assert.NotEmpty(t, e.session.Token())

	// 7) Me con token
	me, err := usersSvc.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ana@petlar.dev", me.Email)

	// 8) Alta autenticada
	w := animals.Centikg(500)
	created, err := animalsSvc.Create(ctx, animals.CreateAnimal{
		Name: "Bob", Type: animals.TypeDog, Age: 24, Weight: &w, Sex: animals.SexMale, Size: animals.SizeMedium,
	})
	require.NoError(t, err)
	assert.Equal(t, animals.StatusAvailable, created.Status)
	assert.Equal(t, animals.Centikg(500), created.Weight)

	// 9) Aparece en el listado filtrado
	page, err := animalsSvc.List(ctx, animals.Filter{Type: animals.TypeDog, Status: animals.StatusAvailable})
	require.NoError(t, err)
	names := make([]string, 0, len(page.Content))
	for _, a := range page.Content {
		names = append(names, a.Name)
	}
	assert.ElementsMatch(t, []string{"Rex", "Bob"}, names)

	// 10) Logout => Me vuelve a no pedir
	require.NoError(t, usersSvc.Logout())
	_, err = usersSvc.Me(ctx)
	assert.ErrorIs(t, err, users.ErrNotAuthenticated)
}

func TestHTTP_SpeciesLayout_FetchScenarios(t *testing.T) {
	e := newEnv(t)
	repo := api.NewAnimalsRepo(e.gw, api.LayoutSpecies)

	f := fetch.New(fetch.JSONLoader[paging.Result[animals.Animal]](e.gw), fetch.WithDelay(0))
	defer f.Close()

	// listado: sobre paginado => solo content
	endpoint, err := repo.ListEndpoint(animals.Filter{Type: animals.TypeDog, Status: animals.StatusAvailable})
	require.NoError(t, err)
	f.SetEndpoint(endpoint)
	st := await(t, f)
	require.Empty(t, st.Error)
	assert.Equal(t, paging.KindList, st.Data.Kind)
	require.Len(t, st.Data.List, 1)
	assert.Equal(t, "Rex", st.Data.List[0].Name)

	// detalle inexistente => mensaje crudo del backend, sin datos
	endpoint, err = repo.WithSpecies(animals.SpeciesDogs).DetailEndpoint("999")
	require.NoError(t, err)
	f.SetEndpoint(endpoint)
	st = await(t, f)
	assert.Contains(t, st.Error, "Animal não encontrado com o ID: 999")
	assert.Equal(t, paging.KindEmpty, st.Data.Kind)

	// un gato no se ve por la ruta de perros
	f.SetEndpoint("/dogs/3")
	st = await(t, f)
	assert.NotEmpty(t, st.Error)

	// detalle existente => entidad tal cual
	f.SetEndpoint("/cats/3")
	st = await(t, f)
	assert.Equal(t, paging.KindSingle, st.Data.Kind)
	assert.Equal(t, "Mia", st.Data.Single.Name)
}

func TestHTTP_SpeciesLayout_CreateWithoutAuth(t *testing.T) {
	e := newEnv(t)

	st, body := doReq(t, e, "POST", "/dogs", "", map[string]any{"name": "Bob", "age": 24, "weight": 500})
	require.Equal(t, http.StatusCreated, st, string(body))

	var a animals.Animal
	require.NoError(t, json.Unmarshal(body, &a))
	assert.Equal(t, animals.TypeDog, a.Type)
	assert.Equal(t, "Bob", a.Name)
}

func TestHTTP_ListPagination(t *testing.T) {
	e := newEnv(t)

	st, body := doReq(t, e, "GET", "/api/animals?size=2&page=1", "", nil)
	require.Equal(t, http.StatusOK, st)

	var page paging.Page[animals.Animal]
	require.NoError(t, json.Unmarshal(body, &page))
	assert.Len(t, page.Content, 2)
	assert.Equal(t, 6, page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.Number)
	assert.False(t, page.First)
	assert.False(t, page.Last)
}

func TestHTTP_BadRequests(t *testing.T) {
	e := newEnv(t)

	tests := []struct {
		name    string
		method  string
		path    string
		body    any
		status  int
		message string
	}{
		{"status inválido", "GET", "/api/animals?status=perdido", nil, http.StatusBadRequest, "Status inválido: perdido"},
		{"size inválido", "GET", "/api/animals?size=0", nil, http.StatusBadRequest, "Parâmetro size inválido"},
		{"especie desconocida", "GET", "/dinos", nil, http.StatusNotFound, "Espécie não encontrada"},
		{"sexo inválido", "POST", "/cats", map[string]any{"name": "X", "sex": "Outro"}, http.StatusBadRequest, "sex: oneof=Macho Fêmea"},
		{"sin nombre", "POST", "/cats", map[string]any{"age": 1}, http.StatusBadRequest, "name: required"},
		{"registro con email inválido", "POST", "/api/users/cadastrar", map[string]any{"name": "A", "email": "nope", "password": "1234"}, http.StatusBadRequest, "email: email"},
		{"confirmación distinta", "POST", "/api/users/cadastrar", map[string]any{"name": "A", "email": "a@b.dev", "password": "1234", "confirmPassword": "4321"}, http.StatusBadRequest, "confirmPassword: eqfield=Password"},
		{"me sin token", "GET", "/api/users/me", nil, http.StatusUnauthorized, "Token inválido ou ausente"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, body := doReq(t, e, tt.method, tt.path, "", tt.body)
			require.Equal(t, tt.status, st, string(body))

			var er fakeapi.ErrorResponse
			require.NoError(t, json.Unmarshal(body, &er))
			assert.Equal(t, tt.status, er.Status)
			assert.Equal(t, tt.message, er.Message)
			assert.NotEmpty(t, er.Timestamp)
		})
	}
}

func TestHTTP_ForgedTokenIsRejected(t *testing.T) {
	e := newEnv(t)
	st, _ := doReq(t, e, "GET", "/api/users/me", "eyJhbGciOiJIUzI1NiJ9.e30.x", nil)
	assert.Equal(t, http.StatusUnauthorized, st)
}

func await[T any](t *testing.T, f *fetch.Fetcher[T]) fetch.State[T] {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	st, err := f.Await(ctx)
	require.NoError(t, err)
	return st
}

func doReq(t *testing.T, e *env, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, e.url+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := (&http.Client{Transport: e.tr}).Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
