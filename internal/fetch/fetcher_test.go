package fetch_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"petlar-client/internal/domain/animals"
	"petlar-client/internal/fetch"
	"petlar-client/internal/platform/httpclient"
	"petlar-client/internal/platform/paging"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// gatedLoader bloquea cada endpoint hasta que el test lo libere.
type gatedLoader struct {
	mu       sync.Mutex
	gates    map[string]chan struct{}
	returned map[string]chan struct{}
	calls    map[string]int
}

func newGatedLoader() *gatedLoader {
	return &gatedLoader{
		gates:    map[string]chan struct{}{},
		returned: map[string]chan struct{}{},
		calls:    map[string]int{},
	}
}

func (g *gatedLoader) chans(endpoint string) (chan struct{}, chan struct{}) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.gates[endpoint]; !ok {
		g.gates[endpoint] = make(chan struct{})
		g.returned[endpoint] = make(chan struct{})
	}
	return g.gates[endpoint], g.returned[endpoint]
}

func (g *gatedLoader) release(endpoint string) {
	gate, _ := g.chans(endpoint)
	close(gate)
}

func (g *gatedLoader) waitReturned(t *testing.T, endpoint string) {
	t.Helper()
	_, ret := g.chans(endpoint)
	select {
	case <-ret:
	case <-time.After(2 * time.Second):
		t.Fatalf("loader for %s never returned", endpoint)
	}
}

func (g *gatedLoader) count(endpoint string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[endpoint]
}

func (g *gatedLoader) load(ctx context.Context, endpoint string) (string, error) {
	gate, ret := g.chans(endpoint)
	g.mu.Lock()
	g.calls[endpoint]++
	g.mu.Unlock()
	defer close(ret)

	select {
	case <-gate:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	if endpoint == "/fail" {
		return "", errors.New("boom")
	}
	return "data:" + endpoint, nil
}

func await[T any](t *testing.T, f *fetch.Fetcher[T]) fetch.State[T] {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	st, err := f.Await(ctx)
	require.NoError(t, err)
	return st
}

func TestFetcher_InitialCycleState(t *testing.T) {
	g := newGatedLoader()
	f := fetch.New(g.load, fetch.WithDelay(0))
	defer f.Close()

	f.SetEndpoint("/a")
	st := f.State()
	assert.True(t, st.Loading)
	assert.Empty(t, st.Error)
	assert.Empty(t, st.Data)

	g.release("/a")
	st = await(t, f)
	assert.False(t, st.Loading)
	assert.Equal(t, "data:/a", st.Data)
	assert.False(t, st.Failed())
}

func TestFetcher_SupersededResultIsDiscarded(t *testing.T) {
	g := newGatedLoader()
	f := fetch.New(g.load, fetch.WithDelay(0))
	defer f.Close()

	f.SetEndpoint("/a")
	f.SetEndpoint("/b")

	// B termina primero, A después.
	g.release("/b")
	st := await(t, f)
	assert.Equal(t, "data:/b", st.Data)

	g.release("/a")
	g.waitReturned(t, "/a")

	assert.Never(t, func() bool {
		return f.State().Data == "data:/a"
	}, 100*time.Millisecond, 5*time.Millisecond)
	assert.Equal(t, "/b", f.State().Endpoint)
}

func TestFetcher_SupersededBeforeNewerSettles(t *testing.T) {
	g := newGatedLoader()
	f := fetch.New(g.load, fetch.WithDelay(0))
	defer f.Close()

	f.SetEndpoint("/a")
	f.SetEndpoint("/b")

	// A termina mientras B sigue en vuelo: no debe tocar loading ni data.
	g.release("/a")
	g.waitReturned(t, "/a")
	assert.Never(t, func() bool {
		st := f.State()
		return !st.Loading || st.Data != ""
	}, 50*time.Millisecond, 5*time.Millisecond)

	g.release("/b")
	assert.Equal(t, "data:/b", await(t, f).Data)
}

func TestFetcher_RapidSequence_OnlyLastObservable(t *testing.T) {
	g := newGatedLoader()
	f := fetch.New(g.load, fetch.WithDelay(0))
	defer f.Close()

	const n = 10
	for i := 0; i < n; i++ {
		f.SetEndpoint(fmt.Sprintf("/e%d", i))
	}
	// liberar en orden inverso: el último ciclo termina primero
	for i := n - 1; i >= 0; i-- {
		g.release(fmt.Sprintf("/e%d", i))
	}
	for i := 0; i < n; i++ {
		g.waitReturned(t, fmt.Sprintf("/e%d", i))
	}

	st := await(t, f)
	assert.Eventually(t, func() bool {
		return f.State().Data == fmt.Sprintf("data:/e%d", n-1)
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, fmt.Sprintf("/e%d", n-1), st.Endpoint)
}

func TestFetcher_SameEndpointIsNoop(t *testing.T) {
	g := newGatedLoader()
	f := fetch.New(g.load, fetch.WithDelay(0))
	defer f.Close()

	f.SetEndpoint("/a")
	g.release("/a")
	first := await(t, f)

	f.SetEndpoint("/a")
	second := await(t, f)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, g.count("/a"))
}

func TestFetcher_NewCycleResetsData(t *testing.T) {
	g := newGatedLoader()
	f := fetch.New(g.load, fetch.WithDelay(0))
	defer f.Close()

	f.SetEndpoint("/a")
	g.release("/a")
	require.Equal(t, "data:/a", await(t, f).Data)

	f.SetEndpoint("/fail")
	st := f.State()
	assert.True(t, st.Loading)
	assert.Empty(t, st.Data, "data vuelve al default vacío al iniciar el ciclo")

	g.release("/fail")
	st = await(t, f)
	assert.Equal(t, "boom", st.Error)
	assert.Empty(t, st.Data)
	assert.False(t, st.Loading)
}

func TestFetcher_EmptyErrorMessageUsesFallback(t *testing.T) {
	f := fetch.New(func(context.Context, string) (int, error) {
		return 0, errors.New("")
	}, fetch.WithDelay(0))
	defer f.Close()

	f.SetEndpoint("/x")
	st := await(t, f)
	assert.Equal(t, fetch.FallbackError, st.Error)
	assert.Zero(t, st.Data)
}

func TestFetcher_ErrorTextIsNotTrimmed(t *testing.T) {
	f := fetch.New(func(context.Context, string) (int, error) {
		return 0, errors.New("Not found\n")
	}, fetch.WithDelay(0))
	defer f.Close()

	f.SetEndpoint("/x")
	st := await(t, f)
	assert.Equal(t, "Not found\n", st.Error)
}

func TestFetcher_BlankErrorMessageUsesFallback(t *testing.T) {
	f := fetch.New(func(context.Context, string) (int, error) {
		return 0, errors.New(" \n ")
	}, fetch.WithDelay(0))
	defer f.Close()

	f.SetEndpoint("/x")
	st := await(t, f)
	assert.Equal(t, fetch.FallbackError, st.Error)
}

func TestFetcher_CloseDiscardsInFlight(t *testing.T) {
	g := newGatedLoader()
	f := fetch.New(g.load, fetch.WithDelay(0))

	f.SetEndpoint("/a")
	f.Close()

	st := f.State()
	assert.True(t, st.Loading, "después de desmontar no hay escrituras")
	assert.Empty(t, st.Data)

	_, err := f.Await(context.Background())
	assert.ErrorIs(t, err, fetch.ErrClosed)

	// SetEndpoint después de Close no hace nada.
	f.SetEndpoint("/b")
	assert.Equal(t, 0, g.count("/b"))
}

func TestFetcher_DelayIsAFloor(t *testing.T) {
	f := fetch.New(func(context.Context, string) (string, error) {
		return "ok", nil
	}, fetch.WithDelay(60*time.Millisecond))
	defer f.Close()

	start := time.Now()
	f.SetEndpoint("/a")
	st := await(t, f)
	assert.Equal(t, "ok", st.Data)
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestFetcher_ChangesSignalsTransitions(t *testing.T) {
	g := newGatedLoader()
	f := fetch.New(g.load, fetch.WithDelay(0))
	defer f.Close()

	ch := f.Changes()
	f.SetEndpoint("/a")
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected change on cycle start")
	}

	ch = f.Changes()
	g.release("/a")
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected change on settle")
	}
}

// -------------------------
// Escenarios end-to-end contra un servidor HTTP
// -------------------------

func newGateway(t *testing.T, h http.Handler) *httpclient.Client {
	t.Helper()
	ts := httptest.NewServer(h)
	tr := &http.Transport{}
	t.Cleanup(func() {
		tr.CloseIdleConnections()
		ts.Close()
	})
	c, err := httpclient.New(httpclient.Config{BaseURL: ts.URL, Transport: tr})
	require.NoError(t, err)
	return c
}

func TestScenarioA_PaginatedEnvelopeYieldsContent(t *testing.T) {
	gw := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dogs", r.URL.Path)
		assert.Equal(t, "Disponível", r.URL.Query().Get("status"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"id":"1","name":"Rex","status":"Disponível","age":24}],"totalPages":1,"totalElements":1,"number":0,"size":20,"first":true,"last":true}`))
	}))

	f := fetch.New(fetch.JSONLoader[paging.Result[animals.Animal]](gw), fetch.WithDelay(0))
	defer f.Close()

	f.SetEndpoint("/dogs" + animals.Filter{Status: animals.StatusAvailable}.QueryString())
	st := await(t, f)

	assert.False(t, st.Loading)
	assert.Empty(t, st.Error)
	assert.Equal(t, paging.KindList, st.Data.Kind)
	assert.Equal(t, []animals.Animal{{ID: "1", Name: "Rex", Status: animals.StatusAvailable, Age: 24}}, st.Data.List)
}

func TestScenarioB_NotFoundYieldsRawMessage(t *testing.T) {
	gw := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("Not found"))
	}))

	f := fetch.New(fetch.JSONLoader[paging.Result[animals.Animal]](gw), fetch.WithDelay(0))
	defer f.Close()

	f.SetEndpoint("/dogs/99")
	st := await(t, f)

	assert.Equal(t, "Not found", st.Error)
	assert.Equal(t, paging.Result[animals.Animal]{}, st.Data)
	assert.False(t, st.Loading)
}

func TestSingleEntityPassesThrough(t *testing.T) {
	gw := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"5","name":"Mia","type":"GATO","status":"Adotado"}`))
	}))

	f := fetch.New(fetch.JSONLoader[paging.Result[animals.Animal]](gw), fetch.WithDelay(0))
	defer f.Close()

	f.SetEndpoint("/cats/5")
	st := await(t, f)

	assert.Equal(t, paging.KindSingle, st.Data.Kind)
	assert.Equal(t, animals.Animal{ID: "5", Name: "Mia", Type: animals.TypeCat, Status: animals.StatusAdopted}, st.Data.Single)
}
