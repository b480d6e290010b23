// Package fetch mantiene el estado {data, loading, error} de un endpoint que
// puede cambiar en el tiempo. Solo el ciclo más reciente escribe estado: los
// resultados de ciclos reemplazados se descartan al llegar, sin error visible.
package fetch

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"petlar-client/internal/platform/httpclient"
	"petlar-client/internal/platform/logger"
)

const (
	// DefaultDelay es la latencia mínima artificial de cada ciclo exitoso (suaviza la UI).
	DefaultDelay = 300 * time.Millisecond

	// FallbackError se usa cuando el error no trae mensaje.
	FallbackError = "Erro ao buscar dados"
)

var ErrClosed = errors.New("fetch: closed")

// Loader obtiene el recurso de un endpoint.
type Loader[T any] func(ctx context.Context, endpoint string) (T, error)

// JSONLoader usa el gateway con GET y decodifica en T.
// Con T = paging.Result[X] el sobre paginado queda resuelto en el borde.
func JSONLoader[T any](c *httpclient.Client) Loader[T] {
	return func(ctx context.Context, endpoint string) (T, error) {
		return httpclient.Do[T](ctx, c, endpoint, httpclient.RequestOptions{})
	}
}

// State es la foto observable. Error == "" equivale a "sin error".
type State[T any] struct {
	Endpoint string
	Data     T
	Loading  bool
	Error    string
}

func (s State[T]) Failed() bool {
	return s.Error != ""
}

type options struct {
	delay time.Duration
	log   logger.Logger
	ctx   context.Context
}

type Option func(*options)

// WithDelay cambia la latencia mínima; 0 la desactiva.
func WithDelay(d time.Duration) Option {
	return func(o *options) {
		if d < 0 {
			d = 0
		}
		o.delay = d
	}
}

func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithContext fija el contexto base de los loaders (Close lo cancela igual).
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// Fetcher es una instancia del "hook": dueño exclusivo de su estado.
type Fetcher[T any] struct {
	load  Loader[T]
	delay time.Duration
	log   logger.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	state   State[T]
	cycle   uint64 // ciclo vivo; cualquier otro id está muerto
	started bool
	closed  bool
	changed chan struct{}

	wg sync.WaitGroup
}

func New[T any](load Loader[T], opts ...Option) *Fetcher[T] {
	o := options{
		delay: DefaultDelay,
		log:   logger.Nop(),
		ctx:   context.Background(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(o.ctx)
	return &Fetcher[T]{
		load:    load,
		delay:   o.delay,
		log:     o.log.With(map[string]any{"component": "fetch"}),
		ctx:     ctx,
		cancel:  cancel,
		changed: make(chan struct{}),
	}
}

// SetEndpoint equivale a montar o a cambiar la dependencia del hook.
// El mismo endpoint (igualdad de string) no dispara un ciclo nuevo.
func (f *Fetcher[T]) SetEndpoint(endpoint string) {
	f.mu.Lock()
	if f.closed || (f.started && endpoint == f.state.Endpoint) {
		f.mu.Unlock()
		return
	}

	// Al avanzar el ciclo, el anterior queda muerto.
	f.started = true
	f.cycle++
	id := f.cycle
	f.state = State[T]{Endpoint: endpoint, Loading: true}
	f.notifyLocked()

	f.wg.Add(1)
	f.mu.Unlock()

	go f.run(id, endpoint)
}

func (f *Fetcher[T]) run(id uint64, endpoint string) {
	defer f.wg.Done()

	data, err := f.load(f.ctx, endpoint)
	if err == nil && f.delay > 0 {
		t := time.NewTimer(f.delay)
		select {
		case <-t.C:
		case <-f.ctx.Done():
			t.Stop()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed || id != f.cycle {
		f.log.Debug("stale result discarded", map[string]any{"endpoint": endpoint, "cycle": id})
		return
	}

	if err != nil {
		msg := err.Error()
		if strings.TrimSpace(msg) == "" {
			msg = FallbackError
		}
		f.state.Error = msg
		f.log.Debug("fetch failed", map[string]any{"endpoint": endpoint, "err": msg})
	} else {
		f.state.Data = data
	}
	f.state.Loading = false
	f.notifyLocked()
}

// State devuelve una copia del estado actual.
func (f *Fetcher[T]) State() State[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Changes devuelve un canal que se cierra en el próximo cambio de estado.
func (f *Fetcher[T]) Changes() <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.changed
}

// Await bloquea hasta que el ciclo vivo se asiente.
func (f *Fetcher[T]) Await(ctx context.Context) (State[T], error) {
	for {
		f.mu.Lock()
		st, ch, closed := f.state, f.changed, f.closed
		f.mu.Unlock()

		if !st.Loading {
			return st, nil
		}
		if closed {
			return st, ErrClosed
		}

		select {
		case <-ch:
		case <-ctx.Done():
			return st, ctx.Err()
		}
	}
}

// Close equivale a desmontar: ningún ciclo vuelve a escribir estado.
// Cancela el contexto de los loaders y espera a que terminen.
func (f *Fetcher[T]) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	f.cycle++
	f.notifyLocked()
	f.mu.Unlock()

	f.cancel()
	f.wg.Wait()
}

func (f *Fetcher[T]) notifyLocked() {
	close(f.changed)
	f.changed = make(chan struct{})
}
