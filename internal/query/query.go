package query

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

var ErrClosed = errors.New("query: closed")

type Options[T any] struct {
	Key Key
	Fn  func(ctx context.Context) (T, error)

	// Disabled: la query nunca pide (equivale a enabled: false).
	Disabled bool
	// StaleTime 0 => el del Client.
	StaleTime time.Duration
	// RefetchInterval > 0 => refresco periódico en segundo plano (mínimo 1s).
	RefetchInterval time.Duration
}

// State: Data no se resetea al refrescar; se reemplaza solo con datos nuevos.
type State[T any] struct {
	Data T
	// HasData distingue "todavía nada" de un valor cero legítimo.
	HasData bool
	// IsLoading: pidiendo y sin datos previos.
	IsLoading bool
	// IsFetching: hay un request en vuelo (incluye refrescos).
	IsFetching bool
	IsError    bool
	Err        error
	UpdatedAt  time.Time
}

// Query observa una clave del Client.
type Query[T any] struct {
	c    *Client
	opts Options[T]

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	state    State[T]
	changed  chan struct{}
	closed   bool
	inflight int
	entry    cron.EntryID
	wg       sync.WaitGroup
}

// Observe crea la query; si no hay datos frescos en caché, pide en segundo plano.
func Observe[T any](ctx context.Context, c *Client, opts Options[T]) *Query[T] {
	qctx, cancel := context.WithCancel(ctx)
	q := &Query[T]{
		c:       c,
		opts:    opts,
		ctx:     qctx,
		cancel:  cancel,
		changed: make(chan struct{}),
	}

	fresh := false
	if v, at, ok := Cached[T](c, opts.Key); ok {
		q.state.Data = v
		q.state.HasData = true
		q.state.UpdatedAt = at
		fresh = !c.isStale(at, opts.StaleTime)
	}

	if opts.Disabled {
		return q
	}

	if !fresh {
		q.spawn()
	}
	if opts.RefetchInterval > 0 {
		q.entry = c.sched.Schedule(cron.Every(opts.RefetchInterval), cron.FuncJob(func() {
			if _, err := q.refetch(); err != nil {
				c.log.Debug("background refetch failed", map[string]any{"key": opts.Key.String(), "err": err})
			}
		}))
	}
	return q
}

func (q *Query[T]) spawn() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.wg.Add(1)
	q.mu.Unlock()

	go func() {
		defer q.wg.Done()
		_, _ = q.fetch()
	}()
}

// refetch se usa desde el scheduler; respeta Close.
func (q *Query[T]) refetch() (T, error) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		var zero T
		return zero, ErrClosed
	}
	q.wg.Add(1)
	q.mu.Unlock()
	defer q.wg.Done()

	return q.fetch()
}

func (q *Query[T]) fetch() (T, error) {
	q.mu.Lock()
	q.inflight++
	q.state.IsFetching = true
	q.state.IsLoading = !q.state.HasData
	q.notifyLocked()
	q.mu.Unlock()

	v, err := Fetch(q.ctx, q.c, q.opts.Key, q.opts.Fn)

	q.mu.Lock()
	defer q.mu.Unlock()

	q.inflight--
	if q.closed {
		return v, err
	}
	if err != nil {
		q.state.IsError = true
		q.state.Err = err
	} else {
		q.state.Data = v
		q.state.HasData = true
		q.state.IsError = false
		q.state.Err = nil
		q.state.UpdatedAt = q.c.now()
	}
	q.state.IsFetching = q.inflight > 0
	q.state.IsLoading = q.state.IsFetching && !q.state.HasData
	q.notifyLocked()
	return v, err
}

// Refetch pide de nuevo ignorando StaleTime. La deduplicación por clave sigue activa.
func (q *Query[T]) Refetch(ctx context.Context) (T, error) {
	q.mu.Lock()
	closed := q.closed
	q.mu.Unlock()
	if closed {
		var zero T
		return zero, ErrClosed
	}

	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := q.refetch()
		done <- result{v, err}
	}()

	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (q *Query[T]) State() State[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// Changes devuelve un canal que se cierra en el próximo cambio de estado.
func (q *Query[T]) Changes() <-chan struct{} {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.changed
}

// Await bloquea hasta que no haya requests en vuelo y exista un resultado
// (datos o error), o hasta que ctx termine.
func (q *Query[T]) Await(ctx context.Context) (State[T], error) {
	for {
		q.mu.Lock()
		st, ch, closed := q.state, q.changed, q.closed
		q.mu.Unlock()

		if !st.IsFetching && (st.HasData || st.IsError || q.opts.Disabled) {
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

// Close deja de observar: quita el refresco periódico y deja de esperar lo que
// esté en vuelo. Un fetch compartido con otras queries sigue corriendo y llena
// la caché. La entrada en caché se conserva.
func (q *Query[T]) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.notifyLocked()
	q.mu.Unlock()

	if q.entry != 0 {
		q.c.sched.Remove(q.entry)
	}
	q.cancel()
	q.wg.Wait()
}

func (q *Query[T]) notifyLocked() {
	close(q.changed)
	q.changed = make(chan struct{})
}
