package query

import (
	"context"
	"sync"
	"time"
)

type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// MutationState: Status es el único discriminante de la vista
// (pendiente, éxito o error son excluyentes).
type MutationState[Out any] struct {
	Status Status
	Data   Out
	Err    error
}

func (s MutationState[Out]) IsPending() bool { return s.Status == StatusPending }
func (s MutationState[Out]) IsSuccess() bool { return s.Status == StatusSuccess }
func (s MutationState[Out]) IsError() bool   { return s.Status == StatusError }

type MutationOptions[In, Out any] struct {
	Fn func(ctx context.Context, in In) (Out, error)

	// Delay se aplica tras una respuesta exitosa y antes de publicar el resultado.
	Delay time.Duration

	OnSuccess func(out Out, in In)
	OnError   func(err error, in In)

	// Client + Invalidates: nombres de recursos a invalidar tras un éxito.
	Client      *Client
	Invalidates []string
}

// Mutation ejecuta escrituras (create) y expone el resultado de la última.
type Mutation[In, Out any] struct {
	opts MutationOptions[In, Out]

	mu    sync.Mutex
	state MutationState[Out]
	seq   uint64
}

func NewMutation[In, Out any](opts MutationOptions[In, Out]) *Mutation[In, Out] {
	return &Mutation[In, Out]{opts: opts}
}

// Mutate envía la escritura y devuelve su resultado para que el caller ramifique.
// Si se llama de nuevo antes de terminar, solo la última publica estado.
func (m *Mutation[In, Out]) Mutate(ctx context.Context, in In) (Out, error) {
	m.mu.Lock()
	m.seq++
	mine := m.seq
	m.state = MutationState[Out]{Status: StatusPending}
	m.mu.Unlock()

	out, err := m.opts.Fn(ctx, in)
	if err == nil && m.opts.Delay > 0 {
		t := time.NewTimer(m.opts.Delay)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			err = ctx.Err()
		}
	}

	m.mu.Lock()
	if mine == m.seq {
		if err != nil {
			var zero Out
			m.state = MutationState[Out]{Status: StatusError, Data: zero, Err: err}
		} else {
			m.state = MutationState[Out]{Status: StatusSuccess, Data: out}
		}
	}
	m.mu.Unlock()

	if err != nil {
		if m.opts.OnError != nil {
			m.opts.OnError(err, in)
		}
		var zero Out
		return zero, err
	}

	if m.opts.Client != nil {
		for _, name := range m.opts.Invalidates {
			m.opts.Client.Invalidate(name)
		}
	}
	if m.opts.OnSuccess != nil {
		m.opts.OnSuccess(out, in)
	}
	return out, nil
}

func (m *Mutation[In, Out]) State() MutationState[Out] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Reset vuelve a Idle.
func (m *Mutation[In, Out]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.state = MutationState[Out]{}
}
