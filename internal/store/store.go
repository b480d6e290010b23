// Package store contiene los contenedores de estado explícitos del cliente
// (auth, tema, selección) con reducers puros y suscriptores.
package store

import "sync"

// Action es un evento con tipo y payload opcional.
type Action struct {
	Type    string
	Payload any
}

type Reducer[S any] func(state S, a Action) S

// Store aplica acciones en serie y avisa a los suscriptores con el estado nuevo.
type Store[S any] struct {
	mu      sync.Mutex
	state   S
	reducer Reducer[S]

	subMu  sync.Mutex
	subs   map[int]func(S)
	nextID int
}

func New[S any](initial S, reducer Reducer[S]) *Store[S] {
	return &Store[S]{
		state:   initial,
		reducer: reducer,
		subs:    make(map[int]func(S)),
	}
}

func (s *Store[S]) State() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch devuelve el estado resultante. Los suscriptores se llaman fuera del lock.
func (s *Store[S]) Dispatch(a Action) S {
	s.mu.Lock()
	s.state = s.reducer(s.state, a)
	next := s.state
	s.mu.Unlock()

	s.subMu.Lock()
	fns := make([]func(S), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
	return next
}

// Subscribe devuelve la función para desuscribirse.
func (s *Store[S]) Subscribe(fn func(S)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}
