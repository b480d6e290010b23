// Package paging resuelve una sola vez, en el borde de la API, si una respuesta
// es un sobre paginado ({content, totalPages, ...}), una lista o una entidad.
package paging

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PageInfo son los metadatos del sobre paginado (formato Spring Page).
type PageInfo struct {
	TotalPages    int  `json:"totalPages"`
	TotalElements int  `json:"totalElements"`
	Number        int  `json:"number"`
	Size          int  `json:"size"`
	First         bool `json:"first"`
	Last          bool `json:"last"`
}

// Page es el sobre paginado completo.
type Page[T any] struct {
	Content []T `json:"content"`
	PageInfo
}

// NewPage arma un sobre para content con tamaño de página size (0 = todo en una página).
func NewPage[T any](content []T, number, size int) Page[T] {
	total := len(content)
	if size <= 0 {
		size = total
	}
	pages := 1
	if size > 0 {
		pages = (total + size - 1) / size
	}
	if pages == 0 {
		pages = 1
	}
	if number < 0 {
		number = 0
	}

	from := number * size
	if from > total {
		from = total
	}
	to := from + size
	if to > total {
		to = total
	}

	items := make([]T, 0, to-from)
	items = append(items, content[from:to]...)

	return Page[T]{
		Content: items,
		PageInfo: PageInfo{
			TotalPages:    pages,
			TotalElements: total,
			Number:        number,
			Size:          size,
			First:         number == 0,
			Last:          number >= pages-1,
		},
	}
}

type Kind int

const (
	KindEmpty Kind = iota
	KindList
	KindSingle
)

func (k Kind) String() string {
	switch k {
	case KindList:
		return "list"
	case KindSingle:
		return "single"
	default:
		return "empty"
	}
}

// Result es la unión discriminada "lista o entidad".
// El valor cero (KindEmpty) es el default vacío antes de cualquier respuesta.
type Result[T any] struct {
	Kind   Kind
	List   []T
	Single T
	// Page solo tiene sentido si la lista vino en un sobre paginado.
	Page *PageInfo
}

func ListOf[T any](items []T) Result[T] {
	return Result[T]{Kind: KindList, List: items}
}

func SingleOf[T any](v T) Result[T] {
	return Result[T]{Kind: KindSingle, Single: v}
}

func (r *Result[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*r = Result[T]{}
		return nil
	}

	switch b[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(b, &items); err != nil {
			return fmt.Errorf("paging: decode list: %w", err)
		}
		*r = ListOf(items)
		return nil
	case '{':
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(b, &probe); err != nil {
			return fmt.Errorf("paging: decode object: %w", err)
		}
		if _, ok := probe["content"]; ok {
			var p Page[T]
			if err := json.Unmarshal(b, &p); err != nil {
				return fmt.Errorf("paging: decode page: %w", err)
			}
			info := p.PageInfo
			*r = Result[T]{Kind: KindList, List: p.Content, Page: &info}
			return nil
		}
	}

	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("paging: decode single: %w", err)
	}
	*r = SingleOf(v)
	return nil
}

func (r Result[T]) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case KindList:
		if r.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(r.List)
	case KindSingle:
		return json.Marshal(r.Single)
	default:
		return []byte("null"), nil
	}
}
