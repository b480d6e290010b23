package animals

import (
	"net/url"
	"strings"
)

// Filter son los filtros opcionales del listado. Campos vacíos se omiten.
type Filter struct {
	Status AdoptionStatus
	Type   Type
}

func (f Filter) IsZero() bool {
	return strings.TrimSpace(string(f.Status)) == "" && strings.TrimSpace(string(f.Type)) == ""
}

// Values devuelve solo los parámetros presentes.
func (f Filter) Values() url.Values {
	v := url.Values{}
	if s := strings.TrimSpace(string(f.Status)); s != "" {
		v.Set("status", s)
	}
	if t := strings.TrimSpace(string(f.Type)); t != "" {
		v.Set("type", t)
	}
	return v
}

// QueryString: "" sin filtros, o "?status=...&type=..." (URL-encoded).
func (f Filter) QueryString() string {
	q := f.Values().Encode()
	if q == "" {
		return ""
	}
	return "?" + q
}
