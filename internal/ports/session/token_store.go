package session

import (
	"errors"
	"time"
)

// ErrNoToken: no hay token guardado o ya expiró.
var ErrNoToken = errors.New("no token")

// TokenStore guarda el token de sesión del usuario (la "cookie" del cliente).
type TokenStore interface {
	// Get devuelve ErrNoToken si no hay token vigente.
	Get() (string, error)
	// Set guarda el token; expires cero => sin vencimiento.
	Set(token string, expires time.Time) error
	Remove() error
}
