package auth

import (
	"context"
	"time"
)

// Claims es lo que el backend de prueba extrae del bearer token.
type Claims struct {
	UserID string
	Email  string
}

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// TokenIssuer emite tokens para un usuario autenticado.
type TokenIssuer interface {
	Issue(userID, email string) (token string, expires time.Time, err error)
}
