package users

import "context"

type Repository interface {
	// Login devuelve el token emitido por el backend.
	Login(ctx context.Context, in LoginPayload) (string, error)
	// Me usa el token de la sesión actual.
	Me(ctx context.Context) (User, error)
	Register(ctx context.Context, in RegisterPayload) (User, error)
}

// Session es el contenedor de estado de auth visto desde el servicio.
// Se implementa en store para evitar ciclos de imports.
type Session interface {
	Token() string
	// SetToken persiste el token antes de pedir /me (el gateway lo toma de acá).
	SetToken(token string) error
	LoginSuccess(resp LoginResponse) error
	SetUser(u User)
	// ClearToken borra solo la cookie; el estado de auth queda como estaba.
	ClearToken() error
	Logout() error
}
