package users

// User es el usuario autenticado tal como lo devuelve /api/users/me.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse es lo que queda en la sesión después de un login exitoso.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type RegisterPayload struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword,omitempty"`
	Phone           string `json:"phone,omitempty"`
}
