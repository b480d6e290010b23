package store

import "petlar-client/internal/domain/users"

const (
	ActionLoginSuccess = "auth/loginSuccess"
	ActionLogout       = "auth/logout"
	ActionSetUser      = "auth/setUser"
)

type AuthState struct {
	User            *users.User
	Token           string
	IsAuthenticated bool
}

// InitialAuth arranca autenticado si ya hay token guardado.
func InitialAuth(token string) AuthState {
	return AuthState{Token: token, IsAuthenticated: token != ""}
}

func LoginSuccess(resp users.LoginResponse) Action {
	return Action{Type: ActionLoginSuccess, Payload: resp}
}

func Logout() Action { return Action{Type: ActionLogout} }

func SetUser(u users.User) Action {
	return Action{Type: ActionSetUser, Payload: u}
}

func AuthReducer(s AuthState, a Action) AuthState {
	switch a.Type {
	case ActionLoginSuccess:
		resp, ok := a.Payload.(users.LoginResponse)
		if !ok {
			return s
		}
		u := resp.User
		return AuthState{User: &u, Token: resp.Token, IsAuthenticated: true}
	case ActionLogout:
		return AuthState{}
	case ActionSetUser:
		u, ok := a.Payload.(users.User)
		if !ok {
			return s
		}
		s.User = &u
		return s
	}
	return s
}
