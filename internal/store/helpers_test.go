package store

import (
	"context"

	"petlar-client/internal/domain/users"
)

type stubUsersRepo struct {
	token         string
	user          users.User
	session       *Session
	tokenSeenByMe string
}

func (r *stubUsersRepo) Login(context.Context, users.LoginPayload) (string, error) {
	return r.token, nil
}

func (r *stubUsersRepo) Me(context.Context) (users.User, error) {
	r.tokenSeenByMe = r.session.Token()
	return r.user, nil
}

func (r *stubUsersRepo) Register(_ context.Context, in users.RegisterPayload) (users.User, error) {
	return users.User{Name: in.Name, Email: in.Email}, nil
}
