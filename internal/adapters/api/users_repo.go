package api

import (
	"context"

	"petlar-client/internal/domain/users"
	"petlar-client/internal/platform/httpclient"
)

type UsersRepo struct {
	c *httpclient.Client
}

func NewUsersRepo(c *httpclient.Client) *UsersRepo {
	return &UsersRepo{c: c}
}

type loginResponse struct {
	Token string `json:"token"`
}

func (r *UsersRepo) Login(ctx context.Context, in users.LoginPayload) (string, error) {
	out, err := httpclient.Do[loginResponse](ctx, r.c, "/api/login", httpclient.RequestOptions{
		Method: "POST",
		Body:   in,
	})
	if err != nil {
		return "", err
	}
	return out.Token, nil
}

// Me depende de que el gateway tenga un TokenSource configurado.
func (r *UsersRepo) Me(ctx context.Context) (users.User, error) {
	return httpclient.Do[users.User](ctx, r.c, "/api/users/me", httpclient.RequestOptions{})
}

func (r *UsersRepo) Register(ctx context.Context, in users.RegisterPayload) (users.User, error) {
	return httpclient.Do[users.User](ctx, r.c, "/api/users/cadastrar", httpclient.RequestOptions{
		Method: "POST",
		Body:   in,
	})
}

var _ users.Repository = (*UsersRepo)(nil)
