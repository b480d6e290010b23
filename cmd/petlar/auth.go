package main

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"petlar-client/internal/domain/users"
	"petlar-client/internal/query"
)

const userDataKey = "user-data"

func newLoginCmd(a *app) *cobra.Command {
	var in users.LoginPayload
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Entra e guarda o token da sessão",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := a.usersService().Login(cmd.Context(), in)
			switch {
			case errors.Is(err, users.ErrInvalidInput):
				return errors.New("email e senha são obrigatórios")
			case err != nil:
				return errors.New(errorText(err))
			}
			a.renderer().message("Bem-vindo, %s!", resp.User.Name)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Email, "email", "", "e-mail")
	f.StringVar(&in.Password, "password", "", "senha")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Encerra a sessão local",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if err := a.usersService().Logout(); err != nil {
				return err
			}
			a.renderer().message("Sessão encerrada.")
			return nil
		},
	}
}

func newMeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Mostra o usuário da sessão",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := a.usersService()

			// sin token no se consulta
			q := query.Observe(cmd.Context(), a.queryClient(), query.Options[users.User]{
				Key:      query.Key{Name: userDataKey},
				Disabled: strings.TrimSpace(a.session.Token()) == "",
				Fn: func(ctx context.Context) (users.User, error) {
					return svc.Me(ctx)
				},
			})
			defer q.Close()

			st, err := q.Await(cmd.Context())
			if err != nil {
				return err
			}
			if st.IsError {
				return errors.New(errorText(st.Err))
			}
			if !st.HasData {
				return errors.New("não autenticado: use petlar login")
			}
			a.renderer().user(st.Data)
			return nil
		},
	}
}

func newRegisterCmd(a *app) *cobra.Command {
	var in users.RegisterPayload
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Cria uma conta",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := a.usersService().Register(cmd.Context(), in)
			switch {
			case errors.Is(err, users.ErrInvalidInput):
				return errors.New("nome, email e senha são obrigatórios e as senhas devem coincidir")
			case err != nil:
				return errors.New(errorText(err))
			}
			a.renderer().message("Conta criada para %s. Faça login para continuar.", u.Email)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Name, "name", "", "nome completo")
	f.StringVar(&in.Email, "email", "", "e-mail")
	f.StringVar(&in.Password, "password", "", "senha")
	f.StringVar(&in.ConfirmPassword, "confirm-password", "", "confirmação da senha")
	f.StringVar(&in.Phone, "phone", "", "telefone")
	return cmd
}
