package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"petlar-client/internal/adapters/auth/jwtauth"
	"petlar-client/internal/adapters/fakeapi"
	mem "petlar-client/internal/adapters/storage/memory"
	"petlar-client/internal/adapters/storage/postgres"
	"petlar-client/internal/platform/config"
	"petlar-client/internal/ports/backend"
)

func newMockServerCmd(a *app) *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "mock-server",
		Short: "Sobe um backend PetLar de desenvolvimento (memória ou Postgres)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			secret := a.cfg.MockSecret
			if secret == "" {
				secret = uuid.NewString()
			}
			tokens, err := jwtauth.New(jwtauth.Config{Secret: secret})
			if err != nil {
				return err
			}

			animalStore, userStore, closeStores, err := a.mockStores(ctx)
			if err != nil {
				return err
			}
			defer closeStores()

			if seed {
				if err := fakeapi.Seed(ctx, animalStore); err != nil {
					return err
				}
			}

			h, err := fakeapi.NewRouter(fakeapi.Options{
				Tokens:  tokens,
				Animals: animalStore,
				Users:   userStore,
				Logger:  a.log,
			})
			if err != nil {
				return err
			}
			return serve(ctx, a, a.cfg.MockAddr, h)
		},
	}
	f := cmd.Flags()
	f.String("addr", ":8080", "endereço de escuta")
	f.String("secret", "", "segredo para assinar o JWT (aleatório se vazio)")
	f.String("database-url", "", "DSN do Postgres; em memória se vazio")
	f.BoolVar(&seed, "seed", true, "carrega animais de demonstração")
	_ = a.v.BindPFlag(config.KeyMockAddr, f.Lookup("addr"))
	_ = a.v.BindPFlag(config.KeyMockSecret, f.Lookup("secret"))
	_ = a.v.BindPFlag(config.KeyMockDatabaseURL, f.Lookup("database-url"))
	return cmd
}

func (a *app) mockStores(ctx context.Context) (backend.AnimalStore, backend.UserStore, func(), error) {
	if a.cfg.MockDatabaseURL == "" {
		return mem.NewAnimalRepo(), mem.NewUserRepo(0), func() {}, nil
	}

	db, err := postgres.Open(ctx, a.cfg.MockDatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, nil, err
	}
	a.log.Info("mock server using postgres", nil)
	return postgres.NewAnimalsRepo(db), postgres.NewUsersRepo(db, 0), func() { _ = db.Close() }, nil
}

// serve corre hasta que ctx se cancele y luego apaga con gracia.
func serve(ctx context.Context, a *app, addr string, h http.Handler) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:      h,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	a.log.Info("mock server listening", map[string]any{"addr": ln.Addr().String()})
	a.renderer().message("PetLar mock em http://%s", ln.Addr().String())

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	<-errc
	return nil
}
