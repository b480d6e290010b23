package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"petlar-client/internal/adapters/api"
	"petlar-client/internal/adapters/session/cookiefile"
	"petlar-client/internal/domain/animals"
	"petlar-client/internal/domain/users"
	"petlar-client/internal/platform/config"
	"petlar-client/internal/platform/httpclient"
	"petlar-client/internal/platform/logger"
	"petlar-client/internal/platform/telemetry"
	"petlar-client/internal/query"
	"petlar-client/internal/store"
)

// app es el cableado compartido por todos los comandos.
type app struct {
	v   *viper.Viper
	out io.Writer

	cfg config.Config
	log logger.Logger

	gw      *httpclient.Client
	layout  api.Layout
	session *store.Session
	theme   *store.Store[store.ThemeState]

	// animal seleccionado para el detalle
	selection *store.Store[store.SelectionState]
	// caché de queries de esta ejecución; las mutaciones la invalidan
	queries   *query.Client

	registry   *prometheus.Registry
	metricsSrv *http.Server
}

func newApp(out io.Writer) *app {
	return &app{
		v:         config.New(),
		out:       out,
		log:       logger.Nop(),
		theme:     store.New(store.InitialTheme(), store.ThemeReducer),
		selection: store.New(store.SelectionState{}, store.SelectionReducer),
	}
}

// setup corre en PersistentPreRunE: config, logger, sesión, gateway y métricas.
func (a *app) setup(cmd *cobra.Command) error {
	if err := config.ReadFile(a.v, a.v.GetString("config")); err != nil {
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.log = logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    "petlar",
	})

	a.layout, err = api.ParseLayout(cfg.APILayout)
	if err != nil {
		return err
	}

	tokenPath := cfg.TokenFile
	if tokenPath == "" {
		if tokenPath, err = cookiefile.DefaultPath(); err != nil {
			return err
		}
	}
	tokens, err := cookiefile.NewFileStore(tokenPath)
	if err != nil {
		return err
	}
	a.session, err = store.NewSession(tokens, a.log)
	if err != nil {
		return err
	}

	metrics := telemetry.NewMetrics()
	a.registry = prometheus.NewRegistry()
	if err := metrics.Register(a.registry); err != nil {
		return err
	}

	a.gw, err = httpclient.New(httpclient.Config{
		BaseURL:  cfg.APIURL,
		Timeout:  cfg.HTTPTimeout,
		Token:    a.session.Token,
		Observer: metrics,
		Logger:   a.log,
	})
	if err != nil {
		return err
	}

	if cfg.MetricsAddr != "" {
		if err := a.serveMetrics(cfg.MetricsAddr); err != nil {
			return err
		}
	}

	a.log.Debug("configured", map[string]any{
		"api_url": cfg.APIURL,
		"layout":  cfg.APILayout,
		"command": cmd.CommandPath(),
	})
	return nil
}

func (a *app) serveMetrics(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listen: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", telemetry.Handler(a.registry))
	a.metricsSrv = &http.Server{
		Handler:     mux,
		ReadTimeout: 5 * time.Second,
	}
	go func() {
		if err := a.metricsSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("metrics server", map[string]any{"err": err})
		}
	}()
	a.log.Info("metrics listening", map[string]any{"addr": ln.Addr().String()})
	return nil
}

func (a *app) teardown() {
	if a.queries != nil {
		a.queries.Close()
	}
	if a.metricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = a.metricsSrv.Shutdown(ctx)
	}
	_ = a.log.Sync()
}

func (a *app) animalsRepo(species animals.Species) *api.AnimalsRepo {
	repo := api.NewAnimalsRepo(a.gw, a.layout)
	if species != "" {
		repo = repo.WithSpecies(species)
	}
	return repo
}

func (a *app) queryClient() *query.Client {
	if a.queries == nil {
		a.queries = query.NewClient(query.Config{
			StaleTime: a.cfg.StaleTime,
			CacheTTL:  a.cfg.CacheTTL,
			Logger:    a.log,
		})
	}
	return a.queries
}

func (a *app) usersService() *users.Service {
	return users.NewService(api.NewUsersRepo(a.gw), a.session)
}

// useSpecies cambia el tema según la especie consultada.
func (a *app) useSpecies(s animals.Species) {
	if s != "" {
		a.theme.Dispatch(store.ChangeTheme(string(s)))
	}
}

func (a *app) renderer() renderer {
	return newRenderer(a.out, a.theme.State().Theme)
}
