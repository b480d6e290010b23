package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"petlar-client/internal/domain/animals"
	"petlar-client/internal/fetch"
	"petlar-client/internal/platform/httpclient"
	"petlar-client/internal/platform/paging"
	"petlar-client/internal/query"
	"petlar-client/internal/store"
)

// Recurso lógico del listado en la caché de queries.
const animalsDataKey = "animals-data"

func newAnimalsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "animals",
		Aliases: []string{"animais"},
		Short:   "Lista, mostra e cadastra animais",
	}
	cmd.AddCommand(
		newAnimalsListCmd(a),
		newAnimalsGetCmd(a),
		newAnimalsCreateCmd(a),
	)
	return cmd
}

// parseType acepta el tipo del backend (CACHORRO) o la especie de la ruta (dogs).
func parseType(s string) (animals.Type, animals.Species, error) {
	if strings.TrimSpace(s) == "" {
		return "", "", nil
	}
	sp, t, ok := animals.ParseSpecies(s)
	if !ok {
		return "", "", fmt.Errorf("tipo desconhecido: %q", s)
	}
	return t, sp, nil
}

func parseStatus(s string) (animals.AdoptionStatus, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	st, ok := animals.ParseStatus(s)
	if !ok {
		return "", fmt.Errorf("status inválido: %q", s)
	}
	return st, nil
}

func newAnimalsListCmd(a *app) *cobra.Command {
	var (
		status string
		typ    string
		watch  bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Lista animais (filtra por status e tipo)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := parseStatus(status)
			if err != nil {
				return err
			}
			t, sp, err := parseType(typ)
			if err != nil {
				return err
			}
			a.useSpecies(sp)

			filter := animals.Filter{Status: st, Type: t}
			svc := animals.NewService(a.animalsRepo(sp))

			opts := query.Options[paging.Page[animals.Animal]]{
				Key: query.Key{Name: animalsDataKey, Params: filter},
				Fn: func(ctx context.Context) (paging.Page[animals.Animal], error) {
					return svc.List(ctx, filter)
				},
			}
			if watch {
				opts.RefetchInterval = a.cfg.RefetchInterval
			}

			q := query.Observe(cmd.Context(), a.queryClient(), opts)
			defer q.Close()

			if !watch {
				res, err := q.Await(cmd.Context())
				if err != nil {
					return err
				}
				return renderPage(a, res)
			}
			return watchQuery(cmd.Context(), q, func(res query.State[paging.Page[animals.Animal]]) {
				if err := renderPage(a, res); err != nil {
					a.renderer().message("%s", errorText(err))
				}
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&status, "status", "", "Disponível | Adotado")
	f.StringVar(&typ, "type", "", "CACHORRO | GATO | PASSARO | OUTRO (ou dogs, cats, birds, others)")
	f.BoolVarP(&watch, "watch", "w", false, "continua escutando e imprime cada atualização (usa refetch_interval)")
	return cmd
}

func renderPage(a *app, res query.State[paging.Page[animals.Animal]]) error {
	if res.IsError && !res.HasData {
		return errors.New(errorText(res.Err))
	}
	a.renderer().animalList(res.Data.Content, res.Data.PageInfo)
	return nil
}

// watchQuery imprime cada vez que llegan datos nuevos hasta que ctx termine.
func watchQuery[T any](ctx context.Context, q *query.Query[T], show func(query.State[T])) error {
	var last time.Time
	for {
		ch := q.Changes()
		st := q.State()
		if !st.IsFetching && st.HasData && st.UpdatedAt.After(last) {
			last = st.UpdatedAt
			show(st)
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return nil
		}
	}
}

func newAnimalsGetCmd(a *app) *cobra.Command {
	var typ string
	cmd := &cobra.Command{
		Use:   "get ID",
		Short: "Mostra os detalhes de um animal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sp, err := parseType(typ)
			if err != nil {
				return err
			}
			a.useSpecies(sp)

			a.selection.Dispatch(store.SetID(args[0]))
			endpoint, err := a.animalsRepo(sp).DetailEndpoint(a.selection.State().ID)
			if err != nil {
				return err
			}

			f := fetch.New(
				fetch.JSONLoader[paging.Result[animals.Animal]](a.gw),
				fetch.WithDelay(a.cfg.FetchDelay),
				fetch.WithLogger(a.log),
				fetch.WithContext(cmd.Context()),
			)
			defer f.Close()

			f.SetEndpoint(endpoint)
			st, err := f.Await(cmd.Context())
			if err != nil {
				return err
			}
			if st.Failed() {
				return errors.New((&httpclient.HTTPError{Body: st.Error}).Message())
			}

			switch st.Data.Kind {
			case paging.KindSingle:
				a.renderer().animal(st.Data.Single)
			case paging.KindList:
				a.renderer().animalList(st.Data.List, pageInfoOf(st.Data))
			default:
				a.renderer().message("Animal não encontrado")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "espécie do animal (obrigatória com --api-layout species)")
	return cmd
}

func pageInfoOf(r paging.Result[animals.Animal]) paging.PageInfo {
	if r.Page != nil {
		return *r.Page
	}
	return paging.NewPage(r.List, 0, 0).PageInfo
}

func newAnimalsCreateCmd(a *app) *cobra.Command {
	var (
		in       animals.CreateAnimal
		typ      string
		sex      string
		size     string
		weightKg float64
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Cadastra um animal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, sp, err := parseType(typ)
			if err != nil {
				return err
			}
			a.useSpecies(sp)

			in.Type = t
			in.Sex = animals.Sex(strings.TrimSpace(sex))
			in.Size = animals.Size(strings.TrimSpace(size))
			if cmd.Flags().Changed("weight-kg") {
				w := animals.FromKilograms(weightKg)
				in.Weight = &w
			}

			created, err := a.createAnimal(cmd.Context(), sp, in)
			if err != nil {
				if errors.Is(err, animals.ErrInvalidInput) {
					return errors.New("nome obrigatório e idade não negativa")
				}
				return errors.New(errorText(err))
			}

			r := a.renderer()
			r.message("Animal cadastrado com sucesso!")
			r.animal(created)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Name, "name", "", "nome")
	f.StringVar(&typ, "type", "", "CACHORRO | GATO | PASSARO | OUTRO (ou dogs, cats, birds, others)")
	f.IntVar(&in.Age, "age", 0, "idade em meses")
	f.StringVar(&in.Breed, "breed", "", "raça")
	f.StringVar(&sex, "sex", "", "Macho | Fêmea")
	f.Float64Var(&weightKg, "weight-kg", 0, "peso em quilos (ex.: 12.5)")
	f.StringVar(&size, "size", "", "Pequeno | Médio | Grande")
	f.StringVar(&in.Description, "description", "", "descrição")
	f.StringVar(&in.URLImage, "image", "", "URL da imagem")
	f.StringVar(&in.Author, "author", "", "nome do responsável")
	f.StringVar(&in.Phone, "phone", "", "telefone de contato")
	return cmd
}

// createAnimal cadastra y deja las listas en caché invalidadas.
func (a *app) createAnimal(ctx context.Context, sp animals.Species, in animals.CreateAnimal) (animals.Animal, error) {
	svc := animals.NewService(a.animalsRepo(sp))
	m := query.NewMutation(query.MutationOptions[animals.CreateAnimal, animals.Animal]{
		Fn:          svc.Create,
		Delay:       a.cfg.FetchDelay,
		Client:      a.queryClient(),
		Invalidates: []string{animalsDataKey},
		OnError: func(err error, in animals.CreateAnimal) {
			a.log.Warn("create animal failed", map[string]any{"name": in.Name, "err": err})
		},
	})
	return m.Mutate(ctx, in)
}

// errorText prioriza el mensaje del backend si el error vino de la API.
func errorText(err error) string {
	var he *httpclient.HTTPError
	if errors.As(err, &he) {
		return he.Message()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
