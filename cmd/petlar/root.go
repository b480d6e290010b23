package main

import (
	"io"
	"time"

	"github.com/spf13/cobra"

	"petlar-client/internal/platform/config"
)

func newRootCmd(out io.Writer) *cobra.Command {
	a := newApp(out)

	root := &cobra.Command{
		Use:   "petlar",
		Short: "PetLar - cliente de adoção de animais",
		Long: `Cliente de linha de comando para a API do PetLar.

Lista animais por espécie, mostra detalhes, cadastra animais e gerencia a
sessão do usuário. A configuração vem de flags, variáveis PETLAR_* ou de um
arquivo (--config).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.teardown()
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.String("config", "", "arquivo de configuração (yaml, json ou toml)")
	pf.String("api-url", "", "URL base da API do PetLar (env PETLAR_API_URL ou VITE_API_URL)")
	pf.String("api-layout", "animals", "layout das rotas: animals (/api/animals) ou species (/dogs, /cats...)")
	pf.String("token-file", "", "onde o token da sessão é guardado (padrão: diretório de config do usuário)")
	pf.String("log-level", "warn", "debug|info|warn|error")
	pf.String("log-format", "text", "text|json")
	pf.Duration("http-timeout", 0, "timeout HTTP por requisição (0 = sem limite)")
	pf.Duration("fetch-delay", 300*time.Millisecond, "latência mínima aplicada às buscas bem-sucedidas")
	pf.String("metrics-addr", "", "expõe métricas Prometheus neste endereço enquanto o comando roda")

	bind := map[string]string{
		"config":              "config",
		config.KeyAPIURL:      "api-url",
		config.KeyAPILayout:   "api-layout",
		config.KeyTokenFile:   "token-file",
		config.KeyLogLevel:    "log-level",
		config.KeyLogFormat:   "log-format",
		config.KeyHTTPTimeout: "http-timeout",
		config.KeyFetchDelay:  "fetch-delay",
		config.KeyMetricsAddr: "metrics-addr",
	}
	for key, flag := range bind {
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		newAnimalsCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newMeCmd(a),
		newRegisterCmd(a),
		newMockServerCmd(a),
	)
	return root
}
