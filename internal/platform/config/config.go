// Package config arma la configuración del cliente con viper:
// defaults < archivo (opcional) < variables PETLAR_* < flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "PETLAR"

// Claves
const (
	KeyAPIURL          = "api_url"
	KeyAPILayout       = "api_layout"
	KeyFetchDelay      = "fetch_delay"
	KeyRefetchInterval = "refetch_interval"
	KeyStaleTime       = "stale_time"
	KeyCacheTTL        = "cache_ttl"
	KeyHTTPTimeout     = "http_timeout"
	KeyTokenFile       = "token_file"
	KeyLogLevel        = "log_level"
	KeyLogFormat       = "log_format"
	KeyMetricsAddr     = "metrics_addr"
	KeyMockAddr        = "mock_addr"
	KeyMockSecret      = "mock_secret"
	KeyMockDatabaseURL = "mock_database_url"
)

// LegacyAPIURLEnv es la variable que usaba el cliente web; se respeta si
// PETLAR_API_URL no está.
const LegacyAPIURLEnv = "VITE_API_URL"

const DefaultAPIURL = "http://localhost:8080"

type Config struct {
	APIURL          string
	APILayout       string
	FetchDelay      time.Duration
	RefetchInterval time.Duration
	StaleTime       time.Duration
	CacheTTL        time.Duration
	HTTPTimeout     time.Duration
	TokenFile       string
	LogLevel        string
	LogFormat       string
	MetricsAddr     string
	MockAddr        string
	MockSecret      string
	// MockDatabaseURL vacío => el mock-server guarda en memoria.
	MockDatabaseURL string
}

// New devuelve un viper con defaults y env ya configurados.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyAPIURL, "")
	v.SetDefault(KeyAPILayout, "animals")
	v.SetDefault(KeyFetchDelay, 300*time.Millisecond)
	v.SetDefault(KeyRefetchInterval, 5*time.Minute)
	v.SetDefault(KeyStaleTime, 30*time.Second)
	v.SetDefault(KeyCacheTTL, 5*time.Minute)
	v.SetDefault(KeyHTTPTimeout, time.Duration(0))
	v.SetDefault(KeyTokenFile, "")
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyMetricsAddr, "")
	v.SetDefault(KeyMockAddr, ":8080")
	v.SetDefault(KeyMockSecret, "")
	v.SetDefault(KeyMockDatabaseURL, "")
}

// ReadFile carga un archivo de config (yaml, json, toml). path vacío => nada.
func ReadFile(v *viper.Viper, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	return nil
}

// Load lee y valida.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		APIURL:          strings.TrimSpace(v.GetString(KeyAPIURL)),
		APILayout:       strings.ToLower(strings.TrimSpace(v.GetString(KeyAPILayout))),
		FetchDelay:      v.GetDuration(KeyFetchDelay),
		RefetchInterval: v.GetDuration(KeyRefetchInterval),
		StaleTime:       v.GetDuration(KeyStaleTime),
		CacheTTL:        v.GetDuration(KeyCacheTTL),
		HTTPTimeout:     v.GetDuration(KeyHTTPTimeout),
		TokenFile:       strings.TrimSpace(v.GetString(KeyTokenFile)),
		LogLevel:        v.GetString(KeyLogLevel),
		LogFormat:       v.GetString(KeyLogFormat),
		MetricsAddr:     strings.TrimSpace(v.GetString(KeyMetricsAddr)),
		MockAddr:        strings.TrimSpace(v.GetString(KeyMockAddr)),
		MockSecret:      v.GetString(KeyMockSecret),
		MockDatabaseURL: strings.TrimSpace(v.GetString(KeyMockDatabaseURL)),
	}

	if cfg.APIURL == "" {
		cfg.APIURL = strings.TrimSpace(os.Getenv(LegacyAPIURLEnv))
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: %s must be an absolute http(s) url, got %q", KeyAPIURL, c.APIURL)
	}
	switch c.APILayout {
	case "animals", "species":
	default:
		return fmt.Errorf("config: %s must be animals or species, got %q", KeyAPILayout, c.APILayout)
	}

	var errs []error
	if c.FetchDelay < 0 {
		errs = append(errs, fmt.Errorf("config: %s must be >= 0", KeyFetchDelay))
	}
	if c.RefetchInterval != 0 && c.RefetchInterval < time.Second {
		errs = append(errs, fmt.Errorf("config: %s must be 0 or >= 1s", KeyRefetchInterval))
	}
	if c.StaleTime < 0 || c.CacheTTL < 0 || c.HTTPTimeout < 0 {
		errs = append(errs, errors.New("config: durations must be >= 0"))
	}
	return errors.Join(errs...)
}
