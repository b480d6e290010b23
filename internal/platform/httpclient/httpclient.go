package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"petlar-client/internal/platform/logger"
)

// FallbackMessage es el mensaje cuando una respuesta no-2xx llega sin body.
const FallbackMessage = "Erro ao fazer a requisição"

// maxBody limita lo que se lee de una respuesta (errores y JSON).
const maxBody = 4 << 20

// TokenSource devuelve el token actual; "" = sin Authorization.
type TokenSource func() string

// Observer recibe una medición por request. status == 0 => fallo de transporte.
type Observer interface {
	ObserveRequest(method string, status int, dur time.Duration)
}

type Config struct {
	BaseURL string
	// Timeout del *http.Client. 0 = sin timeout en esta capa.
	Timeout time.Duration
	// Transport opcional (tests).
	Transport http.RoundTripper

	Token    TokenSource
	Observer Observer
	Logger   logger.Logger
}

// Client es el gateway: un request HTTP por invocación contra un único BaseURL.
type Client struct {
	HTTP    *http.Client
	BaseURL string

	token    TokenSource
	observer Observer
	log      logger.Logger
}

// New valida BaseURL y construye el gateway.
func New(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, errors.New("httpclient: base url required")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("httpclient: invalid base url: %w", err)
	}

	tr := cfg.Transport
	if tr == nil {
		tr = http.DefaultTransport
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Client{
		HTTP: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: tr,
		},
		BaseURL:  strings.TrimRight(base, "/"),
		token:    cfg.Token,
		observer: cfg.Observer,
		log:      log.With(map[string]any{"component": "httpclient"}),
	}, nil
}

// HTTPError representa una respuesta no-2xx.
// Body guarda el texto crudo de la respuesta; Error() lo devuelve tal cual, o
// FallbackMessage si vino vacío o solo con espacios.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if strings.TrimSpace(e.Body) == "" {
		return FallbackMessage
	}
	return e.Body
}

// Message extrae "message" cuando el body es un ErrorResponse del backend
// ({timestamp, path, status, message}); si no, devuelve Error().
func (e *HTTPError) Message() string {
	if gjson.Valid(e.Body) {
		if m := gjson.Get(e.Body, "message"); m.Type == gjson.String && strings.TrimSpace(m.String()) != "" {
			return m.String()
		}
	}
	return e.Error()
}

// StatusOf devuelve el status HTTP de err si es un *HTTPError, o 0.
func StatusOf(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode
	}
	return 0
}

type RequestOptions struct {
	// Method por defecto GET.
	Method  string
	Headers map[string]string
	// Body se serializa a JSON si no es nil.
	Body any
}

// Do es la variante genérica de Request: el tipo de respuesta lo declara el caller
// y no se valida contra ningún schema.
func Do[T any](ctx context.Context, c *Client, endpoint string, opts RequestOptions) (T, error) {
	var out T
	if err := c.Request(ctx, endpoint, opts, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Request hace exactamente un request JSON.
// - endpoint: path relativo a BaseURL (o URL absoluta)
// - out: donde decodificar JSON (opcional). Si nil => ignora body.
// Retorna *HTTPError si status no es 2xx.
func (c *Client) Request(ctx context.Context, endpoint string, opts RequestOptions, out any) error {
	if c == nil || c.HTTP == nil {
		return errors.New("httpclient: nil client")
	}

	fullURL, err := c.resolveURL(endpoint)
	if err != nil {
		return err
	}

	method := strings.ToUpper(strings.TrimSpace(opts.Method))
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if opts.Body != nil {
		b, err := json.Marshal(opts.Body)
		if err != nil {
			return fmt.Errorf("httpclient: marshal json: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return fmt.Errorf("httpclient: new request: %w", err)
	}

	// Defaults
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if c.token != nil {
		if tok := strings.TrimSpace(c.token()); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	// Extra headers
	for k, v := range opts.Headers {
		if strings.TrimSpace(k) == "" {
			continue
		}
		req.Header.Set(k, v)
	}

	log := c.log.With(map[string]any{
		"method":     method,
		"endpoint":   endpoint,
		"request_id": req.Header.Get("X-Request-Id"),
	})

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.observe(method, 0, time.Since(start))
		log.Debug("request failed", map[string]any{"err": err})
		return fmt.Errorf("httpclient: do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	c.observe(method, resp.StatusCode, time.Since(start))
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	log.Debug("response", map[string]any{
		"status": resp.StatusCode,
		"dur":    time.Since(start).String(),
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Body:       string(raw),
		}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("httpclient: unmarshal json: %w", err)
	}
	return nil
}

func (c *Client) observe(method string, status int, dur time.Duration) {
	if c.observer != nil {
		c.observer.ObserveRequest(method, status, dur)
	}
}

func (c *Client) resolveURL(endpoint string) (string, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "", errors.New("httpclient: empty endpoint")
	}

	// Si ya es URL absoluta, úsala tal cual.
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint, nil
	}

	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return c.BaseURL + endpoint, nil
}
