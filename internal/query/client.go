// Package query es la variante "librería de queries": caché por clave,
// deduplicación de requests en vuelo, stale-while-revalidate, refetch en
// segundo plano y mutaciones.
package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gohugoio/hashstructure"
	"github.com/jellydator/ttlcache/v3"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/singleflight"

	"petlar-client/internal/platform/logger"
)

const (
	DefaultStaleTime = 30 * time.Second
	DefaultCacheTTL  = 5 * time.Minute
)

// Key identifica un recurso lógico: nombre + parámetros (filtros, id).
type Key struct {
	Name   string
	Params any
}

// String es determinista para parámetros iguales en valor.
func (k Key) String() string {
	if k.Params == nil {
		return k.Name
	}
	h, err := hashstructure.Hash(k.Params, nil)
	if err != nil {
		// parámetros no hasheables: caemos a su representación textual
		return fmt.Sprintf("%s#%v", k.Name, k.Params)
	}
	return fmt.Sprintf("%s#%x", k.Name, h)
}

type entry struct {
	value     any
	updatedAt time.Time
}

type Config struct {
	// StaleTime: datos más nuevos que esto no se vuelven a pedir al observar.
	StaleTime time.Duration
	// CacheTTL: cuánto vive una entrada sin uso.
	CacheTTL time.Duration
	Logger   logger.Logger
}

// Client es la caché compartida entre queries.
type Client struct {
	cache     *ttlcache.Cache[string, entry]
	group     singleflight.Group
	sched     *cron.Cron
	staleTime time.Duration
	log       logger.Logger
	now       func() time.Time

	// life acota los fetch compartidos: vive hasta Close.
	life context.Context
	stop context.CancelFunc
}

func NewClient(cfg Config) *Client {
	if cfg.StaleTime <= 0 {
		cfg.StaleTime = DefaultStaleTime
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	life, stop := context.WithCancel(context.Background())
	c := &Client{
		cache: ttlcache.New[string, entry](
			ttlcache.WithTTL[string, entry](cfg.CacheTTL),
		),
		sched:     cron.New(),
		staleTime: cfg.StaleTime,
		log:       log.With(map[string]any{"component": "query"}),
		now:       time.Now,
		life:      life,
		stop:      stop,
	}
	go c.cache.Start()
	c.sched.Start()
	return c
}

// Close detiene el refetch programado, cancela los fetch en vuelo y la
// expiración de la caché.
func (c *Client) Close() {
	<-c.sched.Stop().Done()
	c.stop()
	c.cache.Stop()
}

// Fetch ejecuta fn una sola vez por clave aunque haya llamadas concurrentes,
// y guarda el resultado en la caché.
//
// La llamada compartida no depende del ctx de quien la inició: corre hasta
// terminar o hasta Close del Client. ctx solo acota la espera de este llamador.
func Fetch[T any](ctx context.Context, c *Client, key Key, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	k := key.String()
	ch := c.group.DoChan(k, func() (any, error) {
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		defer cancel()
		unlink := context.AfterFunc(c.life, cancel)
		defer unlink()

		val, err := fn(fctx)
		if err != nil {
			return nil, err
		}
		c.cache.Set(k, entry{value: val, updatedAt: c.now()}, ttlcache.DefaultTTL)
		return val, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return zero, ctx.Err()
	}
	if res.Err != nil {
		return zero, res.Err
	}
	if res.Shared {
		c.log.Debug("deduplicated fetch", map[string]any{"key": k})
	}
	v := res.Val
	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("query: cached value for %s has type %T", k, v)
	}
	return out, nil
}

// Cached devuelve el valor en caché y cuándo se obtuvo.
func Cached[T any](c *Client, key Key) (T, time.Time, bool) {
	var zero T
	item := c.cache.Get(key.String())
	if item == nil {
		return zero, time.Time{}, false
	}
	e := item.Value()
	v, ok := e.value.(T)
	if !ok {
		return zero, time.Time{}, false
	}
	return v, e.updatedAt, true
}

// SetData reemplaza el valor en caché (p.ej. tras una mutación).
func SetData[T any](c *Client, key Key, v T) {
	c.cache.Set(key.String(), entry{value: v, updatedAt: c.now()}, ttlcache.DefaultTTL)
}

// Invalidate borra todas las entradas de un recurso lógico (todas sus variantes
// de parámetros). Las queries observadas vuelven a pedir en su próximo refetch.
func (c *Client) Invalidate(name string) int {
	n := 0
	for _, k := range c.cache.Keys() {
		if k == name || strings.HasPrefix(k, name+"#") {
			c.cache.Delete(k)
			n++
		}
	}
	return n
}

func (c *Client) isStale(updatedAt time.Time, staleTime time.Duration) bool {
	if staleTime <= 0 {
		staleTime = c.staleTime
	}
	return c.now().Sub(updatedAt) >= staleTime
}
