package mocks

import (
	"context"
	"testing"
	"time"

	sharedCache "github.com/davicafu/pagesort/shared/platform/cache"
)

// NewCache devuelve una caché en memoria que se cierra al acabar el test.
func NewCache(t testing.TB) *sharedCache.MemoryCache {
	c := sharedCache.NewMemoryCache(time.Minute, time.Minute)
	t.Cleanup(c.Close)
	return c
}

// BrokenCache falla en todas las operaciones con Err.
type BrokenCache struct {
	Err error
}

func (c BrokenCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	return false, c.Err
}

func (c BrokenCache) Set(ctx context.Context, key string, val interface{}, ttlSecs int) error {
	return c.Err
}

func (c BrokenCache) Delete(ctx context.Context, key string) error {
	return c.Err
}

var _ sharedCache.Cache = BrokenCache{}
