package cache

import (
	"context"
	"errors"

	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/tracing"
	"golang.org/x/sync/singleflight"
)

// Provider is an interface for getting and setting cached objects
type Provider interface {
	Get(ctx context.Context, key string) (data []byte, err error)
	Set(ctx context.Context, key string, data []byte) (err error)
	Shutdown()
}

// LoaderFunc is a function for loading data into a cache
type LoaderFunc func(ctx context.Context, key string) (data []byte, err error)

// Auto is a cache that automatically attempts to load objects if they don't exist
type Auto struct {
	Tracer      *tracing.Tracer
	Provider    Provider
	Loader      LoaderFunc
	lookupGroup singleflight.Group
}

// Get returns an object from the cache if it exists, otherwise it loads it with the Loader
func (a *Auto) Get(ctx context.Context, key string) (data []byte, err error) {
	return a.Load(ctx, key, a.Loader)
}

// Load returns an object from the cache if it exists, otherwise it loads it with the given loader
// and stores it. Concurrent loads of the same key are collapsed into one, loader errors are returned
// to every waiting caller and never stored.
func (a *Auto) Load(ctx context.Context, key string, loader LoaderFunc) (data []byte, err error) {
	ctx, span := a.Tracer.Start(ctx, "cache.Auto.Load")
	defer span.End()

	data, err = a.Provider.Get(ctx, key)
	// Exit early on a hit, or if the provider failed for another reason than a miss
	if !errors.Is(err, ErrNotFound) || loader == nil {
		return
	}

	// Use singleflight to avoid concurrent loads of the same key
	var v interface{}
	v, err, _ = a.lookupGroup.Do(key, func() (interface{}, error) {
		data, err := loader(ctx, key)
		if err != nil {
			return nil, err
		}

		err = a.Provider.Set(ctx, key, data)
		if err != nil {
			return nil, err
		}

		return data, nil
	})

	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	data, _ = v.([]byte)
	return
}

// Errors
var (
	ErrNotFound = errors.New("not found in cache")
)
