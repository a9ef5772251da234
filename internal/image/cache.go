package image

import (
	"fmt"

	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/cache"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/tracing"
	"github.com/twmb/murmur3"
)

// Cache is a cache of processed images
type Cache = cache.Auto

// NewCache instantiates a new cache
func NewCache(tracer *tracing.Tracer, cacheProvider cache.Provider) *Cache {
	return &Cache{
		Tracer:   tracer,
		Provider: cacheProvider,
	}
}

// CacheKey returns the cache key of the result of a task run on the given upload
func CacheKey(upload []byte, task *Task) string {
	h := murmur3.New128()
	h.Write(upload)
	h.Write([]byte(task.Canonical()))

	h1, h2 := h.Sum128()
	return fmt.Sprintf("result:%016x%016x", h1, h2)
}
