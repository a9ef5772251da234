package mock

import (
	"context"
	"sync"

	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/cache"
)

// Provider is a cache with canned results, keys without an entry are misses
type Provider struct {
	// Entries are returned as hits
	Entries map[string][]byte
	// GetErrors and SetErrors are returned for their keys
	GetErrors map[string]error
	SetErrors map[string]error

	mutex sync.Mutex
	sets  []string
}

// Get returns the canned result for a key
func (p *Provider) Get(ctx context.Context, key string) (data []byte, err error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if err, ok := p.GetErrors[key]; ok {
		return nil, err
	}

	if data, ok := p.Entries[key]; ok {
		return data, nil
	}

	return nil, cache.ErrNotFound
}

// Set records the key, it doesn't turn later lookups into hits
func (p *Provider) Set(ctx context.Context, key string, data []byte) (err error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if err, ok := p.SetErrors[key]; ok {
		return err
	}

	p.sets = append(p.sets, key)
	return nil
}

// Sets returns the keys that were successfully set, in order
func (p *Provider) Sets() []string {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return append([]string(nil), p.sets...)
}

// Shutdown shuts down the cache
func (p *Provider) Shutdown() {}
