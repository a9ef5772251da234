package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/storage"
)

// Provider implements an in-memory upload storage
type Provider struct {
	uploads map[string][]byte
	mutex   sync.RWMutex
}

// Put stores an upload
func (p *Provider) Put(ctx context.Context, key string, data []byte) error {
	name, err := storage.Key(key)
	if err != nil {
		return err
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.uploads == nil {
		p.uploads = make(map[string][]byte)
	}
	p.uploads[name] = data

	return nil
}

// Get returns an upload
func (p *Provider) Get(ctx context.Context, key string) ([]byte, error) {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	data, ok := p.uploads[key]
	if !ok {
		return nil, storage.ErrNotFound
	}

	return data, nil
}

// Broken is an upload storage where every operation fails
type Broken struct{}

// Put returns an error
func (b *Broken) Put(ctx context.Context, key string, data []byte) error {
	return fmt.Errorf("put error")
}

// Get returns an error
func (b *Broken) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, fmt.Errorf("get error")
}
