package memory

import (
	"container/list"
	"context"
	"sync"

	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/cache"
)

// Provider implements an in-memory cache that evicts the least recently used entry when full
type Provider struct {
	maxEntries int
	entries    map[string]*list.Element
	order      *list.List
	mutex      sync.Mutex
}

type entry struct {
	key  string
	data []byte
}

// New returns a new Provider instance holding at most maxEntries objects, unbounded if maxEntries <= 0
func New(maxEntries int) *Provider {
	return &Provider{
		maxEntries: maxEntries,
		entries:    make(map[string]*list.Element),
		order:      list.New(),
	}
}

// Get returns an object from the cache if it exists
func (p *Provider) Get(ctx context.Context, key string) (data []byte, err error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	element, exists := p.entries[key]
	if !exists {
		return nil, cache.ErrNotFound
	}

	p.order.MoveToFront(element)
	return element.Value.(*entry).data, nil
}

// Set adds an object to the cache
func (p *Provider) Set(ctx context.Context, key string, data []byte) (err error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if element, exists := p.entries[key]; exists {
		element.Value.(*entry).data = data
		p.order.MoveToFront(element)
		return nil
	}

	p.entries[key] = p.order.PushFront(&entry{key, data})

	if p.maxEntries > 0 && p.order.Len() > p.maxEntries {
		oldest := p.order.Back()
		p.order.Remove(oldest)
		delete(p.entries, oldest.Value.(*entry).key)
	}

	return nil
}

// Len returns the number of cached objects
func (p *Provider) Len() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.order.Len()
}

// Shutdown shuts down the cache
func (p *Provider) Shutdown() {}
