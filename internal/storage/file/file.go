package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/storage"
)

// Provider implements a directory based upload storage
type Provider struct {
	path string
}

// New returns a new Provider instance, creating the directory if it doesn't exist
func New(path string) (*Provider, error) {
	if path == "" {
		return nil, errors.New("no storage path")
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, err
	}

	return &Provider{
		path,
	}, nil
}

// Put writes an upload, replacing any existing upload with the same key
func (p *Provider) Put(ctx context.Context, key string, data []byte) error {
	name, err := storage.Key(key)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(p.path, name), data, 0o644)
}

// Get returns the data of an upload
func (p *Provider) Get(ctx context.Context, key string) ([]byte, error) {
	name, err := storage.Key(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(p.path, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, storage.ErrNotFound
		}

		return nil, err
	}

	return data, nil
}
