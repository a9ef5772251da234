package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
)

// Provider is an interface for staging uploaded images
type Provider interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// Errors
var (
	ErrNotFound   = errors.New("upload does not exist")
	ErrInvalidKey = errors.New("invalid upload name")
)

// Key returns the storage key for a client supplied file name: its base name, with either
// kind of path separator stripped
func Key(filename string) (string, error) {
	name := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "" || name == "." || name == ".." || name == "/" {
		return "", ErrInvalidKey
	}

	return name, nil
}
