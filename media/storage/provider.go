package storage

import (
	"context"
)

// Provider reads and writes whole files by path.
type Provider interface {
	Read(ctx context.Context, path string) ([]byte, error)
	Write(ctx context.Context, path string, data []byte) error
	Exists(ctx context.Context, path string) (bool, error)
	Name() string
}
