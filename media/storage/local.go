package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/leeforge/genico/utils"
)

// ErrTooLarge is returned by Read when a file exceeds the provider limit.
var ErrTooLarge = errors.New("file exceeds size limit")

// LocalProvider implements Provider for the local filesystem. Relative
// paths resolve against basePath; absolute paths are used as they are,
// since desktop dialogs hand back absolute paths.
type LocalProvider struct {
	basePath string
	maxRead  int64
}

type LocalOption func(*LocalProvider)

// WithMaxRead caps the size of files Read accepts.
func WithMaxRead(n int64) LocalOption {
	return func(p *LocalProvider) { p.maxRead = n }
}

// NewLocalProvider creates a new local storage provider
func NewLocalProvider(basePath string, opts ...LocalOption) *LocalProvider {
	p := &LocalProvider{basePath: basePath}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *LocalProvider) resolve(path string) string {
	if filepath.IsAbs(path) || p.basePath == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(p.basePath, path)
}

// Read returns the whole file.
func (p *LocalProvider) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(p.resolve(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if p.maxRead <= 0 {
		return io.ReadAll(f)
	}
	data, err := io.ReadAll(io.LimitReader(f, p.maxRead+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > p.maxRead {
		return nil, fmt.Errorf("%s: %w", path, ErrTooLarge)
	}
	return data, nil
}

// Write stores data at path through a temporary file in the same directory
// and a rename, so a failed write never leaves a truncated icon behind.
func (p *LocalProvider) Write(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fullPath := p.resolve(path)
	dir := filepath.Dir(fullPath)

	if err := utils.CreateDir(dir); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp := filepath.Join(dir, "."+filepath.Base(fullPath)+"."+uuid.NewString()+".tmp")
	dst, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	_, werr := dst.Write(data)
	if werr == nil {
		werr = dst.Sync()
	}
	if cerr := dst.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write file content: %w", werr)
	}

	if err := os.Rename(tmp, fullPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to move file into place: %w", err)
	}
	return nil
}

// Exists checks if a file exists
func (p *LocalProvider) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(p.resolve(path))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (p *LocalProvider) Name() string {
	return "local"
}
