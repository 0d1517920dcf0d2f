package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalWriteRead(t *testing.T) {
	dir := t.TempDir()
	p := NewLocalProvider(dir)
	ctx := context.Background()

	require.NoError(t, p.Write(ctx, "out/icon.ico", []byte("first")))
	require.NoError(t, p.Write(ctx, "out/icon.ico", []byte("second")))

	data, err := p.Read(ctx, filepath.Join(dir, "out", "icon.ico"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(filepath.Join(dir, "out"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")

	ok, err := p.Exists(ctx, "out/icon.ico")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Exists(ctx, "missing.ico")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalWriteIntoFileFails(t *testing.T) {
	dir := t.TempDir()
	p := NewLocalProvider(dir)
	ctx := context.Background()

	require.NoError(t, p.Write(ctx, "blocker", []byte("x")))
	assert.Error(t, p.Write(ctx, "blocker/icon.ico", []byte("y")))
}

func TestLocalReadLimit(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "big.png"), make([]byte, 64), 0o644))

	_, err := NewLocalProvider(dir, WithMaxRead(32)).Read(context.Background(), "big.png")
	assert.ErrorIs(t, err, ErrTooLarge)

	data, err := NewLocalProvider(dir, WithMaxRead(64)).Read(context.Background(), "big.png")
	require.NoError(t, err)
	assert.Len(t, data, 64)
}

func TestLocalHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewLocalProvider(t.TempDir())
	assert.ErrorIs(t, p.Write(ctx, "a.ico", nil), context.Canceled)
	_, err := p.Read(ctx, "a.ico")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "local", p.Name())
}
