package processor

import (
	"context"
	"testing"

	"github.com/leeforge/genico/media/ico"
	gtesting "github.com/leeforge/genico/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineSteps(t *testing.T) {
	p, err := NewProcessingPipeline(DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"normalize"}, p.Steps())

	opts := DefaultOptions()
	opts.Output = OutputICO
	p, err = NewProcessingPipeline(opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"normalize", "ico"}, p.Steps())

	opts.Output = "bmp"
	_, err = NewProcessingPipeline(opts)
	assert.Error(t, err)

	opts.Output = OutputPNG
	opts.Scaler = "unknown"
	_, err = NewProcessingPipeline(opts)
	assert.Error(t, err)
}

func TestPipelineICOContainer(t *testing.T) {
	opts := DefaultOptions()
	opts.Output = OutputICO
	opts.IcoSizes = []int{16, 256, 32, 32}
	p, err := NewProcessingPipeline(opts)
	require.NoError(t, err)

	out, err := p.Process(context.Background(), gtesting.PNG(t, 300, 300))
	require.NoError(t, err)

	entries, err := ico.ReadDir(out)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 256, entries[0].Width)
	assert.Equal(t, 32, entries[1].Width)
	assert.Equal(t, 16, entries[2].Width)
}

func TestPipelineWrapsStepErrors(t *testing.T) {
	p, err := NewProcessingPipeline(DefaultOptions())
	require.NoError(t, err)

	out, err := p.Process(context.Background(), []byte("broken"))
	assert.Nil(t, out)
	assert.ErrorContains(t, err, "normalize: decode")
}

func TestFingerprint(t *testing.T) {
	png := DefaultOptions()
	icoOpts := DefaultOptions()
	icoOpts.Output = OutputICO

	assert.Equal(t, "png-256-lanczos3", png.fingerprint())
	assert.Equal(t, "ico-256-lanczos3-256-128-48-32-16", icoOpts.fingerprint())
}
