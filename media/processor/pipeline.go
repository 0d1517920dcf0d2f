package processor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"slices"
	"strconv"
	"strings"

	"github.com/leeforge/genico/concurrency"
	"github.com/leeforge/genico/media/ico"
)

const (
	OutputPNG = "png"
	OutputICO = "ico"
)

// Options 处理配置
type Options struct {
	CanvasSize int    `json:"canvas_size"`
	MinSize    int    `json:"min_size"`
	Output     string `json:"output"`    // png, ico
	IcoSizes   []int  `json:"ico_sizes"` // only for ico output
	Scaler     string `json:"scaler"`
	MaxPixels  int64  `json:"max_pixels"`
}

func DefaultOptions() Options {
	return Options{
		CanvasSize: CanvasSize,
		MinSize:    MinSize,
		Output:     OutputPNG,
		IcoSizes:   DefaultIcoSizes,
		Scaler:     ScalerLanczos3,
		MaxPixels:  MaxPixels,
	}
}

// fingerprint identifies every setting that changes the output bytes.
func (o Options) fingerprint() string {
	parts := []string{o.Output, strconv.Itoa(o.CanvasSize), o.Scaler}
	if o.Output == OutputICO {
		for _, s := range o.IcoSizes {
			parts = append(parts, strconv.Itoa(s))
		}
	}
	return strings.Join(parts, "-")
}

// ProcessingStep 处理步骤接口
type ProcessingStep interface {
	Name() string
	Process(ctx context.Context, data []byte) ([]byte, error)
}

// ProcessingPipeline 处理管道
type ProcessingPipeline struct {
	steps []ProcessingStep
}

// NewProcessingPipeline builds normalize, plus the container step for ico output.
func NewProcessingPipeline(opts Options) (*ProcessingPipeline, error) {
	scaler, err := NewScaler(opts.Scaler)
	if err != nil {
		return nil, err
	}

	steps := []ProcessingStep{
		NormalizeStep{normalizer: NewNormalizer(opts.CanvasSize, scaler)},
	}

	switch opts.Output {
	case "", OutputPNG:
	case OutputICO:
		steps = append(steps, NewIcoStep(opts.IcoSizes, scaler))
	default:
		return nil, fmt.Errorf("unsupported output format: %s", opts.Output)
	}

	return &ProcessingPipeline{steps: steps}, nil
}

// Steps returns the step names in execution order.
func (p *ProcessingPipeline) Steps() []string {
	names := make([]string, 0, len(p.steps))
	for _, s := range p.steps {
		names = append(names, s.Name())
	}
	return names
}

// Process 处理图片
func (p *ProcessingPipeline) Process(ctx context.Context, input []byte) ([]byte, error) {
	data := input
	for _, step := range p.steps {
		var err error
		data, err = step.Process(ctx, data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}
	return data, nil
}

// NormalizeStep contain-fits the source onto the canvas.
type NormalizeStep struct {
	normalizer *Normalizer
}

func (s NormalizeStep) Name() string { return "normalize" }

func (s NormalizeStep) Process(ctx context.Context, data []byte) ([]byte, error) {
	return s.normalizer.Normalize(ctx, data)
}

// IcoStep turns the normalized PNG into a multi resolution icon container.
type IcoStep struct {
	sizes  []int
	scaler Scaler
}

// NewIcoStep sorts sizes largest first and drops duplicates.
func NewIcoStep(sizes []int, scaler Scaler) IcoStep {
	if len(sizes) == 0 {
		sizes = DefaultIcoSizes
	}
	sorted := slices.Clone(sizes)
	slices.SortFunc(sorted, func(a, b int) int { return b - a })
	return IcoStep{sizes: slices.Compact(sorted), scaler: scaler}
}

func (s IcoStep) Name() string { return "ico" }

func (s IcoStep) Process(ctx context.Context, data []byte) ([]byte, error) {
	src, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode normalized image: %w", err)
	}

	images := make([]image.Image, len(s.sizes))
	err = concurrency.ForEach(ctx, len(s.sizes), 0, func(_ context.Context, i int) error {
		size := s.sizes[i]
		if src.Bounds().Dx() == size && src.Bounds().Dy() == size {
			images[i] = src
			return nil
		}
		images[i] = s.scaler.Scale(src, size, size)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := ico.Encode(&buf, images); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
