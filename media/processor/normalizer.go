package processor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"math"
)

// Normalizer fits any image onto a square transparent canvas and encodes
// the result as PNG.
type Normalizer struct {
	size   int
	scaler Scaler
}

func NewNormalizer(size int, scaler Scaler) *Normalizer {
	if size <= 0 {
		size = CanvasSize
	}
	if scaler == nil {
		scaler = NewNativeScaler()
	}
	return &Normalizer{size: size, scaler: scaler}
}

// Size returns the canvas side.
func (n *Normalizer) Size() int {
	return n.size
}

// Normalize decodes data, contain-fits it and returns PNG bytes. Nothing is
// returned unless every step succeeded.
func (n *Normalizer) Normalize(ctx context.Context, data []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if src.Bounds().Empty() {
		return nil, ErrEmptyImage
	}

	canvas := n.Fit(src)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Fit scales src to fit inside the canvas without cropping, upscaling
// when needed, and centers it. The remaining area stays transparent.
func (n *Normalizer) Fit(src image.Image) *image.NRGBA {
	canvas := image.NewNRGBA(image.Rect(0, 0, n.size, n.size))
	b := src.Bounds()
	dst := containRect(b.Dx(), b.Dy(), n.size)

	scaled := src
	if dst.Dx() != b.Dx() || dst.Dy() != b.Dy() {
		scaled = n.scaler.Scale(src, dst.Dx(), dst.Dy())
	}
	draw.Draw(canvas, dst, scaled, scaled.Bounds().Min, draw.Src)
	return canvas
}

// containRect returns the centered rectangle a w x h image occupies once
// contain-fitted into a size x size square.
func containRect(w, h, size int) image.Rectangle {
	scale := math.Min(float64(size)/float64(w), float64(size)/float64(h))
	dw := int(math.Round(float64(w) * scale))
	dh := int(math.Round(float64(h) * scale))
	dw = max(1, min(dw, size))
	dh = max(1, min(dh, size))

	x := (size - dw) / 2
	y := (size - dh) / 2
	return image.Rect(x, y, x+dw, y+dh)
}
