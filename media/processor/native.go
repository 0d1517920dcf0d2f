package processor

import (
	"fmt"
	"image"

	"github.com/nfnt/resize"
	xdraw "golang.org/x/image/draw"
)

const (
	ScalerLanczos3   = "lanczos3"
	ScalerCatmullRom = "catmullrom"
	ScalerBilinear   = "bilinear"
)

// Scaler resamples an image to exactly width x height.
type Scaler interface {
	Scale(src image.Image, width, height int) image.Image
}

// NativeScaler resamples with nfnt/resize. Pure Go, no libvips.
type NativeScaler struct {
	interp resize.InterpolationFunction
}

func NewNativeScaler() *NativeScaler {
	return &NativeScaler{interp: resize.Lanczos3}
}

func (s *NativeScaler) Scale(src image.Image, width, height int) image.Image {
	return resize.Resize(uint(width), uint(height), src, s.interp)
}

// DrawScaler resamples with one of the golang.org/x/image/draw kernels.
type DrawScaler struct {
	interp xdraw.Interpolator
}

func NewDrawScaler(interp xdraw.Interpolator) *DrawScaler {
	return &DrawScaler{interp: interp}
}

func (s *DrawScaler) Scale(src image.Image, width, height int) image.Image {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	s.interp.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// NewScaler returns the scaler registered under name; empty means lanczos3.
func NewScaler(name string) (Scaler, error) {
	switch name {
	case "", ScalerLanczos3:
		return NewNativeScaler(), nil
	case ScalerCatmullRom:
		return NewDrawScaler(xdraw.CatmullRom), nil
	case ScalerBilinear:
		return NewDrawScaler(xdraw.BiLinear), nil
	default:
		return nil, fmt.Errorf("unknown scaler %q", name)
	}
}
