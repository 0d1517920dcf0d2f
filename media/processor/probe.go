package processor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var ErrEmptyImage = errors.New("image is empty")

// Probe reads the format and dimensions of data without decoding pixels.
// Non-PNG formats are recognized so that they fail validation with a
// format warning rather than as unreadable bytes.
func Probe(data []byte) (ImageMetadata, error) {
	if len(data) == 0 {
		return ImageMetadata{}, ErrEmptyImage
	}

	meta := ImageMetadata{MIME: mimetype.Detect(data).String()}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return meta, fmt.Errorf("probe image: %w", err)
	}
	meta.Format = format
	meta.Width = cfg.Width
	meta.Height = cfg.Height
	return meta, nil
}
