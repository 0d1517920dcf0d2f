package processor

const (
	// CanvasSize is the side of the normalized output image.
	CanvasSize = 256
	// MinSize is the smallest accepted source side.
	MinSize = 256

	// MaxPixels caps width*height of a source before it is decoded.
	MaxPixels = 64 << 20

	FormatPNG = "png"

	ContentTypeICO = "image/x-icon"
)

// DefaultIcoSizes are the resolutions written when a real icon container
// is requested, largest first.
var DefaultIcoSizes = []int{256, 128, 48, 32, 16}

// ImageMetadata is what probing the source bytes reveals.
type ImageMetadata struct {
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	// MIME is the sniffed content type, independent of the decoder.
	MIME string `json:"mime"`
}

// ConversionRequest carries one upload or one file picked on the desktop.
type ConversionRequest struct {
	Data     []byte
	Filename string
}

// ConversionResult is the icon handed back to the caller.
type ConversionResult struct {
	Data     []byte
	Filename string
	Metadata ImageMetadata
	// Cached reports whether Data came from the result cache.
	Cached bool
}
