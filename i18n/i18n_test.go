package i18n

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultIsEnglish(t *testing.T) {
	p := Default()

	assert.Equal(t, "image size should be at least 256px", p.Sprintf(KeyTooSmall, 256))
	assert.Equal(t, "image must be square (1:1)", p.Sprintf(KeyNotSquare))
	assert.Equal(t, "ICO conversion failed: bad crc", p.Sprintf(KeyConversionFailed, errors.New("bad crc")))
}

func TestJapaneseCatalog(t *testing.T) {
	p := ForLocale("ja")

	assert.Equal(t, Japanese, p.Tag())
	assert.Equal(t, "PNGファイルのみ対応しています。", p.Sprintf(KeyNotPNG))
	assert.Equal(t, "画像サイズは256px以上を推奨します。", p.Sprintf(KeyTooSmall, 256))
}

func TestForLocaleFallsBackToEnglish(t *testing.T) {
	assert.Equal(t, English, ForLocale("de").Tag())
	assert.Equal(t, English, ForLocale("not a locale!").Tag())
	assert.Equal(t, English, ForLocale("en-GB").Tag())
}

func TestNegotiate(t *testing.T) {
	tests := []struct {
		header   string
		fallback string
		want     string
	}{
		{"", "ja", "ja"},
		{"ja-JP,ja;q=0.9,en;q=0.8", "en", "ja"},
		{"en-US,en;q=0.9", "ja", "en"},
		{"fr-FR", "ja", "ja"},
		{";;;", "en", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got := Negotiate(tt.header, tt.fallback).Tag().String()
			assert.Equal(t, tt.want, got)
		})
	}
}
