// Package i18n holds the user facing messages of the converter and picks a
// language for each request.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Key identifies a translatable message.
type Key string

const (
	KeyEmpty            Key = "image file is empty"
	KeyUnreadable       Key = "image could not be read"
	KeyNotPNG           Key = "only PNG files are supported"
	KeyNotSquare        Key = "image must be square (1:1)"
	KeyTooSmall         Key = "image size should be at least %dpx"
	KeyConversionFailed Key = "ICO conversion failed: %v"
	KeyBadRequest       Key = "Bad Request"
	KeyFileSelected     Key = "File selected"
	KeyNoFileSelected   Key = "No file selected"
	KeyConverting       Key = "Converting..."
	KeySaved            Key = "ICO file saved!"
	KeySaveCancelled    Key = "Save cancelled"
)

var (
	English  = language.English
	Japanese = language.Japanese

	supported = []language.Tag{English, Japanese}
	matcher   = language.NewMatcher(supported)
	cat       = buildCatalog()
)

var japanese = map[Key]string{
	KeyEmpty:            "画像ファイルが空です。",
	KeyUnreadable:       "画像の読み込みに失敗しました。",
	KeyNotPNG:           "PNGファイルのみ対応しています。",
	KeyNotSquare:        "画像は正方形（1:1）でアップロードしてください。",
	KeyTooSmall:         "画像サイズは%dpx以上を推奨します。",
	KeyConversionFailed: "ICO変換に失敗しました: %v",
	KeyBadRequest:       "Bad Request",
	KeyFileSelected:     "ファイルが選択されました",
	KeyNoFileSelected:   "ファイルが選択されていません",
	KeyConverting:       "変換中...",
	KeySaved:            "ICOファイルが保存されました！",
	KeySaveCancelled:    "保存がキャンセルされました",
}

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(English))
	for key, ja := range japanese {
		_ = b.SetString(English, string(key), string(key))
		_ = b.SetString(Japanese, string(key), ja)
	}
	return b
}

// Printer renders messages in one language.
type Printer struct {
	tag language.Tag
	p   *message.Printer
}

// NewPrinter returns a Printer for tag, falling back to English for
// languages without a catalog.
func NewPrinter(tag language.Tag) *Printer {
	_, idx, _ := matcher.Match(tag)
	tag = supported[idx]
	return &Printer{tag: tag, p: message.NewPrinter(tag, message.Catalog(cat))}
}

// ForLocale parses a BCP 47 locale such as "ja" or "en-US".
func ForLocale(locale string) *Printer {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		tag = English
	}
	return NewPrinter(tag)
}

// Default renders English.
func Default() *Printer {
	return NewPrinter(English)
}

// Negotiate picks the best supported language from an Accept-Language
// header, or fallback when the header is absent or matches nothing.
func Negotiate(acceptLanguage, fallback string) *Printer {
	if strings.TrimSpace(acceptLanguage) == "" {
		return ForLocale(fallback)
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return ForLocale(fallback)
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return ForLocale(fallback)
	}
	return NewPrinter(supported[idx])
}

// Tag returns the language the printer renders.
func (p *Printer) Tag() language.Tag {
	return p.tag
}

// Sprintf renders key with args.
func (p *Printer) Sprintf(key Key, args ...any) string {
	return p.p.Sprintf(string(key), args...)
}
