package processor

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

const fallbackStem = "converted"

// OutputFilename derives the icon name from the source name: directories of
// either separator style are dropped, the last extension is replaced with
// ".ico" and internal dots are kept ("my.logo.PNG" becomes "my.logo.ico").
// Names are NFC normalized so that decomposed names from macOS uploads
// encode the same way as composed ones.
func OutputFilename(name string) string {
	base := name
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	base = norm.NFC.String(strings.TrimSpace(base))

	// A leading dot starts the name, it is not an extension.
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	if base == "" {
		base = fallbackStem
	}
	return base + ".ico"
}
