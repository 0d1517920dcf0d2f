package responder

import (
	"strings"
)

const upperhex = "0123456789ABCDEF"

// EncodeURIComponent percent-encodes s the way browsers do for URI
// components: letters, digits and -_.!~*'() are kept, every other byte of
// the UTF-8 encoding becomes %XX.
func EncodeURIComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}

// AttachmentDisposition builds an RFC 5987 Content-Disposition value so
// non-ASCII names survive the header.
func AttachmentDisposition(filename string) string {
	return "attachment; filename*=UTF-8''" + EncodeURIComponent(filename)
}
