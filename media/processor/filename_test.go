package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"icon.png", "icon.ico"},
		{"photo.PNG", "photo.ico"},
		{"my.logo.png", "my.logo.ico"},
		{"noext", "noext.ico"},
		{`C:\Users\me\y.png`, "y.ico"},
		{"/home/me/pics/z.png", "z.ico"},
		{".png", ".png.ico"},
		{"", "converted.ico"},
		{"dir/", "converted.ico"},
		{"cafe\u0301.png", "caf\u00e9.ico"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OutputFilename(tt.in), tt.in)
	}
}
