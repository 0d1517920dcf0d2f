// Package ico writes Windows icon containers whose entries are PNG streams,
// the layout accepted by every Windows release since Vista.
package ico

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
)

const (
	headerSize = 6
	entrySize  = 16
	maxSide    = 256
)

var (
	ErrNoEntries = errors.New("ico: no entries")
	ErrBadSize   = errors.New("ico: entry sides must be between 1 and 256px")
)

// Entry is one resolution stored in the container.
type Entry struct {
	Width  int
	Height int
	PNG    []byte
}

// EncodeEntries writes the ICONDIR, one ICONDIRENTRY per entry and then the
// PNG payloads in the same order.
func EncodeEntries(w io.Writer, entries []Entry) error {
	if len(entries) == 0 {
		return ErrNoEntries
	}
	if len(entries) > 0xFFFF {
		return fmt.Errorf("ico: %d entries exceed the directory limit", len(entries))
	}

	dir := make([]byte, headerSize+entrySize*len(entries))
	binary.LittleEndian.PutUint16(dir[0:], 0) // reserved
	binary.LittleEndian.PutUint16(dir[2:], 1) // type: icon
	binary.LittleEndian.PutUint16(dir[4:], uint16(len(entries)))

	offset := uint32(len(dir))
	for i, e := range entries {
		if e.Width < 1 || e.Height < 1 || e.Width > maxSide || e.Height > maxSide {
			return fmt.Errorf("%w: entry %d is %dx%d", ErrBadSize, i, e.Width, e.Height)
		}
		off := headerSize + i*entrySize
		dir[off+0] = sideByte(e.Width)
		dir[off+1] = sideByte(e.Height)
		dir[off+2] = 0 // palette size, truecolor
		dir[off+3] = 0
		binary.LittleEndian.PutUint16(dir[off+4:], 1)  // planes
		binary.LittleEndian.PutUint16(dir[off+6:], 32) // bits per pixel
		binary.LittleEndian.PutUint32(dir[off+8:], uint32(len(e.PNG)))
		binary.LittleEndian.PutUint32(dir[off+12:], offset)
		offset += uint32(len(e.PNG))
	}

	if _, err := w.Write(dir); err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := w.Write(e.PNG); err != nil {
			return err
		}
	}
	return nil
}

// Encode PNG-compresses every image and writes them as one container.
// Images keep the order they are given in.
func Encode(w io.Writer, images []image.Image) error {
	entries := make([]Entry, 0, len(images))
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	for _, img := range images {
		var buf bytes.Buffer
		if err := enc.Encode(&buf, img); err != nil {
			return fmt.Errorf("ico: encode %dx%d entry: %w", img.Bounds().Dx(), img.Bounds().Dy(), err)
		}
		entries = append(entries, Entry{
			Width:  img.Bounds().Dx(),
			Height: img.Bounds().Dy(),
			PNG:    buf.Bytes(),
		})
	}
	return EncodeEntries(w, entries)
}

// sideByte stores 256 as 0, as the format requires.
func sideByte(n int) byte {
	if n >= maxSide {
		return 0
	}
	return byte(n)
}

// DirEntry describes one ICONDIRENTRY read back from a container.
type DirEntry struct {
	Width, Height int
	Size, Offset  uint32
}

// ReadDir parses the directory of an icon container without decoding the
// images.
func ReadDir(data []byte) ([]DirEntry, error) {
	if len(data) < headerSize {
		return nil, errors.New("ico: short header")
	}
	if binary.LittleEndian.Uint16(data[0:]) != 0 || binary.LittleEndian.Uint16(data[2:]) != 1 {
		return nil, errors.New("ico: not an icon container")
	}
	count := int(binary.LittleEndian.Uint16(data[4:]))
	if len(data) < headerSize+count*entrySize {
		return nil, errors.New("ico: truncated directory")
	}

	out := make([]DirEntry, 0, count)
	for i := 0; i < count; i++ {
		off := headerSize + i*entrySize
		e := DirEntry{
			Width:  sideInt(data[off]),
			Height: sideInt(data[off+1]),
			Size:   binary.LittleEndian.Uint32(data[off+8:]),
			Offset: binary.LittleEndian.Uint32(data[off+12:]),
		}
		if uint64(e.Offset)+uint64(e.Size) > uint64(len(data)) {
			return nil, fmt.Errorf("ico: entry %d points past the end of the data", i)
		}
		out = append(out, e)
	}
	return out, nil
}

func sideInt(b byte) int {
	if b == 0 {
		return maxSide
	}
	return int(b)
}
