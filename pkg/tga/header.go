// Package tga reads and writes uncompressed truecolor TGA images.
//
// Pixel rows are stored exactly as they sit in the framebuffer, row 0
// first. The header's descriptor byte carries the alpha depth (8 for 32-bit
// images) but its origin bit is left clear, which most viewers read as a
// bottom-left origin. Images written here therefore show up vertically
// flipped relative to framebuffer coordinates, and y grows upward on screen.
// Decode does not flip rows back either, so a save and load round trip
// returns the same bytes.
package tga

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// HeaderSize is the encoded size of Header in bytes.
const HeaderSize = 18

// ImageTypeTruecolor marks uncompressed truecolor pixel data.
const ImageTypeTruecolor = 2

var (
	// ErrFormat is returned for truncated or malformed data.
	ErrFormat = errors.New("tga: malformed image")

	// ErrUnsupported is returned for valid TGA variants this package does
	// not handle (color-mapped, run-length encoded, grayscale, 16-bit).
	ErrUnsupported = errors.New("tga: unsupported image")

	// ErrTooLarge is returned when a dimension does not fit in 16 bits.
	ErrTooLarge = errors.New("tga: image too large")
)

// Header is the 18-byte TGA file header. All multi-byte fields are
// little-endian on disk.
type Header struct {
	IDLength             uint8
	ColorMapType         uint8
	ImageType            uint8
	ColorMapOrigin       uint16
	ColorMapEntriesCount uint16
	ColorMapBitsPerEntry uint8
	OriginX              uint16
	OriginY              uint16
	Width                uint16
	Height               uint16
	BitsPerPixel         uint8
	Descriptor           uint8
}

// NewHeader returns the header for an uncompressed truecolor image.
func NewHeader(width, height, bitsPerPixel int) (Header, error) {
	if width > 0xffff || height > 0xffff {
		return Header{}, fmt.Errorf("%w: %dx%d", ErrTooLarge, width, height)
	}
	if width < 1 || height < 1 {
		return Header{}, fmt.Errorf("%w: %dx%d", ErrFormat, width, height)
	}
	desc, err := descriptor(bitsPerPixel)
	if err != nil {
		return Header{}, err
	}
	return Header{
		ImageType:    ImageTypeTruecolor,
		Width:        uint16(width),
		Height:       uint16(height),
		BitsPerPixel: uint8(bitsPerPixel),
		Descriptor:   desc,
	}, nil
}

// descriptor returns the image descriptor byte for a pixel depth: the
// number of alpha bits, origin bits clear.
func descriptor(bitsPerPixel int) (uint8, error) {
	switch bitsPerPixel {
	case 16:
		return 0b0000_0001, nil
	case 24:
		return 0b0000_0000, nil
	case 32:
		return 0b0000_1000, nil
	}
	return 0, fmt.Errorf("%w: %d bits per pixel", ErrUnsupported, bitsPerPixel)
}

// PixelBytes returns the size of the pixel data that follows the header
// and image ID.
func (h Header) PixelBytes() int {
	return int(h.Width) * int(h.Height) * int(h.BitsPerPixel) / 8
}

// Validate reports whether h describes an image Decode can read.
func (h Header) Validate() error {
	if h.ColorMapType != 0 || h.ImageType != ImageTypeTruecolor {
		return fmt.Errorf("%w: color map type %d, image type %d", ErrUnsupported, h.ColorMapType, h.ImageType)
	}
	if h.BitsPerPixel != 24 && h.BitsPerPixel != 32 {
		return fmt.Errorf("%w: %d bits per pixel", ErrUnsupported, h.BitsPerPixel)
	}
	if h.Width == 0 || h.Height == 0 {
		return fmt.Errorf("%w: empty image %dx%d", ErrFormat, h.Width, h.Height)
	}
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (h Header) MarshalBinary() ([]byte, error) {
	return binary.Append(make([]byte, 0, HeaderSize), binary.LittleEndian, h)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. Bytes past the
// first HeaderSize are ignored.
func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("%w: header is %d bytes, want %d", ErrFormat, len(data), HeaderSize)
	}
	if _, err := binary.Decode(data[:HeaderSize], binary.LittleEndian, h); err != nil {
		return fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return nil
}

func (h Header) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ID Length: %d\n", h.IDLength)
	fmt.Fprintf(&b, "Color Map Type: %d\n", h.ColorMapType)
	fmt.Fprintf(&b, "Image Type: %d\n", h.ImageType)
	fmt.Fprintf(&b, "Color Map: origin %d, %d entries, %d bits per entry\n",
		h.ColorMapOrigin, h.ColorMapEntriesCount, h.ColorMapBitsPerEntry)
	fmt.Fprintf(&b, "Origin: %d, %d\n", h.OriginX, h.OriginY)
	fmt.Fprintf(&b, "Size: %dx%d\n", h.Width, h.Height)
	fmt.Fprintf(&b, "Bits Per Pixel: %d\n", h.BitsPerPixel)
	fmt.Fprintf(&b, "Descriptor: %08b", h.Descriptor)
	return b.String()
}
