// Package render rasterizes wireframe meshes into a truecolor framebuffer.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/taigrr/tinyrender/pkg/math3d"
)

// DefaultBitsPerPixel is the pixel depth of framebuffers created by
// NewFramebuffer: one byte each for blue, green, red and alpha.
const DefaultBitsPerPixel = 32

var (
	// ErrInvalidSize is returned for non-positive dimensions or an
	// unsupported pixel depth.
	ErrInvalidSize = errors.New("render: invalid framebuffer size")

	// ErrOutOfBounds is returned when a pixel write falls outside the
	// framebuffer.
	ErrOutOfBounds = errors.New("render: pixel out of bounds")
)

// Framebuffer is a row-major pixel buffer. Each pixel is stored as B, G, R
// and, at 32 bits per pixel, A.
type Framebuffer struct {
	Width        int
	Height       int
	BitsPerPixel int    // 32, or 24 for buffers loaded without alpha
	Pix          []byte // Width*Height*BitsPerPixel/8 bytes
}

// NewFramebuffer creates a zeroed 32-bit framebuffer.
func NewFramebuffer(width, height int) (*Framebuffer, error) {
	return NewFramebufferDepth(width, height, DefaultBitsPerPixel)
}

// NewFramebufferDepth creates a zeroed framebuffer with the given pixel
// depth (24 or 32).
func NewFramebufferDepth(width, height, bitsPerPixel int) (*Framebuffer, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if bitsPerPixel != 24 && bitsPerPixel != 32 {
		return nil, fmt.Errorf("%w: %d bits per pixel", ErrInvalidSize, bitsPerPixel)
	}
	return &Framebuffer{
		Width:        width,
		Height:       height,
		BitsPerPixel: bitsPerPixel,
		Pix:          make([]byte, width*height*bitsPerPixel/8),
	}, nil
}

// BytesPerPixel returns the stride of one pixel in Pix.
func (fb *Framebuffer) BytesPerPixel() int {
	return fb.BitsPerPixel / 8
}

// Contains reports whether (x, y) lies inside the framebuffer.
func (fb *Framebuffer) Contains(x, y int) bool {
	return x >= 0 && x < fb.Width && y >= 0 && y < fb.Height
}

func (fb *Framebuffer) offset(x, y int) int {
	return (x + y*fb.Width) * fb.BytesPerPixel()
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c Color) {
	bpp := fb.BytesPerPixel()
	for i := 0; i < len(fb.Pix); i += bpp {
		fb.put(i, c)
	}
}

func (fb *Framebuffer) put(i int, c Color) {
	fb.Pix[i] = c.B
	fb.Pix[i+1] = c.G
	fb.Pix[i+2] = c.R
	if fb.BitsPerPixel == 32 {
		fb.Pix[i+3] = c.A
	}
}

// SetPixel writes c at (x, y) in B, G, R, A byte order.
// Writes outside the framebuffer return ErrOutOfBounds and change nothing.
func (fb *Framebuffer) SetPixel(x, y int, c Color) error {
	if !fb.Contains(x, y) {
		return fmt.Errorf("%w: (%d, %d) in %dx%d", ErrOutOfBounds, x, y, fb.Width, fb.Height)
	}
	fb.put(fb.offset(x, y), c)
	return nil
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds. 24-bit buffers report
// opaque colors.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if !fb.Contains(x, y) {
		return Color{}
	}
	i := fb.offset(x, y)
	c := Color{B: fb.Pix[i], G: fb.Pix[i+1], R: fb.Pix[i+2], A: 255}
	if fb.BitsPerPixel == 32 {
		c.A = fb.Pix[i+3]
	}
	return c
}

// DrawLine draws the segment p0-p1 with Bresenham's algorithm. If either
// endpoint lies outside the framebuffer nothing is drawn and
// ErrOutOfBounds is returned. Line pixels never leave the box spanned by
// the endpoints.
func (fb *Framebuffer) DrawLine(p0, p1 Point, c Color) error {
	for _, p := range [2]Point{p0, p1} {
		if !fb.Contains(p.X(), p.Y()) {
			return fmt.Errorf("%w: (%d, %d) in %dx%d", ErrOutOfBounds, p.X(), p.Y(), fb.Width, fb.Height)
		}
	}
	for x, y := range Line(p0, p1) {
		fb.put(fb.offset(x, y), c)
	}
	return nil
}

// DrawLineClipped draws the segment p0-p1, silently skipping pixels
// outside the framebuffer.
func (fb *Framebuffer) DrawLineClipped(p0, p1 Point, c Color) {
	for x, y := range Line(p0, p1) {
		if fb.Contains(x, y) {
			fb.put(fb.offset(x, y), c)
		}
	}
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
// Rows are copied as stored: row 0 of the framebuffer becomes the top row
// of the image.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.GetPixel(x, y))
		}
	}
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := png.Encode(f, fb.ToImage()); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack   = color.RGBA{0, 0, 0, 255}
	ColorWhite   = color.RGBA{255, 255, 255, 255}
	ColorRed     = color.RGBA{255, 0, 0, 255}
	ColorGreen   = color.RGBA{0, 255, 0, 255}
	ColorBlue    = color.RGBA{0, 0, 255, 255}
	ColorYellow  = color.RGBA{255, 255, 0, 255}
	ColorCyan    = color.RGBA{0, 255, 255, 255}
	ColorMagenta = color.RGBA{255, 0, 255, 255}
)

// RGB creates an opaque color from RGB values.
func RGB(r, g, b uint8) Color {
	return color.RGBA{r, g, b, 255}
}

// RGBA creates a color from RGBA values.
func RGBA(r, g, b, a uint8) Color {
	return color.RGBA{r, g, b, a}
}

// ColorVector returns c as an R, G, B, A byte vector.
func ColorVector(c Color) math3d.Vector4[uint8] {
	return math3d.Vec4(c.R, c.G, c.B, c.A)
}

// ColorFromVector converts an R, G, B, A byte vector to a Color.
func ColorFromVector(v math3d.Vector4[uint8]) Color {
	return color.RGBA{v.R(), v.G(), v.B(), v.A()}
}
