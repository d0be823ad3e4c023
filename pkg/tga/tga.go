package tga

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/taigrr/tinyrender/pkg/render"
)

// HeaderFor returns the header Encode writes for fb.
func HeaderFor(fb *render.Framebuffer) (Header, error) {
	return NewHeader(fb.Width, fb.Height, fb.BitsPerPixel)
}

// Encode writes fb as an uncompressed truecolor TGA.
func Encode(w io.Writer, fb *render.Framebuffer) error {
	h, err := HeaderFor(fb)
	if err != nil {
		return err
	}
	if len(fb.Pix) != h.PixelBytes() {
		return fmt.Errorf("%w: framebuffer holds %d bytes, want %d", ErrFormat, len(fb.Pix), h.PixelBytes())
	}

	hdr, err := h.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := w.Write(hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := w.Write(fb.Pix); err != nil {
		return fmt.Errorf("write pixels: %w", err)
	}
	return nil
}

// DecodeHeader reads and validates the header without reading pixel data.
func DecodeHeader(r io.Reader) (Header, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Header{}, readErr("header", err)
	}
	var h Header
	if err := h.UnmarshalBinary(buf[:]); err != nil {
		return Header{}, err
	}
	return h, h.Validate()
}

// Decode reads an uncompressed 24- or 32-bit truecolor TGA. Rows are
// returned in file order.
func Decode(r io.Reader) (*render.Framebuffer, error) {
	h, err := DecodeHeader(r)
	if err != nil {
		return nil, err
	}

	// Skip the image ID field.
	if _, err := io.CopyN(io.Discard, r, int64(h.IDLength)); err != nil {
		return nil, readErr("image id", err)
	}

	fb, err := render.NewFramebufferDepth(int(h.Width), int(h.Height), int(h.BitsPerPixel))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if _, err := io.ReadFull(r, fb.Pix); err != nil {
		return nil, readErr("pixels", err)
	}
	return fb, nil
}

// readErr maps short reads to ErrFormat and passes other errors through.
func readErr(what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: truncated %s", ErrFormat, what)
	}
	return fmt.Errorf("read %s: %w", what, err)
}

// Save writes fb to path as a TGA file.
func Save(path string, fb *render.Framebuffer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create tga: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := Encode(w, fb); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write tga: %w", err)
	}
	return f.Close()
}

// Load reads a TGA file into a framebuffer.
func Load(path string) (*render.Framebuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tga: %w", err)
	}
	defer f.Close()

	fb, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return fb, nil
}
