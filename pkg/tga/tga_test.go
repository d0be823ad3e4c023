package tga

import (
	"bytes"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/tinyrender/pkg/render"
)

func testFramebuffer(t *testing.T) *render.Framebuffer {
	t.Helper()
	fb, err := render.NewFramebuffer(5, 3)
	if err != nil {
		t.Fatalf("NewFramebuffer: %v", err)
	}
	fb.Clear(render.RGBA(10, 20, 30, 40))
	if err := fb.DrawLine(render.Pt(0, 0), render.Pt(4, 2), render.ColorRed); err != nil {
		t.Fatalf("DrawLine: %v", err)
	}
	return fb
}

func TestHeaderLayout(t *testing.T) {
	h, err := NewHeader(0x0102, 0x0304, 32)
	if err != nil {
		t.Fatalf("NewHeader: %v", err)
	}

	b, err := h.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	want := []byte{
		0, 0, 2, // id length, color map type, image type
		0, 0, 0, 0, 0, // color map
		0, 0, 0, 0, // origin
		0x02, 0x01, 0x04, 0x03, // width, height
		32, 0b0000_1000,
	}
	if !bytes.Equal(b, want) {
		t.Errorf("header bytes = %v, want %v", b, want)
	}
	if len(b) != HeaderSize {
		t.Errorf("header is %d bytes, want %d", len(b), HeaderSize)
	}

	var back Header
	if err := back.UnmarshalBinary(append(b, 0xff)); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if back != h {
		t.Errorf("UnmarshalBinary = %+v, want %+v", back, h)
	}
}

func TestNewHeader(t *testing.T) {
	descriptors := []struct {
		bpp  int
		want uint8
	}{
		{16, 1},
		{24, 0},
		{32, 8},
	}
	for _, tc := range descriptors {
		h, err := NewHeader(1, 1, tc.bpp)
		if err != nil {
			t.Fatalf("NewHeader(%d bpp): %v", tc.bpp, err)
		}
		if h.Descriptor != tc.want {
			t.Errorf("%d bpp descriptor = %d, want %d", tc.bpp, h.Descriptor, tc.want)
		}
	}

	tests := []struct {
		name          string
		width, height int
		bpp           int
		want          error
	}{
		{"wide", 70000, 1, 32, ErrTooLarge},
		{"tall", 1, 65536, 32, ErrTooLarge},
		{"8 bit", 4, 4, 8, ErrUnsupported},
		{"empty", 0, 4, 32, ErrFormat},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewHeader(tc.width, tc.height, tc.bpp); !errors.Is(err, tc.want) {
				t.Errorf("NewHeader error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	fb := testFramebuffer(t)
	path := filepath.Join(t.TempDir(), "out.tga")
	if err := Save(path, fb); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Width != fb.Width || got.Height != fb.Height || got.BitsPerPixel != fb.BitsPerPixel {
		t.Errorf("loaded %dx%d@%d, want %dx%d@%d",
			got.Width, got.Height, got.BitsPerPixel, fb.Width, fb.Height, fb.BitsPerPixel)
	}
	if !bytes.Equal(got.Pix, fb.Pix) {
		t.Error("pixel bytes differ after round trip")
	}

	var buf bytes.Buffer
	if err := Encode(&buf, fb); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	h, err := DecodeHeader(&buf)
	if err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	want, err := HeaderFor(fb)
	if err != nil {
		t.Fatalf("HeaderFor: %v", err)
	}
	if h != want {
		t.Errorf("DecodeHeader = %+v, want %+v", h, want)
	}
	if h.Descriptor != 0b0000_1000 {
		t.Errorf("descriptor = %08b, want 00001000", h.Descriptor)
	}
}

func TestEncodeLayout(t *testing.T) {
	fb, err := render.NewFramebuffer(2, 1)
	if err != nil {
		t.Fatalf("NewFramebuffer: %v", err)
	}
	if err := fb.SetPixel(1, 0, render.RGBA(1, 2, 3, 4)); err != nil {
		t.Fatalf("SetPixel: %v", err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, fb); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if buf.Len() != HeaderSize+8 {
		t.Fatalf("encoded %d bytes, want %d", buf.Len(), HeaderSize+8)
	}
	if got, want := buf.Bytes()[HeaderSize:], []byte{0, 0, 0, 0, 3, 2, 1, 4}; !bytes.Equal(got, want) {
		t.Errorf("pixel bytes = %v, want %v", got, want)
	}
}

func TestDecode24Bit(t *testing.T) {
	h, err := NewHeader(1, 2, 24)
	if err != nil {
		t.Fatalf("NewHeader: %v", err)
	}
	h.IDLength = 3
	hdr, err := h.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}

	data := append(hdr, 'a', 'b', 'c')
	data = append(data, 3, 2, 1, 6, 5, 4)
	fb, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if fb.BitsPerPixel != 24 {
		t.Errorf("BitsPerPixel = %d, want 24", fb.BitsPerPixel)
	}
	if got := fb.GetPixel(0, 0); got != render.RGB(1, 2, 3) {
		t.Errorf("GetPixel(0, 0) = %v, want rgb(1, 2, 3)", got)
	}
	if got := fb.GetPixel(0, 1); got != render.RGB(4, 5, 6) {
		t.Errorf("GetPixel(0, 1) = %v, want rgb(4, 5, 6)", got)
	}
}

func TestDecodeErrors(t *testing.T) {
	var full bytes.Buffer
	if err := Encode(&full, testFramebuffer(t)); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	good := full.Bytes()

	withHeader := func(mut func(*Header)) []byte {
		var h Header
		if err := h.UnmarshalBinary(good); err != nil {
			t.Fatalf("UnmarshalBinary: %v", err)
		}
		mut(&h)
		b, err := h.MarshalBinary()
		if err != nil {
			t.Fatalf("MarshalBinary: %v", err)
		}
		return append(b, good[HeaderSize:]...)
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrFormat},
		{"short header", good[:HeaderSize-1], ErrFormat},
		{"truncated pixels", good[:len(good)-1], ErrFormat},
		{"header only", good[:HeaderSize], ErrFormat},
		{"run length", withHeader(func(h *Header) { h.ImageType = 10 }), ErrUnsupported},
		{"color mapped", withHeader(func(h *Header) { h.ColorMapType = 1 }), ErrUnsupported},
		{"16 bit", withHeader(func(h *Header) { h.BitsPerPixel = 16 }), ErrUnsupported},
		{"zero width", withHeader(func(h *Header) { h.Width = 0 }), ErrFormat},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode(bytes.NewReader(tc.data)); !errors.Is(err, tc.want) {
				t.Errorf("Decode error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.tga"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load error = %v, want fs.ErrNotExist", err)
	}
}

func TestHeaderString(t *testing.T) {
	h, err := NewHeader(640, 480, 32)
	if err != nil {
		t.Fatalf("NewHeader: %v", err)
	}
	s := h.String()
	for _, want := range []string{"Size: 640x480", "Descriptor: 00001000"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}
