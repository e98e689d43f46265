package model

import "fmt"

// BytesPerPixel RGBA
const BytesPerPixel = 4

// Icon is a row-major, top-down, straight alpha RGBA image.
// It is immutable once emitted.
type Icon struct {
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
	Pixels []byte `json:"-"`
}

// NewIcon checks that pixels holds exactly width*height RGBA pixels.
func NewIcon(width, height uint32, pixels []byte) (*Icon, error) {
	if want := int(width) * int(height) * BytesPerPixel; len(pixels) != want {
		return nil, fmt.Errorf("icon %dx%d needs %d bytes, got %d", width, height, want, len(pixels))
	}
	return &Icon{Width: width, Height: height, Pixels: pixels}, nil
}

// At returns the RGBA components of the pixel at (x, y).
func (i *Icon) At(x, y int) (r, g, b, a uint8) {
	off := (y*int(i.Width) + x) * BytesPerPixel
	p := i.Pixels[off : off+BytesPerPixel : off+BytesPerPixel]
	return p[0], p[1], p[2], p[3]
}
