package icon

import (
	"github.com/sjzar/fluffy/internal/model"
)

// SwapRedBlue exchanges the first and third byte of every 4-byte pixel in
// place, turning BGRA into RGBA and back. Applying it twice is a no-op.
// A trailing partial pixel is left untouched.
func SwapRedBlue(buf []byte) {
	for i := 0; i+model.BytesPerPixel <= len(buf); i += model.BytesPerPixel {
		buf[i], buf[i+2] = buf[i+2], buf[i]
	}
}

// FromBGRA converts a top-down 32bpp device-independent bitmap into an Icon.
// bgra is reused as the icon's pixel storage.
func FromBGRA(width, height uint32, bgra []byte) (*model.Icon, error) {
	icon, err := model.NewIcon(width, height, bgra)
	if err != nil {
		return nil, err
	}
	SwapRedBlue(icon.Pixels)
	fillOpaque(icon.Pixels)
	return icon, nil
}

// fillOpaque marks every pixel opaque when the bitmap carries no alpha at
// all, which is how legacy 24bpp icons come out of GetDIBits.
func fillOpaque(rgba []byte) {
	for i := 3; i < len(rgba); i += model.BytesPerPixel {
		if rgba[i] != 0 {
			return
		}
	}
	for i := 3; i < len(rgba); i += model.BytesPerPixel {
		rgba[i] = 0xFF
	}
}
