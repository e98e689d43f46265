//go:build windows

package icon

import (
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/sjzar/fluffy/internal/errors"
	"github.com/sjzar/fluffy/internal/model"
)

var (
	modshell32 = windows.NewLazySystemDLL("shell32.dll")
	moduser32  = windows.NewLazySystemDLL("user32.dll")
	modgdi32   = windows.NewLazySystemDLL("gdi32.dll")

	procExtractIconExW = modshell32.NewProc("ExtractIconExW")
	procDestroyIcon    = moduser32.NewProc("DestroyIcon")
	procGetIconInfo    = moduser32.NewProc("GetIconInfo")
	procGetDC          = moduser32.NewProc("GetDC")
	procReleaseDC      = moduser32.NewProc("ReleaseDC")
	procGetObjectW     = modgdi32.NewProc("GetObjectW")
	procGetDIBits      = modgdi32.NewProc("GetDIBits")
	procDeleteObject   = modgdi32.NewProc("DeleteObject")
)

const (
	biRGB        = 0
	dibRGBColors = 0
)

// ICONINFO
type iconInfo struct {
	FIcon    int32
	XHotspot uint32
	YHotspot uint32
	HbmMask  windows.Handle
	HbmColor windows.Handle
}

// BITMAP
type bitmap struct {
	Type       int32
	Width      int32
	Height     int32
	WidthBytes int32
	Planes     uint16
	BitsPixel  uint16
	Bits       uintptr
}

// BITMAPINFOHEADER
type bitmapInfoHeader struct {
	Size          uint32
	Width         int32
	Height        int32
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
}

type bitmapInfo struct {
	Header bitmapInfoHeader
	Colors [1]uint32
}

type shellExtractor struct{}

// NewExtractor returns the platform icon extractor.
func NewExtractor() Extractor {
	return &shellExtractor{}
}

// Extract loads the first small icon of exePath and reads its color bitmap
// back as RGBA.
func (e *shellExtractor) Extract(exePath string) (*model.Icon, error) {
	path, err := windows.UTF16PtrFromString(exePath)
	if err != nil {
		return nil, errors.IconUnavailable(exePath, err)
	}

	var hicon windows.Handle
	n, _, _ := procExtractIconExW.Call(
		uintptr(unsafe.Pointer(path)),
		0,
		0,
		uintptr(unsafe.Pointer(&hicon)),
		1,
	)
	if n == 0 || hicon == 0 {
		return nil, errors.IconUnavailable(exePath, nil)
	}
	defer procDestroyIcon.Call(uintptr(hicon))

	icon, err := readIcon(hicon)
	if err != nil {
		return nil, errors.IconUnavailable(exePath, err)
	}
	return icon, nil
}

func readIcon(hicon windows.Handle) (*model.Icon, error) {
	var info iconInfo
	if r, _, err := procGetIconInfo.Call(uintptr(hicon), uintptr(unsafe.Pointer(&info))); r == 0 {
		return nil, err
	}
	if info.HbmMask != 0 {
		defer procDeleteObject.Call(uintptr(info.HbmMask))
	}
	if info.HbmColor == 0 {
		// monochrome icon, nothing to render
		return nil, windows.ERROR_INVALID_DATA
	}
	defer procDeleteObject.Call(uintptr(info.HbmColor))

	var bmp bitmap
	if r, _, err := procGetObjectW.Call(
		uintptr(info.HbmColor),
		unsafe.Sizeof(bmp),
		uintptr(unsafe.Pointer(&bmp)),
	); r == 0 {
		return nil, err
	}

	width, height := bmp.Width, bmp.Height
	if height < 0 {
		height = -height
	}
	if width <= 0 || height <= 0 {
		return nil, windows.ERROR_INVALID_DATA
	}

	bi := bitmapInfo{
		Header: bitmapInfoHeader{
			Width:       width,
			Height:      -height, // top-down rows
			Planes:      1,
			BitCount:    32,
			Compression: biRGB,
		},
	}
	bi.Header.Size = uint32(unsafe.Sizeof(bi.Header))

	buf := make([]byte, int(width)*int(height)*model.BytesPerPixel)

	hdc, _, err := procGetDC.Call(0)
	if hdc == 0 {
		return nil, err
	}
	defer procReleaseDC.Call(0, hdc)

	if lines, _, err := procGetDIBits.Call(
		hdc,
		uintptr(info.HbmColor),
		0,
		uintptr(height),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(unsafe.Pointer(&bi)),
		dibRGBColors,
	); lines == 0 {
		return nil, err
	}

	return FromBGRA(uint32(width), uint32(height), buf)
}
