package iconview

import (
	"github.com/sjzar/fluffy/internal/model"
	"github.com/sjzar/fluffy/internal/ui/style"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const (
	Title     = "iconview"
	ShowTitle = "图标"
)

// Cell is one terminal cell: the upper pixel is drawn as foreground of
// an upper half block, the lower pixel as its background.
type Cell struct {
	Top    tcell.Color
	Bottom tcell.Color
}

// IconView renders an RGBA icon with two pixels per terminal cell.
type IconView struct {
	*tview.Box
	title       string
	icon        *model.Icon
	placeholder string
	background  tcell.Color
}

func New() *IconView {
	v := &IconView{
		Box:        tview.NewBox(),
		title:      Title,
		background: style.IconBgColor,
	}
	v.SetBorder(true)
	v.SetBorderColor(style.BorderColor)
	v.SetTitle(ShowTitle)
	v.SetBackgroundColor(v.background)
	return v
}

// SetIcon sets the icon to draw, nil shows the placeholder text.
func (v *IconView) SetIcon(icon *model.Icon, placeholder string) {
	v.icon = icon
	v.placeholder = placeholder
}

func (v *IconView) Draw(screen tcell.Screen) {
	v.Box.DrawForSubclass(screen, v)

	x, y, width, height := v.GetInnerRect()
	if width <= 0 || height <= 0 {
		return
	}

	if v.icon == nil {
		tview.Print(screen, v.placeholder, x, y+height/2, width, tview.AlignCenter, style.PlaceholderFgColor)
		return
	}

	cells := Cells(v.icon, width, height, v.background)
	if len(cells) == 0 {
		return
	}
	oy := y + (height-len(cells))/2
	ox := x + (width-len(cells[0]))/2
	for row, line := range cells {
		for col, c := range line {
			st := tcell.StyleDefault.Foreground(c.Top).Background(c.Bottom)
			screen.SetContent(ox+col, oy+row, style.UpperHalfBlock, nil, st)
		}
	}
}

// Cells downsamples icon by an integer step until it fits into width x
// height cells and pairs pixel rows into half-block cells. Translucent
// pixels are flattened over bg.
func Cells(icon *model.Icon, width, height int, bg tcell.Color) [][]Cell {
	if icon == nil || icon.Width == 0 || icon.Height == 0 || width <= 0 || height <= 0 {
		return nil
	}
	w, h := int(icon.Width), int(icon.Height)

	step := 1
	for ceilDiv(w, step) > width || ceilDiv(h, step) > height*2 {
		step++
	}
	cols, pixelRows := ceilDiv(w, step), ceilDiv(h, step)

	br, bgG, bb := bg.RGB()
	back := [3]uint8{uint8(br), uint8(bgG), uint8(bb)}

	pixel := func(px, py int) tcell.Color {
		if py >= pixelRows {
			return bg
		}
		r, g, b, a := icon.At(px*step, py*step)
		r, g, b = Blend(r, g, b, a, back)
		return tcell.NewRGBColor(int32(r), int32(g), int32(b))
	}

	cells := make([][]Cell, ceilDiv(pixelRows, 2))
	for row := range cells {
		line := make([]Cell, cols)
		for col := range line {
			line[col] = Cell{Top: pixel(col, row*2), Bottom: pixel(col, row*2+1)}
		}
		cells[row] = line
	}
	return cells
}

// Blend flattens a straight alpha pixel over an opaque background.
func Blend(r, g, b, a uint8, bg [3]uint8) (uint8, uint8, uint8) {
	mix := func(c, back uint8) uint8 {
		return uint8((uint32(c)*uint32(a) + uint32(back)*(255-uint32(a)) + 127) / 255)
	}
	return mix(r, bg[0]), mix(g, bg[1]), mix(b, bg[2])
}

// AverageColor is the alpha weighted mean colour of icon. It reports
// false for a nil or fully transparent icon.
func AverageColor(icon *model.Icon) (tcell.Color, bool) {
	if icon == nil {
		return tcell.ColorDefault, false
	}
	var sr, sg, sb, sa uint64
	for off := 0; off+model.BytesPerPixel <= len(icon.Pixels); off += model.BytesPerPixel {
		a := uint64(icon.Pixels[off+3])
		sr += uint64(icon.Pixels[off]) * a
		sg += uint64(icon.Pixels[off+1]) * a
		sb += uint64(icon.Pixels[off+2]) * a
		sa += a
	}
	if sa == 0 {
		return tcell.ColorDefault, false
	}
	return tcell.NewRGBColor(int32(sr/sa), int32(sg/sa), int32(sb/sa)), true
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
