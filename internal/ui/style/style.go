package style

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const (
	// HeavyGreenCheckMark unicode.
	HeavyGreenCheckMark = "✅"
	// HeavyRedCrossMark unicode.
	HeavyRedCrossMark = "❌"
	// UpperHalfBlock is the cell used to draw two icon pixels per cell.
	UpperHalfBlock = '▀'
	// SwatchCell is the glyph of the icon colour swatch in the process list.
	SwatchCell = "██"
	// PlaceholderCell is shown while an icon is missing.
	PlaceholderCell = "··"
)

var (
	// infobar.
	InfoBarItemFgColor = tcell.ColorSilver
	// main views.
	FgColor              = tcell.ColorFloralWhite
	BgColor              = tview.Styles.PrimitiveBackgroundColor
	BorderColor          = tcell.NewRGBColor(135, 175, 146) //nolint:mnd
	FocusBorderColor     = tcell.ColorMediumSeaGreen
	HelpHeaderFgColor    = tcell.NewRGBColor(135, 175, 146) //nolint:mnd
	MenuBgColor          = tcell.ColorMediumSeaGreen
	PageHeaderBgColor    = tcell.ColorMediumSeaGreen
	PageHeaderFgColor    = tcell.ColorFloralWhite
	RunningStatusFgColor = tcell.NewRGBColor(95, 215, 0)  //nolint:mnd
	PausedStatusFgColor  = tcell.NewRGBColor(255, 175, 0) //nolint:mnd
	MissingFgColor       = tcell.NewRGBColor(215, 95, 95) //nolint:mnd
	PlaceholderFgColor   = tcell.ColorDimGray
	// dialogs.
	DialogBgColor            = tcell.NewRGBColor(38, 38, 38) //nolint:mnd
	DialogBorderColor        = tcell.ColorMediumSeaGreen
	DialogFgColor            = tcell.ColorFloralWhite
	DialogSubBoxBorderColor  = tcell.ColorDimGray
	ErrorDialogBgColor       = tcell.NewRGBColor(215, 0, 0) //nolint:mnd
	ErrorDialogButtonBgColor = tcell.ColorDarkRed
	// table header.
	TableHeaderBgColor = tcell.ColorMediumSeaGreen
	TableHeaderFgColor = tcell.ColorFloralWhite
	// toasts.
	ToastInfoColor    = tcell.ColorSteelBlue
	ToastSuccessColor = tcell.NewRGBColor(95, 215, 0)  //nolint:mnd
	ToastWarningColor = tcell.NewRGBColor(255, 175, 0) //nolint:mnd
	ToastErrorColor   = tcell.NewRGBColor(215, 55, 55) //nolint:mnd
	// icon view background, also used to flatten translucent pixels.
	IconBgColor = tcell.NewRGBColor(24, 24, 24) //nolint:mnd
	// other primitives.
	InputFieldBgColor = tcell.ColorGray
	ButtonBgColor     = tcell.ColorMediumSeaGreen
)

// GetColorName returns convert tcell color to its name.
func GetColorName(color tcell.Color) string {
	for name, c := range tcell.ColorNames {
		if c == color {
			return name
		}
	}

	return ""
}

// GetColorHex returns convert tcell color to its hex useful for textview primitives.
func GetColorHex(color tcell.Color) string {
	return fmt.Sprintf("#%06x", color.Hex())
}

// KeyHelp renders key/description pairs with the menu colour on the keys.
func KeyHelp(keys [][2]string) string {
	keyColor := GetColorHex(MenuBgColor)
	textColor := GetColorHex(PageHeaderFgColor)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("[%s::b]%s[%s::b]: %s", keyColor, k[0], textColor, k[1]))
	}
	return strings.Join(parts, "  ")
}

// EmptyBox is a borderless filler used to pad dialogs.
func EmptyBox(bgColor tcell.Color) *tview.Box {
	box := tview.NewBox()
	box.SetBackgroundColor(bgColor)
	box.SetBorder(false)
	return box
}
