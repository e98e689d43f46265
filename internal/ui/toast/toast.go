package toast

import (
	"fmt"
	"strings"

	"github.com/sjzar/fluffy/internal/ui/style"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const (
	Title = "toast"

	LevelInfo    = "info"
	LevelSuccess = "success"
	LevelWarning = "warning"
	LevelError   = "error"
)

// Item is one visible message.
type Item struct {
	Level   string
	Message string
}

// Bar is a one line view of the live toasts, newest last.
type Bar struct {
	*tview.TextView
	title string
}

func New() *Bar {
	b := &Bar{
		TextView: tview.NewTextView(),
		title:    Title,
	}
	b.SetDynamicColors(true)
	b.SetWrap(false)
	b.SetTextAlign(tview.AlignLeft)
	b.SetBackgroundColor(style.BgColor)
	return b
}

func (b *Bar) Update(items []Item) {
	b.SetText(Render(items))
}

// Render formats items as coloured segments.
func Render(items []Item) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("[%s::b] %s [-::-] %s", style.GetColorHex(Color(it.Level)), Mark(it.Level), tview.Escape(it.Message)))
	}
	return strings.Join(parts, "  │ ")
}

func Color(level string) tcell.Color {
	switch level {
	case LevelSuccess:
		return style.ToastSuccessColor
	case LevelWarning:
		return style.ToastWarningColor
	case LevelError:
		return style.ToastErrorColor
	default:
		return style.ToastInfoColor
	}
}

func Mark(level string) string {
	switch level {
	case LevelSuccess:
		return "✔"
	case LevelWarning:
		return "!"
	case LevelError:
		return "✘"
	default:
		return "i"
	}
}
