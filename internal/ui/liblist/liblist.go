package liblist

import (
	"fmt"
	"path/filepath"

	"github.com/sjzar/fluffy/internal/ui/style"

	"github.com/rivo/tview"
)

const (
	Title     = "liblist"
	ShowTitle = "动态库"
	EmptyHint = "按 n 添加动态库"
)

// Entry is one library row.
type Entry struct {
	Path     string
	Selected bool
	Missing  bool
}

// LibraryList shows the library paths in insertion order. Row i+1 is entry i.
type LibraryList struct {
	*tview.Table
	title    string
	count    int
	onSelect func(index int)
}

func New() *LibraryList {
	l := &LibraryList{
		Table: tview.NewTable(),
		title: Title,
	}
	l.SetBorders(false)
	l.SetSelectable(true, false)
	l.SetFixed(1, 0)
	l.SetBorder(true)
	l.SetBorderColor(style.BorderColor)
	l.SetTitle(ShowTitle)
	l.SetBackgroundColor(style.BgColor)
	l.Table.SetSelectedFunc(func(row, column int) {
		if i, ok := l.indexAt(row); ok && l.onSelect != nil {
			l.onSelect(i)
		}
	})
	l.setTableHeader()
	return l
}

func (l *LibraryList) setTableHeader() {
	for col, text := range []string{"", "文件", "路径"} {
		cell := tview.NewTableCell(fmt.Sprintf("[%s::b]%s", style.GetColorHex(style.TableHeaderFgColor), text)).
			SetBackgroundColor(style.TableHeaderBgColor).
			SetSelectable(false)
		if col == 2 {
			cell.SetExpansion(1)
		}
		l.SetCell(0, col, cell)
	}
}

// SetSelectedFunc is called with the entry index Enter was pressed on.
func (l *LibraryList) SetSelectedFunc(handler func(index int)) *LibraryList {
	l.onSelect = handler
	return l
}

// CurrentIndex is the entry under the cursor.
func (l *LibraryList) CurrentIndex() (int, bool) {
	row, _ := l.GetSelection()
	return l.indexAt(row)
}

func (l *LibraryList) indexAt(row int) (int, bool) {
	if row < 1 || row > l.count {
		return 0, false
	}
	return row - 1, true
}

func (l *LibraryList) Update(entries []Entry) {
	row, _ := l.GetSelection()

	l.Clear()
	l.setTableHeader()
	l.count = len(entries)

	missing := 0
	for i, e := range entries {
		mark, fg := "  ", style.FgColor
		if e.Selected {
			mark, fg = "● ", style.RunningStatusFgColor
		}
		name := filepath.Base(e.Path)
		if e.Missing {
			fg = style.MissingFgColor
			name += " (缺失)"
			missing++
		}
		l.SetCell(i+1, 0, tview.NewTableCell(mark).SetTextColor(style.RunningStatusFgColor))
		l.SetCell(i+1, 1, tview.NewTableCell(tview.Escape(name)).SetTextColor(fg))
		l.SetCell(i+1, 2, tview.NewTableCell(tview.Escape(e.Path)).SetTextColor(style.InfoBarItemFgColor).SetExpansion(1))
	}

	if len(entries) == 0 {
		l.SetTitle(ShowTitle)
		l.SetCell(1, 1, tview.NewTableCell(EmptyHint).SetTextColor(style.PlaceholderFgColor).SetSelectable(false))
		return
	}

	title := fmt.Sprintf("%s (%d)", ShowTitle, len(entries))
	if missing > 0 {
		title = fmt.Sprintf("%s [%s]%d 缺失[-]", title, style.GetColorHex(style.MissingFgColor), missing)
	}
	l.SetTitle(title)

	switch {
	case row < 1:
		l.Select(1, 0)
	case row > len(entries):
		l.Select(len(entries), 0)
	default:
		l.Select(row, 0)
	}
}
