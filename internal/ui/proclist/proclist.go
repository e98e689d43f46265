package proclist

import (
	"fmt"

	"github.com/sjzar/fluffy/internal/model"
	"github.com/sjzar/fluffy/internal/ui/iconview"
	"github.com/sjzar/fluffy/internal/ui/style"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const (
	Title       = "proclist"
	ShowTitle   = "进程"
	SearchLabel = " 搜索: "

	swatchCol = 0
	nameCol   = 1
	pidCol    = 2
	pathCol   = 3
)

// IconLookup returns the cached icon of pid, if any.
type IconLookup func(pid uint32) (*model.Icon, bool)

// ProcessList is a search field above a process table. Rows are keyed by
// pid; the cursor follows its pid across updates.
type ProcessList struct {
	*tview.Flex
	title    string
	search   *tview.InputField
	table    *tview.Table
	pids     []uint32
	onSelect func(pid uint32)
}

func New() *ProcessList {
	l := &ProcessList{
		Flex:   tview.NewFlex().SetDirection(tview.FlexRow),
		title:  Title,
		search: tview.NewInputField(),
		table:  tview.NewTable(),
	}

	l.search.SetLabel(SearchLabel)
	l.search.SetFieldBackgroundColor(style.InputFieldBgColor)
	l.search.SetLabelColor(style.InfoBarItemFgColor)

	l.table.SetBorders(false)
	l.table.SetSelectable(true, false)
	l.table.SetFixed(1, 0)
	l.table.SetBackgroundColor(style.BgColor)
	l.table.SetSelectedFunc(func(row, column int) {
		if pid, ok := l.pidAt(row); ok && l.onSelect != nil {
			l.onSelect(pid)
		}
	})

	l.Flex.SetBorder(true)
	l.Flex.SetBorderColor(style.BorderColor)
	l.Flex.SetTitle(ShowTitle)
	l.Flex.AddItem(l.search, 1, 0, false)
	l.Flex.AddItem(l.table, 0, 1, true)

	l.setTableHeader()
	return l
}

func (l *ProcessList) setTableHeader() {
	for col, text := range []string{"", "名称", "PID", "路径"} {
		cell := tview.NewTableCell(fmt.Sprintf("[%s::b]%s", style.GetColorHex(style.TableHeaderFgColor), text)).
			SetBackgroundColor(style.TableHeaderBgColor).
			SetSelectable(false)
		if col == pathCol {
			cell.SetExpansion(1)
		}
		l.table.SetCell(0, col, cell)
	}
}

// SetSelectedFunc is called with the pid of the row Enter was pressed on.
func (l *ProcessList) SetSelectedFunc(handler func(pid uint32)) *ProcessList {
	l.onSelect = handler
	return l
}

// SetChangedFunc is called with the search text on every edit.
func (l *ProcessList) SetChangedFunc(handler func(text string)) *ProcessList {
	l.search.SetChangedFunc(handler)
	return l
}

// SetSearchDoneFunc is called when Enter, Escape or Tab leaves the search field.
func (l *ProcessList) SetSearchDoneFunc(handler func(key tcell.Key)) *ProcessList {
	l.search.SetDoneFunc(handler)
	return l
}

func (l *ProcessList) Search() *tview.InputField {
	return l.search
}

func (l *ProcessList) Table() *tview.Table {
	return l.table
}

// CurrentPID is the pid under the cursor.
func (l *ProcessList) CurrentPID() (uint32, bool) {
	row, _ := l.table.GetSelection()
	return l.pidAt(row)
}

func (l *ProcessList) pidAt(row int) (uint32, bool) {
	if row < 1 || row > len(l.pids) {
		return 0, false
	}
	return l.pids[row-1], true
}

// Update redraws the rows. selected marks the chosen process, loading
// replaces the rows with a loading line.
func (l *ProcessList) Update(processes []model.Process, icons IconLookup, selected uint32, hasSelected bool, loading bool) {
	cursor, hasCursor := l.CurrentPID()

	l.table.Clear()
	l.setTableHeader()
	l.pids = l.pids[:0]

	if loading {
		l.Flex.SetTitle(ShowTitle + " (加载中...)")
		l.table.SetCell(1, nameCol, tview.NewTableCell("正在扫描进程...").
			SetTextColor(style.PlaceholderFgColor).
			SetSelectable(false))
		return
	}
	l.Flex.SetTitle(fmt.Sprintf("%s (%d)", ShowTitle, len(processes)))

	row := 1
	cursorRow := 0
	for _, p := range processes {
		swatch := tview.NewTableCell(style.PlaceholderCell).SetTextColor(style.PlaceholderFgColor)
		if icon, ok := icons(p.PID); ok {
			if c, ok := iconview.AverageColor(icon); ok {
				swatch = tview.NewTableCell(style.SwatchCell).SetTextColor(c)
			}
		}

		fg := style.FgColor
		name := p.Name
		if hasSelected && p.PID == selected {
			fg = style.RunningStatusFgColor
			name = "▶ " + name
		}

		l.table.SetCell(row, swatchCol, swatch)
		l.table.SetCell(row, nameCol, tview.NewTableCell(tview.Escape(name)).SetTextColor(fg))
		l.table.SetCell(row, pidCol, tview.NewTableCell(fmt.Sprintf("%d", p.PID)).SetTextColor(fg).SetAlign(tview.AlignRight))
		l.table.SetCell(row, pathCol, tview.NewTableCell(tview.Escape(p.ExePath)).SetTextColor(style.InfoBarItemFgColor).SetExpansion(1))

		l.pids = append(l.pids, p.PID)
		if hasCursor && p.PID == cursor {
			cursorRow = row
		}
		row++
	}

	switch {
	case cursorRow > 0:
		l.table.Select(cursorRow, 0)
	case len(l.pids) > 0:
		l.table.Select(1, 0)
	}
}
