package menu

import (
	"fmt"
	"sort"

	"github.com/sjzar/fluffy/internal/ui/style"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Item is one command. Key is the shortcut shown next to it and accepted by Trigger.
type Item struct {
	Index       int
	Key         string
	Name        string
	Description string
	Hidden      bool
	Selected    func(i *Item)
}

// Label is the name as rendered, with the shortcut prefix if there is one.
func (i *Item) Label() string {
	if i.Key == "" {
		return i.Name
	}
	return fmt.Sprintf("[%s::b]%s[-::-] %s", style.GetColorHex(style.MenuBgColor), i.Key, i.Name)
}

type Menu struct {
	*tview.Box
	title string
	table *tview.Table
	items []*Item
}

func New(title string) *Menu {
	menu := &Menu{
		Box:   tview.NewBox(),
		title: title,
		items: make([]*Item, 0),
		table: tview.NewTable(),
	}

	menu.table.SetBorders(false)
	menu.table.SetSelectable(true, false)
	menu.table.SetTitle(fmt.Sprintf("[::b]%s", menu.title))
	menu.table.SetBorderColor(style.BorderColor)
	menu.table.SetBackgroundColor(style.BgColor)
	menu.table.SetTitleColor(style.FgColor)
	menu.table.SetFixed(1, 0)
	menu.table.Select(1, 0).SetSelectedFunc(func(row, column int) {
		if row == 0 {
			return // 忽略表头
		}
		if item, ok := menu.table.GetCell(row, 0).GetReference().(*Item); ok && item.Selected != nil {
			item.Selected(item)
		}
	})

	menu.setTableHeader()

	return menu
}

func (m *Menu) setTableHeader() {
	for col, text := range []string{"命令", "说明"} {
		m.table.SetCell(0, col, tview.NewTableCell(fmt.Sprintf("[black::b]%s", text)).
			SetExpansion(col+1).
			SetBackgroundColor(style.PageHeaderBgColor).
			SetTextColor(style.PageHeaderFgColor).
			SetAlign(tview.AlignLeft).
			SetSelectable(false))
	}
}

func (m *Menu) AddItem(item *Item) {
	m.items = append(m.items, item)
	sort.Stable(SortItems(m.items))
	m.refresh()
}

func (m *Menu) SetItems(items []*Item) {
	m.items = items
	m.refresh()
}

func (m *Menu) GetItems() []*Item {
	return m.items
}

// Trigger runs the visible item bound to key. It reports whether one matched.
func (m *Menu) Trigger(key string) bool {
	for _, item := range m.items {
		if item.Hidden || item.Key != key || item.Selected == nil {
			continue
		}
		item.Selected(item)
		return true
	}
	return false
}

func (m *Menu) refresh() {
	m.table.Clear()
	m.setTableHeader()

	row := 1
	for _, item := range m.items {
		if item.Hidden {
			continue
		}
		for col, text := range []string{item.Label(), item.Description} {
			m.table.SetCell(row, col, tview.NewTableCell(text).
				SetTextColor(style.FgColor).
				SetBackgroundColor(style.BgColor).
				SetReference(item).
				SetAlign(tview.AlignLeft))
		}
		row++
	}
}

func (m *Menu) Draw(screen tcell.Screen) {
	m.refresh()

	m.Box.DrawForSubclass(screen, m)
	m.Box.SetBorder(false)

	x, y, w, h := m.GetInnerRect()

	m.table.SetRect(x, y, w, h)
	m.table.SetBorder(true).SetBorderColor(style.BorderColor)

	m.table.Draw(screen)
}

func (m *Menu) Focus(delegate func(p tview.Primitive)) {
	delegate(m.table)
}

// HasFocus returns whether or not this primitive has focus
func (m *Menu) HasFocus() bool {
	return m.table.HasFocus()
}

func (m *Menu) InputHandler() func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
	return m.WrapInputHandler(func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
		if handler := m.table.InputHandler(); handler != nil {
			handler(event, setFocus)
		}
	})
}

type SortItems []*Item

func (l SortItems) Len() int {
	return len(l)
}

func (l SortItems) Less(i, j int) bool {
	return l[i].Index < l[j].Index
}

func (l SortItems) Swap(i, j int) {
	l[i], l[j] = l[j], l[i]
}
