package infobar

import (
	"fmt"

	"github.com/sjzar/fluffy/internal/ui/style"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const (
	Title = "infobar"
)

// InfoBarViewHeight info bar height.
const (
	InfoBarViewHeight = 5
	processRow        = 0
	pidRow            = 1
	libraryRow        = 2
	scannerRow        = 3
	httpServerRow     = 4

	// 列索引
	labelCol1 = 0 // 第一列标签
	valueCol1 = 1 // 第一列值
	labelCol2 = 2 // 第二列标签
	valueCol2 = 3 // 第二列值
)

var labels = [InfoBarViewHeight][2]string{
	processRow:    {"Process:", "Version:"},
	pidRow:        {"PID:", "ExePath:"},
	libraryRow:    {"Library:", "Libraries:"},
	scannerRow:    {"Scanner:", "Icons:"},
	httpServerRow: {"HTTP Server:", ""},
}

// InfoBar implements the info bar primitive.
type InfoBar struct {
	*tview.Box
	title string
	table *tview.Table
}

// New returns info bar view.
func New() *InfoBar {
	table := tview.NewTable()
	headerColor := style.InfoBarItemFgColor

	for row, pair := range labels {
		table.SetCell(row, labelCol1, tview.NewTableCell(fmt.Sprintf(" [%s::]%s", headerColor, pair[0])))
		table.SetCell(row, valueCol1, tview.NewTableCell(""))
		if pair[1] == "" {
			continue
		}
		table.SetCell(row, labelCol2, tview.NewTableCell(fmt.Sprintf(" [%s::]%s", headerColor, pair[1])))
		table.SetCell(row, valueCol2, tview.NewTableCell(""))
	}

	return &InfoBar{
		Box:   tview.NewBox(),
		title: Title,
		table: table,
	}
}

// UpdateProcess shows the selected process; pid 0 with an empty name clears the rows.
func (info *InfoBar) UpdateProcess(name string, pid uint32, exePath string, version string) {
	pidText := ""
	if name != "" {
		pidText = fmt.Sprintf("%d", pid)
	} else {
		name = "[gray]未选择[-]"
	}
	info.table.GetCell(processRow, valueCol1).SetText(name)
	info.table.GetCell(processRow, valueCol2).SetText(version)
	info.table.GetCell(pidRow, valueCol1).SetText(pidText)
	info.table.GetCell(pidRow, valueCol2).SetText(exePath)
}

func (info *InfoBar) UpdateLibrary(selected string, total, missing int) {
	if selected == "" {
		selected = "[gray]未选择[-]"
	}
	info.table.GetCell(libraryRow, valueCol1).SetText(selected)

	count := fmt.Sprintf("%d", total)
	if missing > 0 {
		count += fmt.Sprintf(" ([%s]%d 缺失[-])", style.GetColorHex(style.MissingFgColor), missing)
	}
	info.table.GetCell(libraryRow, valueCol2).SetText(count)
}

func (info *InfoBar) UpdateScanner(status string) {
	info.table.GetCell(scannerRow, valueCol1).SetText(status)
}

func (info *InfoBar) UpdateIcons(cached, pending int) {
	info.table.GetCell(scannerRow, valueCol2).SetText(fmt.Sprintf("%d 已缓存, %d 等待中", cached, pending))
}

// UpdateHTTPServer updates HTTP Server value.
func (info *InfoBar) UpdateHTTPServer(server string) {
	info.table.GetCell(httpServerRow, valueCol1).SetText(server)
}

// Draw draws this primitive onto the screen.
func (info *InfoBar) Draw(screen tcell.Screen) {
	info.Box.DrawForSubclass(screen, info)
	info.Box.SetBorder(false)

	x, y, width, height := info.GetInnerRect()

	info.table.SetRect(x, y, width, height)
	info.table.SetBorder(false)
	info.table.Draw(screen)
}
