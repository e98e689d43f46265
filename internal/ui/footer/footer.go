package footer

import (
	"fmt"

	"github.com/sjzar/fluffy/internal/ui/style"
	"github.com/sjzar/fluffy/pkg/version"

	"github.com/rivo/tview"
)

const (
	Title = "footer"
)

// Keys shown on the right side of the footer, in order.
var Keys = [][2]string{
	{"↑/↓", "导航"},
	{"←/→", "切换标签"},
	{"Tab", "切换列表"},
	{"/", "搜索"},
	{"i", "注入"},
	{"r", "刷新"},
	{"Ctrl+C", "退出"},
}

type Footer struct {
	*tview.Flex
	title     string
	copyRight *tview.TextView
	help      *tview.TextView
}

func New() *Footer {
	footer := &Footer{
		Flex:      tview.NewFlex(),
		title:     Title,
		copyRight: tview.NewTextView(),
		help:      tview.NewTextView(),
	}

	footer.copyRight.
		SetDynamicColors(true).
		SetWrap(true).
		SetTextAlign(tview.AlignLeft)
	footer.copyRight.
		SetBackgroundColor(tview.Styles.PrimitiveBackgroundColor)
	footer.copyRight.SetText(fmt.Sprintf("[%s::b] @ Fluffy %s[-:-:-]", style.GetColorHex(style.PageHeaderFgColor), version.Version))

	footer.help.
		SetDynamicColors(true).
		SetWrap(true).
		SetTextAlign(tview.AlignRight)
	footer.help.
		SetBackgroundColor(tview.Styles.PrimitiveBackgroundColor)
	footer.help.SetText(style.KeyHelp(Keys))

	footer.
		AddItem(footer.copyRight, 0, 1, false).
		AddItem(footer.help, 0, 2, false)

	return footer
}

func (f *Footer) SetCopyRight(text string) {
	f.copyRight.SetText(text)
}

func (f *Footer) SetHelp(text string) {
	f.help.SetText(text)
}
