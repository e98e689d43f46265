package help

import (
	"fmt"

	"github.com/sjzar/fluffy/internal/ui/style"

	"github.com/rivo/tview"
)

const (
	Title     = "help"
	ShowTitle = "帮助"
	Content   = `[yellow]Fluffy 使用指南[white]

[green]基本操作:[white]
• 使用 [yellow]←→[white] 键在工作台、菜单和帮助页面之间切换
• 使用 [yellow]↑↓[white] 键在列表项之间移动, [yellow]Tab[white] 在进程列表和动态库列表之间切换
• 按 [yellow]Enter[white] 选择进程或动态库
• 按 [yellow]/[white] 搜索进程名, [yellow]Esc[white] 返回列表
• 按 [yellow]Ctrl+C[white] 退出程序

[green]快捷键:[white]
• [yellow]i[white] 把选中的动态库注入选中的进程
• [yellow]r[white] 立即刷新进程列表
• [yellow]a[white] 开启/关闭自动刷新 (关闭后只有手动刷新才会更新列表)
• [yellow]n[white] 添加动态库路径
• [yellow]d[white] 移除选中的动态库

[green]使用步骤:[white]

[yellow]1. 添加动态库[white]
   按 [yellow]n[white] 或选择"添加动态库"菜单项, 输入 DLL 的完整路径。
   列表会保存到配置文件, 下次启动自动加载。文件被删除或移动时会标记为缺失。

[yellow]2. 选择目标进程[white]
   在进程列表中按 [yellow]Enter[white] 选择进程, 程序会记住进程名,
   进程重启后按名称自动重新选中。

[yellow]3. 注入[white]
   按 [yellow]i[white], 结果以提示条显示在底部, 5 秒后自动消失。
   注入需要对目标进程有足够权限, 通常需要以管理员身份运行。

[yellow]4. 启动 HTTP 服务[white]
   选择"启动 HTTP 服务"菜单项, 默认监听 127.0.0.1:5031, 只提供只读查询。

[green]HTTP API 使用:[white]
• 进程列表: [yellow]GET http://127.0.0.1:5031/api/v1/process?keyword=xxx[white]
• 单个进程: [yellow]GET http://127.0.0.1:5031/api/v1/process/1234[white]
• 进程图标: [yellow]GET http://127.0.0.1:5031/api/v1/icon/1234[white] (PNG)
• 动态库列表: [yellow]GET http://127.0.0.1:5031/api/v1/library[white]

[green]常见问题:[white]
• 图标只在 Windows 上可用, 其他平台显示占位符
• 进程退出后 PID 可能被复用, 选中状态按进程名恢复
• 如果 HTTP 服务启动失败, 请检查端口是否被占用
`
)

type Help struct {
	*tview.TextView
	title string
}

func New() *Help {
	help := &Help{
		TextView: tview.NewTextView(),
		title:    Title,
	}

	help.SetDynamicColors(true)
	help.SetRegions(true)
	help.SetWrap(true)
	help.SetTextAlign(tview.AlignLeft)
	help.SetBorder(true)
	help.SetBorderColor(style.BorderColor)
	help.SetTitle(ShowTitle)

	fmt.Fprint(help, Content)

	return help
}
