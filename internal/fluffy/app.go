package fluffy

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/sjzar/fluffy/internal/errors"
	"github.com/sjzar/fluffy/internal/fluffy/ctx"
	"github.com/sjzar/fluffy/internal/ui/footer"
	"github.com/sjzar/fluffy/internal/ui/form"
	"github.com/sjzar/fluffy/internal/ui/help"
	"github.com/sjzar/fluffy/internal/ui/iconview"
	"github.com/sjzar/fluffy/internal/ui/infobar"
	"github.com/sjzar/fluffy/internal/ui/liblist"
	"github.com/sjzar/fluffy/internal/ui/menu"
	"github.com/sjzar/fluffy/internal/ui/proclist"
	"github.com/sjzar/fluffy/internal/ui/toast"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const (
	// RefreshInterval is how often pipeline output is drained into the view.
	RefreshInterval = 200 * time.Millisecond

	iconViewHeight = 10
	toastBarHeight = 1

	tabWorkspace = 0

	menuIndexAutoRefresh = 3
	menuIndexHTTP        = 6
)

type App struct {
	*tview.Application

	ctx         *ctx.Context
	m           *Manager
	stopRefresh chan struct{}
	stopOnce    sync.Once

	// page
	mainPages *tview.Pages
	infoBar   *infobar.InfoBar
	tabPages  *tview.Pages
	toastBar  *toast.Bar
	footer    *footer.Footer

	// workspace
	procList *proclist.ProcessList
	libList  *liblist.LibraryList
	iconView *iconview.IconView

	// tab
	menu      *menu.Menu
	help      *help.Help
	activeTab int
	tabCount  int

	injecting bool
}

func NewApp(ctx *ctx.Context, m *Manager) *App {
	app := &App{
		ctx:         ctx,
		m:           m,
		stopRefresh: make(chan struct{}),
		Application: tview.NewApplication(),
		mainPages:   tview.NewPages(),
		infoBar:     infobar.New(),
		tabPages:    tview.NewPages(),
		toastBar:    toast.New(),
		footer:      footer.New(),
		procList:    proclist.New(),
		libList:     liblist.New(),
		iconView:    iconview.New(),
		menu:        menu.New("主菜单"),
		help:        help.New(),
	}

	app.procList.
		SetSelectedFunc(app.selectProcess).
		SetChangedFunc(func(text string) {
			app.ctx.SetFilter(text)
			app.render()
		}).
		SetSearchDoneFunc(func(key tcell.Key) {
			app.SetFocus(app.procList.Table())
		})
	app.libList.SetSelectedFunc(app.selectLibrary)

	app.initMenu()

	app.updateMenuItemsState()

	return app
}

func (a *App) Run() error {

	right := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.iconView, iconViewHeight, 0, false).
		AddItem(a.libList, 0, 1, false)

	workspace := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(a.procList, 0, 3, true).
		AddItem(right, 0, 2, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.infoBar, infobar.InfoBarViewHeight, 0, false).
		AddItem(a.tabPages, 0, 1, true).
		AddItem(a.toastBar, toastBarHeight, 0, false).
		AddItem(a.footer, 1, 1, false)

	a.mainPages.AddPage("main", flex, true, true)

	a.tabPages.
		AddPage("0", workspace, true, true).
		AddPage("1", a.menu, true, false).
		AddPage("2", a.help, true, false)
	a.tabCount = 3

	a.SetInputCapture(a.inputCapture)

	a.render()
	go a.refresh()

	if err := a.SetRoot(a.mainPages, true).EnableMouse(false).Run(); err != nil {
		return err
	}

	return nil
}

func (a *App) Stop() {
	a.stopOnce.Do(func() {
		close(a.stopRefresh)
	})
	a.Application.Stop()
}

func (a *App) updateMenuItemsState() {
	for _, item := range a.menu.GetItems() {
		switch item.Index {
		case menuIndexAutoRefresh:
			if a.ctx.AutoRefresh() {
				item.Name = "关闭自动刷新"
				item.Description = "停止更新进程列表, 只在手动刷新时更新"
			} else {
				item.Name = "开启自动刷新"
				item.Description = fmt.Sprintf("每 %s 自动更新进程列表", a.ctx.ScanInterval())
			}
		case menuIndexHTTP:
			if a.ctx.HTTPEnabled() {
				item.Name = "停止 HTTP 服务"
				item.Description = "停止本地只读 HTTP 服务"
			} else {
				item.Name = "启动 HTTP 服务"
				item.Description = "启动本地只读 HTTP 服务"
			}
		}
	}
}

func (a *App) switchTab(step int) {
	index := (a.activeTab + step) % a.tabCount
	if index < 0 {
		index = a.tabCount - 1
	}
	a.activeTab = index
	a.tabPages.SwitchToPage(fmt.Sprint(a.activeTab))
	a.SetFocus(a.tabPages)
}

// refresh drains the pipeline on the UI goroutine at a fixed pace.
func (a *App) refresh() {
	tick := time.NewTicker(RefreshInterval)
	defer tick.Stop()

	for {
		select {
		case <-a.stopRefresh:
			return
		case <-tick.C:
			a.QueueUpdateDraw(func() {
				a.m.Drain()
				a.render()
			})
		}
	}
}

// render copies the context into the widgets. UI goroutine only.
func (a *App) render() {
	selectedPID, hasSelected := a.ctx.SelectedPID()
	a.procList.Update(a.ctx.VisibleProcesses(), a.ctx.Icon, selectedPID, hasSelected, a.ctx.IsLoading())

	libs := a.ctx.Libraries()
	entries := make([]liblist.Entry, len(libs))
	missing := 0
	for i, lib := range libs {
		entries[i] = liblist.Entry{Path: lib.Path, Selected: lib.Selected, Missing: lib.Missing}
		if lib.Missing {
			missing++
		}
	}
	a.libList.Update(entries)
	selectedLib, _ := a.ctx.SelectedLibraryPath()
	a.infoBar.UpdateLibrary(selectedLib, len(libs), missing)

	if p, ok := a.ctx.SelectedProcess(); ok {
		a.infoBar.UpdateProcess(p.Name, p.PID, p.ExePath, a.m.ExeInfo().Title())
		if icon, ok := a.ctx.Icon(p.PID); ok {
			a.iconView.SetIcon(icon, "")
		} else if a.ctx.IsPending(p.PID) {
			a.iconView.SetIcon(nil, "加载中...")
		} else {
			a.iconView.SetIcon(nil, "无图标")
		}
	} else {
		a.infoBar.UpdateProcess("", 0, "", "")
		a.iconView.SetIcon(nil, "未选择进程")
	}

	switch {
	case a.ctx.IsLoading():
		a.infoBar.UpdateScanner("[yellow][扫描中][white]")
	case a.ctx.AutoRefresh():
		a.infoBar.UpdateScanner(fmt.Sprintf("[green][自动刷新][white] 每 %s", a.ctx.ScanInterval()))
	default:
		a.infoBar.UpdateScanner("[已暂停] 按 r 手动刷新")
	}
	a.infoBar.UpdateIcons(a.ctx.IconCount(), a.m.pipeline.PendingRequests())

	if a.ctx.HTTPEnabled() {
		a.infoBar.UpdateHTTPServer(fmt.Sprintf("[green][已启动][white] [%s]", a.ctx.HTTPAddr()))
	} else {
		a.infoBar.UpdateHTTPServer("[未启动]")
	}

	toasts := a.ctx.Toasts()
	items := make([]toast.Item, len(toasts))
	for i, t := range toasts {
		items[i] = toast.Item{Level: t.Level.String(), Message: t.Message}
	}
	a.toastBar.Update(items)
}

func (a *App) inputCapture(event *tcell.EventKey) *tcell.EventKey {

	if event.Key() == tcell.KeyCtrlC {
		a.Stop()
		return nil
	}

	// 如果当前页面不是主页面，ESC 键返回主页面
	if a.mainPages.HasPage("submenu") && event.Key() == tcell.KeyEscape {
		a.mainPages.RemovePage("submenu")
		a.mainPages.SwitchToPage("main")
		return nil
	}

	// 弹窗和输入框自己处理按键
	if a.mainPages.HasPage("modal") || a.mainPages.HasPage("submenu") || a.mainPages.HasPage("submenu2") {
		return event
	}
	if a.procList.Search().HasFocus() {
		return event
	}

	if a.tabPages.HasFocus() {
		switch event.Key() {
		case tcell.KeyLeft:
			a.switchTab(-1)
			return nil
		case tcell.KeyRight:
			a.switchTab(1)
			return nil
		}
	}

	if a.activeTab == tabWorkspace {
		switch {
		case event.Key() == tcell.KeyTab:
			if a.libList.HasFocus() {
				a.SetFocus(a.procList.Table())
			} else {
				a.SetFocus(a.libList)
			}
			return nil
		case event.Key() == tcell.KeyRune && event.Rune() == '/':
			a.SetFocus(a.procList.Search())
			return nil
		}
	}

	if event.Key() == tcell.KeyRune && a.menu.Trigger(string(event.Rune())) {
		return nil
	}

	return event
}

func (a *App) initMenu() {
	injectItem := &menu.Item{
		Index:       1,
		Key:         "i",
		Name:        "注入",
		Description: "把选中的动态库注入选中的进程",
		Selected:    a.injectSelected,
	}

	refreshItem := &menu.Item{
		Index:       2,
		Key:         "r",
		Name:        "刷新进程列表",
		Description: "立即扫描进程",
		Selected: func(i *menu.Item) {
			a.m.Refresh()
			a.ctx.AddToast(ctx.ToastInfo, "正在刷新进程列表")
			a.render()
		},
	}

	autoRefreshItem := &menu.Item{
		Index:       menuIndexAutoRefresh,
		Key:         "a",
		Name:        "开启自动刷新",
		Description: "每隔一段时间自动更新进程列表",
		Selected: func(i *menu.Item) {
			if err := a.m.ToggleAutoRefresh(); err != nil {
				a.ctx.AddToast(ctx.ToastError, "保存配置失败: "+err.Error())
			} else if a.ctx.AutoRefresh() {
				a.ctx.AddToast(ctx.ToastInfo, "已开启自动刷新")
			} else {
				a.ctx.AddToast(ctx.ToastInfo, "已关闭自动刷新")
			}
			a.updateMenuItemsState()
			a.render()
		},
	}

	addLibraryItem := &menu.Item{
		Index:       4,
		Key:         "n",
		Name:        "添加动态库",
		Description: "输入 DLL 的完整路径",
		Selected:    a.addLibrarySelected,
	}

	removeLibraryItem := &menu.Item{
		Index:       5,
		Key:         "d",
		Name:        "移除动态库",
		Description: "从列表中移除光标所在的动态库",
		Selected:    a.removeLibrarySelected,
	}

	httpServerItem := &menu.Item{
		Index:       menuIndexHTTP,
		Key:         "s",
		Name:        "启动 HTTP 服务",
		Description: "启动本地只读 HTTP 服务",
		Selected:    a.toggleHTTPServer,
	}

	setting := &menu.Item{
		Index:       7,
		Name:        "设置",
		Description: "设置应用程序选项",
		Selected:    a.settingSelected,
	}

	a.menu.AddItem(injectItem)
	a.menu.AddItem(refreshItem)
	a.menu.AddItem(autoRefreshItem)
	a.menu.AddItem(addLibraryItem)
	a.menu.AddItem(removeLibraryItem)
	a.menu.AddItem(httpServerItem)
	a.menu.AddItem(setting)

	a.menu.AddItem(&menu.Item{
		Index:       8,
		Name:        "退出",
		Description: "退出程序",
		Selected: func(i *menu.Item) {
			a.Stop()
		},
	})
}

func (a *App) selectProcess(pid uint32) {
	if err := a.m.SelectProcess(pid); err != nil {
		if errors.Is(err, errors.ErrTypeConfig) {
			a.ctx.AddToast(ctx.ToastError, "保存配置失败: "+err.Error())
		} else {
			a.ctx.AddToast(ctx.ToastWarning, err.Error())
		}
	}
	a.render()
}

func (a *App) selectLibrary(index int) {
	if err := a.m.SelectLibrary(index); err != nil {
		a.ctx.AddToast(ctx.ToastWarning, err.Error())
	}
	a.render()
}

// injectSelected runs the injection off the UI goroutine; the result comes
// back as a toast.
func (a *App) injectSelected(i *menu.Item) {
	if a.injecting {
		return
	}
	if _, ok := a.ctx.SelectedPID(); !ok {
		a.ctx.AddToast(ctx.ToastWarning, "请先选择目标进程")
		a.render()
		return
	}
	if _, ok := a.ctx.SelectedLibraryPath(); !ok {
		a.ctx.AddToast(ctx.ToastWarning, "请先选择动态库")
		a.render()
		return
	}

	a.injecting = true
	go func() {
		err := a.m.Inject()

		// 在主线程中更新UI
		a.QueueUpdateDraw(func() {
			a.injecting = false
			if err != nil {
				a.ctx.AddToast(ctx.ToastError, Describe(err))
			} else {
				a.ctx.AddToast(ctx.ToastSuccess, Describe(nil))
			}
			a.render()
		})
	}()
}

func (a *App) addLibrarySelected(i *menu.Item) {
	const label = "路径"

	formView := form.NewForm("添加动态库")
	formView.AddInputField(label, "", 60, nil, nil)

	formView.AddButton("添加", func() {
		path := formView.InputText(label)
		a.mainPages.RemovePage("submenu2")

		err := a.m.AddLibrary(path)
		switch {
		case err == nil:
			a.ctx.AddToast(ctx.ToastSuccess, "已添加 "+filepath.Base(path))
		case errors.Is(err, errors.ErrTypeConfig):
			a.ctx.AddToast(ctx.ToastError, "保存配置失败: "+err.Error())
		default:
			a.ctx.AddToast(ctx.ToastWarning, err.Error())
		}
		a.render()
	})

	formView.AddButton("取消", func() {
		a.mainPages.RemovePage("submenu2")
	})
	formView.SetCancelFunc(func() {
		a.mainPages.RemovePage("submenu2")
	})

	a.mainPages.AddPage("submenu2", formView, true, true)
	a.SetFocus(formView)
}

func (a *App) removeLibrarySelected(i *menu.Item) {
	index, ok := a.libList.CurrentIndex()
	if !ok {
		a.ctx.AddToast(ctx.ToastWarning, "没有可移除的动态库")
		a.render()
		return
	}
	path := a.ctx.LibraryPaths()[index]

	a.showModal(fmt.Sprintf("移除动态库 %s ?", path), []string{"移除", "取消"}, func(buttonIndex int, buttonLabel string) {
		a.mainPages.RemovePage("modal")
		if buttonIndex != 0 {
			return
		}
		if err := a.m.RemoveLibrary(index); err != nil {
			a.ctx.AddToast(ctx.ToastError, err.Error())
		} else {
			a.ctx.AddToast(ctx.ToastInfo, "已移除 "+filepath.Base(path))
		}
		a.render()
	})
}

func (a *App) toggleHTTPServer(i *menu.Item) {
	starting := !a.ctx.HTTPEnabled()

	modal := tview.NewModal()
	if starting {
		modal.SetText("正在启动 HTTP 服务...")
	} else {
		modal.SetText("正在停止 HTTP 服务...")
	}
	a.mainPages.AddPage("modal", modal, true, true)
	a.SetFocus(modal)

	go func() {
		var err error
		if starting {
			err = a.m.StartService()
		} else {
			err = a.m.StopService()
		}

		// 在主线程中更新UI
		a.QueueUpdateDraw(func() {
			a.mainPages.RemovePage("modal")
			switch {
			case err != nil && starting:
				a.showError(fmt.Errorf("启动 HTTP 服务失败: %v", err))
			case err != nil:
				a.showError(fmt.Errorf("停止 HTTP 服务失败: %v", err))
			case starting:
				a.ctx.AddToast(ctx.ToastSuccess, "HTTP 服务已启动 "+a.ctx.HTTPAddr())
			default:
				a.ctx.AddToast(ctx.ToastInfo, "HTTP 服务已停止")
			}
			a.updateMenuItemsState()
			a.render()
		})
	}()
}

func (a *App) settingSelected(i *menu.Item) {

	settings := []settingItem{
		{
			name:        "设置 HTTP 服务地址",
			description: "配置 HTTP 服务监听的地址, 重启服务后生效",
			action:      a.settingHTTPAddr,
		},
		{
			name:        "切换自动刷新",
			description: "开启或关闭进程列表自动刷新",
			action: func() {
				a.menu.Trigger("a")
			},
		},
	}

	subMenu := menu.NewSubMenu("设置")
	for idx, setting := range settings {
		item := &menu.Item{
			Index:       idx + 1,
			Name:        setting.name,
			Description: setting.description,
			Selected: func(action func()) func(*menu.Item) {
				return func(*menu.Item) {
					a.mainPages.RemovePage("submenu")
					action()
				}
			}(setting.action),
		}
		subMenu.AddItem(item)
	}
	subMenu.SetCancelFunc(func() {
		a.mainPages.RemovePage("submenu")
	})

	a.mainPages.AddPage("submenu", subMenu, true, true)
	a.SetFocus(subMenu)
}

type settingItem struct {
	name        string
	description string
	action      func()
}

func (a *App) settingHTTPAddr() {
	const label = "地址"

	formView := form.NewForm("设置 HTTP 地址")
	formView.AddInputField(label, a.ctx.HTTPAddr(), 0, nil, nil)

	formView.AddButton("保存", func() {
		text := formView.InputText(label)
		a.mainPages.RemovePage("submenu2")
		if err := a.m.SetHTTPAddr(text); err != nil {
			a.showError(err)
			return
		}
		a.showInfo("HTTP 地址已设置为 " + a.ctx.HTTPAddr())
	})

	formView.AddButton("取消", func() {
		a.mainPages.RemovePage("submenu2")
	})
	formView.SetCancelFunc(func() {
		a.mainPages.RemovePage("submenu2")
	})

	a.mainPages.AddPage("submenu2", formView, true, true)
	a.SetFocus(formView)
}

// showModal 显示一个模态对话框
func (a *App) showModal(text string, buttons []string, doneFunc func(buttonIndex int, buttonLabel string)) {
	modal := tview.NewModal().
		SetText(text).
		AddButtons(buttons).
		SetDoneFunc(doneFunc)

	a.mainPages.AddPage("modal", modal, true, true)
	a.SetFocus(modal)
}

// showError 显示错误对话框
func (a *App) showError(err error) {
	a.showModal(err.Error(), []string{"OK"}, func(buttonIndex int, buttonLabel string) {
		a.mainPages.RemovePage("modal")
	})
}

// showInfo 显示信息对话框
func (a *App) showInfo(text string) {
	a.showModal(text, []string{"OK"}, func(buttonIndex int, buttonLabel string) {
		a.mainPages.RemovePage("modal")
	})
}
