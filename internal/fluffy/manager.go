package fluffy

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/sjzar/fluffy/internal/errors"
	"github.com/sjzar/fluffy/internal/fluffy/conf"
	"github.com/sjzar/fluffy/internal/fluffy/ctx"
	"github.com/sjzar/fluffy/internal/fluffy/http"
	"github.com/sjzar/fluffy/internal/icon"
	"github.com/sjzar/fluffy/internal/inject"
	"github.com/sjzar/fluffy/internal/model"
	"github.com/sjzar/fluffy/internal/pipeline"
	"github.com/sjzar/fluffy/internal/process"
	"github.com/sjzar/fluffy/pkg/appver"
	"github.com/sjzar/fluffy/pkg/config"
	"github.com/sjzar/fluffy/pkg/filemonitor"
	"github.com/sjzar/fluffy/pkg/util"
)

// Manager 管理注入工具的各个服务
type Manager struct {
	ctx *ctx.Context
	tcm *config.Manager
	sc  *conf.ServerConfig
	scm *config.Manager

	// OS access, replaceable in tests
	source    process.Source
	extractor icon.Extractor
	engine    *inject.Engine

	// Services
	pipeline *pipeline.Coordinator
	http     *http.Service
	monitor  *filemonitor.FileMonitor
	versions *appver.Cache

	// Terminal UI
	app *App
}

func New() *Manager {
	return &Manager{
		source:    process.NewSource(),
		extractor: icon.NewExtractor(),
		engine:    inject.New(),
		versions:  appver.NewCache(),
	}
}

func (m *Manager) Run(configPath string) error {

	tc, tcm, err := conf.LoadTUIConfig(configPath)
	if err != nil {
		return err
	}
	m.tcm = tcm
	m.ctx = ctx.New(tc, tcm)

	m.startBackground()
	defer m.shutdown()

	m.http = http.NewService(m.ctx, m.ctx)
	if m.ctx.HTTPEnabled() {
		// 启动HTTP服务
		if err := m.StartService(); err != nil {
			log.Info().Err(err).Msg("启动服务失败")
			m.ctx.AddToast(ctx.ToastError, "HTTP 服务启动失败: "+err.Error())
			m.StopService()
		}
	}

	// 启动终端UI
	m.app = NewApp(m.ctx, m)
	return m.app.Run() // 阻塞
}

// startBackground starts the pipeline workers and the library file monitor.
func (m *Manager) startBackground() {
	m.pipeline = pipeline.New(
		process.NewScanner(m.source, m.ctx.ScanInterval()),
		icon.NewResolver(m.extractor),
	)
	m.pipeline.Start()

	m.monitor = filemonitor.NewFileMonitor(func(path string, exists bool) {
		m.ctx.SetLibraryMissing(path, !exists)
	})
	if err := m.monitor.Start(); err != nil {
		log.Debug().Err(err).Msg("start library monitor failed")
	}
	m.monitor.SetFiles(m.ctx.LibraryPaths())
}

// shutdown drops the consumer end of the pipeline. Workers blocked in an OS
// call exit at their next send, so this does not wait for them.
func (m *Manager) shutdown() {
	if m.pipeline != nil {
		m.pipeline.Close()
	}
	if m.monitor != nil {
		m.monitor.Stop()
	}
	if m.http != nil {
		m.http.Stop()
	}
}

// Drain applies everything the pipeline produced since the last call and
// forwards the icon requests the new state calls for. It never blocks and
// reports whether anything changed.
func (m *Manager) Drain() bool {
	msgs := m.pipeline.Drain()
	for _, msg := range msgs {
		m.apply(msg)
	}
	return len(msgs) > 0
}

func (m *Manager) apply(msg model.Message) {
	for _, req := range m.ctx.Apply(msg) {
		m.pipeline.RequestIcon(req.PID, req.ExePath)
	}
}

// Refresh lets the next snapshot through and asks for it right away.
func (m *Manager) Refresh() {
	m.ctx.RequestRefresh()
	m.pipeline.Refresh()
}

func (m *Manager) ToggleAutoRefresh() error {
	enabled := !m.ctx.AutoRefresh()
	err := m.ctx.SetAutoRefresh(enabled)
	if enabled {
		m.pipeline.Refresh()
	}
	return err
}

func (m *Manager) SelectProcess(pid uint32) error {
	return m.ctx.SelectProcess(pid)
}

func (m *Manager) SelectLibrary(index int) error {
	return m.ctx.SelectLibrary(index)
}

// AddLibrary adds path to the list and starts watching it. A config write
// failure still leaves the library in the list.
func (m *Manager) AddLibrary(path string) error {
	path = strings.Trim(strings.TrimSpace(path), `"`)
	err := m.ctx.AddLibrary(path)
	if err != nil && !errors.Is(err, errors.ErrTypeConfig) {
		return err
	}
	if m.monitor != nil {
		m.monitor.Add(path)
	}
	return err
}

func (m *Manager) RemoveLibrary(index int) error {
	libs := m.ctx.LibraryPaths()
	if index < 0 || index >= len(libs) {
		return errors.InvalidIndex(index, len(libs))
	}
	err := m.ctx.RemoveLibrary(index)
	if err != nil && !errors.Is(err, errors.ErrTypeConfig) {
		return err
	}
	if m.monitor != nil {
		m.monitor.Remove(libs[index])
	}
	return err
}

// Inject loads the selected library into the selected process.
func (m *Manager) Inject() error {
	pid, ok := m.ctx.SelectedPID()
	if !ok {
		return errors.RequiredParam("process")
	}
	path, ok := m.ctx.SelectedLibraryPath()
	if !ok {
		return errors.RequiredParam("library")
	}
	return m.engine.Inject(pid, path)
}

// ExeInfo returns the version metadata of the selected process, or nil.
func (m *Manager) ExeInfo() *appver.Info {
	p, ok := m.ctx.SelectedProcess()
	if !ok {
		return nil
	}
	return m.versions.Get(p.ExePath)
}

func (m *Manager) StartService() error {
	if err := m.http.Start(); err != nil {
		return err
	}

	// 更新状态
	return m.ctx.SetHTTPEnabled(true)
}

func (m *Manager) StopService() error {
	if err := m.http.Stop(); err != nil {
		return err
	}

	// 更新状态
	return m.ctx.SetHTTPEnabled(false)
}

func (m *Manager) SetHTTPAddr(text string) error {
	addr := util.NormalizeAddr(text)
	if addr == "" {
		return errors.InvalidParam("http_addr", text)
	}
	return m.ctx.SetHTTPAddr(addr)
}

// CommandProcesses takes one snapshot and returns the processes whose
// name contains keyword, sorted by name then pid.
func (m *Manager) CommandProcesses(keyword string) []model.Process {
	c := ctx.New(nil, nil)
	c.ApplySnapshot(process.NewScanner(m.source, 0).Scan())
	return c.Search(keyword)
}

// CommandInject runs one injection outside the TUI. A missing library file
// is reported before any process is touched; pid checks are left to the engine.
func (m *Manager) CommandInject(pid uint32, path string) error {
	if !util.FileExists(path) {
		return errors.LibraryNotFound(path, nil)
	}
	return m.engine.Inject(pid, path)
}

// CommandHTTPServer runs the pipeline and the HTTP API without a terminal.
func (m *Manager) CommandHTTPServer(configPath string, cmdConf map[string]any) error {

	var err error
	m.sc, m.scm, err = conf.LoadServiceConfig(configPath, cmdConf)
	if err != nil {
		return err
	}

	m.ctx = ctx.New(&conf.TUIConfig{
		DLLs:         m.sc.GetDLLs(),
		ScanInterval: m.sc.GetScanInterval(),
		AutoRefresh:  true,
		HTTPAddr:     m.sc.GetHTTPAddr(),
	}, nil)

	m.startBackground()
	defer m.shutdown()

	go m.consume()

	m.http = http.NewService(m.sc, m.ctx)
	return m.http.ListenAndServe()
}

// consume applies pipeline messages as they arrive until the pipeline closes.
func (m *Manager) consume() {
	for {
		select {
		case <-m.pipeline.Done():
			return
		case msg := <-m.pipeline.Messages():
			m.apply(msg)
		}
	}
}

// Describe is a one line summary of an injection error for toasts and the
// CLI. The detail in parentheses is the innermost cause, usually the OS error.
func Describe(err error) string {
	if err == nil {
		return "注入成功"
	}
	detail := errors.RootCause(err)
	switch errors.GetType(err) {
	case errors.ErrTypeNotFound:
		return fmt.Sprintf("注入失败: 目标不存在 (%v)", detail)
	case errors.ErrTypePermission:
		return fmt.Sprintf("注入失败: 权限不足, 请以管理员身份运行 (%v)", detail)
	default:
		return fmt.Sprintf("注入失败: %v", detail)
	}
}
