package ctx

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sjzar/fluffy/internal/errors"
	"github.com/sjzar/fluffy/internal/fluffy/conf"
	"github.com/sjzar/fluffy/internal/model"
)

// Persister writes a single config key through to disk.
type Persister interface {
	SetConfig(key string, value any) error
}

type iconEntry struct {
	path string
	icon *model.Icon
}

// Library is one entry of the library list as shown to the operator.
type Library struct {
	Path     string `json:"path"`
	Selected bool   `json:"selected"`
	Missing  bool   `json:"missing"`
}

// Context holds everything the foreground knows: the latest snapshot, the
// icon cache, selections, and the library list. The UI goroutine and the
// library monitor write it, the HTTP service reads it concurrently.
type Context struct {
	cm  Persister
	mu  sync.RWMutex
	now func() time.Time

	// 进程列表相关状态
	processes        []model.Process
	loading          bool
	autoRefresh      bool
	refreshRequested bool
	filter           string
	selectedPID      uint32
	hasSelection     bool
	lastSelectedApp  string
	scanInterval     time.Duration

	// 图标缓存
	icons   map[uint32]iconEntry
	pending map[uint32]string

	// 动态库列表
	dlls        []string
	selectedDLL int
	missing     map[string]bool

	// HTTP服务相关状态
	httpEnabled bool
	httpAddr    string

	toasts []Toast
}

func New(cfg *conf.TUIConfig, cm Persister) *Context {
	c := &Context{
		cm:           cm,
		now:          time.Now,
		loading:      true,
		autoRefresh:  true,
		scanInterval: conf.DefaultScanInterval,
		icons:        make(map[uint32]iconEntry),
		pending:      make(map[uint32]string),
		selectedDLL:  -1,
		missing:      make(map[string]bool),
		httpAddr:     conf.DefaultHTTPAddr,
	}
	if cfg != nil {
		c.loadConfig(cfg)
	}
	return c
}

func (c *Context) loadConfig(cfg *conf.TUIConfig) {
	for _, dll := range cfg.DLLs {
		if dll != "" && !contains(c.dlls, dll) {
			c.dlls = append(c.dlls, dll)
		}
	}
	c.lastSelectedApp = cfg.LastSelectedApp
	c.autoRefresh = cfg.AutoRefresh
	if cfg.ScanInterval > 0 {
		c.scanInterval = cfg.ScanInterval
	}
	c.httpEnabled = cfg.HTTPEnabled
	if cfg.HTTPAddr != "" {
		c.httpAddr = cfg.HTTPAddr
	}
}

// ApplySnapshot replaces the process list and returns the icon requests
// the new list calls for. With auto refresh off, snapshots after the first
// are ignored until RequestRefresh.
func (c *Context) ApplySnapshot(processes []model.Process) []model.IconRequest {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loading && !c.autoRefresh && !c.refreshRequested {
		return nil
	}
	c.loading = false
	c.refreshRequested = false

	list := make([]model.Process, len(processes))
	copy(list, processes)
	sort.Slice(list, func(i, j int) bool {
		a, b := strings.ToLower(list[i].Name), strings.ToLower(list[j].Name)
		if a != b {
			return a < b
		}
		return list[i].PID < list[j].PID
	})
	c.processes = list

	if c.lastSelectedApp != "" {
		for _, p := range list {
			if p.Name == c.lastSelectedApp {
				c.selectedPID, c.hasSelection = p.PID, true
				break
			}
		}
	}

	return c.missingIcons()
}

// missingIcons evicts entries whose pid now belongs to another executable
// and marks every icon it asks for as pending.
func (c *Context) missingIcons() []model.IconRequest {
	var requests []model.IconRequest
	for _, p := range c.processes {
		if p.ExePath == "" {
			continue
		}
		if entry, ok := c.icons[p.PID]; ok {
			if entry.path == p.ExePath {
				continue
			}
			delete(c.icons, p.PID)
		}
		if path, ok := c.pending[p.PID]; ok {
			if path == p.ExePath {
				continue
			}
			delete(c.pending, p.PID)
		}
		c.pending[p.PID] = p.ExePath
		requests = append(requests, model.IconRequest{PID: p.PID, ExePath: p.ExePath})
	}
	return requests
}

// ApplyIcon caches icon for pid.
func (c *Context) ApplyIcon(pid uint32, icon *model.Icon) {
	if icon == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	path, ok := c.pending[pid]
	if !ok {
		path = c.pathOf(pid)
	}
	delete(c.pending, pid)
	c.icons[pid] = iconEntry{path: path, icon: icon}
}

// Apply dispatches a pipeline message and returns any icon requests it
// produced.
func (c *Context) Apply(msg model.Message) []model.IconRequest {
	switch msg.Type {
	case model.MessageSnapshot:
		return c.ApplySnapshot(msg.Processes)
	case model.MessageIcon:
		c.ApplyIcon(msg.PID, msg.Icon)
	}
	return nil
}

func (c *Context) pathOf(pid uint32) string {
	for _, p := range c.processes {
		if p.PID == pid {
			return p.ExePath
		}
	}
	return ""
}

func (c *Context) IsLoading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// RequestRefresh lets the next snapshot through even with auto refresh off.
func (c *Context) RequestRefresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshRequested = true
}

func (c *Context) AutoRefresh() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.autoRefresh
}

func (c *Context) SetAutoRefresh(enabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoRefresh = enabled
	return c.persist("auto_refresh", enabled)
}

func (c *Context) ScanInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scanInterval
}

func (c *Context) SetFilter(filter string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = filter
}

// Processes returns a copy of the current snapshot, sorted by name then pid.
func (c *Context) Processes() []model.Process {
	c.mu.RLock()
	defer c.mu.RUnlock()
	list := make([]model.Process, len(c.processes))
	copy(list, c.processes)
	return list
}

// VisibleProcesses applies the current search filter.
func (c *Context) VisibleProcesses() []model.Process {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return filterProcesses(c.processes, c.filter)
}

// Search returns the processes whose name contains keyword, ignoring case.
func (c *Context) Search(keyword string) []model.Process {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return filterProcesses(c.processes, keyword)
}

func filterProcesses(processes []model.Process, keyword string) []model.Process {
	keyword = strings.ToLower(keyword)
	list := make([]model.Process, 0, len(processes))
	for _, p := range processes {
		if keyword != "" && !strings.Contains(strings.ToLower(p.Name), keyword) {
			continue
		}
		list = append(list, p)
	}
	return list
}

// Process looks pid up in the current snapshot only.
func (c *Context) Process(pid uint32) (model.Process, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.processes {
		if p.PID == pid {
			return p, true
		}
	}
	return model.Process{}, false
}

// SelectProcess selects pid and remembers its name as the last selected app.
func (c *Context) SelectProcess(pid uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var found *model.Process
	for i := range c.processes {
		if c.processes[i].PID == pid {
			found = &c.processes[i]
			break
		}
	}
	if found == nil {
		return errors.ProcessNotFound(pid, nil)
	}

	c.selectedPID, c.hasSelection = pid, true
	c.lastSelectedApp = found.Name
	return c.persist("last_selected_app", found.Name)
}

// SelectedPID returns the selected pid, which may no longer be running.
func (c *Context) SelectedPID() (uint32, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selectedPID, c.hasSelection
}

// SelectedProcess resolves the selection against the current snapshot.
func (c *Context) SelectedProcess() (model.Process, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.hasSelection {
		return model.Process{}, false
	}
	for _, p := range c.processes {
		if p.PID == c.selectedPID {
			return p, true
		}
	}
	return model.Process{}, false
}

func (c *Context) LastSelectedApp() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastSelectedApp
}

func (c *Context) Icon(pid uint32) (*model.Icon, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.icons[pid]
	return entry.icon, ok
}

func (c *Context) IconCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.icons)
}

// IsPending reports whether an icon request for pid is in flight.
func (c *Context) IsPending(pid uint32) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.pending[pid]
	return ok
}

func (c *Context) HTTPEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.httpEnabled
}

func (c *Context) SetHTTPEnabled(enabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.httpEnabled = enabled
	return c.persist("http_enabled", enabled)
}

func (c *Context) HTTPAddr() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.httpAddr
}

// GetHTTPAddr lets the context serve as the HTTP service config.
func (c *Context) GetHTTPAddr() string {
	return c.HTTPAddr()
}

func (c *Context) SetHTTPAddr(addr string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.httpAddr = addr
	return c.persist("http_addr", addr)
}

// AddToast queues a toast for the status bar.
func (c *Context) AddToast(level ToastLevel, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toasts = append(c.toasts, Toast{Level: level, Message: message, Created: c.now()})
}

// Toasts prunes expired toasts and returns the live ones, oldest first.
func (c *Context) Toasts() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	live := c.toasts[:0]
	for _, t := range c.toasts {
		if t.Alive(now) {
			live = append(live, t)
		}
	}
	c.toasts = live
	result := make([]Toast, len(live))
	copy(result, live)
	return result
}

// 更新配置
func (c *Context) persist(key string, value any) error {
	if c.cm == nil {
		return nil
	}
	if err := c.cm.SetConfig(key, value); err != nil {
		return errors.Config("save config", err)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
