package ctx

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjzar/fluffy/internal/errors"
	"github.com/sjzar/fluffy/internal/fluffy/conf"
	"github.com/sjzar/fluffy/internal/model"
)

type memPersister struct {
	values map[string]any
	err    error
}

func newMemPersister() *memPersister {
	return &memPersister{values: make(map[string]any)}
}

func (p *memPersister) SetConfig(key string, value any) error {
	if p.err != nil {
		return p.err
	}
	p.values[key] = value
	return nil
}

func icon16() *model.Icon {
	i, _ := model.NewIcon(16, 16, make([]byte, 16*16*4))
	return i
}

func TestNewFromConfig(t *testing.T) {
	c := New(&conf.TUIConfig{
		DLLs:            []string{"a.dll", "a.dll", "", "b.dll"},
		LastSelectedApp: "demo.exe",
		ScanInterval:    2 * time.Second,
		AutoRefresh:     false,
		HTTPAddr:        "127.0.0.1:1",
	}, nil)

	assert.Equal(t, []string{"a.dll", "b.dll"}, c.LibraryPaths())
	assert.Equal(t, "demo.exe", c.LastSelectedApp())
	assert.Equal(t, 2*time.Second, c.ScanInterval())
	assert.False(t, c.AutoRefresh())
	assert.Equal(t, "127.0.0.1:1", c.HTTPAddr())
	assert.True(t, c.IsLoading())
}

func TestApplySnapshotSortsAndRequests(t *testing.T) {
	c := New(nil, nil)
	reqs := c.ApplySnapshot([]model.Process{
		{Name: "zed.exe", PID: 9, ExePath: "/p/zed.exe"},
		{Name: "Alpha.exe", PID: 7, ExePath: ""},
		{Name: "alpha.exe", PID: 3, ExePath: "/p/alpha.exe"},
	})

	assert.False(t, c.IsLoading())
	var pids []uint32
	for _, p := range c.Processes() {
		pids = append(pids, p.PID)
	}
	assert.Equal(t, []uint32{3, 7, 9}, pids)

	// no request for an empty path
	assert.Equal(t, []model.IconRequest{
		{PID: 3, ExePath: "/p/alpha.exe"},
		{PID: 9, ExePath: "/p/zed.exe"},
	}, reqs)
	assert.True(t, c.IsPending(3))
	assert.False(t, c.IsPending(7))
}

func TestNoDuplicateIconRequests(t *testing.T) {
	c := New(nil, nil)
	snap := []model.Process{{Name: "demo.exe", PID: 4242, ExePath: "/p/demo.exe"}}

	require.Len(t, c.ApplySnapshot(snap), 1)
	assert.Empty(t, c.ApplySnapshot(snap), "request already in flight")

	c.ApplyIcon(4242, icon16())
	assert.False(t, c.IsPending(4242))
	assert.Empty(t, c.ApplySnapshot(snap), "icon already cached")

	got, ok := c.Icon(4242)
	require.True(t, ok)
	assert.Equal(t, uint32(16), got.Width)
}

func TestPidReuseEvictsIcon(t *testing.T) {
	c := New(nil, nil)
	c.ApplySnapshot([]model.Process{{Name: "old.exe", PID: 100, ExePath: "/p/old.exe"}})
	c.ApplyIcon(100, icon16())

	reqs := c.ApplySnapshot([]model.Process{{Name: "new.exe", PID: 100, ExePath: "/p/new.exe"}})
	assert.Equal(t, []model.IconRequest{{PID: 100, ExePath: "/p/new.exe"}}, reqs)
	_, ok := c.Icon(100)
	assert.False(t, ok)
	assert.Equal(t, "new.exe", c.Processes()[0].Name)
}

func TestStaleIconKeptForVanishedPid(t *testing.T) {
	c := New(nil, nil)
	c.ApplySnapshot([]model.Process{{Name: "gone.exe", PID: 5, ExePath: "/p/gone.exe"}})
	c.ApplyIcon(5, icon16())
	c.ApplySnapshot([]model.Process{})

	_, ok := c.Icon(5)
	assert.True(t, ok)
	_, ok = c.Process(5)
	assert.False(t, ok)
}

func TestAutoRefreshOff(t *testing.T) {
	c := New(&conf.TUIConfig{AutoRefresh: false}, nil)
	first := []model.Process{{Name: "a", PID: 1}}
	second := []model.Process{{Name: "b", PID: 2}}

	c.ApplySnapshot(first)
	c.ApplySnapshot(second)
	assert.Equal(t, first, c.Processes(), "snapshot ignored without refresh")

	c.RequestRefresh()
	c.ApplySnapshot(second)
	assert.Equal(t, second, c.Processes())

	c.ApplySnapshot(first)
	assert.Equal(t, second, c.Processes(), "refresh applies a single snapshot")
}

func TestSelectProcessPersistsName(t *testing.T) {
	p := newMemPersister()
	c := New(nil, p)
	c.ApplySnapshot([]model.Process{{Name: "demo.exe", PID: 10}})

	require.NoError(t, c.SelectProcess(10))
	assert.Equal(t, "demo.exe", p.values["last_selected_app"])
	sel, ok := c.SelectedProcess()
	require.True(t, ok)
	assert.Equal(t, "demo.exe", sel.Name)

	err := c.SelectProcess(11)
	assert.Equal(t, errors.ErrTypeNotFound, errors.GetType(err))
}

func TestReselectByNameAfterRestart(t *testing.T) {
	c := New(&conf.TUIConfig{LastSelectedApp: "demo.exe", AutoRefresh: true}, nil)
	c.ApplySnapshot([]model.Process{{Name: "other", PID: 1}, {Name: "demo.exe", PID: 10}})
	pid, ok := c.SelectedPID()
	require.True(t, ok)
	assert.Equal(t, uint32(10), pid)

	// demo.exe restarted under a new pid
	c.ApplySnapshot([]model.Process{{Name: "other", PID: 1}, {Name: "demo.exe", PID: 20}})
	pid, _ = c.SelectedPID()
	assert.Equal(t, uint32(20), pid)

	// demo.exe gone: name resolves against the current snapshot only
	c.ApplySnapshot([]model.Process{{Name: "other", PID: 1}})
	_, ok = c.SelectedProcess()
	assert.False(t, ok)
}

func TestPersistFailure(t *testing.T) {
	p := newMemPersister()
	p.err = stderrors.New("disk full")
	c := New(nil, p)
	c.ApplySnapshot([]model.Process{{Name: "demo.exe", PID: 10}})

	err := c.SelectProcess(10)
	assert.Equal(t, errors.ErrTypeConfig, errors.GetType(err))
	sel, ok := c.SelectedProcess()
	require.True(t, ok, "selection kept in memory")
	assert.Equal(t, "demo.exe", sel.Name)
}

func TestFilter(t *testing.T) {
	c := New(nil, nil)
	c.ApplySnapshot([]model.Process{
		{Name: "Notepad.exe", PID: 1},
		{Name: "explorer.exe", PID: 2},
		{Name: "notepad++.exe", PID: 3},
	})

	c.SetFilter("NOTE")
	var pids []uint32
	for _, p := range c.VisibleProcesses() {
		pids = append(pids, p.PID)
	}
	assert.Equal(t, []uint32{1, 3}, pids)
	assert.Len(t, c.Search(""), 3)
}

func TestToastsExpire(t *testing.T) {
	c := New(nil, nil)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.AddToast(ToastInfo, "first")
	now = now.Add(3 * time.Second)
	c.AddToast(ToastError, "second")
	require.Len(t, c.Toasts(), 2)

	now = now.Add(3 * time.Second)
	toasts := c.Toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, "second", toasts[0].Message)
	assert.Equal(t, "error", toasts[0].Level.String())

	now = now.Add(ToastTTL)
	assert.Empty(t, c.Toasts())
}

func TestApplyDispatch(t *testing.T) {
	c := New(nil, nil)
	reqs := c.Apply(model.ProcessSnapshot([]model.Process{{Name: "a", PID: 1, ExePath: "/a"}}))
	require.Len(t, reqs, 1)
	assert.Nil(t, c.Apply(model.IconReady(1, icon16())))
	_, ok := c.Icon(1)
	assert.True(t, ok)
}
