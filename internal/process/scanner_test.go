package process

import (
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjzar/fluffy/internal/model"
)

type fakeMeta struct {
	name    string
	nameErr error
	exe     string
	exeErr  error
}

func (m fakeMeta) Name() (string, error) { return m.name, m.nameErr }
func (m fakeMeta) Exe() (string, error)  { return m.exe, m.exeErr }

func TestNewRecord(t *testing.T) {
	rec := newRecord(42, fakeMeta{name: "demo.exe", exe: "/p/demo.exe"})
	assert.Equal(t, model.Process{Name: "demo.exe", PID: 42, ExePath: "/p/demo.exe"}, rec)

	rec = newRecord(4, fakeMeta{name: "System", exeErr: stderrors.New("access denied")})
	assert.Equal(t, model.Process{Name: "System", PID: 4}, rec)

	rec = newRecord(7, fakeMeta{nameErr: stderrors.New("gone"), exe: "/usr/bin/worker"})
	assert.Equal(t, "worker", rec.Name)
}

type fakeSource struct {
	mu    sync.Mutex
	snaps [][]model.Process
	err   error
	calls int
}

func (s *fakeSource) Snapshot() ([]model.Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if len(s.snaps) == 0 {
		return []model.Process{}, nil
	}
	snap := s.snaps[0]
	if len(s.snaps) > 1 {
		s.snaps = s.snaps[1:]
	}
	return snap, nil
}

func (s *fakeSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// chanSink forwards to a channel and stops accepting after limit sends.
type chanSink struct {
	ch    chan model.Message
	done  chan struct{}
	limit int
	sent  int
}

func newChanSink(limit int) *chanSink {
	return &chanSink{ch: make(chan model.Message, 16), done: make(chan struct{}), limit: limit}
}

func (s *chanSink) Send(msg model.Message) bool {
	if s.limit > 0 && s.sent >= s.limit {
		return false
	}
	s.sent++
	s.ch <- msg
	return true
}

func (s *chanSink) Done() <-chan struct{} { return s.done }

func TestScanEmptyOnError(t *testing.T) {
	s := NewScanner(&fakeSource{err: stderrors.New("walk failed")}, time.Second)
	got := s.Scan()
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestNewScannerDefaultInterval(t *testing.T) {
	assert.Equal(t, DefaultInterval, NewScanner(&fakeSource{}, 0).Interval())
	assert.Equal(t, time.Second, NewScanner(&fakeSource{}, time.Second).Interval())
}

func TestRunStopsWhenSendFails(t *testing.T) {
	src := &fakeSource{}
	s := NewScanner(src, time.Millisecond)
	sink := newChanSink(3)

	finished := make(chan struct{})
	go func() {
		s.Run(sink)
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("scanner kept running after sink refused")
	}
	assert.Len(t, sink.ch, 3)
	assert.Equal(t, 4, src.Calls())
}

func TestRunStopsOnDone(t *testing.T) {
	s := NewScanner(&fakeSource{}, time.Hour)
	sink := newChanSink(0)

	finished := make(chan struct{})
	go func() {
		s.Run(sink)
		close(finished)
	}()

	<-sink.ch
	close(sink.done)

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("scanner ignored done")
	}
}

func TestRefreshTriggersScan(t *testing.T) {
	first := []model.Process{{Name: "a", PID: 1}}
	second := []model.Process{{Name: "b", PID: 1}}
	s := NewScanner(&fakeSource{snaps: [][]model.Process{first, second}}, time.Hour)
	sink := newChanSink(0)
	defer close(sink.done)

	go s.Run(sink)

	msg := <-sink.ch
	require.Equal(t, model.MessageSnapshot, msg.Type)
	assert.Equal(t, first, msg.Processes)

	s.Refresh()
	select {
	case msg = <-sink.ch:
		// same pid, different name: snapshots replace each other
		assert.Equal(t, second, msg.Processes)
	case <-time.After(2 * time.Second):
		t.Fatal("refresh did not trigger a scan")
	}
}
