package filemonitor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Callback is told whether a tracked file exists after every change to it.
type Callback func(path string, exists bool)

// FileMonitor tracks a set of individual files by watching their parent
// directories, so files that are deleted and later recreated are noticed.
type FileMonitor struct {
	files      map[string]string // cleaned path -> path as given
	watchDirs  map[string]int    // directory -> number of tracked files in it
	callback   Callback
	watcher    *fsnotify.Watcher
	mutex      sync.RWMutex // files and watchDirs
	stopCh     chan struct{}
	wg         sync.WaitGroup
	isRunning  bool
	stateMutex sync.RWMutex
}

// NewFileMonitor creates a new file monitor
func NewFileMonitor(callback Callback) *FileMonitor {
	return &FileMonitor{
		files:     make(map[string]string),
		watchDirs: make(map[string]int),
		callback:  callback,
	}
}

// Start starts the file monitor
func (fm *FileMonitor) Start() error {
	fm.stateMutex.Lock()
	if fm.isRunning {
		fm.stateMutex.Unlock()
		return errors.New("file monitor is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fm.stateMutex.Unlock()
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	fm.watcher = watcher
	fm.stopCh = make(chan struct{})
	fm.isRunning = true
	fm.stateMutex.Unlock()

	// Watch directories of files added before Start
	fm.mutex.Lock()
	fm.watchDirs = make(map[string]int)
	for clean := range fm.files {
		fm.watchDirLocked(filepath.Dir(clean))
	}
	fm.mutex.Unlock()

	fm.wg.Add(1)
	go fm.watchLoop()

	return nil
}

// Stop stops the file monitor
func (fm *FileMonitor) Stop() error {
	fm.stateMutex.Lock()
	if !fm.isRunning {
		fm.stateMutex.Unlock()
		return errors.New("file monitor is not running")
	}
	watcher := fm.watcher
	close(fm.stopCh)
	fm.isRunning = false
	fm.stateMutex.Unlock()

	fm.wg.Wait()

	if watcher != nil {
		if err := watcher.Close(); err != nil {
			return fmt.Errorf("failed to close watcher: %w", err)
		}
		fm.stateMutex.Lock()
		fm.watcher = nil
		fm.stateMutex.Unlock()
	}
	return nil
}

// IsRunning returns whether the file monitor is running
func (fm *FileMonitor) IsRunning() bool {
	fm.stateMutex.RLock()
	defer fm.stateMutex.RUnlock()
	return fm.isRunning
}

// SetFiles replaces the tracked set and reports the current state of every
// file in it.
func (fm *FileMonitor) SetFiles(paths []string) {
	fm.mutex.Lock()
	next := make(map[string]string, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		next[filepath.Clean(p)] = p
	}
	for clean := range fm.files {
		if _, ok := next[clean]; !ok {
			fm.unwatchDirLocked(filepath.Dir(clean))
		}
	}
	for clean := range next {
		if _, ok := fm.files[clean]; !ok {
			fm.watchDirLocked(filepath.Dir(clean))
		}
	}
	fm.files = next
	fm.mutex.Unlock()

	for clean, p := range next {
		fm.report(p, clean)
	}
}

// Add starts tracking path.
func (fm *FileMonitor) Add(path string) {
	clean := filepath.Clean(path)
	fm.mutex.Lock()
	if _, ok := fm.files[clean]; ok {
		fm.mutex.Unlock()
		return
	}
	fm.files[clean] = path
	fm.watchDirLocked(filepath.Dir(clean))
	fm.mutex.Unlock()

	fm.report(path, clean)
}

// Remove stops tracking path.
func (fm *FileMonitor) Remove(path string) {
	clean := filepath.Clean(path)
	fm.mutex.Lock()
	defer fm.mutex.Unlock()
	if _, ok := fm.files[clean]; !ok {
		return
	}
	delete(fm.files, clean)
	fm.unwatchDirLocked(filepath.Dir(clean))
}

// Files returns the tracked paths as they were given.
func (fm *FileMonitor) Files() []string {
	fm.mutex.RLock()
	defer fm.mutex.RUnlock()
	files := make([]string, 0, len(fm.files))
	for _, p := range fm.files {
		files = append(files, p)
	}
	return files
}

func (fm *FileMonitor) watchDirLocked(dir string) {
	fm.watchDirs[dir]++
	if fm.watchDirs[dir] > 1 {
		return
	}
	fm.stateMutex.RLock()
	watcher := fm.watcher
	fm.stateMutex.RUnlock()
	if watcher == nil {
		return
	}
	// a missing directory just means the file is missing too
	if err := watcher.Add(dir); err != nil {
		log.Debug().Err(err).Str("dir", dir).Msg("watch directory failed")
	}
}

func (fm *FileMonitor) unwatchDirLocked(dir string) {
	n, ok := fm.watchDirs[dir]
	if !ok {
		return
	}
	if n > 1 {
		fm.watchDirs[dir] = n - 1
		return
	}
	delete(fm.watchDirs, dir)

	fm.stateMutex.RLock()
	watcher := fm.watcher
	fm.stateMutex.RUnlock()
	if watcher != nil {
		_ = watcher.Remove(dir)
	}
}

func (fm *FileMonitor) report(path, clean string) {
	if fm.callback == nil {
		return
	}
	_, err := os.Stat(clean)
	fm.callback(path, err == nil)
}

// watchLoop monitors for file system events
func (fm *FileMonitor) watchLoop() {
	defer fm.wg.Done()

	for {
		select {
		case <-fm.stopCh:
			return

		case event, ok := <-fm.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			clean := filepath.Clean(event.Name)
			fm.mutex.RLock()
			path, tracked := fm.files[clean]
			fm.mutex.RUnlock()
			if !tracked {
				continue
			}

			log.Debug().Str("file", path).Str("op", event.Op.String()).Msg("library file changed")
			fm.report(path, clean)

		case err, ok := <-fm.watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("Watcher error")
		}
	}
}
