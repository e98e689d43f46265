//go:build !windows

package inject

import (
	"math"
	"runtime"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/sjzar/fluffy/internal/errors"
)

// otherBackend answers Open for hosts without a LoadLibrary based loader.
// Absent pids are reported as not found, live ones as access denied.
type otherBackend struct {
	exists func(pid int32) (bool, error)
}

func newBackend() Backend {
	return &otherBackend{exists: process.PidExists}
}

func (b *otherBackend) Open(pid uint32) (Target, error) {
	if pid == 0 || pid > math.MaxInt32 {
		return nil, errors.ProcessNotFound(pid, nil)
	}
	ok, err := b.exists(int32(pid))
	if err != nil || !ok {
		return nil, errors.ProcessNotFound(pid, err)
	}
	return nil, errors.ProcessAccessDenied(pid, errors.PlatformUnsupported(runtime.GOOS, "remote library loading"))
}

func (b *otherBackend) ResolveLoader() (uintptr, error) {
	return 0, errors.PlatformUnsupported(runtime.GOOS, "LoadLibraryA")
}
