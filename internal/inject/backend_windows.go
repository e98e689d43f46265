//go:build windows

package inject

import (
	stderrors "errors"
	"fmt"

	"golang.org/x/sys/windows"

	"github.com/sjzar/fluffy/internal/errors"
)

var (
	modkernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procVirtualAllocEx     = modkernel32.NewProc("VirtualAllocEx")
	procCreateRemoteThread = modkernel32.NewProc("CreateRemoteThread")
	procLoadLibraryA       = modkernel32.NewProc("LoadLibraryA")
)

type winBackend struct{}

func newBackend() Backend {
	return &winBackend{}
}

func (b *winBackend) Open(pid uint32) (Target, error) {
	handle, err := windows.OpenProcess(windows.PROCESS_ALL_ACCESS, false, pid)
	if err != nil {
		// OpenProcess answers ERROR_INVALID_PARAMETER for pids that do not exist
		if stderrors.Is(err, windows.ERROR_INVALID_PARAMETER) {
			return nil, errors.ProcessNotFound(pid, err)
		}
		return nil, errors.ProcessAccessDenied(pid, err)
	}
	return &winTarget{handle: handle}, nil
}

func (b *winBackend) ResolveLoader() (uintptr, error) {
	if err := procLoadLibraryA.Find(); err != nil {
		return 0, err
	}
	return procLoadLibraryA.Addr(), nil
}

type winTarget struct {
	handle windows.Handle
}

func (t *winTarget) Alloc(size int) (uintptr, error) {
	if err := procVirtualAllocEx.Find(); err != nil {
		return 0, err
	}
	addr, _, err := procVirtualAllocEx.Call(
		uintptr(t.handle),
		0,
		uintptr(size),
		windows.MEM_COMMIT|windows.MEM_RESERVE,
		windows.PAGE_READWRITE,
	)
	if addr == 0 {
		return 0, err
	}
	return addr, nil
}

func (t *winTarget) Write(addr uintptr, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	var written uintptr
	if err := windows.WriteProcessMemory(t.handle, addr, &data[0], uintptr(len(data)), &written); err != nil {
		return err
	}
	if int(written) != len(data) {
		return fmt.Errorf("short write: %d of %d bytes", written, len(data))
	}
	return nil
}

func (t *winTarget) StartThread(entry, arg uintptr) error {
	if err := procCreateRemoteThread.Find(); err != nil {
		return err
	}
	thread, _, err := procCreateRemoteThread.Call(
		uintptr(t.handle),
		0,
		0,
		entry,
		arg,
		0,
		0,
	)
	if thread == 0 {
		return err
	}
	return windows.CloseHandle(windows.Handle(thread))
}

func (t *winTarget) Close() error {
	return windows.CloseHandle(t.handle)
}
