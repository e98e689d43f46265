package errors

import (
	"fmt"
	"net/http"
)

// 注入相关错误
// 每一步失败对应一个错误类型，调用方通过 GetType 区分

// ProcessNotFound 目标进程不存在
func ProcessNotFound(pid uint32, cause error) *AppError {
	return New(ErrTypeNotFound, fmt.Sprintf("process %d not found", pid), cause, http.StatusNotFound).WithStack()
}

// ProcessAccessDenied 无权打开目标进程
func ProcessAccessDenied(pid uint32, cause error) *AppError {
	return New(ErrTypePermission, fmt.Sprintf("access denied to process %d", pid), cause, http.StatusForbidden).WithStack()
}

// RemoteAllocFailed 远程内存分配失败
func RemoteAllocFailed(pid uint32, size int, cause error) *AppError {
	return New(ErrTypeAllocationFailed, fmt.Sprintf("allocate %d bytes in process %d", size, pid), cause, http.StatusInternalServerError).WithStack()
}

// RemoteWriteFailed 写入远程内存失败
func RemoteWriteFailed(pid uint32, cause error) *AppError {
	return New(ErrTypeWriteFailed, fmt.Sprintf("write library path into process %d", pid), cause, http.StatusInternalServerError).WithStack()
}

// LoaderResolveFailed 无法定位 LoadLibraryA
func LoaderResolveFailed(cause error) *AppError {
	return New(ErrTypeLoaderResolutionFailed, "resolve LoadLibraryA in kernel32.dll", cause, http.StatusInternalServerError).WithStack()
}

// RemoteThreadFailed 创建远程线程失败
func RemoteThreadFailed(pid uint32, cause error) *AppError {
	return New(ErrTypeRemoteThreadFailed, fmt.Sprintf("start remote thread in process %d", pid), cause, http.StatusInternalServerError).WithStack()
}
