package errors

import (
	"fmt"
	"net/http"
)

// 动态库列表相关错误

// LibraryDuplicate 动态库已在列表中
func LibraryDuplicate(path string) *AppError {
	return New(ErrTypeLibrary, fmt.Sprintf("library already added: %s", path), nil, http.StatusConflict).WithStack()
}

// LibraryNotFound 动态库文件不存在
func LibraryNotFound(path string, cause error) *AppError {
	return New(ErrTypeNotFound, fmt.Sprintf("library not found: %s", path), cause, http.StatusNotFound).WithStack()
}

// InvalidIndex 列表下标越界
func InvalidIndex(index, length int) *AppError {
	return New(ErrTypeInvalidArg, fmt.Sprintf("index %d out of range [0, %d)", index, length), nil, http.StatusBadRequest).WithStack()
}

// 配置相关错误

// ConfigInvalid 创建配置无效错误
func ConfigInvalid(field string, cause error) *AppError {
	return New(ErrTypeConfig, fmt.Sprintf("invalid configuration: %s", field), cause, http.StatusInternalServerError).WithStack()
}

// 平台相关错误

// PlatformUnsupported 当前平台不支持该功能
func PlatformUnsupported(platform string, feature string) *AppError {
	return New(ErrTypeUnsupported, fmt.Sprintf("%s unsupported on %s", feature, platform), nil, http.StatusNotImplemented).WithStack()
}

// IconUnavailable 无法提取可执行文件图标
func IconUnavailable(path string, cause error) *AppError {
	return New(ErrTypeNotFound, fmt.Sprintf("no icon for %s", path), cause, http.StatusNotFound).WithStack()
}

// 参数验证错误

// RequiredParam 创建必需参数缺失错误
func RequiredParam(param string) *AppError {
	return New(ErrTypeInvalidArg, fmt.Sprintf("required parameter missing: %s", param), nil, http.StatusBadRequest).WithStack()
}

// InvalidParam 创建参数无效错误
func InvalidParam(param string, reason string) *AppError {
	message := fmt.Sprintf("invalid parameter: %s", param)
	if reason != "" {
		message = fmt.Sprintf("%s (%s)", message, reason)
	}
	return New(ErrTypeInvalidArg, message, nil, http.StatusBadRequest).WithStack()
}
