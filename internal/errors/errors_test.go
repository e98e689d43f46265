package errors

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestErrorCreation(t *testing.T) {
	// 测试创建基本错误
	err := New("test", "test message", nil, http.StatusBadRequest)
	if err.Type != "test" || err.Message != "test message" || err.Code != http.StatusBadRequest {
		t.Errorf("New() created incorrect error: %v", err)
	}

	// 测试创建带原因的错误
	cause := fmt.Errorf("original error")
	err = New("test", "test with cause", cause, http.StatusInternalServerError)
	if err.Cause != cause {
		t.Errorf("New() did not set cause correctly: %v", err)
	}

	// 测试错误消息格式
	expected := "test: test with cause: original error"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestErrorTypeChecking(t *testing.T) {
	// 创建不同类型的错误
	cfgErr := Config("config error", nil)
	httpErr := HTTP("http error", nil)

	// 测试 Is 函数
	if !Is(cfgErr, ErrTypeConfig) {
		t.Errorf("Is() failed to identify config error")
	}

	if Is(cfgErr, ErrTypeHTTP) {
		t.Errorf("Is() incorrectly identified config error as HTTP error")
	}

	if !Is(httpErr, ErrTypeHTTP) {
		t.Errorf("Is() failed to identify HTTP error")
	}

	// 测试 GetType 函数
	if GetType(cfgErr) != ErrTypeConfig {
		t.Errorf("GetType() returned incorrect type: got %s, want %s",
			GetType(cfgErr), ErrTypeConfig)
	}

	if GetType(httpErr) != ErrTypeHTTP {
		t.Errorf("GetType() returned incorrect type: got %s, want %s",
			GetType(httpErr), ErrTypeHTTP)
	}

	// 测试普通错误
	stdErr := fmt.Errorf("standard error")
	if GetType(stdErr) != "unknown" {
		t.Errorf("GetType() for standard error should return 'unknown', got %s",
			GetType(stdErr))
	}
}

func TestErrorUnwrapping(t *testing.T) {
	// 创建嵌套错误
	innermost := fmt.Errorf("innermost error")
	inner := New("inner", "inner error", innermost, http.StatusBadRequest)
	outer := New("outer", "outer error", inner, http.StatusInternalServerError)

	// 测试 Unwrap
	if unwrapped := outer.Unwrap(); unwrapped != inner {
		t.Errorf("Unwrap() did not return correct inner error")
	}

	// 测试 RootCause
	if root := RootCause(outer); root != innermost {
		t.Errorf("RootCause() did not return innermost error")
	}
}

func TestErrorHelperFunctions(t *testing.T) {
	// 测试辅助函数
	required := RequiredParam("pid")
	if required.Type != ErrTypeInvalidArg || required.Code != http.StatusBadRequest {
		t.Errorf("RequiredParam() created error with wrong type or code: %s, %d", required.Type, required.Code)
	}

	invalid := ConfigInvalid("scan_interval", fmt.Errorf("negative"))
	if invalid.Type != ErrTypeConfig || !strings.Contains(invalid.Error(), "scan_interval") {
		t.Errorf("ConfigInvalid() created incorrect error: %v", invalid)
	}

	dup := LibraryDuplicate(`C:\hook.dll`)
	if dup.Type != ErrTypeLibrary || dup.Code != http.StatusConflict {
		t.Errorf("LibraryDuplicate() created error with wrong type or code: %s, %d", dup.Type, dup.Code)
	}

	idx := InvalidIndex(3, 2)
	if idx.Type != ErrTypeInvalidArg {
		t.Errorf("InvalidIndex() created error with wrong type: %s", idx.Type)
	}

	notFound := NotFound("user", nil)
	if notFound.Type != ErrTypeNotFound || notFound.Code != http.StatusNotFound {
		t.Errorf("NotFound() created error with wrong type or code: %s, %d",
			notFound.Type, notFound.Code)
	}
}

func TestInjectionErrorTypes(t *testing.T) {
	cause := fmt.Errorf("os error")
	cases := []struct {
		name string
		err  *AppError
		want string
	}{
		{"not found", ProcessNotFound(42, cause), ErrTypeNotFound},
		{"access denied", ProcessAccessDenied(42, cause), ErrTypePermission},
		{"alloc", RemoteAllocFailed(42, 16, cause), ErrTypeAllocationFailed},
		{"write", RemoteWriteFailed(42, cause), ErrTypeWriteFailed},
		{"loader", LoaderResolveFailed(cause), ErrTypeLoaderResolutionFailed},
		{"thread", RemoteThreadFailed(42, cause), ErrTypeRemoteThreadFailed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := GetType(tc.err); got != tc.want {
				t.Errorf("GetType() = %s, want %s", got, tc.want)
			}
			if RootCause(tc.err) != cause {
				t.Errorf("RootCause() did not return the os error")
			}
			if len(tc.err.Stack) == 0 {
				t.Errorf("expected stack to be captured")
			}
		})
	}
}

func TestFormatErrorChain(t *testing.T) {
	if got := FormatErrorChain(nil); got != "<nil>" {
		t.Errorf("FormatErrorChain(nil) = %q", got)
	}

	err := RemoteWriteFailed(7, fmt.Errorf("partial copy"))
	out := FormatErrorChain(err)
	lines := strings.Split(out, "\n")
	if lines[0] != "[write_failed] write library path into process 7" {
		t.Errorf("FormatErrorChain() first line = %q", lines[0])
	}
	if len(lines) < 2 || lines[1] != "  caused by: partial copy" {
		t.Errorf("FormatErrorChain() missing cause: %q", out)
	}
	if !strings.Contains(out, "\nstack:\n  ") {
		t.Errorf("FormatErrorChain() missing stack: %q", out)
	}

	if got := FormatErrorChain(fmt.Errorf("plain")); got != "plain" {
		t.Errorf("FormatErrorChain(plain) = %q", got)
	}
}
