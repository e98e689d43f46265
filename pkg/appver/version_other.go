//go:build !windows && !darwin

package appver

import (
	"fmt"
	"runtime"
)

func (i *Info) initialize() error {
	return fmt.Errorf("executable version info unsupported on %s", runtime.GOOS)
}
