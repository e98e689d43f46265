//go:build !windows

package icon

import (
	"runtime"

	"github.com/sjzar/fluffy/internal/errors"
	"github.com/sjzar/fluffy/internal/model"
)

type nullExtractor struct{}

// NewExtractor returns the platform icon extractor. Shell icons are a
// Windows concept, elsewhere every extraction fails and icons stay absent.
func NewExtractor() Extractor {
	return &nullExtractor{}
}

func (e *nullExtractor) Extract(exePath string) (*model.Icon, error) {
	return nil, errors.PlatformUnsupported(runtime.GOOS, "icon extraction")
}
