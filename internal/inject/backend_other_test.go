//go:build !windows

package inject

import (
	stderrors "errors"
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sjzar/fluffy/internal/errors"
)

func TestOtherBackendOpen(t *testing.T) {
	b := &otherBackend{exists: func(pid int32) (bool, error) { return pid == 10, nil }}

	_, err := b.Open(0)
	assert.Equal(t, errors.ErrTypeNotFound, errors.GetType(err))

	_, err = b.Open(math.MaxUint32)
	assert.Equal(t, errors.ErrTypeNotFound, errors.GetType(err))

	_, err = b.Open(11)
	assert.Equal(t, errors.ErrTypeNotFound, errors.GetType(err))

	_, err = b.Open(10)
	assert.Equal(t, errors.ErrTypePermission, errors.GetType(err))
	assert.Contains(t, err.Error(), "remote library loading unsupported")
}

func TestOtherBackendLookupError(t *testing.T) {
	b := &otherBackend{exists: func(int32) (bool, error) { return false, stderrors.New("proc unreadable") }}
	_, err := b.Open(10)
	assert.Equal(t, errors.ErrTypeNotFound, errors.GetType(err))
}

func TestOtherBackendSelf(t *testing.T) {
	err := New().Inject(uint32(os.Getpid()), "payload.so")
	assert.Equal(t, errors.ErrTypePermission, errors.GetType(err))
}
