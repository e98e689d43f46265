package inject

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sjzar/fluffy/internal/errors"
)

// Backend is the OS side of an injection.
type Backend interface {
	// Open acquires a full-access handle to pid. Errors are expected to be
	// typed as not_found or permission.
	Open(pid uint32) (Target, error)

	// ResolveLoader returns the address of LoadLibraryA in kernel32.dll,
	// which is valid inside the target as long as kernel32 shares its base
	// address across processes.
	ResolveLoader() (uintptr, error)
}

// Target is an open process handle. Close releases the handle only, remote
// memory handed out by Alloc is never freed.
type Target interface {
	Alloc(size int) (uintptr, error)
	Write(addr uintptr, data []byte) error
	// StartThread creates a remote thread at entry with arg and releases the
	// thread handle before returning. It does not wait for the thread.
	StartThread(entry, arg uintptr) error
	Close() error
}

// Engine loads a library into another process by starting a remote thread
// on LoadLibraryA. A nil error means the thread was created, not that the
// library initialised.
type Engine struct {
	backend Backend
}

// New returns an engine for the current platform.
func New() *Engine {
	return NewWithBackend(newBackend())
}

func NewWithBackend(backend Backend) *Engine {
	return &Engine{backend: backend}
}

// Inject runs open, alloc, write, resolve and spawn in order and stops at
// the first failing step. The returned error carries the failure kind,
// see errors.GetType.
func (e *Engine) Inject(pid uint32, libraryPath string) error {
	logger := log.With().
		Str("attempt", uuid.New().String()).
		Uint32("pid", pid).
		Str("library", libraryPath).
		Logger()
	logger.Info().Msg("inject library")

	target, err := e.backend.Open(pid)
	if err != nil {
		if !errors.Is(err, errors.ErrTypeNotFound) && !errors.Is(err, errors.ErrTypePermission) {
			err = errors.ProcessAccessDenied(pid, err)
		}
		return fail(logger, "open", err)
	}
	defer func() {
		if err := target.Close(); err != nil {
			logger.Debug().Err(err).Msg("close process handle failed")
		}
	}()

	payload := make([]byte, len(libraryPath)+1)
	copy(payload, libraryPath)

	addr, err := target.Alloc(len(payload))
	if err != nil {
		return fail(logger, "alloc", errors.RemoteAllocFailed(pid, len(payload), err))
	}

	if err := target.Write(addr, payload); err != nil {
		return fail(logger, "write", errors.RemoteWriteFailed(pid, err))
	}

	entry, err := e.backend.ResolveLoader()
	if err != nil {
		return fail(logger, "resolve", errors.LoaderResolveFailed(err))
	}

	if err := target.StartThread(entry, addr); err != nil {
		return fail(logger, "spawn", errors.RemoteThreadFailed(pid, err))
	}

	logger.Info().Msg("remote thread started")
	return nil
}

func fail(logger zerolog.Logger, step string, err error) error {
	logger.Info().Str("step", step).Str("kind", errors.GetType(err)).Err(err).Msg("inject failed")
	return err
}
