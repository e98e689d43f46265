package process

import (
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/sjzar/fluffy/internal/model"
)

// Source takes a full snapshot of the OS process table.
type Source interface {
	Snapshot() ([]model.Process, error)
}

// PsSource reads the process table through gopsutil.
type PsSource struct{}

func NewSource() *PsSource {
	return &PsSource{}
}

// Snapshot lists every process. A process whose metadata cannot be read is
// still listed, with the unreadable fields left empty.
func (s *PsSource) Snapshot() ([]model.Process, error) {
	processes, err := process.Processes()
	if err != nil {
		return nil, err
	}

	result := make([]model.Process, 0, len(processes))
	for _, p := range processes {
		result = append(result, newRecord(uint32(p.Pid), p))
	}
	return result, nil
}

// metadata is the part of *process.Process a record is built from.
type metadata interface {
	Name() (string, error)
	Exe() (string, error)
}

func newRecord(pid uint32, m metadata) model.Process {
	rec := model.Process{PID: pid}

	name, err := m.Name()
	if err != nil {
		log.Debug().Err(err).Uint32("pid", pid).Msg("read process name failed")
	}
	rec.Name = name

	// permission denied on protected processes is routine
	exe, err := m.Exe()
	if err != nil {
		log.Debug().Err(err).Uint32("pid", pid).Msg("read process exe failed")
	} else {
		rec.ExePath = exe
	}

	if rec.Name == "" && rec.ExePath != "" {
		rec.Name = filepath.Base(rec.ExePath)
	}
	return rec
}
