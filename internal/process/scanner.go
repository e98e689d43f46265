package process

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sjzar/fluffy/internal/model"
)

const (
	DefaultInterval = 5 * time.Second
)

// Sink receives the scanner's snapshots. Send reports false once nobody
// is listening anymore.
type Sink interface {
	Send(msg model.Message) bool
	Done() <-chan struct{}
}

// Scanner periodically snapshots the process table.
type Scanner struct {
	source   Source
	interval time.Duration
	trigger  chan struct{}
}

func NewScanner(source Source, interval time.Duration) *Scanner {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scanner{
		source:   source,
		interval: interval,
		trigger:  make(chan struct{}, 1),
	}
}

// Interval returns the pause between two scans.
func (s *Scanner) Interval() time.Duration {
	return s.interval
}

// Refresh cuts the current pause short. Extra calls while a refresh is
// already pending are folded into it.
func (s *Scanner) Refresh() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Scan takes one snapshot. A failed walk yields an empty snapshot.
func (s *Scanner) Scan() []model.Process {
	processes, err := s.source.Snapshot()
	if err != nil {
		log.Debug().Err(err).Msg("snapshot process table failed")
		return []model.Process{}
	}
	return processes
}

// Run scans until the sink stops accepting snapshots.
func (s *Scanner) Run(sink Sink) {
	for {
		processes := s.Scan()
		if !sink.Send(model.ProcessSnapshot(processes)) {
			log.Debug().Msg("process scanner stopped")
			return
		}
		log.Debug().Int("count", len(processes)).Msg("process snapshot sent")

		select {
		case <-time.After(s.interval):
		case <-s.trigger:
		case <-sink.Done():
			log.Debug().Msg("process scanner stopped")
			return
		}
	}
}
