package pipeline

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/sjzar/fluffy/internal/icon"
	"github.com/sjzar/fluffy/internal/model"
	"github.com/sjzar/fluffy/internal/process"
)

// OutboundBuffer is the capacity of the merged message channel.
const OutboundBuffer = 64

// Coordinator owns the process scanner and the icon resolver workers and
// merges their output into one stream. It does no deduplication, callers
// decide which icons are worth requesting.
type Coordinator struct {
	out      chan model.Message
	done     chan struct{}
	requests *Queue[model.IconRequest]

	scanner  *process.Scanner
	resolver *icon.Resolver

	startOnce sync.Once
	closeOnce sync.Once
	wg        sync.WaitGroup
}

func New(scanner *process.Scanner, resolver *icon.Resolver) *Coordinator {
	return &Coordinator{
		out:      make(chan model.Message, OutboundBuffer),
		done:     make(chan struct{}),
		requests: NewQueue[model.IconRequest](),
		scanner:  scanner,
		resolver: resolver,
	}
}

// Start launches both workers. Calling it again is a no-op.
func (c *Coordinator) Start() {
	c.startOnce.Do(func() {
		c.wg.Add(2)
		go func() {
			defer c.wg.Done()
			c.scanner.Run(c)
		}()
		go func() {
			defer c.wg.Done()
			c.resolver.Run(c.requests, c)
		}()
		log.Debug().Dur("interval", c.scanner.Interval()).Msg("pipeline started")
	})
}

// Send delivers msg to the consumer, waiting for buffer space if needed.
// It reports false once the coordinator is closed.
func (c *Coordinator) Send(msg model.Message) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.out <- msg:
		return true
	case <-c.done:
		return false
	}
}

// Done is closed when the consumer goes away.
func (c *Coordinator) Done() <-chan struct{} {
	return c.done
}

// Messages exposes the outbound stream for consumers that prefer to block.
func (c *Coordinator) Messages() <-chan model.Message {
	return c.out
}

// Drain returns every message currently queued without waiting for more.
func (c *Coordinator) Drain() []model.Message {
	var msgs []model.Message
	for {
		select {
		case msg := <-c.out:
			msgs = append(msgs, msg)
		default:
			return msgs
		}
	}
}

// RequestIcon queues an icon lookup for pid. It reports false after Close.
func (c *Coordinator) RequestIcon(pid uint32, exePath string) bool {
	return c.requests.Push(model.IconRequest{PID: pid, ExePath: exePath})
}

// PendingRequests returns the number of icon requests not yet picked up.
func (c *Coordinator) PendingRequests() int {
	return c.requests.Len()
}

// Refresh asks the scanner for an immediate snapshot.
func (c *Coordinator) Refresh() {
	c.scanner.Refresh()
}

// Close tells both workers to stop. Workers blocked inside an OS call
// exit once that call returns.
func (c *Coordinator) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.requests.Close()
		log.Debug().Msg("pipeline closed")
	})
}

// Wait blocks until both workers have returned.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}
