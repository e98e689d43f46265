package icon

import (
	"github.com/rs/zerolog/log"

	"github.com/sjzar/fluffy/internal/model"
)

// Extractor pulls the small shell icon out of an executable.
type Extractor interface {
	Extract(exePath string) (*model.Icon, error)
}

// Requests is the FIFO the resolver drains. Pop blocks while it is empty
// and reports false once it is closed.
type Requests interface {
	Pop() (model.IconRequest, bool)
}

// Sink receives resolved icons. Send reports false once nobody is
// listening anymore.
type Sink interface {
	Send(msg model.Message) bool
}

// Resolver turns icon requests into IconReady messages, one request at a time.
type Resolver struct {
	extractor Extractor
}

func NewResolver(extractor Extractor) *Resolver {
	if extractor == nil {
		extractor = NewExtractor()
	}
	return &Resolver{extractor: extractor}
}

// Run resolves requests until the queue closes or the sink goes away.
// Failed extractions are dropped without a message.
func (r *Resolver) Run(requests Requests, sink Sink) {
	for {
		req, ok := requests.Pop()
		if !ok {
			log.Debug().Msg("icon resolver stopped: request queue closed")
			return
		}
		if req.ExePath == "" {
			continue
		}

		icon, err := r.extractor.Extract(req.ExePath)
		if err != nil {
			log.Debug().Err(err).Uint32("pid", req.PID).Str("exe", req.ExePath).Msg("extract icon failed")
			continue
		}

		if !sink.Send(model.IconReady(req.PID, icon)) {
			log.Debug().Msg("icon resolver stopped: sink closed")
			return
		}
	}
}
