package http1

import (
	"github.com/ember-web/ember/config"
	"github.com/ember-web/ember/http"
)

// disposition is the verdict on whether the connection may serve another request.
type disposition uint8

const (
	// reusable: the byte stream is correctly framed, the next request may be parsed.
	reusable disposition = iota
	// mustClose: the stream can no longer be trusted, or finishing the drain would
	// cost more than the connection is worth. Sticky for the rest of the connection.
	mustClose
)

// flusher runs between the handler and the response write. Whatever part of the
// request body the handler left unconsumed must leave the socket before the next
// pipelined request can be parsed, so the flusher either finishes the job within
// the configured budget or sentences the connection to closure.
type flusher struct {
	cfg *config.Config
}

// proceed decides and performs the drain. The budget is re-read from the config on
// every call, so runtime re-tuning takes effect at the next request boundary. The
// returned error reports an underlying transport or framing fault; exceeding the
// budget alone is a policy decision, not an error.
func (f flusher) proceed(body *http.Body) (disposition, error) {
	if !body.NeedsDrain() {
		return reusable, nil
	}

	done, err := body.Drain(f.cfg.Body.Flush.MaxBytes())
	switch {
	case err != nil:
		return mustClose, err
	case !done:
		return mustClose, nil
	default:
		return reusable, nil
	}
}
