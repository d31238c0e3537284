package config

import (
	"sync/atomic"
	"time"
)

type (
	HeadersNumber struct {
		Default, Maximal int
	}

	HeadersSpace struct {
		Default, Maximal int
	}

	RequestLineSize struct {
		Default, Maximal int
	}
)

// Flush limits how many trailing request body bytes the connection loop may read and
// discard on behalf of a handler that left them unconsumed. Once the limit is crossed,
// finishing the drain is considered more expensive than simply closing the connection.
//
// The limit is stored atomically and is re-read at every request boundary, so changing
// it at runtime takes effect on the very next flush attempt.
type Flush struct {
	maxBytes atomic.Int64
}

// MaxBytes reports the current drain budget in bytes.
func (f *Flush) MaxBytes() int64 {
	return f.maxBytes.Load()
}

// SetMaxBytes replaces the drain budget. Negative values are treated as zero.
func (f *Flush) SetMaxBytes(n int64) {
	if n < 0 {
		n = 0
	}

	f.maxBytes.Store(n)
}

type (
	URI struct {
		// RequestLineSize is a shared buffer limit for the request line (method, path
		// and protocol). Setting the maximal boundary too low might result in very
		// ambiguous errors.
		RequestLineSize RequestLineSize
	}

	Headers struct {
		// Number is responsible for the headers storage size.
		// Default value is an initial number of pre-allocated header seats.
		// Maximal value is the maximum number of headers allowed to be present.
		Number HeadersNumber
		// Space limits the amount of memory occupied by request headers.
		Space HeadersSpace
		// Default headers are headers to be included into every response implicitly,
		// unless explicitly overridden.
		Default map[string]string
	}

	Body struct {
		// MaxSize describes the maximal size of a body that can be delivered to a
		// handler. 0 discards any request with a body.
		MaxSize uint
		// Flush bounds the automatic drain of unconsumed body bytes. See Flush.
		Flush Flush
	}

	NET struct {
		// ReadBufferSize is a size of buffer in bytes which will be used to read from
		// the socket.
		ReadBufferSize int
		// ReadTimeout controls the maximal lifetime of IDLE connections, and also bounds
		// every single body read, including reads made while draining. If no data arrived
		// in this period of time, the connection is doomed.
		ReadTimeout time.Duration
		// AcceptLoopInterruptPeriod controls how often the Accept() call is interrupted
		// in order to check whether it's time to stop.
		AcceptLoopInterruptPeriod time.Duration
		// WriteBufferSize stores the serialized HTTP response before it is transmitted.
		WriteBufferSize int
	}
)

// Config holds settings used across various parts of ember, mainly restrictions,
// limitations and pre-allocations.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize
// the config manually, because most likely this will result in ambiguous errors.
type Config struct {
	URI     URI
	Headers Headers
	Body    Body
	NET     NET
}

// Default returns the default config. The values are initially well-balanced, however
// maximal defaults are pretty permitting.
func Default() *Config {
	cfg := &Config{
		URI: URI{
			RequestLineSize: RequestLineSize{
				Default: 2 * 1024,
				// most web-entities limit the request line to 4-8kb, so 16kb is tolerant
				Maximal: 16 * 1024,
			},
		},
		Headers: Headers{
			Number: HeadersNumber{
				Default: 10,
				Maximal: 50,
			},
			Space: HeadersSpace{
				Default: 1 * 1024,  // 1kb for headers must be fairly enough in most cases.
				Maximal: 16 * 1024, // However, there also might be extremely long cookies.
			},
			Default: make(map[string]string),
		},
		Body: Body{
			MaxSize: 512 * 1024 * 1024, // 512 megabytes
		},
		NET: NET{
			ReadBufferSize:            2 * 1024,
			ReadTimeout:               90 * time.Second,
			AcceptLoopInterruptPeriod: 5 * time.Second,
			WriteBufferSize:           2 * 1024,
		},
	}
	cfg.Body.Flush.SetMaxBytes(512 * 1024)

	return cfg
}
