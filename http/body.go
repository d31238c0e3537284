package http

import (
	"io"

	"github.com/ember-web/ember/config"
	"github.com/ember-web/ember/http/mime"
	"github.com/ember-web/ember/http/status"
	"github.com/indigo-web/utils/uf"
	json "github.com/json-iterator/go"
)

type BodyCallback func([]byte) error

// Source is an abstraction over the remaining undelivered bytes of the current
// request's body, no matter how the body is delimited on the wire.
type Source interface {
	// Retrieve reads and returns a piece of body available for processing. The
	// returned slice stays valid only until the next call. io.EOF signals the end
	// of the body and may accompany the last piece.
	Retrieve() ([]byte, error)
	// Consumed reports how many wire bytes the current body has eaten so far,
	// framing included. Serves the drain accounting.
	Consumed() int64
}

type consumption uint8

const (
	// untouched: nobody has read a single byte of the body yet.
	untouched consumption = iota
	// partiallyConsumed: a streaming reader delivered some prefix of the body and
	// an unknown remainder still sits in the source.
	partiallyConsumed
	// fullyConsumed: the source is exhausted. Only this state lets the connection
	// loop parse the next request without draining first.
	fullyConsumed
)

// Body provides access to the message body. Consumption state is tracked across all
// accessors, so after the handler returns, the connection loop always knows whether
// any bytes of the body are still buried in the socket.
type Body struct {
	src     Source
	request *Request
	cfg     *config.Config
	buff    []byte
	pending []byte
	stream  Stream
	state   consumption
	error   error
}

func NewBody(request *Request, src Source, cfg *config.Config) *Body {
	return &Body{
		src:     src,
		request: request,
		cfg:     cfg,
	}
}

// Init prepares the body for the freshly parsed request. Bodiless requests start out
// fully consumed, so no drain attempt is ever made for them.
func (b *Body) Init() {
	b.buff = b.buff[:0]
	b.pending = nil
	b.error = nil
	b.stream = Stream{body: b}
	b.state = untouched

	if !b.request.HasBody() {
		b.state = fullyConsumed
	}
}

// NeedsDrain tells whether any undelivered body bytes may still remain in the socket.
func (b *Body) NeedsDrain() bool {
	return b.state != fullyConsumed
}

// Callback invokes the callback every time as there's a piece of body available
// for reading. If the callback returns an error, it'll be passed back to the caller.
// The callback is not notified when there's no more data or networking error has
// occurred.
//
// Please note: this method can be used only once.
func (b *Body) Callback(cb BodyCallback) error {
	if b.error != nil {
		return b.error
	}

	for {
		var data []byte
		data, b.error = b.src.Retrieve()
		switch b.error {
		case nil:
		case io.EOF:
			b.state = fullyConsumed
			return cb(data)
		default:
			return b.error
		}

		if b.error = cb(data); b.error != nil {
			return b.error
		}
	}
}

// Bytes returns the whole body at once in a byte representation.
func (b *Body) Bytes() ([]byte, error) {
	if len(b.buff) != 0 {
		return b.buff, nil
	}

	if b.error != nil {
		if b.error == io.EOF {
			return b.buff, nil
		}

		return nil, b.error
	}

	if len(b.pending) > 0 {
		// someone started streaming and changed their mind. Deliver the leftovers too.
		b.buff = append(b.buff, b.pending...)
		b.pending = nil
	}

	for {
		var data []byte
		data, b.error = b.src.Retrieve()
		b.buff = append(b.buff, data...)
		switch b.error {
		case nil:
		case io.EOF:
			b.state = fullyConsumed
			return b.buff, nil
		default:
			return nil, b.error
		}
	}
}

// String returns the whole body at once in a string representation.
func (b *Body) String() (string, error) {
	bytes, err := b.Bytes()
	return uf.B2S(bytes), err
}

// Read implements the io.Reader interface. Reading through it counts as streaming:
// the body stays partially consumed until io.EOF is returned.
func (b *Body) Read(into []byte) (n int, err error) {
	b.markPartial()

	if len(b.pending) == 0 && b.error == nil {
		b.pending, b.error = b.src.Retrieve()
	}

	n = copy(into, b.pending)
	b.pending = b.pending[n:]

	if len(b.pending) == 0 && b.error != nil {
		err = b.error
		if err == io.EOF {
			b.state = fullyConsumed
		}
	}

	return n, err
}

// JSON convoys the request's body to a json unmarshaller automatically and behaves
// in a similar manner.
//
// Please note: this method cannot be used on requests with Content-Type incompatible
// with mime.JSON (in this case, status.ErrUnsupportedMediaType is returned).
func (b *Body) JSON(model any) error {
	if !mime.Complies(mime.JSON, b.request.ContentType) {
		return status.ErrUnsupportedMediaType
	}

	data, err := b.Bytes()
	if err != nil {
		return err
	}

	iterator := json.ConfigDefault.BorrowIterator(data)
	iterator.ReadVal(model)
	err = iterator.Error
	json.ConfigDefault.ReturnIterator(iterator)

	return err
}

// Stream returns a cursor over the body, letting the handler pull bounded pieces on
// demand and stop at any point. Whatever stays unread remains in the source and is
// drained by the connection loop later.
func (b *Body) Stream() *Stream {
	return &b.stream
}

// Discard reads and discards the rest of the body, however big it is. If no networking
// error was encountered, nil is returned.
func (b *Body) Discard() error {
	b.pending = nil

	for b.error == nil {
		_, b.error = b.src.Retrieve()
	}

	if b.error == io.EOF {
		b.state = fullyConsumed
		return nil
	}

	return b.error
}

// Drain discards the unread remainder of the body, giving up as soon as more than
// limit wire bytes (framing included) have been consumed on the drain's behalf.
// It reports whether the source was exhausted within the limit. Bytes consumed by
// the handler beforehand don't count: only the drain itself is budgeted.
func (b *Body) Drain(limit int64) (done bool, err error) {
	if b.state == fullyConsumed {
		return true, nil
	}

	if b.error != nil && b.error != io.EOF {
		return false, b.error
	}

	// bytes already pulled from the socket cost nothing to discard
	b.pending = nil
	start := b.src.Consumed()

	for {
		_, err := b.src.Retrieve()
		drained := b.src.Consumed() - start

		switch err {
		case nil:
			if drained > limit {
				// the hard ceiling: not a single read past the budget
				return false, nil
			}
		case io.EOF:
			b.error = io.EOF
			b.state = fullyConsumed
			return drained <= limit, nil
		default:
			b.error = err
			return false, err
		}
	}
}

// Error returns a previously encountered error, otherwise nil.
func (b *Body) Error() error {
	if b.error == io.EOF {
		return nil
	}

	return b.error
}

func (b *Body) markPartial() {
	if b.state == untouched {
		b.state = partiallyConsumed
	}
}
