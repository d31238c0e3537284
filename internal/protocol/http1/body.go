package http1

import (
	"io"

	"github.com/ember-web/ember/http"
	"github.com/ember-web/ember/http/status"
	"github.com/ember-web/ember/transport"
	"github.com/indigo-web/chunkedbody"
)

// Body reads the current request's body off the wire, transparently to the delimiting
// scheme. It implements http.Source.
type Body struct {
	plain     plainBodyReader
	chunked   chunkedBodyReader
	isChunked bool
}

func NewBody(
	client transport.Client, chunkedParser *chunkedbody.Parser, maxBodySize uint,
) *Body {
	return &Body{
		plain:   newPlainBodyReader(client, maxBodySize),
		chunked: newChunkedBodyReader(client, maxBodySize, chunkedParser),
	}
}

// Init binds the readers to the freshly parsed request and zeroes the wire counters.
func (b *Body) Init(request *http.Request) {
	b.isChunked = request.Encoding.Chunked
	if b.isChunked {
		b.chunked.init(request)
	} else {
		b.plain.init(request)
	}
}

func (b *Body) Retrieve() ([]byte, error) {
	if b.isChunked {
		return b.chunked.read()
	}

	return b.plain.read()
}

// Consumed reports wire bytes eaten by the current body. For chunked bodies this
// includes chunk-size lines, delimiting CRLFs and the trailer section, not only the
// payload, as those bytes must equally leave the socket before the next request.
func (b *Body) Consumed() int64 {
	if b.isChunked {
		return b.chunked.consumed
	}

	return b.plain.consumed
}

type plainBodyReader struct {
	client     transport.Client
	maxBodyLen uint
	bytesLeft  uint
	consumed   int64
}

func newPlainBodyReader(client transport.Client, maxBodyLen uint) plainBodyReader {
	return plainBodyReader{
		client:     client,
		maxBodyLen: maxBodyLen,
	}
}

func (p *plainBodyReader) init(request *http.Request) {
	p.bytesLeft = uint(request.ContentLength)
	p.consumed = 0
}

func (p *plainBodyReader) read() (body []byte, err error) {
	if p.bytesLeft == 0 {
		return nil, io.EOF
	}

	if p.bytesLeft > p.maxBodyLen {
		return nil, status.ErrBodyTooLarge
	}

	data, err := p.client.Read()
	if err != nil {
		if err == io.EOF {
			// the peer promised more bytes than it sent
			err = status.ErrUnexpectedEOF
		}

		return nil, err
	}

	if dataLen := uint(len(data)); dataLen >= p.bytesLeft {
		body, data = data[:p.bytesLeft], data[p.bytesLeft:]
		p.client.Pushback(data)
		p.bytesLeft = 0
		err = io.EOF
	} else {
		p.bytesLeft -= dataLen
		body = data
	}

	p.consumed += int64(len(body))

	return body, err
}

type chunkedBodyReader struct {
	client     transport.Client
	maxBodyLen uint
	received   uint
	consumed   int64
	encoding   http.Encoding
	parser     *chunkedbody.Parser
}

func newChunkedBodyReader(
	client transport.Client, maxBodyLen uint, parser *chunkedbody.Parser,
) chunkedBodyReader {
	return chunkedBodyReader{
		client:     client,
		maxBodyLen: maxBodyLen,
		parser:     parser,
	}
}

func (c *chunkedBodyReader) init(request *http.Request) {
	c.encoding = request.Encoding
	c.received = 0
	c.consumed = 0
}

func (c *chunkedBodyReader) read() (body []byte, err error) {
	data, err := c.client.Read()
	if err != nil {
		if err == io.EOF {
			err = status.ErrUnexpectedEOF
		}

		return nil, err
	}

	chunk, extra, err := c.parser.Parse(data, c.encoding.HasTrailer)
	switch err {
	case nil, io.EOF:
	default:
		return nil, status.ErrBadChunk
	}

	received, overflows := adduint(c.received, uint(len(chunk)))
	if overflows || received > c.maxBodyLen {
		return nil, status.ErrBodyTooLarge
	}

	c.received = received
	c.consumed += int64(len(data) - len(extra))
	c.client.Pushback(extra)

	return chunk, err
}

func adduint(x, y uint) (uint, bool) {
	return x + y, x+y < x
}
