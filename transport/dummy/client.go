package dummy

import (
	"io"
	"net"

	"github.com/ember-web/ember/transport"
)

var _ transport.Client = new(Client)

// Client replays pre-defined data slices, one per Read call, and records everything
// written into it. After the data is exhausted it reports the configured error,
// io.EOF by default, which the server perceives as the peer closing the connection.
type Client struct {
	data    [][]byte
	pointer int
	pending []byte
	written []byte
	err     error
	closed  bool
}

func NewClient(data ...[]byte) *Client {
	return &Client{
		data: data,
		err:  io.EOF,
	}
}

// FailingWith replaces the error returned once the pre-defined data runs out.
func (c *Client) FailingWith(err error) *Client {
	c.err = err
	return c
}

func (c *Client) Read() ([]byte, error) {
	if c.closed {
		return nil, io.EOF
	}

	if len(c.pending) > 0 {
		pending := c.pending
		c.pending = nil

		return pending, nil
	}

	if c.pointer >= len(c.data) {
		return nil, c.err
	}

	piece := c.data[c.pointer]
	c.pointer++

	return piece, nil
}

func (c *Client) Pushback(b []byte) {
	c.pending = b
}

func (c *Client) Write(b []byte) error {
	c.written = append(c.written, b...)
	return nil
}

// Written returns everything the server has sent so far.
func (c *Client) Written() []byte {
	return c.written
}

// Reset forgets accumulated writes, keeping the remaining data intact.
func (c *Client) Reset() {
	c.written = nil
}

func (c *Client) Conn() net.Conn {
	return nil
}

func (c *Client) Remote() net.Addr {
	return nil
}

func (c *Client) Close() error {
	c.closed = true
	return nil
}

// Closed reports whether the server has closed the connection.
func (c *Client) Closed() bool {
	return c.closed
}

// CircularClient returns the same data on every read-operation over and over.
type CircularClient struct {
	Client
}

func NewCircularClient(data ...[]byte) *CircularClient {
	c := &CircularClient{Client{data: data, err: io.EOF}}
	return c
}

func (c *CircularClient) Read() ([]byte, error) {
	if c.pointer >= len(c.data) {
		c.pointer = 0
	}

	return c.Client.Read()
}

// Write discards everything, so long benchmark runs don't pile responses up.
func (*CircularClient) Write([]byte) error {
	return nil
}
