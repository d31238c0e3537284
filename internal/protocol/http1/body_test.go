package http1

import (
	"io"
	"testing"

	"github.com/ember-web/ember/config"
	"github.com/ember-web/ember/http"
	"github.com/ember-web/ember/http/status"
	"github.com/ember-web/ember/internal/construct"
	"github.com/ember-web/ember/transport"
	"github.com/ember-web/ember/transport/dummy"
	"github.com/indigo-web/chunkedbody"
	"github.com/stretchr/testify/require"
)

func newBodySource(client transport.Client) (*Body, *http.Request) {
	cfg := config.Default()
	request := construct.Request(cfg, client)
	body := NewBody(client, chunkedbody.NewParser(chunkedbody.DefaultSettings()), cfg.Body.MaxSize)
	request.Body = http.NewBody(request, body, cfg)

	return body, request
}

// readAll drives the source to the end, returning the collected payload and the
// total number of retrieve calls made.
func readAll(t *testing.T, src *Body) string {
	var collected []byte

	for {
		piece, err := src.Retrieve()
		collected = append(collected, piece...)
		switch err {
		case nil:
		case io.EOF:
			return string(collected)
		default:
			require.NoError(t, err)
		}
	}
}

func TestPlainBody(t *testing.T) {
	t.Run("single piece", func(t *testing.T) {
		client := dummy.NewClient([]byte("Hello, world!"))
		src, request := newBodySource(client)
		request.ContentLength = 13
		src.Init(request)

		require.Equal(t, "Hello, world!", readAll(t, src))
		require.EqualValues(t, 13, src.Consumed())
	})

	t.Run("dispersed", func(t *testing.T) {
		client := dummy.NewClient([]byte("Hel"), []byte("lo, wor"), []byte("ld!"))
		src, request := newBodySource(client)
		request.ContentLength = 13
		src.Init(request)

		require.Equal(t, "Hello, world!", readAll(t, src))
		require.EqualValues(t, 13, src.Consumed())
	})

	t.Run("extra stays in the client", func(t *testing.T) {
		client := dummy.NewClient([]byte("Hello, world!GET / HTTP/1.1"))
		src, request := newBodySource(client)
		request.ContentLength = 13
		src.Init(request)

		require.Equal(t, "Hello, world!", readAll(t, src))

		rest, err := client.Read()
		require.NoError(t, err)
		require.Equal(t, "GET / HTTP/1.1", string(rest))
	})

	t.Run("no body", func(t *testing.T) {
		client := dummy.NewClient([]byte("whatever"))
		src, request := newBodySource(client)
		src.Init(request)

		piece, err := src.Retrieve()
		require.Equal(t, io.EOF, err)
		require.Empty(t, piece)
		require.EqualValues(t, 0, src.Consumed())
	})

	t.Run("peer leaves mid-body", func(t *testing.T) {
		client := dummy.NewClient([]byte("Hello"))
		src, request := newBodySource(client)
		request.ContentLength = 13
		src.Init(request)

		_, err := src.Retrieve()
		require.NoError(t, err)
		_, err = src.Retrieve()
		require.Equal(t, status.ErrUnexpectedEOF, err)
	})

	t.Run("too large", func(t *testing.T) {
		client := dummy.NewClient([]byte("Hello, world!"))
		cfg := config.Default()
		cfg.Body.MaxSize = 5
		request := construct.Request(cfg, client)
		src := NewBody(client, chunkedbody.NewParser(chunkedbody.DefaultSettings()), cfg.Body.MaxSize)
		request.ContentLength = 13
		src.Init(request)

		_, err := src.Retrieve()
		require.Equal(t, status.ErrBodyTooLarge, err)
	})
}

func TestChunkedBody(t *testing.T) {
	const wire = "d\r\nHello, world!\r\n0\r\n\r\n"

	t.Run("single piece", func(t *testing.T) {
		client := dummy.NewClient([]byte(wire))
		src, request := newBodySource(client)
		request.Encoding.Chunked = true
		src.Init(request)

		require.Equal(t, "Hello, world!", readAll(t, src))
		// framing counts: chunk-size lines and delimiters must leave the socket too
		require.EqualValues(t, len(wire), src.Consumed())
	})

	t.Run("dispersed", func(t *testing.T) {
		pieces := disperse([]byte(wire), 4)
		client := dummy.NewClient(pieces...)
		src, request := newBodySource(client)
		request.Encoding.Chunked = true
		src.Init(request)

		require.Equal(t, "Hello, world!", readAll(t, src))
		require.EqualValues(t, len(wire), src.Consumed())
	})

	t.Run("multiple chunks", func(t *testing.T) {
		const multi = "5\r\nHello\r\n8\r\n, world!\r\n0\r\n\r\n"
		client := dummy.NewClient(disperse([]byte(multi), 6)...)
		src, request := newBodySource(client)
		request.Encoding.Chunked = true
		src.Init(request)

		require.Equal(t, "Hello, world!", readAll(t, src))
		require.EqualValues(t, len(multi), src.Consumed())
	})

	t.Run("malformed chunk size", func(t *testing.T) {
		client := dummy.NewClient([]byte("geh\r\nHello\r\n0\r\n\r\n"))
		src, request := newBodySource(client)
		request.Encoding.Chunked = true
		src.Init(request)

		_, err := src.Retrieve()
		require.Equal(t, status.ErrBadChunk, err)
	})

	t.Run("peer leaves mid-body", func(t *testing.T) {
		client := dummy.NewClient([]byte("d\r\nHello"))
		src, request := newBodySource(client)
		request.Encoding.Chunked = true
		src.Init(request)

		var err error
		for err == nil {
			_, err = src.Retrieve()
		}
		require.Equal(t, status.ErrUnexpectedEOF, err)
	})
}

func TestBodyReInit(t *testing.T) {
	// two bodies on the same connection must not share counters
	client := dummy.NewClient([]byte("check"), []byte("mate!"))
	src, request := newBodySource(client)
	request.ContentLength = 5
	src.Init(request)
	require.Equal(t, "check", readAll(t, src))
	require.EqualValues(t, 5, src.Consumed())

	src.Init(request)
	require.EqualValues(t, 0, src.Consumed())
	require.Equal(t, "mate!", readAll(t, src))
	require.EqualValues(t, 5, src.Consumed())
}

func disperse(data []byte, n int) (parts [][]byte) {
	for len(data) > 0 {
		end := n
		if end > len(data) {
			end = len(data)
		}

		parts = append(parts, data[:end])
		data = data[end:]
	}

	return parts
}
