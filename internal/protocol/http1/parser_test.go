package http1

import (
	"testing"

	"github.com/dchest/uniuri"
	"github.com/ember-web/ember/config"
	"github.com/ember-web/ember/http"
	"github.com/ember-web/ember/http/method"
	"github.com/ember-web/ember/http/proto"
	"github.com/ember-web/ember/http/status"
	"github.com/ember-web/ember/internal/construct"
	"github.com/ember-web/ember/transport/dummy"
	"github.com/stretchr/testify/require"
)

func newParser(cfg *config.Config) (*Parser, *http.Request) {
	request := construct.Request(cfg, dummy.NewClient())
	requestLine, headers := construct.Buffers(cfg)

	return NewParser(cfg, request, requestLine, headers), request
}

// feed passes the data to the parser in pieces of n bytes, expecting the headers to
// complete exactly at the last one.
func feed(t *testing.T, parser *Parser, data []byte, n int) (extra []byte) {
	pieces := disperse(data, n)

	for i, piece := range pieces {
		state, rest, err := parser.Parse(piece)
		require.NoError(t, err)

		if i < len(pieces)-1 {
			require.Equal(t, Pending, state, "headers completed prematurely")
		} else {
			require.Equal(t, HeadersCompleted, state)
			extra = rest
		}
	}

	return extra
}

func TestParser(t *testing.T) {
	t.Run("simple get", func(t *testing.T) {
		parser, request := newParser(config.Default())
		raw := []byte("GET /hello HTTP/1.1\r\nHost: localhost\r\n\r\n")

		state, extra, err := parser.Parse(raw)
		require.NoError(t, err)
		require.Equal(t, HeadersCompleted, state)
		require.Empty(t, extra)
		require.Equal(t, method.GET, request.Method)
		require.Equal(t, "/hello", request.Path)
		require.Equal(t, proto.HTTP11, request.Protocol)
		require.Equal(t, "localhost", request.Headers.Value("host"))
		require.False(t, request.HasBody())
	})

	t.Run("byte by byte", func(t *testing.T) {
		parser, request := newParser(config.Default())
		path := "/" + uniuri.New()
		raw := []byte("POST " + path + " HTTP/1.1\r\nContent-Length: 13\r\nX-Something: som e; value\r\n\r\n")

		feed(t, parser, raw, 1)
		require.Equal(t, method.POST, request.Method)
		require.Equal(t, path, request.Path)
		require.Equal(t, 13, request.ContentLength)
		require.Equal(t, "som e; value", request.Headers.Value("x-something"))
		require.True(t, request.HasBody())
	})

	t.Run("extra is given back", func(t *testing.T) {
		parser, _ := newParser(config.Default())
		raw := []byte("GET / HTTP/1.1\r\n\r\nGET /second HTTP/1.1\r\n\r\n")

		state, extra, err := parser.Parse(raw)
		require.NoError(t, err)
		require.Equal(t, HeadersCompleted, state)
		require.Equal(t, "GET /second HTTP/1.1\r\n\r\n", string(extra))
	})

	t.Run("lf-only line breaks", func(t *testing.T) {
		parser, request := newParser(config.Default())
		raw := []byte("GET / HTTP/1.1\nHost: localhost\n\n")

		state, _, err := parser.Parse(raw)
		require.NoError(t, err)
		require.Equal(t, HeadersCompleted, state)
		require.Equal(t, "localhost", request.Headers.Value("host"))
	})

	t.Run("chunked transfer encoding", func(t *testing.T) {
		parser, request := newParser(config.Default())
		raw := []byte("POST / HTTP/1.1\r\nTransfer-Encoding: gzip, chunked\r\nContent-Length: 5\r\n\r\n")

		state, _, err := parser.Parse(raw)
		require.NoError(t, err)
		require.Equal(t, HeadersCompleted, state)
		require.True(t, request.Encoding.Chunked)
		// chunked framing wins over a stray Content-Length
		require.Equal(t, 0, request.ContentLength)
		require.True(t, request.HasBody())
	})

	t.Run("content type", func(t *testing.T) {
		parser, request := newParser(config.Default())
		raw := []byte("POST / HTTP/1.1\r\nContent-Type: application/json; charset=utf-8\r\nContent-Length: 2\r\n\r\n")

		_, _, err := parser.Parse(raw)
		require.NoError(t, err)
		require.Equal(t, "application/json; charset=utf-8", request.ContentType)
	})

	t.Run("reused across requests", func(t *testing.T) {
		parser, request := newParser(config.Default())

		for i, raw := range [][]byte{
			[]byte("GET /first HTTP/1.1\r\nHost: localhost\r\n\r\n"),
			[]byte("PUT /second HTTP/1.1\r\nContent-Length: 5\r\n\r\n"),
		} {
			state, _, err := parser.Parse(raw)
			require.NoError(t, err)
			require.Equal(t, HeadersCompleted, state)

			if i == 0 {
				require.Equal(t, "/first", request.Path)
				request.Reset()
				parser.Reset()
			} else {
				require.Equal(t, "/second", request.Path)
				require.Equal(t, 5, request.ContentLength)
			}
		}
	})

	t.Run("errors", func(t *testing.T) {
		for _, tc := range []struct {
			name string
			raw  string
			want error
		}{
			{"unknown method", "FLY / HTTP/1.1\r\n\r\n", status.ErrMethodNotImplemented},
			{"empty path", "GET  HTTP/1.1\r\n\r\n", status.ErrBadRequest},
			{"bad protocol", "GET / HTTP/9.9\r\n\r\n", status.ErrUnsupportedProtocol},
			{"bad content length", "GET / HTTP/1.1\r\nContent-Length: five\r\n\r\n", status.ErrBadContentLength},
			{"negative content length", "GET / HTTP/1.1\r\nContent-Length: -5\r\n\r\n", status.ErrBadContentLength},
			{"empty header key", "GET / HTTP/1.1\r\n: value\r\n\r\n", status.ErrBadRequest},
			{"lone cr in header", "GET / HTTP/1.1\r\nHo\rst: localhost\r\n\r\n", status.ErrBadRequest},
		} {
			t.Run(tc.name, func(t *testing.T) {
				parser, _ := newParser(config.Default())
				state, _, err := parser.Parse([]byte(tc.raw))
				require.Equal(t, Error, state)
				require.Equal(t, tc.want, err)
			})
		}
	})

	t.Run("too many headers", func(t *testing.T) {
		cfg := config.Default()
		cfg.Headers.Number.Maximal = 3
		parser, _ := newParser(cfg)
		raw := []byte("GET / HTTP/1.1\r\nA: 1\r\nB: 2\r\nC: 3\r\nD: 4\r\n\r\n")

		state, _, err := parser.Parse(raw)
		require.Equal(t, Error, state)
		require.Equal(t, status.ErrTooManyHeaders, err)
	})
}
