package http1

import (
	"strings"
	"testing"

	"github.com/ember-web/ember/config"
	"github.com/ember-web/ember/http"
	"github.com/ember-web/ember/http/method"
	"github.com/ember-web/ember/router"
	"github.com/ember-web/ember/router/simple"
	"github.com/ember-web/ember/transport/dummy"
)

var longPath = strings.Repeat("a", 500)

func getBenchRouter() router.Router {
	return simple.New(func(request *http.Request) *http.Response {
		if request.Method == method.POST {
			_ = request.Body.Callback(func([]byte) error {
				return nil
			})
		}

		// PUT bodies are deliberately left for the connection loop to drain
		return request.Respond()
	}, nil)
}

func newBenchSuit(client *dummy.CircularClient) *Suit {
	return Initialize(config.Default(), getBenchRouter(), client)
}

func Benchmark_Get(b *testing.B) {
	b.Run("simple get", func(b *testing.B) {
		raw := []byte("GET / HTTP/1.1\r\nAccept-Encoding: identity\r\n\r\n")
		server := newBenchSuit(dummy.NewCircularClient(raw))
		b.SetBytes(int64(len(raw)))
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			server.ServeOnce()
		}
	})

	b.Run("10 headers", func(b *testing.B) {
		raw := []byte("GET /" + longPath + " HTTP/1.1\r\n" +
			strings.Repeat("Accept-Encoding: identity\r\n", 10) + "\r\n")
		dispersed := disperse(raw, config.Default().NET.ReadBufferSize)
		server := newBenchSuit(dummy.NewCircularClient(dispersed...))
		b.SetBytes(int64(len(raw)))
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			for j := 0; j < len(dispersed); j++ {
				server.ServeOnce()
			}
		}
	})
}

func Benchmark_Post(b *testing.B) {
	b.Run("consumed by the handler", func(b *testing.B) {
		raw := []byte("POST / HTTP/1.1\r\nContent-Length: 13\r\n\r\nHello, world!")
		server := newBenchSuit(dummy.NewCircularClient(disperse(raw, config.Default().NET.ReadBufferSize)...))
		b.SetBytes(int64(len(raw)))
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			server.ServeOnce()
		}
	})

	b.Run("drained by the loop", func(b *testing.B) {
		body := strings.Repeat("a", 10_000)
		raw := []byte("PUT / HTTP/1.1\r\nContent-Length: 10000\r\n\r\n" + body)
		server := newBenchSuit(dummy.NewCircularClient(disperse(raw, config.Default().NET.ReadBufferSize)...))
		b.SetBytes(int64(len(raw)))
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			server.ServeOnce()
		}
	})

	b.Run("consumed chunked", func(b *testing.B) {
		const chunkSize = 0xfffe
		const numberOfChunks = 16
		chunk := "fffe\r\n" + strings.Repeat("a", chunkSize) + "\r\n"
		chunked := strings.Repeat(chunk, numberOfChunks) + "0\r\n\r\n"
		raw := []byte("POST / HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n" + chunked)
		server := newBenchSuit(dummy.NewCircularClient(disperse(raw, config.Default().NET.ReadBufferSize)...))
		b.SetBytes(int64(len(raw)))
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			server.ServeOnce()
		}
	})
}
