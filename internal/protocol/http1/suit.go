package http1

import (
	"github.com/ember-web/ember/config"
	"github.com/ember-web/ember/http"
	"github.com/ember-web/ember/http/proto"
	"github.com/ember-web/ember/http/status"
	"github.com/ember-web/ember/internal/construct"
	"github.com/ember-web/ember/router"
	"github.com/ember-web/ember/transport"
	"github.com/indigo-web/chunkedbody"
	"github.com/indigo-web/utils/strcomp"
)

// Suit drives a single connection: parse a request, dispatch it, flush whatever the
// handler left of the body, respond, and either loop or tear the connection down.
type Suit struct {
	*Parser
	*Serializer
	flusher
	router  router.Router
	client  transport.Client
	request *http.Request
	body    *Body
}

func New(
	cfg *config.Config,
	r router.Router,
	client transport.Client,
	request *http.Request,
	body *Body,
) *Suit {
	requestLineBuff, headersBuff := construct.Buffers(cfg)

	return &Suit{
		Parser:     NewParser(cfg, request, requestLineBuff, headersBuff),
		Serializer: NewSerializer(make([]byte, 0, cfg.NET.WriteBufferSize), cfg.Headers.Default, request, client),
		flusher:    flusher{cfg: cfg},
		router:     r,
		client:     client,
		request:    request,
		body:       body,
	}
}

// Initialize is the same constructor as just New, but also builds the request and the
// body source, thereby consuming fewer arguments.
func Initialize(cfg *config.Config, r router.Router, client transport.Client) *Suit {
	request := construct.Request(cfg, client)
	body := NewBody(client, chunkedbody.NewParser(chunkedbody.DefaultSettings()), cfg.Body.MaxSize)
	request.Body = http.NewBody(request, body, cfg)

	return New(cfg, r, client, request, body)
}

// ServeOnce processes a single piece of input from the client. Used by tests.
func (s *Suit) ServeOnce() bool {
	return s.serve(true)
}

// Serve serves the connection until it's time to close it. Note that the connection
// itself isn't closed here; that's on the transport owning it.
func (s *Suit) Serve() {
	s.serve(false)
}

func (s *Suit) serve(once bool) (ok bool) {
	req := s.request
	client := s.client

	for {
		data, err := client.Read()
		if err != nil {
			// read error most probably means deadline exceeding or the peer leaving.
			// Just notify the router and quit
			s.router.OnError(req, status.ErrCloseConnection)
			return false
		}

		state, extra, err := s.Parse(data)
		switch state {
		case Pending:
		case HeadersCompleted:
			client.Pushback(extra)
			s.body.Init(req)
			req.Body.Init()

			resp := notNil(req, s.router.OnRequest(req))

			verdict, flushErr := s.proceed(req.Body)
			if verdict == mustClose {
				// let the client tell a deliberate shutdown apart from a failure
				resp.Header("Connection", "close")
			}

			if err = s.Write(req.Protocol, resp); err != nil {
				// if error happened during writing the response, it makes no sense to
				// try to write anything again
				s.router.OnError(req, status.ErrCloseConnection)
				return false
			}

			if flushErr != nil {
				s.router.OnError(req, flushErr)
				return false
			}

			if verdict == mustClose || wantsClosure(req) {
				return false
			}

			req.Reset()
			s.Parser.Reset()
		case Error:
			// the parser is deadlocked at this point, so the connection is anyway done.
			// Socket errors don't matter anymore either
			resp := notNil(req, s.router.OnError(req, err))
			_ = s.Write(req.Protocol, resp)
			return false
		default:
			panic("BUG: got unexpected parser state")
		}

		if once {
			return true
		}
	}
}

// wantsClosure tells whether the client asked to close the connection after the
// current exchange. HTTP/1.0 closes by default unless keep-alive is requested.
func wantsClosure(req *http.Request) bool {
	connection := req.Headers.Value("connection")

	if req.Protocol == proto.HTTP10 {
		return !strcomp.EqualFold(connection, "keep-alive")
	}

	return strcomp.EqualFold(connection, "close")
}

func notNil(req *http.Request, resp *http.Response) *http.Response {
	if resp != nil {
		return resp
	}

	return http.Respond(req)
}
