package http1

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/ember-web/ember/config"
	"github.com/ember-web/ember/http"
	"github.com/ember-web/ember/http/method"
	"github.com/ember-web/ember/http/proto"
	"github.com/ember-web/ember/http/status"
	"github.com/indigo-web/utils/buffer"
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
)

// Parser is an incremental HTTP/1.x requests parser. It consumes borrowed slices of
// arbitrary length and granularity, filling the bound request in place. Strings stored
// into the request alias the parser's buffers and stay valid until Reset.
type Parser struct {
	state         parserState
	request       *http.Request
	requestLine   *buffer.Buffer
	headers       *buffer.Buffer
	key           string
	headersNumber int
	maxHeaders    int
}

func NewParser(
	cfg *config.Config, request *http.Request, requestLine, headers *buffer.Buffer,
) *Parser {
	return &Parser{
		state:       eMethod,
		request:     request,
		requestLine: requestLine,
		headers:     headers,
		maxHeaders:  cfg.Headers.Number.Maximal,
	}
}

// Parse processes a piece of input. On HeadersCompleted, extra contains the bytes
// following the headers section, most likely the body (or the next pipelined request).
func (p *Parser) Parse(data []byte) (state RequestState, extra []byte, err error) {
	request := p.request

	for len(data) > 0 {
		switch p.state {
		case eMethod:
			sp := bytes.IndexByte(data, ' ')
			if sp == -1 {
				if !p.requestLine.Append(data) {
					return Error, nil, status.ErrTooLongRequestLine
				}

				return Pending, nil, nil
			}

			if !p.requestLine.Append(data[:sp]) {
				return Error, nil, status.ErrTooLongRequestLine
			}

			request.Method = method.Parse(uf.B2S(p.requestLine.Finish()))
			if request.Method == method.Unknown {
				return Error, nil, status.ErrMethodNotImplemented
			}

			data = data[sp+1:]
			p.state = ePath
		case ePath:
			sp := bytes.IndexByte(data, ' ')
			if sp == -1 {
				if !p.requestLine.Append(data) {
					return Error, nil, status.ErrURITooLong
				}

				return Pending, nil, nil
			}

			if !p.requestLine.Append(data[:sp]) {
				return Error, nil, status.ErrURITooLong
			}

			request.Path = uf.B2S(p.requestLine.Finish())
			if len(request.Path) == 0 {
				return Error, nil, status.ErrBadRequest
			}

			data = data[sp+1:]
			p.state = eProto
		case eProto:
			term := indexLineEnd(data)
			if term == -1 {
				if !p.requestLine.Append(data) {
					return Error, nil, status.ErrTooLongRequestLine
				}

				return Pending, nil, nil
			}

			if !p.requestLine.Append(data[:term]) {
				return Error, nil, status.ErrTooLongRequestLine
			}

			request.Protocol = proto.FromBytes(p.requestLine.Finish())
			if request.Protocol == proto.Unknown {
				return Error, nil, status.ErrUnsupportedProtocol
			}

			if data[term] == '\r' {
				p.state = eProtoCR
			} else {
				p.state = eHeaderKey
			}
			data = data[term+1:]
		case eProtoCR:
			if data[0] != '\n' {
				return Error, nil, status.ErrBadRequest
			}

			data = data[1:]
			p.state = eHeaderKey
		case eHeaderKey:
			switch data[0] {
			case '\r':
				if p.headers.SegmentLength() != 0 {
					return Error, nil, status.ErrBadRequest
				}

				data = data[1:]
				p.state = eFinalCR
				continue
			case '\n':
				if p.headers.SegmentLength() != 0 {
					return Error, nil, status.ErrBadRequest
				}

				return p.headersCompleted(data[1:])
			}

			colon := bytes.IndexByte(data, ':')
			if term := indexLineEnd(data); term != -1 && (colon == -1 || term < colon) {
				// a line break inside a header key
				return Error, nil, status.ErrBadRequest
			}
			if colon == -1 {
				if !p.headers.Append(data) {
					return Error, nil, status.ErrHeaderFieldsTooLarge
				}

				return Pending, nil, nil
			}

			if !p.headers.Append(data[:colon]) {
				return Error, nil, status.ErrHeaderFieldsTooLarge
			}

			p.key = uf.B2S(p.headers.Finish())
			if len(p.key) == 0 {
				return Error, nil, status.ErrBadRequest
			}

			p.headersNumber++
			if p.headersNumber > p.maxHeaders {
				return Error, nil, status.ErrTooManyHeaders
			}

			data = data[colon+1:]
			p.state = eHeaderValue
		case eHeaderValue:
			term := indexLineEnd(data)
			if term == -1 {
				if !p.headers.Append(data) {
					return Error, nil, status.ErrHeaderFieldsTooLarge
				}

				return Pending, nil, nil
			}

			if !p.headers.Append(data[:term]) {
				return Error, nil, status.ErrHeaderFieldsTooLarge
			}

			value := strings.Trim(uf.B2S(p.headers.Finish()), " \t")
			request.Headers.Add(p.key, value)

			if data[term] == '\r' {
				p.state = eHeaderValueCR
			} else {
				p.state = eHeaderKey
			}
			data = data[term+1:]
		case eHeaderValueCR:
			if data[0] != '\n' {
				return Error, nil, status.ErrBadRequest
			}

			data = data[1:]
			p.state = eHeaderKey
		case eFinalCR:
			if data[0] != '\n' {
				return Error, nil, status.ErrBadRequest
			}

			return p.headersCompleted(data[1:])
		default:
			panic("BUG: parser: unknown state")
		}
	}

	return Pending, nil, nil
}

// Reset brings the parser back to the initial state, recycling the buffers. Must be
// called only when strings stored in the request aren't needed anymore.
func (p *Parser) Reset() {
	p.state = eMethod
	p.headersNumber = 0
	p.requestLine.Clear()
	p.headers.Clear()
}

func (p *Parser) headersCompleted(extra []byte) (RequestState, []byte, error) {
	request := p.request

	if cl := request.Headers.Value("content-length"); len(cl) > 0 {
		length, err := strconv.Atoi(cl)
		if err != nil || length < 0 {
			return Error, nil, status.ErrBadContentLength
		}

		request.ContentLength = length
	}

	for _, value := range request.Headers.Values("transfer-encoding") {
		for len(value) > 0 {
			var token string
			token, value = cutToken(value)
			if strcomp.EqualFold(token, "chunked") {
				request.Encoding.Chunked = true
			}
		}
	}

	if request.Encoding.Chunked {
		// chunked framing takes precedence, Content-Length (if any) is plainly ignored
		request.ContentLength = 0
		request.Encoding.HasTrailer = request.Headers.Has("trailer")
	}

	request.ContentType = request.Headers.Value("content-type")

	return HeadersCompleted, extra, nil
}

func indexLineEnd(data []byte) int {
	for i, c := range data {
		if c == '\r' || c == '\n' {
			return i
		}
	}

	return -1
}

func cutToken(list string) (token, rest string) {
	if comma := strings.IndexByte(list, ','); comma != -1 {
		token, rest = list[:comma], list[comma+1:]
	} else {
		token = list
	}

	return strings.Trim(token, " \t"), rest
}
