package http

import (
	"net"

	"github.com/ember-web/ember/config"
	"github.com/ember-web/ember/http/method"
	"github.com/ember-web/ember/http/proto"
	"github.com/ember-web/ember/kv"
	"github.com/ember-web/ember/transport"
)

type Headers = *kv.Storage

// Encoding describes the body delimiting scheme of a request. If Chunked is unset, the
// body is either sized by Content-Length or absent altogether.
type Encoding struct {
	Chunked, HasTrailer bool
}

// Request represents a single HTTP request, reused across all requests of a connection.
type Request struct {
	// Method is an enum representing the request method.
	Method method.Method
	// Path is the raw request target, exactly as it appeared on the wire.
	Path string
	// Protocol is the protocol of the request. HTTP/1.0 and HTTP/1.1 are the only ones
	// expected here.
	Protocol proto.Protocol
	// Headers holds non-normalized header pairs, even though lookup is case-insensitive.
	Headers Headers
	// ContentLength is the parsed Content-Length value, 0 when the header is absent.
	ContentLength int
	// ContentType is the raw Content-Type value, possibly with parameters.
	ContentType string
	// Encoding tells how the body is delimited.
	Encoding Encoding
	// Body is a dedicated entity providing access to the message body.
	Body *Body
	// Remote holds the remote address. Please note that this is generally not a good
	// parameter to identify a user, because there might be proxies in the middle.
	Remote net.Addr

	response *Response
	cfg      *config.Config
}

func NewRequest(
	cfg *config.Config, response *Response, client transport.Client, headers Headers,
) *Request {
	return &Request{
		Method:   method.Unknown,
		Protocol: proto.HTTP11,
		Headers:  headers,
		Remote:   client.Remote(),
		response: response,
		cfg:      cfg,
	}
}

// HasBody tells whether the request carries a body at all.
func (r *Request) HasBody() bool {
	return r.ContentLength > 0 || r.Encoding.Chunked
}

// Respond returns the Response object.
//
// WARNING: this method clears the response builder under the hood. As it is passed
// by reference, it'll be cleared EVERYWHERE along a handler.
func (r *Request) Respond() *Response {
	return r.response.Clear()
}

// Reset prepares the request for the next message on the connection. The body is not
// touched here: by the time Reset is called, the connection loop has already made sure
// it's fully consumed, or has decided to close the connection instead.
func (r *Request) Reset() {
	r.Method = method.Unknown
	r.Path = ""
	r.Headers.Clear()
	r.ContentLength = 0
	r.ContentType = ""
	r.Encoding = Encoding{}
}

// Respond is a shorthand to get the response object of the request. Can be used as a
// handler returning an empty 200 OK.
func Respond(request *Request) *Response {
	return request.Respond()
}
