package http

import (
	"github.com/ember-web/ember/http/mime"
	"github.com/ember-web/ember/http/status"
	"github.com/ember-web/ember/kv"
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
)

// why 7? It proved to be fairly enough in the reference workloads, with no theory behind.
const preallocRespHeaders = 7

// Fields is the exposed state of a response builder, consumed by the serializer.
type Fields struct {
	Code        status.Code
	Status      status.Status
	ContentType mime.MIME
	Headers     []kv.Pair
	Body        []byte
}

// Response is a builder over response fields. A single instance is reused across all
// requests of a connection.
type Response struct {
	fields Fields
}

// NewResponse returns a new instance of the Response object with status code set to
// 200 OK, pre-allocated space for response headers and text/html content-type.
// NOTE: it's recommended to use Request.Respond() method inside of handlers, if
// there's no clear reason otherwise.
func NewResponse() *Response {
	return &Response{
		fields: Fields{
			Code:        status.OK,
			Headers:     make([]kv.Pair, 0, preallocRespHeaders),
			ContentType: mime.HTML,
		},
	}
}

// Code sets a response code and a corresponding status. In case of unknown code, the
// status text stays empty; set it via Status explicitly then.
func (r *Response) Code(code status.Code) *Response {
	r.fields.Code = code
	return r
}

// Status sets a custom status text. Most clients ignore it entirely.
func (r *Response) Status(status status.Status) *Response {
	r.fields.Status = status
	return r
}

// ContentType sets a custom Content-Type header value.
func (r *Response) ContentType(value mime.MIME) *Response {
	r.fields.ContentType = value
	return r
}

// Header sets header values to a key. In case it already exists the value will
// be appended.
func (r *Response) Header(key string, values ...string) *Response {
	if strcomp.EqualFold(key, "content-type") {
		return r.ContentType(values[0])
	}

	for i := range values {
		r.fields.Headers = append(r.fields.Headers, kv.Pair{
			Key:   key,
			Value: values[i],
		})
	}

	return r
}

// HasHeader tells whether the header was explicitly set before.
func (r *Response) HasHeader(key string) bool {
	for _, pair := range r.fields.Headers {
		if strcomp.EqualFold(pair.Key, key) {
			return true
		}
	}

	return false
}

// String sets the response's body to the passed string.
func (r *Response) String(body string) *Response {
	return r.Bytes(uf.S2B(body))
}

// Bytes sets the response's body to the passed slice WITHOUT COPYING. Changing the
// passed slice later will affect the response by itself.
func (r *Response) Bytes(body []byte) *Response {
	r.fields.Body = body
	return r
}

// Expose reveals the response fields for serialization.
func (r *Response) Expose() *Fields {
	return &r.fields
}

// Clear brings the response builder back to the pristine state.
func (r *Response) Clear() *Response {
	r.fields = Fields{
		Code:        status.OK,
		Headers:     r.fields.Headers[:0],
		ContentType: mime.HTML,
	}

	return r
}

// Error returns a response with the code and body inferred from the error. Unknown
// errors are treated as internal ones, without exposing their message to the client.
func (r *Response) Error(err error) *Response {
	if httpErr, ok := err.(status.HTTPError); ok && httpErr.Code != status.CloseConnection {
		return r.
			Code(httpErr.Code).
			ContentType(mime.Plain).
			String(httpErr.Message)
	}

	return r.
		Code(status.InternalServerError).
		ContentType(mime.Plain).
		String("internal server error")
}
