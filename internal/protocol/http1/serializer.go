package http1

import (
	"strconv"

	"github.com/ember-web/ember/http"
	"github.com/ember-web/ember/http/method"
	"github.com/ember-web/ember/http/proto"
	"github.com/ember-web/ember/http/status"
	"github.com/ember-web/ember/kv"
	"github.com/ember-web/ember/transport"
	"github.com/indigo-web/utils/strcomp"
)

const crlf = "\r\n"

// Serializer renders responses into a reusable buffer and pushes them to the client
// in a single write.
type Serializer struct {
	request        *http.Request
	client         transport.Client
	buff           []byte
	defaultHeaders []kv.Pair
}

func NewSerializer(
	buff []byte, defaultHeaders map[string]string,
	request *http.Request, client transport.Client,
) *Serializer {
	return &Serializer{
		request:        request,
		client:         client,
		buff:           buff,
		defaultHeaders: flatten(defaultHeaders),
	}
}

// Write serializes the response and transmits it at once.
func (s *Serializer) Write(protocol proto.Protocol, response *http.Response) error {
	fields := response.Expose()

	s.appendProtocol(protocol)
	s.appendStatusLine(fields)

	for _, header := range fields.Headers {
		s.appendHeader(header.Key, header.Value)
	}

	s.appendDefaultHeaders(response)

	if len(fields.ContentType) > 0 {
		s.appendKnownHeader("Content-Type: ", fields.ContentType)
	}
	s.appendKnownHeader("Content-Length: ", strconv.Itoa(len(fields.Body)))
	s.buff = append(s.buff, crlf...)

	if s.request.Method != method.HEAD {
		s.buff = append(s.buff, fields.Body...)
	}

	err := s.client.Write(s.buff)
	s.buff = s.buff[:0]

	return err
}

func (s *Serializer) appendProtocol(protocol proto.Protocol) {
	if protocol == proto.Unknown {
		// the parser failed before the protocol was recognized. HTTP/1.1 is the best
		// guess we have for the error response
		protocol = proto.HTTP11
	}

	s.buff = append(s.buff, protocol.String()...)
	s.buff = append(s.buff, ' ')
}

func (s *Serializer) appendStatusLine(fields *http.Fields) {
	if line := status.CodeStatus(fields.Code); len(fields.Status) == 0 && len(line) > 0 {
		s.buff = append(s.buff, line...)
		return
	}

	s.buff = append(s.buff, strconv.Itoa(int(fields.Code))...)
	s.buff = append(s.buff, ' ')
	text := fields.Status
	if len(text) == 0 {
		text = status.Text(fields.Code)
	}
	s.buff = append(s.buff, text...)
	s.buff = append(s.buff, crlf...)
}

func (s *Serializer) appendHeader(key, value string) {
	s.buff = append(s.buff, key...)
	s.buff = append(s.buff, ':', ' ')
	s.buff = append(s.buff, value...)
	s.buff = append(s.buff, crlf...)
}

// appendKnownHeader differs from appendHeader only by the fact, that the key must
// already contain the colon along with the trailing space.
func (s *Serializer) appendKnownHeader(key, value string) {
	s.buff = append(s.buff, key...)
	s.buff = append(s.buff, value...)
	s.buff = append(s.buff, crlf...)
}

func (s *Serializer) appendDefaultHeaders(response *http.Response) {
	for _, header := range s.defaultHeaders {
		if !response.HasHeader(header.Key) && !strcomp.EqualFold(header.Key, "content-type") {
			s.appendHeader(header.Key, header.Value)
		}
	}
}

func flatten(m map[string]string) (pairs []kv.Pair) {
	for key, value := range m {
		pairs = append(pairs, kv.Pair{Key: key, Value: value})
	}

	return pairs
}
