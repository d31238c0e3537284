package http

import "io"

// Stream is a cursor over the request body. Unlike the whole-body accessors, it
// delivers the body in bounded pieces and never insists on being read to the end:
// a handler may stop after any call, leaving the rest to the connection loop.
type Stream struct {
	body      *Body
	delivered int64
}

// Next delivers up to n bytes of the body. The returned slice stays valid only until
// the following call. When the body is exhausted, io.EOF is returned, possibly along
// with the last piece. Calls past the end keep returning io.EOF.
func (s *Stream) Next(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}

	b := s.body
	b.markPartial()

	if len(b.pending) == 0 && b.error == nil {
		b.pending, b.error = b.src.Retrieve()
	}

	if n > len(b.pending) {
		n = len(b.pending)
	}

	piece := b.pending[:n]
	b.pending = b.pending[n:]
	s.delivered += int64(n)

	if len(b.pending) == 0 && b.error != nil {
		if b.error == io.EOF {
			b.state = fullyConsumed
			return piece, io.EOF
		}

		return piece, b.error
	}

	return piece, nil
}

// Delivered reports how many body bytes were handed to the application through this
// cursor so far.
func (s *Stream) Delivered() int64 {
	return s.delivered
}
