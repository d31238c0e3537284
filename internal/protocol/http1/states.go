package http1

// RequestState is what the parser tells the connection loop after chewing a piece
// of input.
type RequestState uint8

const (
	// Pending: the headers section isn't complete yet, feed more data.
	Pending RequestState = iota + 1
	// HeadersCompleted: the request line and all the headers are parsed; whatever
	// follows the headers section is returned back as extra.
	HeadersCompleted
	// Error: the request is malformed beyond recovery.
	Error
)

type parserState uint8

const (
	eMethod parserState = iota + 1
	ePath
	eProto
	eProtoCR
	eHeaderKey
	eHeaderValue
	eHeaderValueCR
	eFinalCR
)
