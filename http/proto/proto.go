package proto

import "github.com/indigo-web/utils/uf"

type Protocol uint8

const (
	Unknown Protocol = iota
	HTTP10
	HTTP11
)

// String returns the protocol token as it appears on the wire.
func (p Protocol) String() string {
	lut := [...]string{HTTP10: "HTTP/1.0", HTTP11: "HTTP/1.1"}
	if int(p) >= len(lut) {
		return ""
	}

	return lut[p]
}

const protoTokenLength = len("HTTP/x.x")

// FromBytes parses a protocol token. Anything beyond HTTP/1.x comes out as Unknown,
// as further framing isn't supported anyway.
func FromBytes(raw []byte) Protocol {
	if len(raw) != protoTokenLength || uf.B2S(raw[:len("HTTP/")]) != "HTTP/" {
		return Unknown
	}

	switch uf.B2S(raw[len("HTTP/"):]) {
	case "1.0":
		return HTTP10
	case "1.1":
		return HTTP11
	default:
		return Unknown
	}
}
