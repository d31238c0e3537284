package mime

import "strings"

type MIME = string

const (
	OctetStream MIME = "application/octet-stream"
	Plain       MIME = "text/plain"
	HTML        MIME = "text/html"
	JSON        MIME = "application/json"
)

// Complies returns whether two MIMEs are compatible. Empty MIME is
// considered compatible with any other MIME.
func Complies(mime MIME, with string) bool {
	// get rid of parameters if any
	if sep := strings.IndexByte(with, ';'); sep != -1 {
		with = strings.TrimRight(with[:sep], " ")
	}

	return len(with) == 0 || with == mime
}
