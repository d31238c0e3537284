package status

// HTTPError is an error with an associated response code. Values of this type are
// compared by value, so the pre-defined errors below can be switched over directly.
type HTTPError struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return HTTPError{
		Code:    code,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	return h.Message
}

var (
	ErrCloseConnection = NewError(CloseConnection, "actively closing the connection")

	ErrBadRequest           = NewError(BadRequest, "bad request")
	ErrTooLongRequestLine   = NewError(BadRequest, "request line is too long")
	ErrBadChunk             = NewError(BadRequest, "malformed chunk-encoded data")
	ErrBadContentLength     = NewError(BadRequest, "invalid Content-Length value")
	ErrUnexpectedEOF        = NewError(BadRequest, "the connection closed in the middle of the message")
	ErrNotFound             = NewError(NotFound, "not found")
	ErrInternalServerError  = NewError(InternalServerError, "internal server error")
	ErrMethodNotImplemented = NewError(NotImplemented, "request method is not supported")
	ErrMethodNotAllowed     = NewError(MethodNotAllowed, "method not allowed")
	ErrBodyTooLarge         = NewError(RequestEntityTooLarge, "request body is too large")
	ErrHeaderFieldsTooLarge = NewError(RequestHeaderFieldsTooLarge, "too large headers section")
	ErrTooManyHeaders       = NewError(RequestHeaderFieldsTooLarge, "too many headers")
	ErrURITooLong           = NewError(RequestURITooLong, "request URI too long")
	ErrUnsupportedProtocol  = NewError(HTTPVersionNotSupported, "HTTP version not supported")
	ErrUnsupportedMediaType = NewError(UnsupportedMediaType, "unsupported media type")
	ErrTimeout              = NewError(RequestTimeout, "idle for too long")
)
