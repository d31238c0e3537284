package simple

import (
	"github.com/ember-web/ember/http"
	"github.com/ember-web/ember/http/status"
	"github.com/ember-web/ember/router"
)

type (
	Handler      func(*http.Request) *http.Response
	ErrorHandler func(*http.Request, error) *http.Response
)

var _ router.Router = new(Router)

// Router routes all the requests into a single handler. Mostly useful for tests,
// proxies and other applications in which the dispatch decision doesn't belong to
// the server.
type Router struct {
	handler    Handler
	errHandler ErrorHandler
}

func New(handler Handler, errHandler ErrorHandler) *Router {
	if errHandler == nil {
		errHandler = defaultErrorHandler
	}

	return &Router{
		handler:    handler,
		errHandler: errHandler,
	}
}

func (r *Router) OnRequest(request *http.Request) *http.Response {
	return r.handler(request)
}

func (r *Router) OnError(request *http.Request, err error) *http.Response {
	return r.errHandler(request, err)
}

func defaultErrorHandler(request *http.Request, err error) *http.Response {
	if err == status.ErrCloseConnection {
		// the connection is over, nobody will see the response anyway
		return nil
	}

	return request.Respond().Error(err)
}
