package router

import (
	"github.com/ember-web/ember/http"
)

// Router is the dispatching collaborator of the connection loop. OnRequest is called
// for every well-formed request; whether and how much of the request body it reads is
// entirely up to it. OnError is called when the request cannot be served at all; the
// returned response (if any) is the last one on the connection.
type Router interface {
	OnRequest(request *http.Request) *http.Response
	OnError(request *http.Request, err error) *http.Response
}
