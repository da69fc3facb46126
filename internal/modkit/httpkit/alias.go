// Package httpkit is the route sugar modules use instead of importing the platform http package
package httpkit

import (
	"net/http"

	phttp "mixtape/internal/platform/net/http"
	"mixtape/internal/platform/net/http/bind"
)

type (
	// Router is the platform router seam
	Router = phttp.Router

	// Envelope is the response body every endpoint writes
	Envelope = phttp.Envelope
)

// Get mounts a bodyless handler, its result is wrapped in a 200 envelope
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, call(h))
}

// PostJSON mounts a handler that takes a strictly decoded and validated JSON body
// a body that fails to decode or validate never reaches h
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, call(func(req *http.Request) (any, error) {
		in, err := bind.ParseJSON[T](req)
		if err != nil {
			return nil, err
		}
		return h(req, in)
	}))
}

// call adapts a result-returning handler, a phttp.Response result is written as is
func call(h func(*http.Request) (any, error)) http.HandlerFunc {
	return phttp.Handle(func(r *http.Request) phttp.Response {
		out, err := h(r)
		if err != nil {
			return phttp.Error(err)
		}
		if resp, ok := out.(phttp.Response); ok {
			return resp
		}
		return phttp.OK(out)
	})
}
