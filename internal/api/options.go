package api

import "time"

type requestOptions struct {
	suppressLogout bool
	timeout        time.Duration
	accept         string
}

// Option customizes a single request.
type Option func(*requestOptions)

// SuppressLogout keeps a 401 on this request from clearing the credential
// and firing the session-expired hook. Intended for exploratory probes
// against endpoints that may not exist yet; the error still comes back as
// a normal APIError.
func SuppressLogout() Option {
	return func(o *requestOptions) { o.suppressLogout = true }
}

// WithTimeout overrides the client's default timeout for this request.
func WithTimeout(d time.Duration) Option {
	return func(o *requestOptions) { o.timeout = d }
}

// WithAccept sets the Accept header for this request.
func WithAccept(mime string) Option {
	return func(o *requestOptions) { o.accept = mime }
}
