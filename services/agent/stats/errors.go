package stats

import (
	"errors"
	"net/http"
)

// ErrFetch is wrapped by every error returned when the Varnish counters could not be fetched or parsed
var ErrFetch = errors.New("varnish stats fetch failed")

// ErrEmptyVarnishstatPath signals a command source created without the varnishstat binary path
var ErrEmptyVarnishstatPath = errors.New("empty varnishstat path")

// ErrEmptyURL signals an HTTP source created without an URL
var ErrEmptyURL = errors.New("empty stats URL")

type errStatusNotOK int

func (e errStatusNotOK) Error() string {
	return "non-2xx HTTP status code: " + http.StatusText(int(e))
}

type errMalformedStats string

func (e errMalformedStats) Error() string {
	return "malformed varnishstat output: " + string(e)
}
