package reauth

import (
	nethttp "net/http"

	"github.com/gaborage/go-courier/endpoint"
	"github.com/gaborage/go-courier/httpclient"
)

// IsRetryableAuthFailure reports whether the outcome of executing desc is the
// single retryable condition: an HTTP 403 on an endpoint that declares a
// refresh configuration. Every other failure is terminal and must propagate
// to the caller unchanged.
func IsRetryableAuthFailure(err error, desc *endpoint.Descriptor) bool {
	if desc == nil || !desc.RequiresReauth() {
		return false
	}
	return httpclient.IsHTTPStatusError(err, nethttp.StatusForbidden)
}
