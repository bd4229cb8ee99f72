// Package netretry classifies cluster access errors that are worth another poll,
// such as API server restarts, connection resets and throttling.
package netretry

import (
	"errors"
	"regexp"
	"strings"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// httpStatusCodePattern matches HTTP 5xx and 429 codes at word boundaries
// to avoid false positives on port numbers like ":5000".
var httpStatusCodePattern = regexp.MustCompile(`\b(50[0-4]|429)\b`)

// transientPatterns are substrings of CLI stderr and client errors seen while the
// API server or the network is briefly unavailable.
var transientPatterns = []string{
	"Internal Server Error", "Bad Gateway",
	"Service Unavailable", "Gateway Timeout",
	"Too Many Requests",
	"the server is currently unable to handle the request",
	"Unable to connect to the server",
	"etcdserver: request timed out",
	"connection reset by peer", "connection refused",
	"i/o timeout", "TLS handshake timeout",
	"unexpected EOF", "no such host",
}

// IsRetryable returns true if err indicates a transient condition that a later poll
// may not hit again.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var status apierrors.APIStatus
	if errors.As(err, &status) {
		if apierrors.IsServerTimeout(err) || apierrors.IsTimeout(err) ||
			apierrors.IsTooManyRequests(err) || apierrors.IsServiceUnavailable(err) ||
			apierrors.IsInternalError(err) {
			return true
		}
	}

	errMsg := err.Error()

	for _, pattern := range transientPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}

	return httpStatusCodePattern.MatchString(errMsg)
}
