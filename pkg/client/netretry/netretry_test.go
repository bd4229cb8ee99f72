package netretry_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mdpipeline/mdpctl/pkg/client/netretry"
	"github.com/stretchr/testify/assert"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	sparkApps := schema.GroupResource{Group: "sparkoperator.k8s.io", Resource: "sparkapplications"}

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "forbidden", err: errors.New(`Error from server (Forbidden): pods is forbidden`), expected: false},
		{name: "not found", err: apierrors.NewNotFound(sparkApps, "mdp-smoke"), expected: false},
		{name: "port 5000 not matched", err: errors.New("dial tcp 10.0.0.1:5000: no route"), expected: false},
		{
			name:     "api server restarting",
			err:      errors.New("Error from server (ServiceUnavailable): the server is currently unable to handle the request"),
			expected: true,
		},
		{
			name:     "cli cannot reach server",
			err:      errors.New("Unable to connect to the server: dial tcp 10.0.0.1:6443: i/o timeout"),
			expected: true,
		},
		{name: "etcd timeout", err: errors.New("etcdserver: request timed out"), expected: true},
		{name: "connection reset", err: errors.New("read: connection reset by peer"), expected: true},
		{name: "throttled code", err: errors.New("got status 429"), expected: true},
		{name: "gateway code", err: errors.New("upstream returned 502"), expected: true},
		{name: "typed server timeout", err: apierrors.NewServerTimeout(sparkApps, "get", 2), expected: true},
		{name: "typed throttling", err: apierrors.NewTooManyRequests("slow down", 1), expected: true},
		{
			name:     "wrapped typed unavailable",
			err:      fmt.Errorf("get pods: %w", apierrors.NewServiceUnavailable("restarting")),
			expected: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.expected, netretry.IsRetryable(testCase.err))
		})
	}
}
