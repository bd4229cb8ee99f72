package readiness_test

import (
	"testing"

	"github.com/mdpipeline/mdpctl/pkg/k8s/readiness"
	"github.com/stretchr/testify/assert"
)

func TestSentinelErrors(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "timeout exceeded", readiness.ErrTimeoutExceeded.Error())
	assert.Equal(t, "resource failed", readiness.ErrResourceFailed.Error())
}
