package oc

import (
	"errors"
	"testing"

	"github.com/mdpipeline/mdpctl/pkg/k8s"
	"github.com/stretchr/testify/assert"
)

func TestCommandError(t *testing.T) {
	t.Parallel()

	exit := errors.New("exit status 1")
	args := []string{"get", "hivecluster", "mdp-hive"}

	tests := []struct {
		name         string
		stderr       string
		wantNotFound bool
		wantMessage  string
	}{
		{
			name:         "server not found",
			stderr:       `Error from server (NotFound): hiveclusters.hive.stackable.tech "mdp-hive" not found`,
			wantNotFound: true,
			wantMessage:  "get hivecluster mdp-hive: resource not found: Error from server (NotFound)",
		},
		{
			name:        "unknown resource type is not a missing object",
			stderr:      `error: the server doesn't have a resource type "hivecluster"`,
			wantMessage: `get hivecluster mdp-hive: exit status 1: error: the server doesn't have a resource type`,
		},
		{
			name:        "empty stderr",
			wantMessage: "get hivecluster mdp-hive: exit status 1",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			err := commandError(args, testCase.stderr, exit)

			assert.Equal(t, testCase.wantNotFound, errors.Is(err, k8s.ErrNotFound))
			assert.Contains(t, err.Error(), testCase.wantMessage)
		})
	}
}
