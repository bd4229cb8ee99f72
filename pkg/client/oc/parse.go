package oc

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mdpipeline/mdpctl/pkg/k8s"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/yaml"
)

// notFoundPattern matches server answers for missing objects, e.g.
// `Error from server (NotFound): statefulsets.apps "mdp-postgres" not found`.
var notFoundPattern = regexp.MustCompile(`\(NotFound\)|" not found`)

// decode parses "-o json" output into a typed object. The CLI prints lists as kind
// List, so the kind field is not enforced.
func decode(output string, into any) error {
	err := yaml.Unmarshal([]byte(output), into)
	if err != nil {
		return fmt.Errorf("failed to decode CLI output: %w", err)
	}

	return nil
}

func decodeUnstructured(output string) (*unstructured.Unstructured, error) {
	obj := &unstructured.Unstructured{}

	err := obj.UnmarshalJSON([]byte(output))
	if err != nil {
		return nil, fmt.Errorf("failed to decode CLI output: %w", err)
	}

	return obj, nil
}

// commandError turns a failed invocation into an error carrying stderr, wrapping
// k8s.ErrNotFound when the server reported a missing object.
func commandError(args []string, stderr string, err error) error {
	message := strings.TrimSpace(stderr)

	if notFoundPattern.MatchString(message) {
		return fmt.Errorf("%s: %w: %s", strings.Join(args, " "), k8s.ErrNotFound, message)
	}

	if message == "" {
		return fmt.Errorf("%s: %w", strings.Join(args, " "), err)
	}

	return fmt.Errorf("%s: %w: %s", strings.Join(args, " "), err, message)
}
