// Package prereq verifies the cluster is ready to receive the stack: a logged-in CLI and the
// operator CRDs the manifests rely on.
package prereq

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mdpipeline/mdpctl/pkg/k8s"
	"github.com/mdpipeline/mdpctl/pkg/utils/envvar"
	"github.com/mdpipeline/mdpctl/pkg/utils/notify"
)

var (
	// ErrMissingCRDs is returned when required CustomResourceDefinitions are not installed.
	ErrMissingCRDs = errors.New("required CRDs are not installed")
	// ErrMissingManifests is returned when configured manifests are not on disk.
	ErrMissingManifests = errors.New("manifests not found")
)

// Checker runs the prerequisite checks.
type Checker struct {
	client    k8s.Client
	writer    io.Writer
	crds      []string
	manifests []string
}

// NewChecker creates a Checker for crds. When manifests is non-empty their existence on
// disk is checked too.
func NewChecker(client k8s.Client, writer io.Writer, crds, manifests []string) *Checker {
	return &Checker{client: client, writer: writer, crds: crds, manifests: manifests}
}

// Check returns an error describing every failed prerequisite.
func (c *Checker) Check(ctx context.Context) error {
	notify.Titlef(c.writer, "🔍", "Check prerequisites...")

	user, err := c.client.WhoAmI(ctx)
	if err != nil {
		notify.Errorf(c.writer, "not logged in to the cluster")

		return fmt.Errorf("failed to verify cluster login: %w", err)
	}

	notify.Activityf(c.writer, "logged in as %s", user)

	var errs []error

	missing, err := c.missingCRDs(ctx)
	if err != nil {
		errs = append(errs, err)
	} else if len(missing) > 0 {
		for _, name := range missing {
			notify.Errorf(c.writer, "CRD %s not found", name)
		}

		errs = append(errs, fmt.Errorf("%w: %s", ErrMissingCRDs, strings.Join(missing, ", ")))
	}

	if absent := absentManifests(c.manifests); len(absent) > 0 {
		for _, path := range absent {
			notify.Errorf(c.writer, "manifest %s not found", path)
		}

		errs = append(errs, fmt.Errorf("%w: %s", ErrMissingManifests, strings.Join(absent, ", ")))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	notify.Successf(c.writer, "prerequisites satisfied")

	return nil
}

func (c *Checker) missingCRDs(ctx context.Context) ([]string, error) {
	var missing []string

	for _, name := range c.crds {
		exists, err := c.client.CRDExists(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to check CRD %s: %w", name, err)
		}

		if exists {
			notify.Activityf(c.writer, "CRD %s found", name)

			continue
		}

		missing = append(missing, name)
	}

	return missing, nil
}

func absentManifests(paths []string) []string {
	var absent []string

	for _, path := range paths {
		_, err := os.Stat(envvar.ExpandPath(path))
		if err != nil {
			absent = append(absent, path)
		}
	}

	return absent
}
