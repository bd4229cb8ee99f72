// Package rollback removes a deployed stack in reverse deployment order, best effort.
package rollback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	v1alpha1 "github.com/mdpipeline/mdpctl/pkg/apis/pipeline/v1alpha1"
	"github.com/mdpipeline/mdpctl/pkg/cli/ui/confirm"
	"github.com/mdpipeline/mdpctl/pkg/k8s"
	"github.com/mdpipeline/mdpctl/pkg/utils/notify"
)

// ErrRollbackIncomplete is returned when at least one deletion failed for a reason other
// than the object being absent.
var ErrRollbackIncomplete = errors.New("rollback incomplete")

// residualKind marks the bulk deletion entry of a report.
const residualKind = "residual"

// Outcome is the result of one deletion.
type Outcome string

const (
	// OutcomeDeleted means the object existed and is gone.
	OutcomeDeleted Outcome = "deleted"
	// OutcomeAlreadyDeleted means the object did not exist.
	OutcomeAlreadyDeleted Outcome = "already deleted"
	// OutcomeFailed means the deletion failed; the sequence continued.
	OutcomeFailed Outcome = "failed"
)

// Entry is one deletion of a rollback.
type Entry struct {
	Ref     k8s.ResourceRef
	Outcome Outcome
	Err     error
}

// Report lists every deletion in the order performed.
type Report struct {
	Entries []Entry
}

// Count returns the number of entries with outcome.
func (r Report) Count(outcome Outcome) int {
	count := 0

	for _, entry := range r.Entries {
		if entry.Outcome == outcome {
			count++
		}
	}

	return count
}

// Sequencer deletes the resources listed by the stages of a Spec.
type Sequencer struct {
	client k8s.Client
	writer io.Writer
	spec   v1alpha1.Spec
}

// NewSequencer creates a Sequencer.
func NewSequencer(client k8s.Client, writer io.Writer, spec v1alpha1.Spec) *Sequencer {
	return &Sequencer{client: client, writer: writer, spec: spec}
}

// Plan returns the per-stage resources in deletion order: stages reversed and each
// stage's resources reversed.
func (s *Sequencer) Plan() []k8s.ResourceRef {
	var refs []k8s.ResourceRef

	for _, stage := range slices.Backward(s.spec.Stages) {
		for _, resource := range slices.Backward(stage.Resources) {
			ref := k8s.ResourceRef{Kind: resource.Kind, Name: resource.Name, Namespace: s.spec.Connection.Namespace}
			if resource.ClusterScoped {
				ref.Namespace = ""
			}

			refs = append(refs, ref)
		}
	}

	return refs
}

// Preview describes the rollback for the confirmation prompt.
func (s *Sequencer) Preview() *confirm.DeletionPreview {
	plan := s.Plan()

	resources := make([]string, 0, len(plan))
	for _, ref := range plan {
		resources = append(resources, ref.String())
	}

	return &confirm.DeletionPreview{
		Namespace:       s.spec.Connection.Namespace,
		Resources:       resources,
		ResidualKinds:   s.spec.Rollback.ResidualKinds,
		DeleteNamespace: s.spec.Rollback.DeleteNamespace,
	}
}

// Rollback runs the plan, then removes residual objects and the namespace. Not-found is
// success. It only returns an error when some deletion failed otherwise.
func (s *Sequencer) Rollback(ctx context.Context) (Report, error) {
	namespace := s.spec.Connection.Namespace
	timeout := s.spec.Polling.DeleteTimeout.Duration

	notify.Titlef(s.writer, "🗑️", "Roll back %s...", namespace)

	var report Report

	for _, ref := range s.Plan() {
		report.Entries = append(report.Entries, s.delete(ctx, ref, timeout))
	}

	nsRef := k8s.ResourceRef{Kind: "namespace", Name: namespace}

	if kinds := s.spec.Rollback.ResidualKinds; len(kinds) > 0 {
		report.Entries = append(report.Entries, s.deleteResidual(ctx, nsRef, kinds, timeout))
	}

	if s.spec.Rollback.DeleteNamespace {
		report.Entries = append(report.Entries, s.delete(ctx, nsRef, s.spec.Polling.Timeout.Duration))
	}

	if failed := report.Count(OutcomeFailed); failed > 0 {
		notify.Errorf(s.writer, "rollback finished with %d failed deletions", failed)

		return report, fmt.Errorf("%w: %d of %d deletions failed", ErrRollbackIncomplete, failed, len(report.Entries))
	}

	notify.Successf(s.writer, "rollback complete: %d deleted, %d already deleted",
		report.Count(OutcomeDeleted), report.Count(OutcomeAlreadyDeleted))

	return report, nil
}

func (s *Sequencer) delete(ctx context.Context, ref k8s.ResourceRef, timeout time.Duration) Entry {
	notify.Activityf(s.writer, "deleting %s", ref)

	err := s.client.Delete(ctx, ref, timeout)

	switch {
	case err == nil:
		notify.Successf(s.writer, "%s deleted", ref)

		return Entry{Ref: ref, Outcome: OutcomeDeleted}
	case k8s.IsNotFound(err):
		notify.Infof(s.writer, "%s already deleted", ref)

		return Entry{Ref: ref, Outcome: OutcomeAlreadyDeleted}
	default:
		notify.Warningf(s.writer, "failed to delete %s: %v", ref, err)

		return Entry{Ref: ref, Outcome: OutcomeFailed, Err: err}
	}
}

// deleteResidual bulk-deletes leftover objects. A missing namespace has nothing left.
func (s *Sequencer) deleteResidual(
	ctx context.Context,
	nsRef k8s.ResourceRef,
	kinds []string,
	timeout time.Duration,
) Entry {
	ref := k8s.ResourceRef{Kind: residualKind, Name: strings.Join(kinds, ","), Namespace: nsRef.Name}

	_, err := s.client.Get(ctx, nsRef)
	if k8s.IsNotFound(err) {
		notify.Infof(s.writer, "namespace %s already deleted, no residual objects", nsRef.Name)

		return Entry{Ref: ref, Outcome: OutcomeAlreadyDeleted}
	}

	notify.Activityf(s.writer, "deleting remaining %s in %s", ref.Name, nsRef.Name)

	err = s.client.DeleteAll(ctx, nsRef.Name, kinds, timeout)

	switch {
	case err == nil:
		notify.Successf(s.writer, "remaining %s deleted", ref.Name)

		return Entry{Ref: ref, Outcome: OutcomeDeleted}
	case k8s.IsNotFound(err):
		return Entry{Ref: ref, Outcome: OutcomeAlreadyDeleted}
	default:
		notify.Warningf(s.writer, "failed to delete remaining %s: %v", ref.Name, err)

		return Entry{Ref: ref, Outcome: OutcomeFailed, Err: err}
	}
}
