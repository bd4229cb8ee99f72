package pipeline

import (
	"context"
	"fmt"

	v1alpha1 "github.com/mdpipeline/mdpctl/pkg/apis/pipeline/v1alpha1"
	"github.com/mdpipeline/mdpctl/pkg/utils/notify"
	corev1 "k8s.io/api/core/v1"
)

// Validate runs the configured Trino queries in the coordinator pod. Only required queries
// fail validation; the others print their hint as a warning.
func (r *Runner) Validate(ctx context.Context) error {
	notify.Titlef(r.writer, "🔍", "Validate pipeline results...")

	pod, err := r.coordinator(ctx)
	if err != nil {
		return err
	}

	notify.Activityf(r.writer, "using trino pod %s", pod)

	for _, query := range r.cfg.Trino.Queries {
		notify.Activityf(r.writer, "checking %s", query.Name)

		out, err := r.client.Exec(ctx, r.namespace, pod, r.trinoCommand(query))
		if err != nil {
			if query.Required {
				notify.Errorf(r.writer, "%s query failed: %v", query.Name, err)

				return fmt.Errorf("%w: %s: %w", ErrValidationFailed, query.Name, err)
			}

			notify.Warningf(r.writer, "%s not accessible (%s)", query.Name, hint(query))

			continue
		}

		if out != "" {
			notify.Infof(r.writer, "%s: %s", query.Name, out)
		}
	}

	notify.Successf(r.writer, "pipeline validation completed")

	return nil
}

func (r *Runner) coordinator(ctx context.Context) (string, error) {
	pods, err := r.client.ListPods(ctx, r.namespace, r.cfg.Trino.CoordinatorSelector)
	if err != nil {
		return "", fmt.Errorf("failed to find trino coordinator: %w", err)
	}

	for _, pod := range pods {
		if pod.Status.Phase == corev1.PodRunning {
			return pod.Name, nil
		}
	}

	if len(pods) > 0 {
		return pods[0].Name, nil
	}

	notify.Errorf(r.writer, "could not find trino coordinator pod")

	return "", fmt.Errorf("%w: selector %s", ErrNoCoordinator, r.cfg.Trino.CoordinatorSelector)
}

func (r *Runner) trinoCommand(query v1alpha1.TrinoQuery) []string {
	cli := r.cfg.Trino.CLI
	if cli == "" {
		cli = "trino"
	}

	command := []string{cli}
	if query.Catalog != "" {
		command = append(command, "--catalog", query.Catalog)
	}

	if query.Schema != "" {
		command = append(command, "--schema", query.Schema)
	}

	return append(command, "--execute", query.SQL)
}

func hint(query v1alpha1.TrinoQuery) string {
	if query.Hint == "" {
		return "this is okay"
	}

	return query.Hint
}
