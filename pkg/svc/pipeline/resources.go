package pipeline

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/mdpipeline/mdpctl/pkg/utils/notify"
	corev1 "k8s.io/api/core/v1"
)

const roleLabelPrefix = "node-role.kubernetes.io/"

// Resources prints the node inventory with allocatable CPU and memory.
func (r *Runner) Resources(ctx context.Context) error {
	notify.Titlef(r.writer, "🖥️", "Cluster resources")

	nodes, err := r.client.Nodes(ctx)
	if err != nil {
		return fmt.Errorf("failed to list nodes: %w", err)
	}

	rows := make([][]string, 0, len(nodes))
	for i := range nodes {
		node := &nodes[i]
		rows = append(rows, []string{
			node.Name,
			nodeStatus(node),
			nodeRoles(node),
			node.Status.Allocatable.Cpu().String(),
			node.Status.Allocatable.Memory().String(),
		})
	}

	notify.Table(r.writer, []string{"NAME", "STATUS", "ROLES", "CPU", "MEMORY"}, rows)
	notify.Infof(r.writer, "%d nodes", len(nodes))

	return nil
}

func nodeStatus(node *corev1.Node) string {
	status := "NotReady"

	for _, cond := range node.Status.Conditions {
		if cond.Type == corev1.NodeReady && cond.Status == corev1.ConditionTrue {
			status = "Ready"
		}
	}

	if node.Spec.Unschedulable {
		status += ",SchedulingDisabled"
	}

	return status
}

func nodeRoles(node *corev1.Node) string {
	var roles []string

	for label := range node.Labels {
		if role, ok := strings.CutPrefix(label, roleLabelPrefix); ok && role != "" {
			roles = append(roles, role)
		}
	}

	if len(roles) == 0 {
		return "<none>"
	}

	slices.Sort(roles)

	return strings.Join(roles, ",")
}
