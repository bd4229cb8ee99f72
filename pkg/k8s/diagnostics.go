package k8s

import (
	"context"
	"fmt"
	"strings"

	corev1 "k8s.io/api/core/v1"
)

// DiagnosePodFailures lists the pods of namespace and returns a human-readable summary of
// those that are not running successfully. It returns an empty string when all pods are
// healthy or none exist.
func DiagnosePodFailures(ctx context.Context, client Client, namespace string) string {
	pods, err := client.ListPods(ctx, namespace, "")
	if err != nil {
		return fmt.Sprintf("(failed to list pods in %s: %v)", namespace, err)
	}

	failures := SummarizePodFailures(pods)
	if len(failures) == 0 {
		return ""
	}

	var builder strings.Builder

	fmt.Fprintf(&builder, "Failing pods in %s namespace:", namespace)

	for _, failure := range failures {
		builder.WriteString("\n  ")
		builder.WriteString(failure)
	}

	return builder.String()
}

// SummarizePodFailures returns a line per unhealthy pod describing the problem.
func SummarizePodFailures(pods []corev1.Pod) []string {
	var failures []string

	for i := range pods {
		pod := &pods[i]
		if isPodHealthy(pod) {
			continue
		}

		failures = append(failures, describePodFailure(pod))
	}

	return failures
}

// CountPodsInPhase returns how many pods are in phase.
func CountPodsInPhase(pods []corev1.Pod, phase corev1.PodPhase) int {
	count := 0

	for i := range pods {
		if pods[i].Status.Phase == phase {
			count++
		}
	}

	return count
}

// isPodHealthy returns true when a pod is Running with all containers ready,
// or Succeeded (completed Spark driver or job pod).
func isPodHealthy(pod *corev1.Pod) bool {
	switch pod.Status.Phase {
	case corev1.PodRunning:
		for _, container := range pod.Status.ContainerStatuses {
			if !container.Ready {
				return false
			}
		}

		return true
	case corev1.PodSucceeded:
		return true
	case corev1.PodPending, corev1.PodFailed, corev1.PodUnknown:
		return false
	}

	return false
}

func describePodFailure(pod *corev1.Pod) string {
	for _, container := range pod.Status.ContainerStatuses {
		if waiting := container.State.Waiting; waiting != nil && waiting.Reason != "" {
			if waiting.Message != "" {
				return fmt.Sprintf("%s: %s for %s (%s)", pod.Name, waiting.Reason, container.Image, waiting.Message)
			}

			return fmt.Sprintf("%s: %s for %s", pod.Name, waiting.Reason, container.Image)
		}

		if terminated := container.State.Terminated; terminated != nil && terminated.ExitCode != 0 {
			return fmt.Sprintf(
				"%s: container %s terminated with exit code %d (%s)",
				pod.Name, container.Name, terminated.ExitCode, terminated.Reason,
			)
		}
	}

	for _, container := range pod.Status.InitContainerStatuses {
		if container.State.Waiting != nil && container.State.Waiting.Reason != "" {
			return fmt.Sprintf(
				"%s: init container %s: %s for %s",
				pod.Name, container.Name, container.State.Waiting.Reason, container.Image,
			)
		}

		if terminated := container.State.Terminated; terminated != nil && terminated.ExitCode != 0 {
			return fmt.Sprintf(
				"%s: init container %s exited with code %d",
				pod.Name, container.Name, terminated.ExitCode,
			)
		}
	}

	// Unschedulable pods only carry a condition.
	for _, condition := range pod.Status.Conditions {
		if condition.Type == corev1.PodScheduled && condition.Status == corev1.ConditionFalse {
			return fmt.Sprintf("%s: unschedulable: %s", pod.Name, condition.Message)
		}
	}

	if pod.Status.Reason != "" {
		return fmt.Sprintf("%s: %s (%s)", pod.Name, pod.Status.Phase, pod.Status.Reason)
	}

	return fmt.Sprintf("%s: %s", pod.Name, pod.Status.Phase)
}
