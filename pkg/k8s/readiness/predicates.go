package readiness

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/mdpipeline/mdpctl/pkg/client/netretry"
	"github.com/mdpipeline/mdpctl/pkg/k8s"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// observation is one evaluation of a predicate.
type observation struct {
	state  State
	detail string
}

func pending(format string, args ...any) observation {
	return observation{state: StatePending, detail: fmt.Sprintf(format, args...)}
}

// evaluate reads the resource once. Errors are returned only for misconfigured checks;
// missing resources and read failures are reported as pending.
func evaluate(ctx context.Context, client k8s.Client, check Check) (observation, error) {
	switch check.Kind {
	case KindStatefulSet:
		return evaluateStatefulSet(ctx, client, check.Ref), nil
	case KindDeployment:
		return evaluateDeployment(ctx, client, check.Ref), nil
	case KindPod:
		return evaluatePod(ctx, client, check.Ref), nil
	case KindPods:
		return evaluatePods(ctx, client, check.Ref.Namespace, check.Selector), nil
	case KindStatus:
		return evaluateStatus(ctx, client, check), nil
	default:
		return observation{}, fmt.Errorf("%w: %q", errUnknownCheckKind, check.Kind)
	}
}

func readError(ref fmt.Stringer, err error) observation {
	if k8s.IsNotFound(err) {
		return pending("%s not found yet", ref)
	}

	if netretry.IsRetryable(err) {
		return pending("cluster unavailable, retrying: %v", err)
	}

	return pending("reading %s: %v", ref, err)
}

func evaluateStatefulSet(ctx context.Context, client k8s.Client, ref k8s.ResourceRef) observation {
	sts, err := client.StatefulSet(ctx, ref)
	if err != nil {
		return readError(ref, err)
	}

	desired := sts.Status.Replicas
	if sts.Spec.Replicas != nil {
		desired = *sts.Spec.Replicas
	}

	return replicaObservation(sts.Status.ReadyReplicas, desired, "ready")
}

func evaluateDeployment(ctx context.Context, client k8s.Client, ref k8s.ResourceRef) observation {
	deployment, err := client.Deployment(ctx, ref)
	if err != nil {
		return readError(ref, err)
	}

	desired := deployment.Status.Replicas
	if deployment.Spec.Replicas != nil {
		desired = *deployment.Spec.Replicas
	}

	return replicaObservation(deployment.Status.AvailableReplicas, desired, "available")
}

func replicaObservation(current, desired int32, word string) observation {
	detail := fmt.Sprintf("%d/%d replicas %s", current, desired, word)

	if desired > 0 && current == desired {
		return observation{state: StateReady, detail: detail}
	}

	return observation{state: StatePending, detail: detail}
}

func evaluatePod(ctx context.Context, client k8s.Client, ref k8s.ResourceRef) observation {
	pod, err := client.Pod(ctx, ref)
	if err != nil {
		return readError(ref, err)
	}

	detail := "phase " + string(pod.Status.Phase)

	switch pod.Status.Phase {
	case corev1.PodRunning:
		return observation{state: StateReady, detail: detail}
	case corev1.PodFailed:
		return observation{state: StateFailed, detail: detail}
	case corev1.PodPending, corev1.PodSucceeded, corev1.PodUnknown:
		return observation{state: StatePending, detail: detail}
	}

	return observation{state: StatePending, detail: detail}
}

func evaluatePods(ctx context.Context, client k8s.Client, namespace, selector string) observation {
	pods, err := client.ListPods(ctx, namespace, selector)
	if err != nil {
		return pending("listing pods %s: %v", selector, err)
	}

	if len(pods) == 0 {
		return pending("no pods match %s yet", selector)
	}

	failed := k8s.CountPodsInPhase(pods, corev1.PodFailed)
	if failed > 0 {
		summary := k8s.SummarizePodFailures(pods)

		return observation{
			state:  StateFailed,
			detail: fmt.Sprintf("%d/%d pods failed: %s", failed, len(pods), strings.Join(summary, "; ")),
		}
	}

	return observation{state: StateReady, detail: fmt.Sprintf("%d pods, none failed", len(pods))}
}

func evaluateStatus(ctx context.Context, client k8s.Client, check Check) observation {
	obj, err := client.Get(ctx, check.Ref)
	if err != nil {
		return readError(check.Ref, err)
	}

	value, found, err := unstructured.NestedString(obj.Object, strings.Split(check.StatusPath, ".")...)
	if err != nil || !found {
		return pending("%s has no %s yet", check.Ref, check.StatusPath)
	}

	detail := fmt.Sprintf("%s=%s", check.StatusPath, value)

	switch {
	case slices.Contains(check.ReadyValues, value):
		return observation{state: StateReady, detail: detail}
	case slices.Contains(check.FailedValues, value):
		return observation{state: StateFailed, detail: detail}
	default:
		return observation{state: StatePending, detail: detail}
	}
}
