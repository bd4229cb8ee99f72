package kube

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mdpipeline/mdpctl/pkg/k8s"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/tools/remotecommand"
	"k8s.io/kubectl/pkg/describe"
	"k8s.io/utils/ptr"
)

var (
	errNoRESTConfig = errors.New("no REST config available")
	errNoDescriber  = errors.New("no describer available")
)

// DescribeFunc renders describe output for an object.
type DescribeFunc func(ctx context.Context, mapping *meta.RESTMapping, namespace, name string) (string, error)

// ExecFunc runs a command in a pod and returns its stdout.
type ExecFunc func(ctx context.Context, namespace, pod string, command []string) (string, error)

// Logs concatenates the last tail lines of every pod matching selector.
func (c *Client) Logs(ctx context.Context, namespace, selector string, tail int) (string, error) {
	pods, err := c.ListPods(ctx, namespace, selector)
	if err != nil {
		return "", err
	}

	if len(pods) == 0 {
		return "", fmt.Errorf("%w: no pods match %s", k8s.ErrNotFound, selector)
	}

	opts := &corev1.PodLogOptions{}
	if tail > 0 {
		opts.TailLines = ptr.To(int64(tail))
	}

	var (
		builder strings.Builder
		errs    []error
	)

	for i := range pods {
		raw, logErr := c.Clientset.CoreV1().Pods(namespace).GetLogs(pods[i].Name, opts).DoRaw(ctx)
		if logErr != nil {
			errs = append(errs, fmt.Errorf("logs %s: %w", pods[i].Name, logErr))

			continue
		}

		builder.Write(raw)
	}

	if len(errs) == len(pods) {
		return "", errors.Join(errs...)
	}

	return builder.String(), nil
}

// Describe renders the kubectl describe output of ref.
func (c *Client) Describe(ctx context.Context, ref k8s.ResourceRef) (string, error) {
	mapping, err := c.mappingFor(ref.Kind)
	if err != nil {
		return "", err
	}

	namespace := ref.Namespace
	if mapping.Scope.Name() != meta.RESTScopeNameNamespace {
		namespace = ""
	}

	return c.Describer(ctx, mapping, namespace, ref.Name)
}

// Exec runs command in the first container of pod.
func (c *Client) Exec(ctx context.Context, namespace, pod string, command []string) (string, error) {
	return c.Executor(ctx, namespace, pod, command)
}

func (c *Client) kubectlDescribe(_ context.Context, mapping *meta.RESTMapping, namespace, name string) (string, error) {
	if c.RESTConfig == nil {
		return "", errNoRESTConfig
	}

	describer, ok := describe.DescriberFor(mapping.GroupVersionKind.GroupKind(), c.RESTConfig)
	if !ok {
		describer, ok = describe.GenericDescriberFor(mapping, c.RESTConfig)
		if !ok {
			return "", fmt.Errorf("%w for %s", errNoDescriber, mapping.GroupVersionKind.Kind)
		}
	}

	out, err := describer.Describe(namespace, name, describe.DescriberSettings{ShowEvents: true, ChunkSize: 500})
	if err != nil {
		return "", fmt.Errorf("describe %s/%s: %w", mapping.Resource.Resource, name, err)
	}

	return out, nil
}

func (c *Client) spdyExec(ctx context.Context, namespace, pod string, command []string) (string, error) {
	if c.RESTConfig == nil {
		return "", errNoRESTConfig
	}

	req := c.Clientset.CoreV1().RESTClient().Post().
		Resource("pods").
		Namespace(namespace).
		Name(pod).
		SubResource("exec").
		VersionedParams(&corev1.PodExecOptions{
			Command: command,
			Stdout:  true,
			Stderr:  true,
		}, scheme.ParameterCodec)

	executor, err := remotecommand.NewSPDYExecutor(c.RESTConfig, http.MethodPost, req.URL())
	if err != nil {
		return "", fmt.Errorf("create executor: %w", err)
	}

	var stdout, stderr bytes.Buffer

	err = executor.StreamWithContext(ctx, remotecommand.StreamOptions{Stdout: &stdout, Stderr: &stderr})
	if err != nil {
		return stdout.String(), fmt.Errorf("exec in %s: %w: %s", pod, err, strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}
