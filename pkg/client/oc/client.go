package oc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mdpipeline/mdpctl/pkg/k8s"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/cli-runtime/pkg/genericiooptions"
	"sigs.k8s.io/yaml"
)

// deleteGrace is added to the CLI --timeout before the process itself is killed.
const deleteGrace = 15 * time.Second

// Options selects the CLI binary and cluster.
type Options struct {
	Binary     string
	Kubeconfig string
	Context    string
}

// Client implements k8s.Client on top of the cluster CLI.
type Client struct {
	opts   Options
	runner Runner
}

var _ k8s.Client = (*Client)(nil)

// NewClient creates a Client that runs opts.Binary as a child process.
func NewClient(opts Options) *Client {
	return NewClientWithRunner(opts, &ExecRunner{Binary: opts.Binary})
}

// NewClientWithRunner creates a Client that executes commands through runner.
func NewClientWithRunner(opts Options, runner Runner) *Client {
	return &Client{opts: opts, runner: runner}
}

func (c *Client) isKubectl() bool {
	return strings.HasPrefix(filepath.Base(c.opts.Binary), "kubectl")
}

// run executes the CLI with the global connection flags and returns stdout.
func (c *Client) run(ctx context.Context, stdin io.Reader, args ...string) (string, error) {
	full := make([]string, 0, len(args)+4)
	if c.opts.Kubeconfig != "" {
		full = append(full, "--kubeconfig", c.opts.Kubeconfig)
	}

	if c.opts.Context != "" {
		full = append(full, "--context", c.opts.Context)
	}

	full = append(full, args...)

	var stdout, stderr bytes.Buffer

	streams := genericiooptions.IOStreams{In: stdin, Out: &stdout, ErrOut: &stderr}

	err := c.runner.Run(ctx, streams, full...)
	if err != nil {
		return stdout.String(), commandError(args, stderr.String(), err)
	}

	return stdout.String(), nil
}

func namespaced(namespace string, args ...string) []string {
	if namespace == "" {
		return args
	}

	return append(args, "-n", namespace)
}

// WhoAmI returns the logged-in user.
func (c *Client) WhoAmI(ctx context.Context) (string, error) {
	args := []string{"whoami"}
	if c.isKubectl() {
		args = []string{"auth", "whoami", "-o", "jsonpath={.status.userInfo.username}"}
	}

	out, err := c.run(ctx, nil, args...)
	if err != nil {
		return "", fmt.Errorf("%w: %w", k8s.ErrNotLoggedIn, err)
	}

	return strings.TrimSpace(out), nil
}

// CRDExists reports whether the CustomResourceDefinition is installed.
func (c *Client) CRDExists(ctx context.Context, name string) (bool, error) {
	_, err := c.run(ctx, nil, "get", "crd", name, "-o", "name")
	if err != nil {
		if k8s.IsNotFound(err) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

// ApplyFile applies a manifest file or directory.
func (c *Client) ApplyFile(ctx context.Context, path string) error {
	_, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("manifest %s: %w", path, err)
	}

	_, err = c.run(ctx, nil, "apply", "-f", path)

	return err
}

// ApplyObject renders obj as YAML and pipes it to "apply -f -".
func (c *Client) ApplyObject(ctx context.Context, obj runtime.Object) error {
	data, err := yaml.Marshal(obj)
	if err != nil {
		return fmt.Errorf("failed to render object: %w", err)
	}

	_, err = c.run(ctx, bytes.NewReader(data), "apply", "-f", "-")

	return err
}

func (c *Client) getJSON(ctx context.Context, ref k8s.ResourceRef) (string, error) {
	return c.run(ctx, nil, namespaced(ref.Namespace, "get", ref.Kind, ref.Name, "-o", "json")...)
}

func getTyped[T any](ctx context.Context, c *Client, ref k8s.ResourceRef) (*T, error) {
	out, err := c.getJSON(ctx, ref)
	if err != nil {
		return nil, err
	}

	obj := new(T)

	err = decode(out, obj)
	if err != nil {
		return nil, err
	}

	return obj, nil
}

// StatefulSet reads a StatefulSet.
func (c *Client) StatefulSet(ctx context.Context, ref k8s.ResourceRef) (*appsv1.StatefulSet, error) {
	return getTyped[appsv1.StatefulSet](ctx, c, ref)
}

// Deployment reads a Deployment.
func (c *Client) Deployment(ctx context.Context, ref k8s.ResourceRef) (*appsv1.Deployment, error) {
	return getTyped[appsv1.Deployment](ctx, c, ref)
}

// Pod reads a Pod.
func (c *Client) Pod(ctx context.Context, ref k8s.ResourceRef) (*corev1.Pod, error) {
	return getTyped[corev1.Pod](ctx, c, ref)
}

// ListPods lists the pods matching selector. An empty selector lists all pods.
func (c *Client) ListPods(ctx context.Context, namespace, selector string) ([]corev1.Pod, error) {
	args := []string{"get", "pods", "-o", "json"}
	if selector != "" {
		args = append(args, "-l", selector)
	}

	out, err := c.run(ctx, nil, namespaced(namespace, args...)...)
	if err != nil {
		return nil, err
	}

	var list corev1.PodList

	err = decode(out, &list)
	if err != nil {
		return nil, err
	}

	return list.Items, nil
}

// Get reads any object as unstructured.
func (c *Client) Get(ctx context.Context, ref k8s.ResourceRef) (*unstructured.Unstructured, error) {
	out, err := c.getJSON(ctx, ref)
	if err != nil {
		return nil, err
	}

	return decodeUnstructured(out)
}

// Nodes lists the cluster nodes.
func (c *Client) Nodes(ctx context.Context) ([]corev1.Node, error) {
	out, err := c.run(ctx, nil, "get", "nodes", "-o", "json")
	if err != nil {
		return nil, err
	}

	var list corev1.NodeList

	err = decode(out, &list)
	if err != nil {
		return nil, err
	}

	return list.Items, nil
}

// Logs returns the last tail lines of each pod matching selector. tail <= 0 returns everything.
func (c *Client) Logs(ctx context.Context, namespace, selector string, tail int) (string, error) {
	if tail <= 0 {
		tail = -1
	}

	return c.run(ctx, nil, namespaced(namespace,
		"logs", "-l", selector, "--tail="+strconv.Itoa(tail), "--max-log-requests=20")...)
}

// Describe returns the describe output of ref.
func (c *Client) Describe(ctx context.Context, ref k8s.ResourceRef) (string, error) {
	return c.run(ctx, nil, namespaced(ref.Namespace, "describe", ref.Kind, ref.Name)...)
}

// Exec runs command in the first container of pod.
func (c *Client) Exec(ctx context.Context, namespace, pod string, command []string) (string, error) {
	args := namespaced(namespace, "exec", pod)
	args = append(args, "--")
	args = append(args, command...)

	return c.run(ctx, nil, args...)
}

// Delete deletes ref and waits up to timeout for it to be gone.
func (c *Client) Delete(ctx context.Context, ref k8s.ResourceRef, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout+deleteGrace)
	defer cancel()

	_, err := c.run(ctx, nil, namespaced(ref.Namespace,
		"delete", ref.Kind, ref.Name, "--wait=true", "--timeout="+timeout.String())...)

	return err
}

// DeleteAll deletes every object of kinds in namespace.
func (c *Client) DeleteAll(ctx context.Context, namespace string, kinds []string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout+deleteGrace)
	defer cancel()

	_, err := c.run(ctx, nil, namespaced(namespace,
		"delete", strings.Join(kinds, ","), "--all", "--wait=true", "--timeout="+timeout.String())...)

	return err
}
