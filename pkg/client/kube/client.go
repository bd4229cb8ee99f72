package kube

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mdpipeline/mdpctl/pkg/k8s"
	appsv1 "k8s.io/api/apps/v1"
	authenticationv1 "k8s.io/api/authentication/v1"
	corev1 "k8s.io/api/core/v1"
	apiextensionsclient "k8s.io/apiextensions-apiserver/pkg/client/clientset/clientset"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/discovery/cached/memory"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/restmapper"
)

// FieldManager owns the fields mdpctl applies server side.
const FieldManager = "mdpctl"

// shortNames resolves the CLI abbreviations used in configuration.
var shortNames = map[string]string{
	"pvc":    "persistentvolumeclaims",
	"cm":     "configmaps",
	"svc":    "services",
	"sa":     "serviceaccounts",
	"sts":    "statefulsets",
	"deploy": "deployments",
	"ns":     "namespaces",
	"crd":    "customresourcedefinitions",
}

// Options selects the cluster.
type Options struct {
	Kubeconfig string
	Context    string
	// Namespace is used for manifests that do not set one.
	Namespace string
}

// Deps are the clients a Client is built from.
type Deps struct {
	Clientset  kubernetes.Interface
	Dynamic    dynamic.Interface
	CRDs       apiextensionsclient.Interface
	Mapper     meta.RESTMapper
	Categories restmapper.CategoryExpander
	// RESTConfig is required by the default describer and executor.
	RESTConfig *rest.Config
	Namespace  string
	// Describer and Executor override the kubectl describer and the SPDY executor.
	Describer DescribeFunc
	Executor  ExecFunc
}

// Client implements k8s.Client with client-go.
type Client struct {
	Deps
}

var _ k8s.Client = (*Client)(nil)

// NewClient builds every client from the kubeconfig.
func NewClient(opts Options) (*Client, error) {
	restConfig, err := k8s.BuildRESTConfig(opts.Kubeconfig, opts.Context)
	if err != nil {
		return nil, fmt.Errorf("failed to build rest config: %w", err)
	}

	clientset, err := k8s.NewClientset(opts.Kubeconfig, opts.Context)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	dynamicClient, err := dynamic.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	crds, err := apiextensionsclient.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create apiextensions client: %w", err)
	}

	cached := memory.NewMemCacheClient(clientset.Discovery())
	mapper := restmapper.NewShortcutExpander(restmapper.NewDeferredDiscoveryRESTMapper(cached), cached, nil)

	return New(Deps{
		Clientset:  clientset,
		Dynamic:    dynamicClient,
		CRDs:       crds,
		Mapper:     mapper,
		Categories: restmapper.NewDiscoveryCategoryExpander(cached),
		RESTConfig: restConfig,
		Namespace:  opts.Namespace,
	}), nil
}

// New creates a Client from prebuilt clients.
func New(deps Deps) *Client {
	client := &Client{Deps: deps}

	if client.Describer == nil {
		client.Describer = client.kubectlDescribe
	}

	if client.Executor == nil {
		client.Executor = client.spdyExec
	}

	return client
}

// wrapNotFound maps API not-found errors to k8s.ErrNotFound.
func wrapNotFound(err error, what string) error {
	if apierrors.IsNotFound(err) {
		return fmt.Errorf("%s: %w: %w", what, k8s.ErrNotFound, err)
	}

	return fmt.Errorf("%s: %w", what, err)
}

// WhoAmI asks the API server who the current credentials belong to.
func (c *Client) WhoAmI(ctx context.Context) (string, error) {
	review, err := c.Clientset.AuthenticationV1().SelfSubjectReviews().
		Create(ctx, &authenticationv1.SelfSubjectReview{}, metav1.CreateOptions{})
	if err != nil {
		return "", fmt.Errorf("%w: %w", k8s.ErrNotLoggedIn, err)
	}

	if review.Status.UserInfo.Username == "" {
		return "", fmt.Errorf("%w: server returned no user", k8s.ErrNotLoggedIn)
	}

	return review.Status.UserInfo.Username, nil
}

// CRDExists reports whether the CustomResourceDefinition is installed.
func (c *Client) CRDExists(ctx context.Context, name string) (bool, error) {
	_, err := c.CRDs.ApiextensionsV1().CustomResourceDefinitions().Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return false, nil
		}

		return false, fmt.Errorf("get crd %s: %w", name, err)
	}

	return true, nil
}

// StatefulSet reads a StatefulSet.
func (c *Client) StatefulSet(ctx context.Context, ref k8s.ResourceRef) (*appsv1.StatefulSet, error) {
	sts, err := c.Clientset.AppsV1().StatefulSets(ref.Namespace).Get(ctx, ref.Name, metav1.GetOptions{})
	if err != nil {
		return nil, wrapNotFound(err, ref.String())
	}

	return sts, nil
}

// Deployment reads a Deployment.
func (c *Client) Deployment(ctx context.Context, ref k8s.ResourceRef) (*appsv1.Deployment, error) {
	deployment, err := c.Clientset.AppsV1().Deployments(ref.Namespace).Get(ctx, ref.Name, metav1.GetOptions{})
	if err != nil {
		return nil, wrapNotFound(err, ref.String())
	}

	return deployment, nil
}

// Pod reads a Pod.
func (c *Client) Pod(ctx context.Context, ref k8s.ResourceRef) (*corev1.Pod, error) {
	pod, err := c.Clientset.CoreV1().Pods(ref.Namespace).Get(ctx, ref.Name, metav1.GetOptions{})
	if err != nil {
		return nil, wrapNotFound(err, ref.String())
	}

	return pod, nil
}

// ListPods lists pods matching selector.
func (c *Client) ListPods(ctx context.Context, namespace, selector string) ([]corev1.Pod, error) {
	pods, err := c.Clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{LabelSelector: selector})
	if err != nil {
		return nil, fmt.Errorf("list pods %q: %w", selector, err)
	}

	return pods.Items, nil
}

// Nodes lists the cluster nodes.
func (c *Client) Nodes(ctx context.Context) ([]corev1.Node, error) {
	nodes, err := c.Clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list nodes: %w", err)
	}

	return nodes.Items, nil
}

// Get reads any object through the dynamic client.
func (c *Client) Get(ctx context.Context, ref k8s.ResourceRef) (*unstructured.Unstructured, error) {
	mapping, err := c.mappingFor(ref.Kind)
	if err != nil {
		return nil, err
	}

	obj, err := c.resource(mapping, ref.Namespace).Get(ctx, ref.Name, metav1.GetOptions{})
	if err != nil {
		return nil, wrapNotFound(err, ref.String())
	}

	return obj, nil
}

var errUnknownResource = errors.New("unknown resource type")

// mappingFor resolves a CLI resource name such as "statefulset", "pvc" or
// "sparkapplications" to its REST mapping.
func (c *Client) mappingFor(kind string) (*meta.RESTMapping, error) {
	resource := strings.ToLower(kind)
	if full, ok := shortNames[resource]; ok {
		resource = full
	}

	gvr, err := c.Mapper.ResourceFor(schema.GroupVersionResource{Resource: resource})
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", errUnknownResource, kind, err)
	}

	return c.mappingForResource(gvr)
}

func (c *Client) mappingForResource(gvr schema.GroupVersionResource) (*meta.RESTMapping, error) {
	gvk, err := c.Mapper.KindFor(gvr)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", errUnknownResource, gvr.Resource, err)
	}

	mapping, err := c.Mapper.RESTMapping(gvk.GroupKind(), gvk.Version)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", errUnknownResource, gvr.Resource, err)
	}

	return mapping, nil
}

func (c *Client) resource(mapping *meta.RESTMapping, namespace string) dynamic.ResourceInterface {
	if mapping.Scope.Name() != meta.RESTScopeNameNamespace {
		return c.Dynamic.Resource(mapping.Resource)
	}

	if namespace == "" {
		namespace = c.Namespace
	}

	return c.Dynamic.Resource(mapping.Resource).Namespace(namespace)
}
