package client

import (
	"errors"
	"fmt"

	v1alpha1 "github.com/mdpipeline/mdpctl/pkg/apis/pipeline/v1alpha1"
	"github.com/mdpipeline/mdpctl/pkg/client/kube"
	"github.com/mdpipeline/mdpctl/pkg/client/oc"
	"github.com/mdpipeline/mdpctl/pkg/k8s"
)

// ErrUnsupportedBackend is returned for a backend without an implementation.
var ErrUnsupportedBackend = errors.New("unsupported backend")

// Factory builds the cluster client for a connection.
type Factory interface {
	Create(conn v1alpha1.Connection) (k8s.Client, error)
}

// DefaultFactory builds the oc client for the cli backend and the client-go client for the
// api backend.
type DefaultFactory struct{}

// Create implements Factory.
func (DefaultFactory) Create(conn v1alpha1.Connection) (k8s.Client, error) {
	switch conn.Backend {
	case v1alpha1.BackendCLI, "":
		return oc.NewClient(oc.Options{
			Binary:     conn.Binary,
			Kubeconfig: conn.Kubeconfig,
			Context:    conn.Context,
		}), nil
	case v1alpha1.BackendAPI:
		client, err := kube.NewClient(kube.Options{
			Kubeconfig: conn.Kubeconfig,
			Context:    conn.Context,
			Namespace:  conn.Namespace,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create api client: %w", err)
		}

		return client, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBackend, conn.Backend)
	}
}
