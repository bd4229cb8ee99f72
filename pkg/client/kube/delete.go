package kube

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mdpipeline/mdpctl/pkg/k8s"
	"github.com/mdpipeline/mdpctl/pkg/k8s/readiness"
	"github.com/sirupsen/logrus"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
)

// deletePollInterval is how often a deletion is checked for completion.
const deletePollInterval = 2 * time.Second

func backgroundDeletion() metav1.DeleteOptions {
	policy := metav1.DeletePropagationBackground

	return metav1.DeleteOptions{PropagationPolicy: &policy}
}

// Delete deletes ref and waits up to timeout for it to disappear.
func (c *Client) Delete(ctx context.Context, ref k8s.ResourceRef, timeout time.Duration) error {
	mapping, err := c.mappingFor(ref.Kind)
	if err != nil {
		return err
	}

	client := c.resource(mapping, ref.Namespace)

	err = client.Delete(ctx, ref.Name, backgroundDeletion())
	if err != nil {
		return wrapNotFound(err, "delete "+ref.String())
	}

	err = readiness.PollForReadinessEvery(ctx, deletePollInterval, timeout, func(ctx context.Context) (bool, error) {
		_, getErr := client.Get(ctx, ref.Name, metav1.GetOptions{})

		return apierrors.IsNotFound(getErr), nil
	})
	if err != nil {
		return fmt.Errorf("waiting for deletion of %s: %w", ref, err)
	}

	return nil
}

// DeleteAll deletes every namespaced object of kinds in namespace. A kind may be a
// category such as "all".
func (c *Client) DeleteAll(ctx context.Context, namespace string, kinds []string, timeout time.Duration) error {
	resources, err := c.expandKinds(kinds)
	if err != nil {
		return err
	}

	var errs []error

	for _, gvr := range resources {
		err = deleteCollection(ctx, c.Dynamic.Resource(gvr).Namespace(namespace))
		if err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", gvr.Resource, err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	err = readiness.PollForReadinessEvery(ctx, deletePollInterval, timeout, func(ctx context.Context) (bool, error) {
		for _, gvr := range resources {
			list, listErr := c.Dynamic.Resource(gvr).Namespace(namespace).List(ctx, metav1.ListOptions{})
			if listErr == nil && len(list.Items) > 0 {
				return false, nil
			}
		}

		return true, nil
	})
	if err != nil {
		return fmt.Errorf("waiting for %s to be deleted: %w", strings.Join(kinds, ","), err)
	}

	return nil
}

// deleteCollection falls back to per-object deletes for resources without deletecollection.
func deleteCollection(ctx context.Context, client dynamic.ResourceInterface) error {
	err := client.DeleteCollection(ctx, backgroundDeletion(), metav1.ListOptions{})
	if err == nil || apierrors.IsNotFound(err) {
		return nil
	}

	if !apierrors.IsMethodNotSupported(err) {
		return err //nolint:wrapcheck // wrapped by caller
	}

	list, err := client.List(ctx, metav1.ListOptions{})
	if err != nil {
		return err //nolint:wrapcheck // wrapped by caller
	}

	for _, item := range list.Items {
		err = client.Delete(ctx, item.GetName(), backgroundDeletion())
		if err != nil && !apierrors.IsNotFound(err) {
			return err //nolint:wrapcheck // wrapped by caller
		}
	}

	return nil
}

// expandKinds resolves kinds and categories to the distinct namespaced resources they name.
func (c *Client) expandKinds(kinds []string) ([]schema.GroupVersionResource, error) {
	var (
		resources []schema.GroupVersionResource
		seen      = map[schema.GroupVersionResource]bool{}
	)

	add := func(mapping *meta.RESTMapping) {
		if mapping.Scope.Name() != meta.RESTScopeNameNamespace || seen[mapping.Resource] {
			return
		}

		seen[mapping.Resource] = true
		resources = append(resources, mapping.Resource)
	}

	for _, kind := range kinds {
		if c.Categories != nil {
			if groupResources, ok := c.Categories.Expand(strings.ToLower(kind)); ok {
				for _, groupResource := range groupResources {
					mapping, err := c.mappingForResource(groupResource.WithVersion(""))
					if err != nil {
						logrus.Debugf("skipping %s from category %s: %v", groupResource, kind, err)

						continue
					}

					add(mapping)
				}

				continue
			}
		}

		mapping, err := c.mappingFor(kind)
		if err != nil {
			return nil, err
		}

		add(mapping)
	}

	return resources, nil
}
