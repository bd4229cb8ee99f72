package kube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/sirupsen/logrus"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	utilyaml "k8s.io/apimachinery/pkg/util/yaml"
)

var (
	errMissingTypeMeta = errors.New("object has no apiVersion or kind")
	manifestExtensions = []string{".yaml", ".yml", ".json"}
)

// ApplyFile server-side applies every object in a manifest file, or in every manifest
// file of a directory in lexical order.
func (c *Client) ApplyFile(ctx context.Context, path string) error {
	files, err := manifestFiles(path)
	if err != nil {
		return err
	}

	for _, file := range files {
		objects, err := readManifests(file)
		if err != nil {
			return err
		}

		for _, obj := range objects {
			err = c.apply(ctx, obj)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
		}
	}

	return nil
}

// ApplyObject server-side applies a typed object. The object must carry its TypeMeta.
func (c *Client) ApplyObject(ctx context.Context, obj runtime.Object) error {
	content, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
	if err != nil {
		return fmt.Errorf("failed to convert object: %w", err)
	}

	return c.apply(ctx, &unstructured.Unstructured{Object: content})
}

func (c *Client) apply(ctx context.Context, obj *unstructured.Unstructured) error {
	gvk := obj.GroupVersionKind()
	if gvk.Kind == "" || gvk.Version == "" {
		return fmt.Errorf("%w: %s", errMissingTypeMeta, obj.GetName())
	}

	mapping, err := c.Mapper.RESTMapping(gvk.GroupKind(), gvk.Version)
	if err != nil {
		return fmt.Errorf("%w %s: %w", errUnknownResource, gvk.Kind, err)
	}

	_, err = c.resource(mapping, obj.GetNamespace()).Apply(ctx, obj.GetName(), obj, metav1.ApplyOptions{
		FieldManager: FieldManager,
		Force:        true,
	})
	if err != nil {
		return fmt.Errorf("apply %s/%s: %w", mapping.Resource.Resource, obj.GetName(), err)
	}

	logrus.WithField("resource", mapping.Resource.Resource).Debugf("applied %s", obj.GetName())

	return nil
}

func manifestFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}

	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest directory %s: %w", path, err)
	}

	var files []string

	for _, entry := range entries {
		if entry.IsDir() || !slices.Contains(manifestExtensions, filepath.Ext(entry.Name())) {
			continue
		}

		files = append(files, filepath.Join(path, entry.Name()))
	}

	return files, nil
}

// readManifests decodes every document of a YAML or JSON stream, flattening List kinds.
func readManifests(path string) ([]*unstructured.Unstructured, error) {
	file, err := os.Open(path) //nolint:gosec // manifest paths come from operator config
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer file.Close()

	decoder := utilyaml.NewYAMLOrJSONDecoder(file, 4096)

	var objects []*unstructured.Unstructured

	for {
		var raw map[string]any

		err = decoder.Decode(&raw)
		if errors.Is(err, io.EOF) {
			return objects, nil
		}

		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}

		if len(raw) == 0 {
			continue
		}

		obj := &unstructured.Unstructured{Object: raw}
		if !obj.IsList() {
			objects = append(objects, obj)

			continue
		}

		err = obj.EachListItem(func(item runtime.Object) error {
			if u, ok := item.(*unstructured.Unstructured); ok {
				objects = append(objects, u)
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("decode list in %s: %w", path, err)
		}
	}
}
