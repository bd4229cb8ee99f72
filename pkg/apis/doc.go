// Package apis provides API type definitions for mdpctl resources.
//
// This package contains versioned API types following Kubernetes API conventions:
//
//   - pipeline: the Deployment document read from mdpctl.yaml
//
// The API types are designed to be serializable to YAML and support
// declarative configuration workflows.
package apis
