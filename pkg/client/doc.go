// Package client selects the cluster access backend.
//
// Two implementations of k8s.Client live below it:
//
//   - oc: shells out to the cluster CLI (oc or kubectl)
//   - kube: talks to the API server through client-go
package client
