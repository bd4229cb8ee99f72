// Package oc implements k8s.Client by running the cluster CLI (oc or kubectl).
//
// Every read uses "-o json" and is decoded into k8s.io/api types or unstructured
// objects. Commands are logged at debug level. A "NotFound" answer from the server is
// reported as k8s.ErrNotFound.
package oc
