// Package kube implements k8s.Client with client-go.
//
// Typed reads go through the clientset, custom resources and applies through the dynamic
// client resolved by a discovery REST mapper, CRD lookups through the apiextensions
// clientset, describe output through kubectl describers and exec through SPDY.
package kube
