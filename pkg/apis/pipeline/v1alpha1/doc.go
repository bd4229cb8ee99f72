// Package v1alpha1 holds the mdpctl configuration API: connection settings, polling defaults,
// the ordered deployment stages and the smoke, rollback and pipeline settings.
package v1alpha1
