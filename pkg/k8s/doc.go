// Package k8s defines the cluster access contract used by every mdpctl workflow.
//
// [Client] abstracts the reads, applies, deletes, logs and exec calls the deploy, rollback
// and pipeline workflows need. Two implementations exist: the CLI backend in
// pkg/client/oc and the client-go backend in pkg/client/kube. Both report missing
// objects as [ErrNotFound].
//
// For resource readiness polling, see the [readiness] sub-package.
package k8s
