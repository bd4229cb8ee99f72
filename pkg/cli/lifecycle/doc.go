// Package lifecycle builds the per-command session: the loaded configuration, the cluster
// client and the services the deploy, rollback and pipeline commands share.
package lifecycle
