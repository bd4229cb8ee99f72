// Package cmd provides the command-line interface for mdpctl.
//
// This package contains the root command and delegates to subcommand packages:
//   - stack: deploy and rollback of the lakehouse stack
//   - pipeline: Spark pipeline runs and the node inventory
//   - config: inspection of the effective configuration
package cmd
