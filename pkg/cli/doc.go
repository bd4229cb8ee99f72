// Package cli provides reusable helpers for command wiring and execution.
//
// This package is organized into subpackages for different functionality:
//
//   - cli/cmd: the cobra command tree (stack, pipeline, config)
//   - cli/helpers: flag lookups and config loading shared by commands
//   - cli/lifecycle: the per-command session (config, cluster client, timer)
//   - cli/ui: confirmation prompts, operator gates and error capture
//
// The utilities in this package follow dependency injection patterns and integrate
// with the mdpctl runtime container for testability and flexibility.
package cli
