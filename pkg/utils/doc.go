// Package utils provides utility packages for common operations.
//
// This package contains subpackages with utility functions used across
// the mdpctl codebase:
//
//   - envvar: environment variable and home directory expansion in paths
//   - notify: Formatted message display with symbols, colors, and timing
//   - timer: Execution time tracking for single and multi-stage operations
package utils
