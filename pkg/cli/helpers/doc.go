// Package helpers provides common CLI utilities for command handling: global flag names,
// timing and verbosity detection, and the standard IO streams handed to the cluster CLI.
package helpers
