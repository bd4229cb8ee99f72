// Package configmanager loads mdpctl.yaml through viper, layering defaults, the config file,
// MDP_ environment variables and command-line flags, in that order of precedence.
package configmanager
