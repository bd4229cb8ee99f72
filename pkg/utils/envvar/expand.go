// Package envvar expands environment references in configuration values such as
// manifest paths and the credentials env file location.
package envvar

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// pattern matches ${VAR_NAME} placeholders.
var pattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// Expand replaces ${VAR_NAME} placeholders with their environment variable values.
// Unset variables expand to an empty string. Bare $VAR references are left untouched.
func Expand(value string) string {
	if value == "" {
		return value
	}

	return pattern.ReplaceAllStringFunc(value, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})
}

// ExpandPath expands ${VAR_NAME} placeholders and a leading "~/" home prefix.
func ExpandPath(path string) string {
	expanded := Expand(path)

	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}

		return filepath.Join(home, strings.TrimPrefix(expanded, "~"))
	}

	return expanded
}

// Unresolved returns the names of ${VAR_NAME} placeholders in value whose
// variables are not set in the environment.
func Unresolved(value string) []string {
	var missing []string

	for _, match := range pattern.FindAllStringSubmatch(value, -1) {
		if _, ok := os.LookupEnv(match[1]); !ok {
			missing = append(missing, match[1])
		}
	}

	return missing
}
