// Package credentials turns a dotenv credentials file into the Secret the stack reads its
// passwords and object-store keys from.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mdpipeline/mdpctl/pkg/utils/envvar"
	"github.com/subosito/gotenv"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

var (
	// ErrUnresolvedPath is returned when the env file path references unset variables.
	ErrUnresolvedPath = errors.New("env file path references unset variables")
	// ErrEmptyEnvFile is returned when the env file defines no keys.
	ErrEmptyEnvFile = errors.New("env file defines no variables")
)

// ResolvePath expands ${VAR} placeholders and "~/" in envFile.
func ResolvePath(envFile string) (string, error) {
	if missing := envvar.Unresolved(envFile); len(missing) > 0 {
		return "", fmt.Errorf("%w: %s (%s)", ErrUnresolvedPath, envFile, strings.Join(missing, ", "))
	}

	return envvar.ExpandPath(envFile), nil
}

// BuildSecret reads the dotenv file at envFile and returns an Opaque Secret holding its
// variables as string data.
func BuildSecret(name, namespace, envFile string) (*corev1.Secret, error) {
	path, err := ResolvePath(envFile)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("failed to open env file: %w", err)
	}
	defer file.Close()

	values, err := gotenv.StrictParse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse env file %s: %w", path, err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyEnvFile, path)
	}

	return &corev1.Secret{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "Secret"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
			Labels:    map[string]string{"app.kubernetes.io/managed-by": "mdpctl"},
		},
		Type:       corev1.SecretTypeOpaque,
		StringData: values,
	}, nil
}
