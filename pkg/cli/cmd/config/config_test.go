package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	v1alpha1 "github.com/mdpipeline/mdpctl/pkg/apis/pipeline/v1alpha1"
	"github.com/mdpipeline/mdpctl/pkg/cli/cmd/config"
	"github.com/mdpipeline/mdpctl/pkg/cli/helpers"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"
)

func newRoot(out *bytes.Buffer) *cobra.Command {
	root := &cobra.Command{Use: "mdpctl", SilenceErrors: true}
	root.PersistentFlags().String(helpers.ConfigFlagName, "", "")
	root.PersistentFlags().String(helpers.NamespaceFlagName, "", "")
	root.SetOut(out)
	root.SetErr(out)
	root.AddCommand(config.NewConfigCmd())

	return root
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "mdpctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestShow_PrintsEffectiveConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `apiVersion: mdpctl.io/v1alpha1
kind: Deployment
spec:
  polling:
    interval: 5s
`)

	var out bytes.Buffer

	root := newRoot(&out)
	root.SetArgs([]string{"config", "show", "--config", path, "--namespace", "lab"})

	require.NoError(t, root.Execute())

	var shown v1alpha1.Config
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &shown))

	assert.Equal(t, v1alpha1.APIVersion, shown.APIVersion)
	assert.Equal(t, "lab", shown.Spec.Connection.Namespace)
	assert.Equal(t, "5s", shown.Spec.Polling.Interval.Duration.String())
	assert.NotEmpty(t, shown.Spec.Stages, "defaults are part of the effective config")
	assert.NotContains(t, out.String(), "Load config", "show prints nothing but YAML")
}

func TestShow_InvalidConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "apiVersion: mdpctl.io/v1alpha1\nkind: Deployment\nspec:\n  connection:\n    backend: grpc\n")

	var out bytes.Buffer

	root := newRoot(&out)
	root.SetArgs([]string{"config", "show", "--config", path})

	require.Error(t, root.Execute())
}
