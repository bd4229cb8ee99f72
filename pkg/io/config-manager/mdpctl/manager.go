package configmanager

import (
	"errors"
	"fmt"
	"io"
	"strings"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/mdpipeline/mdpctl/pkg/apis/pipeline/v1alpha1"
	configmanagerinterface "github.com/mdpipeline/mdpctl/pkg/io/config-manager"
	"github.com/mdpipeline/mdpctl/pkg/utils/envvar"
	"github.com/mdpipeline/mdpctl/pkg/utils/notify"
	"github.com/mdpipeline/mdpctl/pkg/utils/timer"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. MDP_SPEC_CONNECTION_NAMESPACE.
const EnvPrefix = "MDP"

// ErrConfigInvalid is returned when the loaded configuration fails validation.
var ErrConfigInvalid = errors.New("configuration is invalid")

// envKeys are the scalar settings that can be overridden from the environment.
var envKeys = []string{
	"spec.connection.binary",
	"spec.connection.backend",
	"spec.connection.kubeconfig",
	"spec.connection.context",
	"spec.connection.namespace",
	"spec.polling.interval",
	"spec.polling.timeout",
	"spec.polling.deleteTimeout",
	"spec.smoke.timeout",
	"spec.smoke.interval",
	"spec.smoke.strictSentinel",
	"spec.rollback.residualKinds",
	"spec.pipeline.dataSizeGB",
	"spec.pipeline.pollInterval",
}

// ConfigManager loads the mdpctl configuration.
type ConfigManager struct {
	Viper  *viper.Viper
	Config *v1alpha1.Config
	Writer io.Writer

	flags           *pflag.FlagSet
	configLoaded    bool
	configFileFound bool
}

var _ configmanagerinterface.ConfigManager[v1alpha1.Config] = (*ConfigManager)(nil)

// NewConfigManager creates a manager reading configFile, or mdpctl.yaml from the working
// directory when configFile is empty.
func NewConfigManager(writer io.Writer, configFile string) *ConfigManager {
	return &ConfigManager{
		Viper:  InitializeViper(configFile),
		Config: v1alpha1.NewConfig(),
		Writer: writer,
	}
}

// InitializeViper returns a viper instance configured for mdpctl files and environment.
func InitializeViper(configFile string) *viper.Viper {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(envvar.ExpandPath(configFile))
	} else {
		v.SetConfigName(v1alpha1.DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}

	return v
}

// BindFlags makes explicitly set connection flags override file and environment values.
func (m *ConfigManager) BindFlags(flags *pflag.FlagSet) {
	m.flags = flags
}

// Load loads the configuration. Precedence: defaults < config file < environment < flags.
func (m *ConfigManager) Load(opts configmanagerinterface.LoadOptions) (*v1alpha1.Config, error) {
	if m.configLoaded {
		return m.Config, nil
	}

	if !opts.Silent {
		notify.Titlef(m.Writer, "⏳", "Load config...")
	}

	if !opts.IgnoreConfigFile {
		err := m.readConfig(opts.Silent)
		if err != nil {
			return nil, err
		}
	}

	err := m.unmarshal()
	if err != nil {
		return nil, err
	}

	err = m.applyFlagOverrides()
	if err != nil {
		return nil, err
	}

	m.Config.Spec.Connection.Kubeconfig = envvar.ExpandPath(m.Config.Spec.Connection.Kubeconfig)

	if !opts.SkipValidation {
		err = m.Config.Validate()
		if err != nil {
			if !opts.Silent {
				notify.Errorf(m.Writer, "%v", err)
			}

			return nil, fmt.Errorf("%w: %w", ErrConfigInvalid, err)
		}
	}

	if !opts.Silent {
		m.notifyLoadingComplete(opts.Timer)
	}

	m.configLoaded = true

	return m.Config, nil
}

// ConfigFileFound reports whether a config file was read.
func (m *ConfigManager) ConfigFileFound() bool {
	return m.configFileFound
}

func (m *ConfigManager) readConfig(silent bool) error {
	err := m.Viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}

		if !silent {
			notify.Activityf(m.Writer, "using default config")
		}

		return nil
	}

	m.configFileFound = true

	if !silent {
		notify.Activityf(m.Writer, "'%s' found", m.Viper.ConfigFileUsed())
	}

	return nil
}

func (m *ConfigManager) unmarshal() error {
	decoderConfig := func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = decodeHooks()
		// Lists from the file replace the default lists instead of merging element-wise.
		dc.ZeroFields = true
	}

	// A config file must state its own apiVersion and kind.
	if m.configFileFound {
		m.Config.APIVersion = ""
		m.Config.Kind = ""
	}

	err := m.Viper.Unmarshal(m.Config, decoderConfig)
	if err != nil {
		return fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return nil
}

// flagTargets maps connection flags to the fields they override.
func flagTargets(cfg *v1alpha1.Config) map[string]func(string) error {
	conn := &cfg.Spec.Connection

	return map[string]func(string) error{
		"namespace":  func(v string) error { conn.Namespace = v; return nil },
		"kubeconfig": func(v string) error { conn.Kubeconfig = v; return nil },
		"context":    func(v string) error { conn.Context = v; return nil },
		"binary":     func(v string) error { conn.Binary = v; return nil },
		"backend":    conn.Backend.Set,
	}
}

func (m *ConfigManager) applyFlagOverrides() error {
	if m.flags == nil {
		return nil
	}

	targets := flagTargets(m.Config)

	var err error

	// Changed is shared by the inherited copies of a persistent flag, actual set membership is not.
	m.flags.VisitAll(func(flag *pflag.Flag) {
		set, ok := targets[flag.Name]
		if !ok || !flag.Changed || err != nil {
			return
		}

		setErr := set(flag.Value.String())
		if setErr != nil {
			err = fmt.Errorf("failed to apply flag override for %s: %w", flag.Name, setErr)
		}
	})

	return err
}

func (m *ConfigManager) notifyLoadingComplete(tmr timer.Timer) {
	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "config loaded",
		Timer:   tmr,
		Writer:  m.Writer,
	})
}
