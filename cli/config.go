package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/goto/salt/cmdx"
	"github.com/goto/salt/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/goroads/kerbside/internal/server"
	minioStore "github.com/goroads/kerbside/internal/store/minio"
	"github.com/goroads/kerbside/pkg/statsd"
)

const configFlag = "config"

type Config struct {
	// Log
	LogLevel string `yaml:"log_level" mapstructure:"log_level" default:"info"`

	// StatsD
	StatsD statsd.Config `yaml:"statsd" mapstructure:"statsd"`

	// Blob storage
	Storage minioStore.Config `yaml:"storage" mapstructure:"storage"`

	// Service
	Service server.Config `yaml:"service" mapstructure:"service"`

	// Operator is the identity stamped on CLI uploads.
	Operator OperatorConfig `yaml:"operator" mapstructure:"operator"`
}

type OperatorConfig struct {
	Email    string `yaml:"email" mapstructure:"email"`
	Provider string `yaml:"provider" mapstructure:"provider" default:"cli"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	err := cmdx.SetConfig("kerbside").Load(&cfg)
	if err != nil {
		if errors.As(err, &config.ConfigFileNotFoundError{}) {
			return LoadFromCurrentDir()
		}
		return &cfg, err
	}
	return &cfg, nil
}

func LoadFromCurrentDir() (*Config, error) {
	var cfg Config
	var opts []config.LoaderOption

	opts = append(opts,
		config.WithPath("./"),
		config.WithName("kerbside.yaml"),
		config.WithEnvKeyReplacer(".", "_"),
		config.WithEnvPrefix("KERBSIDE"),
	)

	if err := config.NewLoader(opts...).Load(&cfg); err != nil {
		if errors.As(err, &config.ConfigFileNotFoundError{}) {
			return &cfg, ErrConfigNotFound
		}
		return &cfg, err
	}
	return &cfg, nil
}

func LoadConfigFromFlag(cfgFile string, cfg *Config) error {
	var opts []config.LoaderOption
	opts = append(opts, config.WithFile(cfgFile))

	return config.NewLoader(opts...).Load(cfg)
}

func configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config <command>",
		Short: "Manage server and client configurations",
		Example: heredoc.Doc(`
			$ kerbside config init
			$ kerbside config list`),
	}

	cmd.AddCommand(configInitCommand())
	cmd.AddCommand(configListCommand())

	return cmd
}

func configInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new configuration",
		Example: heredoc.Doc(`
			$ kerbside config init
		`),
		Annotations: map[string]string{
			"group": "core",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := cmdx.SetConfig("kerbside")

			if err := cfg.Init(&Config{}); err != nil {
				return err
			}

			fmt.Printf("config created: %v\n", cfg.File())
			return nil
		},
	}
}

func configListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configuration settings",
		Example: heredoc.Doc(`
			$ kerbside config list
		`),
		Annotations: map[string]string{
			"group": "core",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return yaml.NewEncoder(os.Stdout).Encode(cfg)
		},
	}
}

// loadConfig resolves the effective config for a command run, honoring
// the --config override flag.
func loadConfig(cmd *cobra.Command) (Config, error) {
	var cfg Config

	if cmd != nil {
		if cfgFile, _ := cmd.Flags().GetString(configFlag); cfgFile != "" {
			err := LoadConfigFromFlag(cfgFile, &cfg)
			return cfg, err
		}
	}

	loaded, err := LoadConfig()
	if err != nil && !errors.Is(err, ErrConfigNotFound) {
		return cfg, err
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return *loaded, nil
}
