package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"exostandards/domain/standards"
)

// EnvPrefix namespaces CLI environment overrides, e.g. STANDARDS_SEND_LIMIT.
const EnvPrefix = "STANDARDS"

// CLIConfig is everything one command line run of a standard needs.
type CLIConfig struct {
	Tenant     string        `mapstructure:"tenant"`
	Settings   RunSettings   `mapstructure:",squash"`
	DBPath     string        `mapstructure:"db_path"`
	Output     string        `mapstructure:"output"`
	Timeout    time.Duration `mapstructure:"timeout"`
	LogLevel   string        `mapstructure:"log_level"`
	ConfigFile string        `mapstructure:"-"`
}

// RunSettings mirrors standards.RawSettings with viper friendly keys.
type RunSettings struct {
	SendLimit    string `mapstructure:"send_limit"`
	ReceiveLimit string `mapstructure:"receive_limit"`
	Remediate    bool   `mapstructure:"remediate"`
	Alert        bool   `mapstructure:"alert"`
	Report       bool   `mapstructure:"report"`
	StandardID   string `mapstructure:"standard_id"`
}

// Raw converts to the loosely typed settings the service validates.
func (s RunSettings) Raw() standards.RawSettings {
	return standards.RawSettings{
		SendLimit:    s.SendLimit,
		ReceiveLimit: s.ReceiveLimit,
		Remediate:    s.Remediate,
		Alert:        s.Alert,
		Report:       s.Report,
		StandardID:   s.StandardID,
	}
}

// cliKeys are bound to the environment up front so Unmarshal sees them without a flag.
var cliKeys = []string{
	"tenant", "send_limit", "receive_limit", "remediate", "alert", "report",
	"standard_id", "db_path", "output", "timeout", "log_level",
}

// NewCLIViper returns a viper instance reading STANDARDS_* env vars and an optional standards.yaml.
func NewCLIViper(configFile string) *viper.Viper {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("standards")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/exostandards")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	for _, key := range cliKeys {
		_ = v.BindEnv(key)
	}

	setCLIDefaults(v)
	return v
}

func setCLIDefaults(v *viper.Viper) {
	v.SetDefault("db_path", "./exostandards.db")
	v.SetDefault("output", "json")
	v.SetDefault("timeout", "2m")
	v.SetDefault("log_level", "warn")
	v.SetDefault("remediate", false)
	v.SetDefault("alert", false)
	v.SetDefault("report", false)
}

// BindFlags binds every flag in flags under its name with dashes as underscores.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var errs []error
	flags.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			errs = append(errs, fmt.Errorf("bind flag %s: %w", f.Name, err))
		}
	})
	return errors.Join(errs...)
}

// LoadCLIConfig reads the optional config file and unmarshals the merged view.
// Precedence: flags, then environment, then file, then defaults.
func LoadCLIConfig(v *viper.Viper) (*CLIConfig, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg CLIConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// Validate checks fields the service does not validate itself.
func (c *CLIConfig) Validate() error {
	if strings.TrimSpace(c.Tenant) == "" {
		return fmt.Errorf("tenant must not be empty")
	}
	switch c.Output {
	case "json", "text":
	default:
		return fmt.Errorf("output must be json or text, got %q", c.Output)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
