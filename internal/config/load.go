package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/five82/dofp/internal/buffer"
	dofperrors "github.com/five82/dofp/internal/errors"
	"github.com/five82/dofp/internal/quality"
)

// EnvPrefix is the prefix of environment overrides, e.g. DOFP_BUFFER_CAPACITY.
const EnvPrefix = "DOFP"

// Load loads configuration from a YAML file and DOFP_* environment
// variables on top of the defaults. An empty configPath searches the
// working directory and $HOME/.config/dofp for config.yaml; a missing file
// is not an error in that case.
//
// When policy.preset is set, the preset's values replace the policy
// defaults, so explicit policy keys still win over the preset.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	SetDefaults(v)

	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, dofperrors.NewIOError("reading config file", err)
		}
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/dofp")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, dofperrors.NewIOError("reading config file", err)
		}
	}

	if name := v.GetString("policy.preset"); name != "" {
		p, err := ParsePreset(name)
		if err != nil {
			return nil, err
		}
		values := GetPresetValues(p)
		v.SetDefault("policy.one_gap_at_a_time", values.OneGapAtATime)
		v.SetDefault("policy.maximize_when_buffer_high", values.MaximizeWhenBufferHigh)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, dofperrors.NewParseError("unmarshaling config", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// SetDefaults configures default values for all configuration options.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("bitrates", quality.DefaultBitrates)

	v.SetDefault("buffer.capacity", DefaultBufferCapacity)
	v.SetDefault("buffer.low_fraction", buffer.DefaultLowFraction)
	v.SetDefault("buffer.save_fraction", buffer.DefaultSaveFraction)
	v.SetDefault("buffer.high_fraction", buffer.DefaultHighFraction)
	v.SetDefault("buffer.segment_duration", DefaultSegmentDuration)

	v.SetDefault("policy.one_gap_at_a_time", DefaultOneGapAtATime)
	v.SetDefault("policy.maximize_when_buffer_high", DefaultMaximizeWhenBufferHigh)
	v.SetDefault("policy.gap_strategy", DefaultGapStrategy)
	v.SetDefault("policy.preset", "")

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
	v.SetDefault("logging.file", "")
}

// LoadEnv reads .env style files into the process environment so their
// DOFP_* entries reach Load. Variables already set are kept. With no paths,
// ".env" is tried and silently skipped when absent.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		paths = []string{".env"}
	}
	if err := godotenv.Load(paths...); err != nil {
		return dofperrors.NewIOError("loading env file", err)
	}
	return nil
}
