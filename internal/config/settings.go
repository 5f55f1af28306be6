package config

import (
	"fmt"
	"strings"

	"github.com/Veraticus/smsledger/internal/common"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment overrides, e.g. SMSLEDGER_DATABASE_PATH.
const EnvPrefix = "SMSLEDGER"

// Settings holds the validated runtime configuration.
type Settings struct {
	DatabasePath      string
	LogLevel          string
	LogFormat         string
	AliasesFile       string
	MinConfidence     float64
	ReviewThreshold   float64
	ValidityThreshold float64
}

// SetDefaults registers default values for every key Settings reads.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath())
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("parser.min_confidence", 0.4)
	v.SetDefault("ingest.review_threshold", 0.7)
	v.SetDefault("merchant.aliases_file", "")
	v.SetDefault("decay.validity_threshold", 0.5)
}

// BindEnv makes nested keys overridable from the environment.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads Settings from the global viper instance.
func Load() (*Settings, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads and validates Settings from v.
func LoadFrom(v *viper.Viper) (*Settings, error) {
	SetDefaults(v)

	s := &Settings{
		DatabasePath:      ExpandPath(v.GetString("database.path")),
		LogLevel:          v.GetString("logging.level"),
		LogFormat:         v.GetString("logging.format"),
		AliasesFile:       ExpandPath(v.GetString("merchant.aliases_file")),
		MinConfidence:     v.GetFloat64("parser.min_confidence"),
		ReviewThreshold:   v.GetFloat64("ingest.review_threshold"),
		ValidityThreshold: v.GetFloat64("decay.validity_threshold"),
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks that every threshold is a probability and the database path is set.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.DatabasePath) == "" {
		return fmt.Errorf("%w: database.path is empty", common.ErrInvalidConfig)
	}
	for key, value := range map[string]float64{
		"parser.min_confidence":    s.MinConfidence,
		"ingest.review_threshold":  s.ReviewThreshold,
		"decay.validity_threshold": s.ValidityThreshold,
	} {
		if value < 0 || value > 1 {
			return fmt.Errorf("%w: %s must be between 0 and 1, got %v", common.ErrInvalidConfig, key, value)
		}
	}
	return nil
}
