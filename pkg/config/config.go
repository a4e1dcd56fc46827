package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"id3/pkg/io"
	"id3/pkg/tree"
)

type Config struct {
	Dataset DatasetConf
	Tree    TreeConf
	Output  OutputConf
}

type DatasetConf struct {
	SetupFile string
	TrainFile string
	// TestFile is optional; without it HoldoutFraction of the training rows are used for scoring
	TestFile        string
	HoldoutFraction float64
	Seed            int64
	UnknownToken    string
	Separator       string
}

type TreeConf struct {
	MaxContinuousUses int
}

type OutputConf struct {
	PredictionsFile string
	PrintTree       bool
}

func Default() Config {
	return Config{
		Dataset: DatasetConf{
			Seed:         42,
			UnknownToken: io.DefaultUnknownToken,
			Separator:    ",",
		},
		Tree: TreeConf{
			MaxContinuousUses: tree.DefaultMaxContinuousUses,
		},
	}
}

// Load reads a configuration file over the defaults. An empty path returns the defaults.
func Load(configPath string) (Config, error) {
	conf := Default()
	if configPath == "" {
		return conf, nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return conf, fmt.Errorf("error reading config file %s: %w", configPath, err)
	}
	if err := v.Unmarshal(&conf); err != nil {
		return conf, fmt.Errorf("error parsing config file %s: %w", configPath, err)
	}
	return conf, nil
}

// SeparatorRune returns the single character used to split data records.
func (c *DatasetConf) SeparatorRune() rune {
	if c.Separator == `\t` {
		return '\t'
	}
	for _, r := range c.Separator {
		return r
	}
	return ','
}

func (c *Config) Validate() error {
	if c.Dataset.SetupFile == "" {
		return errors.New("setup file is required")
	}
	if c.Dataset.TrainFile == "" {
		return errors.New("train file is required")
	}
	if c.Dataset.HoldoutFraction < 0 || c.Dataset.HoldoutFraction >= 1 {
		return fmt.Errorf("holdout fraction %v not in [0, 1)", c.Dataset.HoldoutFraction)
	}
	if c.Tree.MaxContinuousUses < 1 {
		return fmt.Errorf("max continuous uses must be at least 1, got %d", c.Tree.MaxContinuousUses)
	}
	if c.Dataset.UnknownToken == "" {
		return errors.New("unknown token must not be empty")
	}
	if len([]rune(c.Dataset.Separator)) != 1 && c.Dataset.Separator != `\t` {
		return fmt.Errorf("separator must be a single character, got %q", c.Dataset.Separator)
	}
	return nil
}
