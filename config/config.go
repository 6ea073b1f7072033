// Package config loads and saves the TOML configuration of the command line
// tool.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/BackendStack21/knapsack-merkle-go/core"
	"github.com/BackendStack21/knapsack-merkle-go/merkle/hashers"
	"github.com/BackendStack21/knapsack-merkle-go/utils"
)

// Overflow policies for messages longer than the key allows.
const (
	OverflowFail     = "fail"
	OverflowTruncate = "truncate"
)

// Output formats for serialized keys.
const (
	FormatHex    = "hex"
	FormatBase64 = "base64"
)

// DefaultFile is the file name used by init when no path is given.
const DefaultFile = "knapmerkle.toml"

// Config is the configuration of the command line tool.
type Config struct {
	Knapsack KnapsackConfig      `toml:"knapsack"`
	Merkle   MerkleConfig        `toml:"merkle"`
	Logger   *utils.LoggerConfig `toml:"logger"`
}

// KnapsackConfig configures key generation and encryption.
type KnapsackConfig struct {
	Params   string `toml:"params"`
	Overflow string `toml:"overflow"`
	Format   string `toml:"format"`
}

// MerkleConfig configures root computation. An empty Target disables the
// comparison.
type MerkleConfig struct {
	Hasher string `toml:"hasher"`
	Target string `toml:"target,omitempty"`
	Jobs   int    `toml:"jobs"`
}

// Default returns the configuration used when no file is loaded.
func Default() *Config {
	return &Config{
		Knapsack: KnapsackConfig{
			Params:   string(core.MH640Params.Name),
			Overflow: OverflowFail,
			Format:   FormatHex,
		},
		Merkle: MerkleConfig{
			Hasher: hashers.Default,
			Jobs:   4,
		},
		Logger: &utils.LoggerConfig{
			Environment: "production",
		},
	}
}

// Load reads the TOML file at path on top of the defaults. Unknown keys are
// rejected.
func Load(path string) (*Config, error) {
	conf := Default()
	md, err := toml.DecodeFile(path, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Save writes conf to path in TOML. It refuses to overwrite an existing file.
func (conf *Config) Save(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("can't write config: file '%s' already exists", path)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(conf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// Validate checks every field for a supported value.
func (conf *Config) Validate() error {
	if _, err := core.ParseParamSet(conf.Knapsack.Params); err != nil {
		return err
	}
	switch conf.Knapsack.Overflow {
	case OverflowFail, OverflowTruncate:
	default:
		return fmt.Errorf("knapsack.overflow must be %q or %q, got %q", OverflowFail, OverflowTruncate, conf.Knapsack.Overflow)
	}
	switch conf.Knapsack.Format {
	case FormatHex, FormatBase64:
	default:
		return fmt.Errorf("knapsack.format must be %q or %q, got %q", FormatHex, FormatBase64, conf.Knapsack.Format)
	}
	if _, err := hashers.New(conf.Merkle.Hasher); err != nil {
		return err
	}
	if conf.Merkle.Jobs < 1 {
		return errors.New("merkle.jobs must be positive")
	}
	if conf.Logger == nil {
		return errors.New("missing [logger] section")
	}
	return nil
}
