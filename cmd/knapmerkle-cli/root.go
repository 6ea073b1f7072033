package main

import (
	"fmt"

	"github.com/spf13/cobra"

	knapmerkle "github.com/BackendStack21/knapsack-merkle-go"
	"github.com/BackendStack21/knapsack-merkle-go/config"
	"github.com/BackendStack21/knapsack-merkle-go/utils"
)

const (
	version = "1.0.0"
	appName = "knapmerkle-cli"
)

// cli carries the state shared by every command of one invocation.
type cli struct {
	configPath string
	verbose    bool
	timing     bool
	format     string

	conf   *config.Config
	logger *utils.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   appName,
		Short: "Merkle-Hellman knapsack cryptosystem and Merkle root builder",
		Long: `knapmerkle-cli generates Merkle-Hellman knapsack keys, encrypts and
decrypts short messages with them, and computes Merkle roots of line-oriented
record files.

WARNING: the knapsack cryptosystem is broken. Use it for study only.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&c.configPath, "config", "c", "", "Path to a TOML config file")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "Log debug output")
	pf.BoolVarP(&c.timing, "timing", "t", false, "Log operation timings")
	pf.StringVarP(&c.format, "format", "f", "", "Key encoding: hex or base64")

	root.AddCommand(
		c.versionCmd(),
		c.initCmd(),
		c.knapsackCmd(),
		c.merkleCmd(),
		c.benchmarkCmd(),
	)
	return root
}

// setup loads the configuration, applies global flag overrides and builds
// the logger.
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	c.conf = config.Default()
	if c.configPath != "" && cmd.Name() != "init" {
		conf, err := config.Load(c.configPath)
		if err != nil {
			return err
		}
		c.conf = conf
	}
	if c.format != "" {
		c.conf.Knapsack.Format = c.format
	}
	if c.verbose {
		c.conf.Logger.Environment = "development"
	}
	if err := c.conf.Validate(); err != nil {
		return err
	}

	logger, err := utils.NewLogger(c.conf.Logger)
	if err != nil {
		return err
	}
	c.logger = logger
	return nil
}

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, version)
			fmt.Fprintf(cmd.OutOrStdout(), "knapmerkle library version %s\n", knapmerkle.Version)
		},
	}
}

func (c *cli) initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file with the default settings",
		Long: `Create a configuration file with the default settings at the path given
by --config, or ` + config.DefaultFile + ` in the working directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath
			if path == "" {
				path = config.DefaultFile
			}
			if err := config.Default().Save(path); err != nil {
				return err
			}
			c.logger.Debug("wrote config", "path", path)
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", path)
			return nil
		},
	}
}
