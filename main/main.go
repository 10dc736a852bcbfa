package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/unitycoder/walker-tank-experiment/config"
	"github.com/unitycoder/walker-tank-experiment/scene"
)

var (
	configPath string
	rigPath    string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "walker",
	Short:         "Quadruped walker-tank locomotion",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&rigPath, "rig", "", "path to a YAML rig description (default: the built-in tank)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(bindCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

// loadConfig returns the effective config, and sets the log level from it.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return cfg, err
		}
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	lvl, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return cfg, fmt.Errorf("%w (while parsing log level)", err)
	}

	logrus.SetLevel(lvl)
	return cfg, nil
}

func loadScene() (*scene.Memory, error) {
	rs := scene.DefaultRig()
	if rigPath != "" {
		var err error
		rs, err = scene.LoadRig(rigPath)
		if err != nil {
			return nil, err
		}
	}

	return scene.NewMemory(rs)
}
