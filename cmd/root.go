package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/swiftbridge/swiftbridge/build"
	"github.com/swiftbridge/swiftbridge/cmd/format"
	_init "github.com/swiftbridge/swiftbridge/cmd/init"
	"github.com/swiftbridge/swiftbridge/config"
	"github.com/swiftbridge/swiftbridge/project"
	"github.com/swiftbridge/swiftbridge/stats"
)

// NewViper creates a Viper instance pre-configured with TOML config type,
// automatic env and a `SWIFTBRIDGE_` prefix, mapping `-` and `.` to `_`.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetConfigType("toml")
	v.SetEnvPrefix("swiftbridge")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	return v
}

func NewRoot() (*cobra.Command, *stats.Stats) {
	var (
		runInit    bool
		configFile string
	)

	v := NewViper()

	statz := stats.New()

	cmd := &cobra.Command{
		Use:     build.Name + " <paths...>",
		Short:   "swift-format glue for editors and CI",
		Version: build.Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runE(v, &statz, cmd, args, runInit, configFile)
		},
	}

	cmd.SetVersionTemplate("swiftbridge {{.Version}}")

	fs := cmd.Flags()

	format.SetFlags(fs)

	// special flags without a corresponding entry in swiftbridge.toml
	fs.StringVar(
		&configFile, "config-file", "",
		"Load the tool config from the given path (defaults to searching upwards for swiftbridge.toml).",
	)
	fs.BoolVarP(
		&runInit, "init", "i", false,
		"Create a default .swift-format file in the current directory.",
	)

	cmd.MarkFlagsMutuallyExclusive("enable", "disable")

	if err := v.BindPFlags(fs); err != nil {
		cobra.CheckErr(fmt.Errorf("failed to bind global config to viper: %w", err))
	}

	return cmd, &statz
}

func runE(v *viper.Viper, statz *stats.Stats, cmd *cobra.Command, args []string, runInit bool, configFile string) error {
	// change working directory if required
	workingDir, err := filepath.Abs(v.GetString("working-dir"))
	if err != nil {
		return fmt.Errorf("failed to get absolute path for working directory: %w", err)
	} else if err = os.Chdir(workingDir); err != nil {
		return fmt.Errorf("failed to change working directory: %w", err)
	}

	if runInit {
		indent := config.Clamp(v.GetInt("indent"))
		lineLength := config.Clamp(v.GetInt("line-length"))

		if err := _init.Run(indent, lineLength); err != nil {
			return fmt.Errorf("failed to run init command: %w", err)
		}

		return nil
	}

	// the tool config file is optional; formatting works without one
	if configFile == "" {
		configFile = os.Getenv("SWIFTBRIDGE_CONFIG")
	}

	if configFile == "" {
		configFile, _, _ = project.FindUp(workingDir, "swiftbridge.toml")
	}

	if configFile != "" {
		log.Debugf("using config file: %s", configFile)

		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file '%s': %w", configFile, err)
		}
	}

	// configure logging
	log.SetOutput(os.Stderr)
	log.SetReportTimestamp(false)

	switch v.GetInt("verbose") {
	case 0:
		log.SetLevel(log.WarnLevel)
	case 1:
		log.SetLevel(log.InfoLevel)
	default:
		log.SetLevel(log.DebugLevel)
	}

	cmd.SilenceUsage = true

	return format.Run(v, statz, cmd, args) //nolint:wrapcheck
}
