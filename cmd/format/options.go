package format

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Options captures the per-run flags. Persisted per-project state lives in
// the settings package; anything here only overrides it for one run.
type Options struct {
	Stdin            bool     `mapstructure:"stdin"`
	Walk             string   `mapstructure:"walk"`
	WorkingDirectory string   `mapstructure:"working-dir"`
	ProjectRoot      string   `mapstructure:"project-root"`
	SwiftFormatPath  string   `mapstructure:"swift-format-path"`
	Excludes         []string `mapstructure:"excludes"`
	NoCache          bool     `mapstructure:"no-cache"`
	ClearCache       bool     `mapstructure:"clear-cache"`
	Enable           bool     `mapstructure:"enable"`
	Disable          bool     `mapstructure:"disable"`
	Verbose          uint8    `mapstructure:"verbose"`
}

// SetFlags appends our flags to the provided flag set. Flag names match the
// field names defined in the mapstructure tags.
func SetFlags(fs *pflag.FlagSet) {
	fs.Bool(
		"stdin", false,
		"Format the document passed in via stdin, printing the result to stdout.",
	)
	fs.String(
		"walk", "auto",
		"The method used to traverse the project files. Currently supports "+
			"<auto|git|filesystem>. (env $SWIFTBRIDGE_WALK)",
	)
	fs.StringP(
		"working-dir", "C", ".",
		"Run as if swiftbridge was started in the specified working directory instead of the current "+
			"working directory. (env $SWIFTBRIDGE_WORKING_DIR)",
	)
	fs.String(
		"project-root", "",
		"The project root (defaults to searching upwards for a .swiftbridge or .git folder). "+
			"(env $SWIFTBRIDGE_PROJECT_ROOT)",
	)
	fs.String(
		"swift-format-path", "",
		"Path to the swift-format executable, overriding the persisted project settings for this run. "+
			"(env $SWIFTBRIDGE_SWIFT_FORMAT_PATH)",
	)
	fs.StringSlice(
		"excludes", nil,
		"Exclude files or directories matching the specified globs. (env $SWIFTBRIDGE_EXCLUDES)",
	)
	fs.Bool(
		"no-cache", false,
		"Ignore the format cache entirely. Useful for CI. (env $SWIFTBRIDGE_NO_CACHE)",
	)
	fs.BoolP(
		"clear-cache", "c", false,
		"Reset the format cache. Use in case the cache is not precise enough. (env $SWIFTBRIDGE_CLEAR_CACHE)",
	)
	fs.Bool(
		"enable", false,
		"Enable formatting for this project and persist the choice.",
	)
	fs.Bool(
		"disable", false,
		"Disable formatting for this project and persist the choice.",
	)
	fs.CountP(
		"verbose", "v",
		"Set the verbosity of logs e.g. -vv. (env $SWIFTBRIDGE_VERBOSE)",
	)
	fs.Int(
		"indent", 2,
		"Indentation width used when generating a configuration with --init.",
	)
	fs.Int(
		"line-length", 100,
		"Line length used when generating a configuration with --init.",
	)
}

// FromViper takes a viper instance and produces an Options instance.
func FromViper(v *viper.Viper) (*Options, error) {
	opts := &Options{}

	if err := v.Unmarshal(opts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal options: %w", err)
	}

	var err error

	opts.WorkingDirectory, err = filepath.Abs(opts.WorkingDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for working directory: %w", err)
	}

	return opts, nil
}
