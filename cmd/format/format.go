package format

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sync"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/swiftbridge/swiftbridge/cache"
	"github.com/swiftbridge/swiftbridge/format"
	"github.com/swiftbridge/swiftbridge/invoke"
	"github.com/swiftbridge/swiftbridge/project"
	"github.com/swiftbridge/swiftbridge/resolve"
	"github.com/swiftbridge/swiftbridge/settings"
	"github.com/swiftbridge/swiftbridge/stats"
	"github.com/swiftbridge/swiftbridge/walk"
	"golang.org/x/sync/errgroup"
)

var ErrFormattingFailures = errors.New("some files could not be formatted")

func Run(v *viper.Viper, statz *stats.Stats, cmd *cobra.Command, paths []string) error {
	opts, err := FromViper(v)
	if err != nil {
		return fmt.Errorf("failed to load options: %w", err)
	}

	log.SetPrefix("format")

	// determine the project
	var proj *project.Project

	if opts.ProjectRoot != "" {
		proj, err = project.New(opts.ProjectRoot, opts.Excludes)
	} else {
		proj, err = project.Find(opts.WorkingDirectory, opts.Excludes)
	}

	if err != nil {
		return fmt.Errorf("failed to determine the project: %w", err)
	}

	log.Debugf("project root: %s", proj.Root)

	// read one consistent settings snapshot for the whole run
	st, err := settings.Load(proj.MetadataDir())
	if err != nil {
		return fmt.Errorf("failed to load project settings: %w", err)
	}

	// persist an explicit enablement choice before anything else
	if opts.Enable || opts.Disable {
		if opts.Enable {
			st.Enabled = settings.Enabled
		} else {
			st.Enabled = settings.Disabled
		}

		if err = st.Save(proj.MetadataDir()); err != nil {
			return fmt.Errorf("failed to persist project settings: %w", err)
		}
	}

	// a flag override applies to this run only, it is not persisted
	if opts.SwiftFormatPath != "" {
		st.SwiftFormatPath = opts.SwiftFormatPath
	}

	// create an app context and listen for shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	go func() {
		exit := make(chan os.Signal, 1)
		signal.Notify(exit, os.Interrupt, syscall.SIGTERM)
		<-exit
		cancel()
	}()

	if opts.Stdin {
		return runStdin(ctx, proj, st, paths)
	}

	return runProject(ctx, proj, st, opts, statz, paths)
}

// runStdin formats a single document read from stdin, printing the result to
// stdout. The path argument identifies the document but is never written to.
func runStdin(ctx context.Context, proj *project.Project, st settings.Settings, paths []string) error {
	if len(paths) != 1 {
		return errors.New("exactly one path should be specified when using the --stdin flag")
	}

	text, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}

	doc := format.Document{Path: paths[0], Text: string(text)}

	session := format.NewSession(proj, st)

	outcome, err := session.FormatAndApply(ctx, doc, format.WriterApplier{W: os.Stdout})
	if errors.Is(err, context.Canceled) {
		return nil
	} else if err != nil {
		return err
	}

	if outcome.Status == invoke.Success {
		if outcome.FormattedText == doc.Text {
			// FormatAndApply skips identical output, but stdout consumers
			// still expect the document back
			if _, err := io.WriteString(os.Stdout, doc.Text); err != nil {
				return fmt.Errorf("failed to write to stdout: %w", err)
			}
		}

		return nil
	}

	return errors.New(format.Describe(outcome))
}

// runProject formats every matching swift file under the project, replacing
// files in place.
func runProject(
	ctx context.Context,
	proj *project.Project,
	st settings.Settings,
	opts *Options,
	statz *stats.Stats,
	paths []string,
) error {
	switch st.Enabled {
	case settings.Disabled:
		log.Info("formatting is disabled for this project")

		return nil
	case settings.Unknown:
		log.Warn("formatting has not been enabled for this project, run with --enable to opt in")

		return nil
	case settings.Enabled:
	}

	// check all paths are contained within the project root
	for idx, path := range paths {
		abs := filepath.Join(proj.Root, path)
		if _, err := os.Stat(abs); err != nil {
			return fmt.Errorf("path %s not found within the project root %s", path, proj.Root)
		}

		paths[idx] = filepath.Clean(abs)
	}

	executable, err := invoke.ResolveExecutable(proj.Root, st.SwiftFormatPath)
	if err != nil {
		return fmt.Errorf("%w: install swift-format or set --swift-format-path", err)
	}

	// resolve the configuration source once for the whole run
	res := resolve.Resolve(proj, st)
	defer res.Release()

	configHash := cache.ConfigHash(executable, res.ConfigPath)

	if opts.ClearCache {
		if err := cache.Clear(proj.Root); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
	}

	var db *cache.Cache

	if !opts.NoCache {
		if db, err = cache.Open(proj.Root); err != nil {
			// fall back to no cache
			log.Warnf("failed to open cache: %v", err)

			db = nil
		} else {
			defer func() {
				if err := db.Close(); err != nil {
					log.Errorf("failed to close cache: %v", err)
				}
			}()
		}
	}

	walkType, err := walk.TypeString(opts.Walk)
	if err != nil {
		return fmt.Errorf("invalid walk type: %w", err)
	}

	walker, err := walk.New(walkType, proj, paths)
	if err != nil {
		return fmt.Errorf("failed to create walker: %w", err)
	}

	eg, ctx := errgroup.WithContext(ctx)
	// pace formatting tasks to the host machine
	eg.SetLimit(runtime.NumCPU())

	var (
		mu       sync.Mutex
		clean    []*walk.File
		failures int
	)

	walkErr := walker.Walk(ctx, func(file *walk.File, err error) error {
		if err != nil {
			return fmt.Errorf("failed to walk files: %w", err)
		}

		statz.Add(stats.Traversed, 1)

		if db != nil {
			changed, err := db.Changed(file, configHash)
			if err != nil {
				return err
			}

			if !changed {
				return nil
			}
		}

		statz.Add(stats.Matched, 1)

		eg.Go(func() error {
			outcome, err := formatFile(ctx, executable, res.ConfigPath, file, statz)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()

			if outcome.Status == invoke.Success {
				clean = append(clean, file)
			} else {
				failures++
			}

			return nil
		})

		return nil
	})

	egErr := eg.Wait()

	// a worker failure cancels the group context and aborts the walk, so
	// prefer reporting it over the resulting cancellation noise
	if egErr != nil && !errors.Is(egErr, context.Canceled) {
		return egErr
	}

	if walkErr != nil && !errors.Is(walkErr, context.Canceled) {
		return walkErr
	}

	if errors.Is(egErr, context.Canceled) || errors.Is(walkErr, context.Canceled) {
		// cancellation is a no-op, not a failure
		return nil
	}

	if db != nil {
		if err := db.Update(clean, configHash); err != nil {
			log.Warnf("failed to update cache: %v", err)
		}
	}

	statz.Print(os.Stdout)

	if failures > 0 {
		return fmt.Errorf("%w: %d file(s)", ErrFormattingFailures, failures)
	}

	return nil
}

// formatFile runs one invocation and applies the result in place. Only a
// FailedToStart outcome aborts the run; other failures are surfaced per file
// and counted.
func formatFile(
	ctx context.Context,
	executable string,
	configPath string,
	file *walk.File,
	statz *stats.Stats,
) (invoke.Outcome, error) {
	text, err := os.ReadFile(file.Path)
	if err != nil {
		return invoke.Outcome{}, fmt.Errorf("failed to read %s: %w", file.Path, err)
	}

	doc := format.Document{Path: file.Path, Text: string(text)}

	outcome, err := invoke.Run(ctx, invoke.Request{
		Executable: executable,
		Text:       doc.Text,
		ConfigPath: configPath,
	})
	if err != nil {
		// cancelled; no replacement
		return outcome, err
	}

	switch outcome.Status {
	case invoke.Success:
		statz.Add(stats.Formatted, 1)

		if outcome.FormattedText != doc.Text {
			if err := (format.FileApplier{}).Apply(ctx, doc, outcome.FormattedText); err != nil {
				return outcome, err
			}

			statz.Add(stats.Changed, 1)
			log.Infof("formatted %s", file.RelPath)
		}

		return outcome, nil

	case invoke.FailedToStart:
		return outcome, fmt.Errorf("failed to launch %s: %w", executable, outcome.Cause)

	default:
		log.Errorf("%s: %s", file.RelPath, format.Describe(outcome))

		return outcome, nil
	}
}
