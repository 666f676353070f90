// Package invoke launches the external swift-format binary and classifies
// its outcome. One call, one subprocess; the document travels in via stdin
// and the formatted text comes back on stdout.
package invoke

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
)

// DefaultExecutable is looked up in PATH when no explicit path is
// configured.
const DefaultExecutable = "swift-format"

// ErrExecutableNotFound is returned when the configured executable cannot be
// resolved.
var ErrExecutableNotFound = errors.New("swift-format executable not found")

// fatalErrorRegex matches the diagnostic marker swift-format emits when a
// document cannot be parsed at all.
var fatalErrorRegex = regexp.MustCompile(`(?i)fatal error`)

type Status int

const (
	// Success: exit code zero; stdout is the formatted text, taken verbatim.
	Success Status = iota
	// FailedToStart: the executable could not be spawned at all.
	FailedToStart
	// BadSyntax: the tool reported an unrecoverable parse error.
	BadSyntax
	// UnknownFailure: any other non-zero exit or unexpected error.
	UnknownFailure
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case FailedToStart:
		return "failed-to-start"
	case BadSyntax:
		return "bad-syntax"
	default:
		return "unknown-failure"
	}
}

// Outcome is the classified result of one invocation.
type Outcome struct {
	Status        Status
	FormattedText string
	Message       string
	Cause         error
}

// Request describes a single invocation. ConfigPath is optional; when empty
// the formatter uses its built-in defaults.
type Request struct {
	Executable string
	Text       string
	ConfigPath string
}

// Args constructs the swift-format argument list for a request.
func Args(configPath string) []string {
	args := []string{"format", "--parallel", "--ignore-unparsable-files"}
	if configPath != "" {
		args = append(args, "--configuration", configPath)
	}

	return args
}

// Run invokes swift-format once. All failures are reported through the
// Outcome; the error return is reserved for cancellation, which is a no-op
// rather than a failure.
func Run(ctx context.Context, req Request) (Outcome, error) {
	l := log.WithPrefix("invoke")
	start := time.Now()

	cmd := exec.CommandContext(ctx, req.Executable, Args(req.ConfigPath)...) //nolint:gosec
	// replace the default Cancel handler installed by CommandContext because it sends SIGKILL (-9).
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = 5 * time.Second

	cmd.Stdin = strings.NewReader(req.Text)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	l.Debugf("executing: %s", cmd.String())

	err := cmd.Run()

	// cancellation terminates the subprocess and produces no outcome
	if ctx.Err() != nil {
		return Outcome{}, ctx.Err()
	}

	if err == nil {
		l.Debugf("formatted %d bytes in %v", stdout.Len(), time.Since(start))

		return Outcome{Status: Success, FormattedText: stdout.String()}, nil
	}

	var (
		execErr *exec.Error
		exitErr *exec.ExitError
	)

	switch {
	case errors.As(err, &execErr) || errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission):
		return Outcome{
			Status:  FailedToStart,
			Message: fmt.Sprintf("failed to launch %s", req.Executable),
			Cause:   err,
		}, nil

	case errors.As(err, &exitErr):
		if fatalErrorRegex.Match(stderr.Bytes()) {
			return Outcome{
				Status:  BadSyntax,
				Message: "the document could not be parsed",
				Cause:   err,
			}, nil
		}

		return Outcome{
			Status:  UnknownFailure,
			Message: fmt.Sprintf("%s exited with code %d: %s", req.Executable, exitErr.ExitCode(), excerpt(stderr.String())),
			Cause:   err,
		}, nil

	default:
		return Outcome{
			Status:  UnknownFailure,
			Message: fmt.Sprintf("unexpected error running %s", req.Executable),
			Cause:   err,
		}, nil
	}
}

// ResolveExecutable resolves the configured executable path, falling back to
// a PATH lookup relative to the project root when none was configured.
func ResolveExecutable(root string, path string) (string, error) {
	if path == "" {
		path = DefaultExecutable
	}

	env := expand.ListEnviron(os.Environ()...)

	executable, err := interp.LookPathDir(root, env, path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrExecutableNotFound, path)
	}

	return executable, nil
}

// excerpt trims a diagnostic stream down to something fit for a one-line
// notification.
func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}

	if len(s) > 200 {
		s = s[:200] + "..."
	}

	return s
}
