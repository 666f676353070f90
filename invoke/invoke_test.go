package invoke_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/swiftbridge/swiftbridge/invoke"
	"github.com/swiftbridge/swiftbridge/test"
)

func TestArgs(t *testing.T) {
	as := require.New(t)

	as.Equal(
		[]string{"format", "--parallel", "--ignore-unparsable-files"},
		invoke.Args(""),
	)
	as.Equal(
		[]string{"format", "--parallel", "--ignore-unparsable-files", "--configuration", "/tmp/cfg.json"},
		invoke.Args("/tmp/cfg.json"),
	)
}

func TestRunSuccess(t *testing.T) {
	as := require.New(t)

	outcome, err := invoke.Run(context.Background(), invoke.Request{
		Executable: test.Formatter(t, `printf 'X'`),
		Text:       "let x=1\n",
	})
	as.NoError(err)
	as.Equal(invoke.Success, outcome.Status)
	as.Equal("X", outcome.FormattedText)
}

func TestRunPipesStdin(t *testing.T) {
	as := require.New(t)

	// an identity formatter returns the document verbatim
	outcome, err := invoke.Run(context.Background(), invoke.Request{
		Executable: test.Formatter(t, `cat`),
		Text:       "struct A {}\n",
	})
	as.NoError(err)
	as.Equal(invoke.Success, outcome.Status)
	as.Equal("struct A {}\n", outcome.FormattedText)
}

func TestRunPassesConfiguration(t *testing.T) {
	as := require.New(t)

	cfgPath := filepath.Join(t.TempDir(), "cfg.json")
	as.NoError(os.WriteFile(cfgPath, []byte(`{"lineLength": 90}`), 0o644))

	// the formatter sees --configuration as its fifth argument
	outcome, err := invoke.Run(context.Background(), invoke.Request{
		Executable: test.Formatter(t, `cat "$5"`),
		Text:       "",
		ConfigPath: cfgPath,
	})
	as.NoError(err)
	as.Equal(invoke.Success, outcome.Status)
	as.Equal(`{"lineLength": 90}`, outcome.FormattedText)
}

func TestRunFailedToStart(t *testing.T) {
	as := require.New(t)

	outcome, err := invoke.Run(context.Background(), invoke.Request{
		Executable: filepath.Join(t.TempDir(), "no-such-binary"),
		Text:       "",
	})
	as.NoError(err)
	as.Equal(invoke.FailedToStart, outcome.Status)
	as.Error(outcome.Cause)
}

func TestRunBadSyntax(t *testing.T) {
	as := require.New(t)

	script := `echo 'swift-format: Fatal error: input.swift:1:1: unexpected token' >&2; exit 1`

	outcome, err := invoke.Run(context.Background(), invoke.Request{
		Executable: test.Formatter(t, script),
		Text:       "func {",
	})
	as.NoError(err)
	as.Equal(invoke.BadSyntax, outcome.Status)
}

func TestRunUnknownFailure(t *testing.T) {
	as := require.New(t)

	outcome, err := invoke.Run(context.Background(), invoke.Request{
		Executable: test.Formatter(t, `echo 'something else went wrong' >&2; exit 2`),
		Text:       "",
	})
	as.NoError(err)
	as.Equal(invoke.UnknownFailure, outcome.Status)
	as.Contains(outcome.Message, "something else went wrong")
}

func TestRunCancellation(t *testing.T) {
	as := require.New(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()

	_, err := invoke.Run(ctx, invoke.Request{
		Executable: test.Formatter(t, `exec sleep 10`),
		Text:       "",
	})

	// the subprocess is terminated promptly and no outcome is produced
	as.ErrorIs(err, context.DeadlineExceeded)
	as.Less(time.Since(start), 5*time.Second)
}

func TestResolveExecutable(t *testing.T) {
	as := require.New(t)

	path := test.Formatter(t, `cat`)

	resolved, err := invoke.ResolveExecutable(t.TempDir(), path)
	as.NoError(err)
	as.Equal(path, resolved)

	_, err = invoke.ResolveExecutable(t.TempDir(), "definitely-not-a-real-binary-name")
	as.ErrorIs(err, invoke.ErrExecutableNotFound)
}

func TestStatusString(t *testing.T) {
	as := require.New(t)

	as.Equal("success", invoke.Success.String())
	as.Equal("failed-to-start", invoke.FailedToStart.String())
	as.Equal("bad-syntax", invoke.BadSyntax.String())
	as.Equal("unknown-failure", invoke.UnknownFailure.String())
}
