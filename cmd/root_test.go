package cmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/swiftbridge/swiftbridge/cmd"
	"github.com/swiftbridge/swiftbridge/config"
	"github.com/swiftbridge/swiftbridge/project"
	"github.com/swiftbridge/swiftbridge/resolve"
	"github.com/swiftbridge/swiftbridge/settings"
	"github.com/swiftbridge/swiftbridge/test"
)

func run(t *testing.T, args ...string) error {
	t.Helper()

	// capture the current cwd so the -C chdir cannot leak into later tests
	cwd, err := os.Getwd()
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, os.Chdir(cwd))
	})

	root, _ := cmd.NewRoot()
	root.SetArgs(args)
	root.SetOut(bytes.NewBuffer(nil))
	root.SetErr(bytes.NewBuffer(nil))

	return root.Execute()
}

// withStdin swaps os.Stdin for the duration of fn.
func withStdin(t *testing.T, input string, fn func()) {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)

	_, err = w.WriteString(input)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	prev := os.Stdin
	os.Stdin = r

	defer func() {
		os.Stdin = prev

		_ = r.Close()
	}()

	fn()
}

func TestInit(t *testing.T) {
	as := require.New(t)

	dir := t.TempDir()

	as.NoError(run(t, "-C", dir, "--init", "--indent", "4", "--line-length", "20000"))

	raw, err := os.ReadFile(filepath.Join(dir, resolve.ConfigFileName))
	as.NoError(err)

	cfg, err := config.FromJSON(string(raw))
	as.NoError(err)
	as.Equal(4, *cfg.Indentation.Spaces)
	// out of range values are clamped by the editing surface
	as.Equal(10000, *cfg.LineLength)
}

func TestStdin(t *testing.T) {
	as := require.New(t)

	root := test.TempProject(t)
	test.WriteSettings(t, root, settings.Settings{
		Enabled:         settings.Enabled,
		SwiftFormatPath: test.Formatter(t, `cat; printf '// formatted\n'`),
	})

	withStdin(t, "let x=1\n", func() {
		as.NoError(run(t, "-C", root, "--stdin", "main.swift"))
	})
}

func TestStdinBadSyntax(t *testing.T) {
	as := require.New(t)

	root := test.TempProject(t)
	test.WriteSettings(t, root, settings.Settings{
		Enabled:         settings.Enabled,
		SwiftFormatPath: test.Formatter(t, `echo 'Fatal error: nope' >&2; exit 1`),
	})

	withStdin(t, "func {", func() {
		err := run(t, "-C", root, "--stdin", "main.swift")
		as.ErrorContains(err, "could not be safely reformatted")
	})
}

func TestProjectRun(t *testing.T) {
	as := require.New(t)

	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	root := test.TempProject(t)
	test.WriteSettings(t, root, settings.Settings{
		Enabled:         settings.Enabled,
		SwiftFormatPath: test.Formatter(t, `cat; printf '// formatted\n'`),
	})

	as.NoError(run(t, "-C", root, "--no-cache", "--walk", "filesystem"))

	raw, err := os.ReadFile(filepath.Join(root, "main.swift"))
	as.NoError(err)
	as.Contains(string(raw), "// formatted")
}

func TestProjectRunRequiresOptIn(t *testing.T) {
	as := require.New(t)

	root := test.TempProject(t)

	before, err := os.ReadFile(filepath.Join(root, "main.swift"))
	as.NoError(err)

	// settings are UNKNOWN on first run: nothing happens
	as.NoError(run(t, "-C", root, "--no-cache", "--walk", "filesystem"))

	after, err := os.ReadFile(filepath.Join(root, "main.swift"))
	as.NoError(err)
	as.Equal(before, after)
}

func TestEnablePersists(t *testing.T) {
	as := require.New(t)

	root := test.TempProject(t)
	test.WriteSettings(t, root, settings.Settings{
		Enabled:         settings.Unknown,
		SwiftFormatPath: test.Formatter(t, `cat`),
	})

	as.NoError(run(t, "-C", root, "--no-cache", "--walk", "filesystem", "--enable"))

	st, err := settings.Load(filepath.Join(root, project.MetadataDirName))
	as.NoError(err)
	as.Equal(settings.Enabled, st.Enabled)
}

func TestProjectRunMissingFormatter(t *testing.T) {
	as := require.New(t)

	root := test.TempProject(t)
	test.WriteSettings(t, root, settings.Settings{
		Enabled:         settings.Enabled,
		SwiftFormatPath: filepath.Join(t.TempDir(), "no-such-binary"),
	})

	err := run(t, "-C", root, "--no-cache", "--walk", "filesystem")
	as.ErrorContains(err, "swift-format executable not found")
}

func TestConfigFileSetsFlags(t *testing.T) {
	as := require.New(t)

	root := test.TempProject(t)
	test.WriteSettings(t, root, settings.Settings{
		Enabled:         settings.Enabled,
		SwiftFormatPath: test.Formatter(t, `cat; printf '// formatted\n'`),
	})

	// excludes from swiftbridge.toml keep the generated tree untouched
	test.WriteTOML(t, filepath.Join(root, "swiftbridge.toml"), map[string]any{
		"excludes": []string{"Generated/**"},
	})

	as.NoError(run(t, "-C", root, "--no-cache", "--walk", "filesystem"))

	raw, err := os.ReadFile(filepath.Join(root, "Generated", "Messages.swift"))
	as.NoError(err)
	as.NotContains(string(raw), "// formatted")

	raw, err = os.ReadFile(filepath.Join(root, "main.swift"))
	as.NoError(err)
	as.Contains(string(raw), "// formatted")
}
