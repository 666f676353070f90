// Package settings persists the per-project swiftbridge state: whether
// formatting is enabled, where the swift-format executable lives and which
// configuration source is in effect.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the settings file stored inside the project metadata folder.
const FileName = "settings.json"

// Enablement is the tri-state opt-in flag. A fresh project starts out
// Unknown, which behaves as disabled until the user decides.
type Enablement string

const (
	Unknown  Enablement = "UNKNOWN"
	Enabled  Enablement = "ENABLED"
	Disabled Enablement = "DISABLED"
)

// Mode selects the source of truth for the formatter configuration.
type Mode int

const (
	// ModeNone passes no --configuration flag; the tool uses its built-in
	// defaults.
	ModeNone Mode = iota
	// ModeProjectFolder reads a .swift-format file from a folder inside the
	// project.
	ModeProjectFolder
	// ModeInline stores the configuration JSON inside the settings file and
	// materialises it into a temp file per invocation.
	ModeInline
)

func (m Mode) String() string {
	switch m {
	case ModeProjectFolder:
		return "project-folder"
	case ModeInline:
		return "inline"
	default:
		return "none"
	}
}

// Settings is a plain value; callers take one snapshot at the start of a
// formatting operation and never re-read it mid-flight.
type Settings struct {
	Enabled         Enablement
	SwiftFormatPath string
	Mode            Mode

	// Folder is the project folder holding .swift-format when Mode is
	// ModeProjectFolder.
	Folder string
	// InlineJSON is the configuration document when Mode is ModeInline.
	InlineJSON string
}

func New() Settings {
	return Settings{Enabled: Unknown}
}

// persisted is the stored schema. The two custom configuration variants
// share the config field and are disambiguated by whether the stored string
// starts with a JSON object.
type persisted struct {
	Enabled                string `json:"enabled"`
	SwiftFormatPath        string `json:"swiftFormatPath"`
	UseCustomConfiguration bool   `json:"useCustomConfiguration"`
	Config                 string `json:"config,omitempty"`
}

// Load reads the settings file from the given metadata folder. A missing
// file yields the first-run defaults, not an error.
func Load(dir string) (Settings, error) {
	bytes, err := os.ReadFile(filepath.Join(dir, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	} else if err != nil {
		return New(), fmt.Errorf("failed to read settings: %w", err)
	}

	var p persisted
	if err := json.Unmarshal(bytes, &p); err != nil {
		return New(), fmt.Errorf("failed to parse settings: %w", err)
	}

	s := Settings{SwiftFormatPath: p.SwiftFormatPath}

	switch Enablement(p.Enabled) {
	case Enabled, Disabled:
		s.Enabled = Enablement(p.Enabled)
	default:
		s.Enabled = Unknown
	}

	if p.UseCustomConfiguration {
		if strings.HasPrefix(strings.TrimSpace(p.Config), "{") {
			s.Mode = ModeInline
			s.InlineJSON = p.Config
		} else {
			s.Mode = ModeProjectFolder
			s.Folder = p.Config
		}
	}

	return s, nil
}

// Save writes the settings file into the given metadata folder, creating the
// folder if needed.
func (s Settings) Save(dir string) error {
	p := persisted{
		Enabled:         string(s.Enabled),
		SwiftFormatPath: s.SwiftFormatPath,
	}

	switch s.Mode {
	case ModeProjectFolder:
		p.UseCustomConfiguration = true
		p.Config = s.Folder
	case ModeInline:
		p.UseCustomConfiguration = true
		p.Config = s.InlineJSON
	case ModeNone:
	}

	bytes, err := json.MarshalIndent(&p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create settings folder: %w", err)
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, append(bytes, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write settings to %s: %w", path, err)
	}

	return nil
}
