// Package resolve determines where the effective swift-format configuration
// for an invocation comes from: nowhere, a .swift-format file inside the
// project, or a temp file materialised from inline JSON.
//
// Resolution never fails an invocation. Any problem degrades to "no custom
// configuration" so the user still gets best-effort default formatting.
package resolve

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/swiftbridge/swiftbridge/project"
	"github.com/swiftbridge/swiftbridge/settings"
)

// ConfigFileName is the well-known configuration file swift-format reads.
const ConfigFileName = ".swift-format"

// Validation errors for a candidate configuration folder. Exactly one of
// these is reported per invalid folder.
var (
	ErrFolderEmpty          = errors.New("no configuration folder specified")
	ErrFolderNotDirectory   = errors.New("configuration folder is not a directory")
	ErrFolderOutsideProject = errors.New("configuration folder is outside the project")
	ErrFolderExcluded       = errors.New("configuration folder is excluded from the project")
)

// Resolution is the outcome of resolving a configuration source. An empty
// ConfigPath means the formatter runs with its built-in defaults.
type Resolution struct {
	ConfigPath string

	release func() error
}

// Release removes any temp file created during resolution. It must be called
// on every code path once the invocation has finished with the config file.
func (r *Resolution) Release() {
	if r.release == nil {
		return
	}

	if err := r.release(); err != nil {
		log.WithPrefix("resolve").Errorf("failed to release configuration: %v", err)
	}

	r.release = nil
}

// Resolve maps the configured mode to a concrete configuration path for one
// invocation.
func Resolve(proj *project.Project, st settings.Settings) *Resolution {
	l := log.WithPrefix("resolve")

	switch st.Mode {
	case settings.ModeProjectFolder:
		if err := ValidateFolder(proj, st.Folder); err != nil {
			// surfaced as a validation message by the settings surface; at
			// invocation time we quietly fall back to defaults
			l.Warnf("invalid configuration folder %q: %v", st.Folder, err)

			return &Resolution{}
		}

		path := filepath.Join(st.Folder, ConfigFileName)
		if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
			l.Debugf("no %s file in %s, using defaults", ConfigFileName, st.Folder)

			return &Resolution{}
		}

		return &Resolution{ConfigPath: path}

	case settings.ModeInline:
		res, err := materialize(st.InlineJSON)
		if err != nil {
			// a write failure is logged and formatting proceeds best effort
			l.Errorf("failed to materialize inline configuration: %v", err)

			return &Resolution{}
		}

		return res

	case settings.ModeNone:
	}

	return &Resolution{}
}

// materialize writes json into a uniquely named temp file owned by a single
// invocation.
func materialize(json string) (*Resolution, error) {
	file, err := os.CreateTemp("", "swift-format-*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to create a temp configuration file: %w", err)
	}

	name := file.Name()

	remove := func() error {
		if err := os.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove temp configuration file %s: %w", name, err)
		}

		return nil
	}

	if _, err = file.WriteString(json); err != nil {
		_ = file.Close()
		_ = remove()

		return nil, fmt.Errorf("failed to write temp configuration file %s: %w", name, err)
	}

	if err = file.Close(); err != nil {
		_ = remove()

		return nil, fmt.Errorf("failed to close temp configuration file %s: %w", name, err)
	}

	return &Resolution{ConfigPath: name, release: remove}, nil
}

// ValidateFolder gates the project-folder mode. The folder must be non
// empty, resolve to an existing directory (walking up to the nearest
// existing ancestor for not-yet-created paths) and sit inside the project's
// content roots. The project metadata folder is always valid.
func ValidateFolder(proj *project.Project, folder string) error {
	folder = strings.TrimSpace(folder)
	if folder == "" {
		return ErrFolderEmpty
	}

	abs, err := filepath.Abs(folder)
	if err != nil {
		return ErrFolderNotDirectory
	}

	if abs == proj.MetadataDir() {
		return nil
	}

	// walk up to the nearest existing ancestor
	existing := abs
	for {
		if _, err := os.Stat(existing); err == nil {
			break
		}

		parent := filepath.Dir(existing)
		if parent == existing {
			break
		}

		existing = parent
	}

	if info, err := os.Stat(existing); err != nil || !info.IsDir() {
		return ErrFolderNotDirectory
	}

	if !proj.Contains(abs) {
		return ErrFolderOutsideProject
	}

	if proj.Excluded(abs) {
		return ErrFolderExcluded
	}

	return nil
}
