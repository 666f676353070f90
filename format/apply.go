package format

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// WriterApplier streams the formatted text to a writer, used by the stdin
// path to emit results on stdout.
type WriterApplier struct {
	W io.Writer
}

func (a WriterApplier) Apply(_ context.Context, _ Document, formatted string) error {
	if _, err := io.WriteString(a.W, formatted); err != nil {
		return fmt.Errorf("failed to write formatted text: %w", err)
	}

	return nil
}

// FileApplier replaces the document's file on disk, writing a sibling temp
// file and renaming it over the original so readers never observe a partial
// write.
type FileApplier struct{}

func (a FileApplier) Apply(_ context.Context, doc Document, formatted string) error {
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(doc.Path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(doc.Path)

	tmp, err := os.CreateTemp(dir, filepath.Base(doc.Path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}

	name := tmp.Name()

	if _, err = tmp.WriteString(formatted); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)

		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	if err = tmp.Close(); err != nil {
		_ = os.Remove(name)

		return fmt.Errorf("failed to close %s: %w", name, err)
	}

	if err = os.Chmod(name, mode); err != nil {
		_ = os.Remove(name)

		return fmt.Errorf("failed to set mode on %s: %w", name, err)
	}

	if err = os.Rename(name, doc.Path); err != nil {
		_ = os.Remove(name)

		return fmt.Errorf("failed to replace %s: %w", doc.Path, err)
	}

	return nil
}
