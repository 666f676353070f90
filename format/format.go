// Package format orchestrates a single formatting operation: snapshot the
// settings, resolve the configuration source, invoke swift-format and hand a
// successful result to an Applier.
package format

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/swiftbridge/swiftbridge/invoke"
	"github.com/swiftbridge/swiftbridge/project"
	"github.com/swiftbridge/swiftbridge/resolve"
	"github.com/swiftbridge/swiftbridge/settings"
)

// Document is the text being formatted plus the path identifying it.
type Document struct {
	Path string
	Text string
}

// Applier splices a successful formatting result back into the live
// document. Implementations must replace the full original text atomically;
// on any non-success outcome no replacement is requested.
type Applier interface {
	Apply(ctx context.Context, doc Document, formatted string) error
}

// Session carries one consistent snapshot of the per-project state. Concurrent
// sessions are independent; nothing here is shared mutable state.
type Session struct {
	Project  *project.Project
	Settings settings.Settings

	log *log.Logger
}

func NewSession(proj *project.Project, st settings.Settings) *Session {
	return &Session{
		Project:  proj,
		Settings: st,
		log:      log.WithPrefix("format"),
	}
}

// Format runs one invocation for doc. The error return is reserved for
// cancellation; everything else is classified in the Outcome.
func (s *Session) Format(ctx context.Context, doc Document) (invoke.Outcome, error) {
	executable, err := invoke.ResolveExecutable(s.Project.Root, s.Settings.SwiftFormatPath)
	if err != nil {
		return invoke.Outcome{
			Status:  invoke.FailedToStart,
			Message: err.Error(),
			Cause:   err,
		}, nil
	}

	res := resolve.Resolve(s.Project, s.Settings)
	defer res.Release()

	return invoke.Run(ctx, invoke.Request{
		Executable: executable,
		Text:       doc.Text,
		ConfigPath: res.ConfigPath,
	})
}

// FormatAndApply formats doc and, on success, asks the applier to replace
// the document text. An unchanged result is not applied.
func (s *Session) FormatAndApply(ctx context.Context, doc Document, applier Applier) (invoke.Outcome, error) {
	outcome, err := s.Format(ctx, doc)
	if err != nil {
		return outcome, err
	}

	if outcome.Status != invoke.Success {
		return outcome, nil
	}

	if outcome.FormattedText == doc.Text {
		s.log.Debugf("%s is already formatted", doc.Path)

		return outcome, nil
	}

	if err := applier.Apply(ctx, doc, outcome.FormattedText); err != nil {
		return outcome, fmt.Errorf("failed to apply formatted text to %s: %w", doc.Path, err)
	}

	return outcome, nil
}

// Describe maps an outcome to the user-facing notification text.
func Describe(outcome invoke.Outcome) string {
	switch outcome.Status {
	case invoke.Success:
		return ""
	case invoke.FailedToStart:
		return "swift-format could not be launched, check the configured executable path"
	case invoke.BadSyntax:
		return "the file could not be safely reformatted"
	default:
		return outcome.Message
	}
}
