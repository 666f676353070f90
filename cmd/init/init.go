// Package init generates a starter .swift-format file.
package init

import (
	"fmt"
	"os"

	"github.com/swiftbridge/swiftbridge/config"
	"github.com/swiftbridge/swiftbridge/resolve"
)

// Run writes a fully populated .swift-format file into the current
// directory. indent and lineLength are assumed to be pre-clamped by the
// caller.
func Run(indent int, lineLength int) error {
	cfg := config.Default()
	cfg.Indentation = config.SpacesIndentation(indent)
	cfg.LineLength = &lineLength

	text, err := cfg.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to render default configuration: %w", err)
	}

	if err := os.WriteFile(resolve.ConfigFileName, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", resolve.ConfigFileName, err)
	}

	fmt.Printf("Generated %s. Now it's your turn to edit it.\n", resolve.ConfigFileName)

	return nil
}
