package config

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrParse is returned by FromJSON when the input is not a valid
// configuration document.
var ErrParse = errors.New("invalid configuration JSON")

// configJSON is the wire form of Configuration. Field names and shapes match
// the .swift-format file format; unset fields are omitted, never written as
// null.
type configJSON struct {
	Indentation                                       *indentationJSON `json:"indentation,omitempty"`
	TabWidth                                          *int             `json:"tabWidth,omitempty"`
	LineLength                                        *int             `json:"lineLength,omitempty"`
	MaximumBlankLines                                 *int             `json:"maximumBlankLines,omitempty"`
	RespectsExistingLineBreaks                        *bool            `json:"respectsExistingLineBreaks,omitempty"`
	LineBreakBeforeControlFlowKeywords                *bool            `json:"lineBreakBeforeControlFlowKeywords,omitempty"`
	LineBreakBeforeEachArgument                       *bool            `json:"lineBreakBeforeEachArgument,omitempty"`
	LineBreakBeforeEachGenericRequirement             *bool            `json:"lineBreakBeforeEachGenericRequirement,omitempty"`
	PrioritizeKeepingFunctionOutputTogether           *bool            `json:"prioritizeKeepingFunctionOutputTogether,omitempty"`
	IndentConditionalCompilationBlocks                *bool            `json:"indentConditionalCompilationBlocks,omitempty"`
	LineBreakAroundMultilineExpressionChainComponents *bool            `json:"lineBreakAroundMultilineExpressionChainComponents,omitempty"`
	FileScopedDeclarationPrivacy                      *privacyJSON     `json:"fileScopedDeclarationPrivacy,omitempty"`
	Rules                                             map[string]*bool `json:"rules,omitempty"`
	Version                                           *int             `json:"version,omitempty"`
}

type indentationJSON struct {
	Spaces *int `json:"spaces,omitempty"`
	Tabs   *int `json:"tabs,omitempty"`
}

type privacyJSON struct {
	AccessLevel *string `json:"accessLevel,omitempty"`
}

// ToJSON serialises c as a pretty printed .swift-format document. Unset
// fields are omitted entirely.
func (c *Configuration) ToJSON() (string, error) {
	wire := configJSON{
		TabWidth:                              c.TabWidth,
		LineLength:                            c.LineLength,
		MaximumBlankLines:                     c.MaximumBlankLines,
		RespectsExistingLineBreaks:            c.RespectsExistingLineBreaks,
		LineBreakBeforeControlFlowKeywords:    c.LineBreakBeforeControlFlowKeywords,
		LineBreakBeforeEachArgument:           c.LineBreakBeforeEachArgument,
		LineBreakBeforeEachGenericRequirement: c.LineBreakBeforeEachGenericRequirement,
		PrioritizeKeepingFunctionOutputTogether:           c.PrioritizeKeepingFunctionOutputTogether,
		IndentConditionalCompilationBlocks:                c.IndentConditionalCompilationBlocks,
		LineBreakAroundMultilineExpressionChainComponents: c.LineBreakAroundMultilineExpressionChainComponents,
		Version: c.Version,
	}

	if c.Indentation != nil {
		wire.Indentation = &indentationJSON{Spaces: c.Indentation.Spaces, Tabs: c.Indentation.Tabs}
	}

	if c.FileScopedDeclarationPrivacy != nil {
		wire.FileScopedDeclarationPrivacy = &privacyJSON{AccessLevel: c.FileScopedDeclarationPrivacy}
	}

	if len(c.Rules) > 0 {
		wire.Rules = make(map[string]*bool, len(c.Rules))

		for name, enabled := range c.Rules {
			enabled := enabled
			wire.Rules[name] = &enabled
		}
	}

	bytes, err := json.MarshalIndent(&wire, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal configuration: %w", err)
	}

	return string(bytes) + "\n", nil
}

// FromJSON parses a .swift-format document. Unknown fields are ignored and a
// field holding null is treated as unset, not as an explicit zero value.
func FromJSON(text string) (Configuration, error) {
	var wire configJSON

	if err := json.Unmarshal([]byte(text), &wire); err != nil {
		return Configuration{}, fmt.Errorf("%w: %v", ErrParse, err)
	}

	cfg := Configuration{
		Version:                               wire.Version,
		TabWidth:                              wire.TabWidth,
		LineLength:                            wire.LineLength,
		MaximumBlankLines:                     wire.MaximumBlankLines,
		RespectsExistingLineBreaks:            wire.RespectsExistingLineBreaks,
		LineBreakBeforeControlFlowKeywords:    wire.LineBreakBeforeControlFlowKeywords,
		LineBreakBeforeEachArgument:           wire.LineBreakBeforeEachArgument,
		LineBreakBeforeEachGenericRequirement: wire.LineBreakBeforeEachGenericRequirement,
		PrioritizeKeepingFunctionOutputTogether:           wire.PrioritizeKeepingFunctionOutputTogether,
		IndentConditionalCompilationBlocks:                wire.IndentConditionalCompilationBlocks,
		LineBreakAroundMultilineExpressionChainComponents: wire.LineBreakAroundMultilineExpressionChainComponents,
	}

	if wire.Indentation != nil && (wire.Indentation.Spaces != nil || wire.Indentation.Tabs != nil) {
		cfg.Indentation = &Indentation{Spaces: wire.Indentation.Spaces, Tabs: wire.Indentation.Tabs}
	}

	if wire.FileScopedDeclarationPrivacy != nil && wire.FileScopedDeclarationPrivacy.AccessLevel != nil {
		cfg.FileScopedDeclarationPrivacy = wire.FileScopedDeclarationPrivacy.AccessLevel
	}

	for name, enabled := range wire.Rules {
		// a rule entry holding null is dropped rather than read as false
		if enabled == nil {
			continue
		}

		if cfg.Rules == nil {
			cfg.Rules = make(map[string]bool)
		}

		cfg.Rules[name] = *enabled
	}

	return cfg, nil
}
