// Package config models the swift-format configuration consumed via the
// --configuration flag. Every field is optional; an unset field inherits its
// value from the tool's defaults at read time.
package config

import "github.com/swiftbridge/swiftbridge/rules"

// Access levels accepted by fileScopedDeclarationPrivacy.
const (
	AccessLevelPrivate     = "private"
	AccessLevelFilePrivate = "fileprivate"
)

// CurrentVersion is the configuration schema version we read and write.
const CurrentVersion = 1

// Indentation is a tagged variant: exactly one of Spaces or Tabs is non-nil
// when set explicitly.
type Indentation struct {
	Spaces *int
	Tabs   *int
}

func SpacesIndentation(count int) *Indentation {
	return &Indentation{Spaces: &count}
}

func TabsIndentation(count int) *Indentation {
	return &Indentation{Tabs: &count}
}

func (i *Indentation) equal(other *Indentation) bool {
	switch {
	case i == nil || other == nil:
		return i == other
	case i.Spaces != nil && other.Spaces != nil:
		return *i.Spaces == *other.Spaces
	case i.Tabs != nil && other.Tabs != nil:
		return *i.Tabs == *other.Tabs
	default:
		return false
	}
}

// Configuration is a set of optional formatting options. A nil field means
// "inherit the default"; the zero value is the fully-inherited configuration.
type Configuration struct {
	Version                                           *int
	Indentation                                       *Indentation
	TabWidth                                          *int
	LineLength                                        *int
	MaximumBlankLines                                 *int
	RespectsExistingLineBreaks                        *bool
	LineBreakBeforeControlFlowKeywords                *bool
	LineBreakBeforeEachArgument                       *bool
	LineBreakBeforeEachGenericRequirement             *bool
	PrioritizeKeepingFunctionOutputTogether           *bool
	IndentConditionalCompilationBlocks                *bool
	LineBreakAroundMultilineExpressionChainComponents *bool
	FileScopedDeclarationPrivacy                      *string

	// Rules maps a rule name to an explicit override. Keys outside the
	// formatter-rule subset are preserved on round trips but have no effect
	// on IsDefault or the editing surface.
	Rules map[string]bool
}

// Effective is a configuration with every option resolved to a concrete
// value.
type Effective struct {
	Version                                           int
	Indentation                                       Indentation
	TabWidth                                          int
	LineLength                                        int
	MaximumBlankLines                                 int
	RespectsExistingLineBreaks                        bool
	LineBreakBeforeControlFlowKeywords                bool
	LineBreakBeforeEachArgument                       bool
	LineBreakBeforeEachGenericRequirement             bool
	PrioritizeKeepingFunctionOutputTogether           bool
	IndentConditionalCompilationBlocks                bool
	LineBreakAroundMultilineExpressionChainComponents bool
	FileScopedDeclarationPrivacy                      string
	Rules                                             map[string]bool
}

// defaults mirrors swift-format's own built-in configuration.
var defaults = Effective{
	Version:                            CurrentVersion,
	Indentation:                        *SpacesIndentation(2),
	TabWidth:                           8,
	LineLength:                         100,
	MaximumBlankLines:                  1,
	RespectsExistingLineBreaks:         true,
	IndentConditionalCompilationBlocks: true,
	FileScopedDeclarationPrivacy:       AccessLevelPrivate,
}

// Merge resolves c against the defaults, returning a concrete value for
// every option. Rule overrides fall back to the rule's own default, then to
// false.
func (c *Configuration) Merge() Effective {
	out := defaults
	out.Indentation = *SpacesIndentation(*defaults.Indentation.Spaces)
	out.Rules = rules.FormatterDefaults()

	if c.Version != nil {
		out.Version = *c.Version
	}

	if c.Indentation != nil {
		out.Indentation = *c.Indentation
	}

	if c.TabWidth != nil {
		out.TabWidth = *c.TabWidth
	}

	if c.LineLength != nil {
		out.LineLength = *c.LineLength
	}

	if c.MaximumBlankLines != nil {
		out.MaximumBlankLines = *c.MaximumBlankLines
	}

	if c.RespectsExistingLineBreaks != nil {
		out.RespectsExistingLineBreaks = *c.RespectsExistingLineBreaks
	}

	if c.LineBreakBeforeControlFlowKeywords != nil {
		out.LineBreakBeforeControlFlowKeywords = *c.LineBreakBeforeControlFlowKeywords
	}

	if c.LineBreakBeforeEachArgument != nil {
		out.LineBreakBeforeEachArgument = *c.LineBreakBeforeEachArgument
	}

	if c.LineBreakBeforeEachGenericRequirement != nil {
		out.LineBreakBeforeEachGenericRequirement = *c.LineBreakBeforeEachGenericRequirement
	}

	if c.PrioritizeKeepingFunctionOutputTogether != nil {
		out.PrioritizeKeepingFunctionOutputTogether = *c.PrioritizeKeepingFunctionOutputTogether
	}

	if c.IndentConditionalCompilationBlocks != nil {
		out.IndentConditionalCompilationBlocks = *c.IndentConditionalCompilationBlocks
	}

	if c.LineBreakAroundMultilineExpressionChainComponents != nil {
		out.LineBreakAroundMultilineExpressionChainComponents = *c.LineBreakAroundMultilineExpressionChainComponents
	}

	if c.FileScopedDeclarationPrivacy != nil {
		out.FileScopedDeclarationPrivacy = *c.FileScopedDeclarationPrivacy
	}

	for name, enabled := range c.Rules {
		out.Rules[name] = enabled
	}

	return out
}

// IsDefault reports whether c diverges from the defaults in any way. Rule
// overrides are only considered for formatter-rule keys; anything else in
// the map is ignored.
func (c *Configuration) IsDefault() bool {
	if c.Version != nil && *c.Version != defaults.Version {
		return false
	}

	if c.Indentation != nil && !c.Indentation.equal(&defaults.Indentation) {
		return false
	}

	intFields := []struct {
		value *int
		def   int
	}{
		{c.TabWidth, defaults.TabWidth},
		{c.LineLength, defaults.LineLength},
		{c.MaximumBlankLines, defaults.MaximumBlankLines},
	}

	for _, f := range intFields {
		if f.value != nil && *f.value != f.def {
			return false
		}
	}

	boolFields := []struct {
		value *bool
		def   bool
	}{
		{c.RespectsExistingLineBreaks, defaults.RespectsExistingLineBreaks},
		{c.LineBreakBeforeControlFlowKeywords, defaults.LineBreakBeforeControlFlowKeywords},
		{c.LineBreakBeforeEachArgument, defaults.LineBreakBeforeEachArgument},
		{c.LineBreakBeforeEachGenericRequirement, defaults.LineBreakBeforeEachGenericRequirement},
		{c.PrioritizeKeepingFunctionOutputTogether, defaults.PrioritizeKeepingFunctionOutputTogether},
		{c.IndentConditionalCompilationBlocks, defaults.IndentConditionalCompilationBlocks},
		{c.LineBreakAroundMultilineExpressionChainComponents, defaults.LineBreakAroundMultilineExpressionChainComponents},
	}

	for _, f := range boolFields {
		if f.value != nil && *f.value != f.def {
			return false
		}
	}

	if c.FileScopedDeclarationPrivacy != nil && *c.FileScopedDeclarationPrivacy != defaults.FileScopedDeclarationPrivacy {
		return false
	}

	for name, enabled := range c.Rules {
		if !rules.IsFormatterRule(name) {
			continue
		}

		if enabled != rules.Default(name) {
			return false
		}
	}

	return true
}

// Default returns a configuration with every option and formatter rule set
// explicitly to its default value, e.g. for generating a starter
// .swift-format file.
func Default() Configuration {
	d := defaults

	return Configuration{
		Version:                               &d.Version,
		Indentation:                           SpacesIndentation(*defaults.Indentation.Spaces),
		TabWidth:                              &d.TabWidth,
		LineLength:                            &d.LineLength,
		MaximumBlankLines:                     &d.MaximumBlankLines,
		RespectsExistingLineBreaks:            &d.RespectsExistingLineBreaks,
		LineBreakBeforeControlFlowKeywords:    &d.LineBreakBeforeControlFlowKeywords,
		LineBreakBeforeEachArgument:           &d.LineBreakBeforeEachArgument,
		LineBreakBeforeEachGenericRequirement: &d.LineBreakBeforeEachGenericRequirement,
		PrioritizeKeepingFunctionOutputTogether: &d.PrioritizeKeepingFunctionOutputTogether,
		IndentConditionalCompilationBlocks:      &d.IndentConditionalCompilationBlocks,
		LineBreakAroundMultilineExpressionChainComponents: &d.LineBreakAroundMultilineExpressionChainComponents,
		FileScopedDeclarationPrivacy:                      &d.FileScopedDeclarationPrivacy,
		Rules: rules.FormatterDefaults(),
	}
}

// Clamp bounds an integer option to the range accepted by editing surfaces.
// It is a UI concern, not a Configuration invariant.
func Clamp(n int) int {
	switch {
	case n < 0:
		return 0
	case n > 10000:
		return 10000
	default:
		return n
	}
}
