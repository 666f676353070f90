// Package rules holds the catalog of swift-format style rules and their
// platform defaults. The catalog is fixed at build time; a subset of it (the
// formatter rules) can be toggled per project, the rest is fixed behaviour of
// the external tool.
package rules

// Rule describes a single named style rule recognised by swift-format.
type Rule struct {
	Name string
	// Default is the rule's default enablement. A nil Default means the
	// external tool decides and we never write an override for it.
	Default *bool
	// Formatter marks rules which affect layout and may be toggled via the
	// rules map in a configuration file. Non-formatter rules are lint only.
	Formatter bool
}

func on() *bool  { v := true; return &v }
func off() *bool { v := false; return &v }

// catalog is ordered; the order is surfaced as-is to editing UIs.
var catalog = []Rule{
	{Name: "AllPublicDeclarationsHaveDocumentation", Default: off()},
	{Name: "AlwaysUseLowerCamelCase", Default: on()},
	{Name: "AmbiguousTrailingClosureOverload", Default: on()},
	{Name: "BeginDocumentationCommentWithOneLineSummary", Default: off()},
	{Name: "DoNotUseSemicolons", Default: on(), Formatter: true},
	{Name: "DontRepeatTypeInStaticProperties", Default: on()},
	{Name: "FileScopedDeclarationPrivacy", Default: on(), Formatter: true},
	{Name: "FullyIndirectEnum", Default: on(), Formatter: true},
	{Name: "GroupNumericLiterals", Default: on(), Formatter: true},
	{Name: "IdentifiersMustBeASCII", Default: on()},
	{Name: "NeverForceUnwrap", Default: off()},
	{Name: "NeverUseForceTry", Default: off()},
	{Name: "NeverUseImplicitlyUnwrappedOptionals", Default: off()},
	{Name: "NoAccessLevelOnExtensionDeclaration", Default: on(), Formatter: true},
	{Name: "NoBlockComments", Default: on()},
	{Name: "NoCasesWithOnlyFallthrough", Default: on(), Formatter: true},
	{Name: "NoEmptyTrailingClosureParentheses", Default: on(), Formatter: true},
	{Name: "NoLabelsInCasePatterns", Default: on(), Formatter: true},
	{Name: "NoLeadingUnderscores", Default: off()},
	{Name: "NoParensAroundConditions", Default: on(), Formatter: true},
	{Name: "NoVoidReturnOnFunctionSignature", Default: on(), Formatter: true},
	{Name: "OneCasePerLine", Default: on(), Formatter: true},
	{Name: "OneVariableDeclarationPerLine", Default: on(), Formatter: true},
	{Name: "OnlyOneTrailingClosureArgument", Default: on()},
	{Name: "OrderedImports", Default: on(), Formatter: true},
	{Name: "ReturnVoidInsteadOfEmptyTuple", Default: on(), Formatter: true},
	{Name: "UseEarlyExits", Default: off(), Formatter: true},
	{Name: "UseLetInEveryBoundCaseVariable", Default: on()},
	{Name: "UseShorthandTypeNames", Default: on(), Formatter: true},
	{Name: "UseSingleLinePropertyGetter", Default: on(), Formatter: true},
	{Name: "UseSynthesizedInitializer", Default: on()},
	{Name: "UseTripleSlashForDocumentationComments", Default: on(), Formatter: true},
	{Name: "UseWhereClausesInForLoops", Default: off(), Formatter: true},
	{Name: "ValidateDocumentationComments", Default: off()},
}

var byName = func() map[string]Rule {
	m := make(map[string]Rule, len(catalog))
	for _, r := range catalog {
		m[r.Name] = r
	}

	return m
}()

// All returns the full catalog in its fixed order.
func All() []Rule {
	out := make([]Rule, len(catalog))
	copy(out, catalog)

	return out
}

func Lookup(name string) (Rule, bool) {
	r, ok := byName[name]

	return r, ok
}

// IsFormatterRule reports whether name identifies a user-configurable
// formatter rule.
func IsFormatterRule(name string) bool {
	r, ok := byName[name]

	return ok && r.Formatter
}

// FormatterRules returns the user-configurable subset of the catalog,
// preserving catalog order.
func FormatterRules() []Rule {
	var out []Rule

	for _, r := range catalog {
		if r.Formatter {
			out = append(out, r)
		}
	}

	return out
}

// FormatterDefaults returns the default enablement for every formatter rule.
// Rules without a platform default are reported as disabled.
func FormatterDefaults() map[string]bool {
	out := make(map[string]bool)

	for _, r := range catalog {
		if r.Formatter {
			out[r.Name] = Default(r.Name)
		}
	}

	return out
}

// Default returns the default enablement for name, false when the rule is
// unknown or carries no platform default.
func Default(name string) bool {
	r, ok := byName[name]
	if !ok || r.Default == nil {
		return false
	}

	return *r.Default
}
