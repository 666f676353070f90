package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCatalogIsStable(t *testing.T) {
	as := require.New(t)

	all := All()
	as.NotEmpty(all)

	// the catalog order is fixed and surfaced to editing UIs as-is
	as.Equal(all, All())

	for _, r := range all {
		got, ok := Lookup(r.Name)
		as.True(ok, r.Name)
		as.Equal(r.Name, got.Name)
	}

	_, ok := Lookup("NoSuchRule")
	as.False(ok)
}

func TestFormatterSubset(t *testing.T) {
	as := require.New(t)

	subset := FormatterRules()
	as.NotEmpty(subset)
	as.Less(len(subset), len(All()))

	for _, r := range subset {
		as.True(r.Formatter, r.Name)
		as.True(IsFormatterRule(r.Name), r.Name)
	}

	// lint-only rules are not formatter rules
	as.False(IsFormatterRule("NeverForceUnwrap"))
	as.False(IsFormatterRule("NoSuchRule"))
}

func TestFormatterDefaults(t *testing.T) {
	as := require.New(t)

	defaults := FormatterDefaults()
	as.Len(defaults, len(FormatterRules()))

	as.True(defaults["DoNotUseSemicolons"])
	as.False(defaults["UseEarlyExits"])

	for name, enabled := range defaults {
		as.Equal(Default(name), enabled, name)
	}

	// unknown rules have no default
	as.False(Default("NoSuchRule"))
}
