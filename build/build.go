// Package build captures build-time metadata, overridden via ldflags on release.
package build

var (
	Name    = "swiftbridge"
	Version = "dev"
)
