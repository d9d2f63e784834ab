// Package version carries build identity injected at link time.
package version

// Commit is set via -ldflags "-X rep-api/internal/version.Commit=<sha>".
var Commit = "dev"
