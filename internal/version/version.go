// Package version holds the build version string.
package version

// Version is the current release version, overridable at build time via
// -ldflags "-X github.com/Beo-Alvaro/contra-eris/internal/version.Version=..."
var Version = "0.3.0"
