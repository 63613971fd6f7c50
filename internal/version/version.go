// Package version holds build metadata set through -ldflags.
package version

// Version is overridden at build time:
//
//	go build -ldflags "-X github.com/bnema/rally-cli/internal/version.Version=v0.3.0" ./cmd/rally
var Version = "dev"
