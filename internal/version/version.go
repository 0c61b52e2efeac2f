// Package version holds build information for the recorder binaries.
//
// Set at link time:
//
//	go build -ldflags "-X github.com/rickgao/myfxbook-data/internal/version.Version=1.0.0 \
//	                   -X github.com/rickgao/myfxbook-data/internal/version.Commit=$(git rev-parse --short HEAD) \
//	                   -X github.com/rickgao/myfxbook-data/internal/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package version

import "log/slog"

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String returns "<version> (<commit>) built <time>".
func String() string {
	return Version + " (" + Commit + ") built " + BuildTime
}

// Group returns the build information as a slog group.
func Group() slog.Attr {
	return slog.Group("build",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("time", BuildTime),
	)
}
