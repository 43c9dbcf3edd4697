// Package updatecheck tells users when a newer release of their tool exists.
//
// The latest version comes from either the Go module proxy (the /@latest
// endpoint) or the latest GitHub release. Results are cached in update.json
// under the tool's data directory and refreshed at most once per Interval.
//
//	status, err := updatecheck.CheckForUpdates(ctx, updatecheck.Options{
//		ModulePath:     "github.com/acme/tool",
//		CurrentVersion: buildinfo.Version,
//	}, true, false, true)
package updatecheck
