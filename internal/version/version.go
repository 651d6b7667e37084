// Package version holds build information set via ldflags.
package version

var (
	// Version is the semantic version, e.g. "1.2.0".
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"
)

// UserAgent identifies this client to the Harvest API.
func UserAgent() string {
	return "harvest-timer/" + Version + " (Harvest Linux)"
}
