package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/arthur-debert/relocate/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/arthur-debert/relocate/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/arthur-debert/relocate/internal/version.Date={{.Date}}
)

// String returns the version with its build metadata.
func String() string {
	return Version + " (commit " + Commit + ", built " + Date + ")"
}
