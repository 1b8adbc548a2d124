package version

// Version is the current terminal release. Overridden at build time with
// -ldflags "-X github.com/SolanaRemix/terminal/internal/version.Version=...".
var Version = "1.0.0"

// FullVersion returns the version with the v prefix
func FullVersion() string {
	return "v" + Version
}
