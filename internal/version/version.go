// Package version holds build identification, overridable at link time:
//
//	go build -ldflags "-X github.com/notewell/meetscribe/internal/version.Version=1.2.3"
package version

var (
	// Version is the semantic version of this build.
	Version = "0.3.0"

	// Commit is the VCS revision the binary was built from.
	Commit = "dev"
)

// Full returns the human-readable version string.
func Full() string {
	return "meetscribe " + Version + " (" + Commit + ")"
}
