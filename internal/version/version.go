package version

import "fmt"

// Set at build time with -ldflags "-X github.com/ottersport/ottersport/internal/version.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = ""
	Dirty   = "false"
)

// String is the one-line form printed by the command-line tools.
func String() string {
	s := fmt.Sprintf("%s (%s", Version, Commit)
	if Dirty == "true" {
		s += ", dirty"
	}
	if Date != "" {
		s += ", " + Date
	}
	return s + ")"
}
