// Package version provides shared version information and a reusable
// version command.
package version

import "fmt"

// Info holds build-time version information.
type Info struct {
	Version   string `json:"version"`
	BuildDate string `json:"buildDate"`
	GitCommit string `json:"gitCommit"`
	Name      string `json:"name"`
}

// New creates a new Info with default values. Version, BuildDate and
// GitCommit are expected to be set via ldflags at build time.
func New(name string) *Info {
	return &Info{
		Version:   "0.0.0-dev",
		BuildDate: "unknown",
		GitCommit: "unknown",
		Name:      name,
	}
}

// String returns a human-readable version string.
func (i *Info) String() string {
	return fmt.Sprintf("%s version %s (commit: %s, built: %s)", i.Name, i.Version, i.GitCommit, i.BuildDate)
}
