// SPDX-License-Identifier: MIT
//
// Package build provides the build information embedded at compile time with
// linker flags: application name, build timestamp, Git commit hash and
// semantic version. Development builds without ldflags fall back to the
// module's build info and "unknown".
package build

import (
	"fmt"
	"runtime/debug"
)

// DefaultName is used when no name was injected.
const DefaultName = "gifsync"

// Description is the one-line summary shown in --help.
const Description = "Sync the frames of an animated GIF to the loudness of an audio track"

const unknown = "unknown"

type ldFlags struct {
	Name    string
	Time    string
	Commit  string
	Version string
}

// String formats the flags for the version command.
func (f *ldFlags) String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", f.Name, f.Version, f.Commit, f.Time)
}

// Package-level variables for build information. These are populated by -ldflags
// during compilation.
var (
	buildName    string
	buildTime    string
	buildCommit  string
	buildVersion string
	buildFlags   = &ldFlags{
		Name:    DefaultName,
		Time:    unknown,
		Commit:  unknown,
		Version: unknown,
	}
)

// Initialize copies the ldflags variables into the build flags. When none
// were injected it reads the module build info instead; a partial set of
// ldflags is an error since it points at a broken release script.
func Initialize() error {
	if buildName == "" && buildTime == "" && buildCommit == "" && buildVersion == "" {
		fromBuildInfo(buildFlags)
		return nil
	}

	if buildName == "" {
		return fmt.Errorf("BuildName is required")
	}
	if buildTime == "" {
		return fmt.Errorf("BuildTime is required")
	}
	if buildCommit == "" {
		return fmt.Errorf("BuildCommit is required")
	}
	if buildVersion == "" {
		return fmt.Errorf("BuildVersion is required")
	}

	buildFlags.Name = buildName
	buildFlags.Time = buildTime
	buildFlags.Commit = buildCommit
	buildFlags.Version = buildVersion

	return nil
}

// fromBuildInfo fills flags from the toolchain's embedded VCS stamp.
func fromBuildInfo(flags *ldFlags) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		flags.Version = v
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			flags.Commit = s.Value
		case "vcs.time":
			flags.Time = s.Value
		}
	}
}

// GetBuildFlags returns the current build information. Initialize()
// should be called first.
func GetBuildFlags() *ldFlags {
	return buildFlags
}
