// Package buildinfo describes the binary: version, commit and date are
// injected with -ldflags at build time, the compiler is taken from runtime.
package buildinfo

import (
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
)

// NotAvailable is the value of an ldflags variable that was not set.
const NotAvailable = "N/A"

type BuildInfo struct {
	// BuildVersion is the version of build from Git tags.
	BuildVersion string `json:"version"`
	// BuildCommit is the short representation of git commit hash.
	BuildCommit string `json:"commit_id"`
	// BuildDate is the build date.
	BuildDate time.Time `json:"time"`
	// Compiler is the version of Go compiler used for building.
	Compiler string `json:"compiler"`
}

// NewBuildInfo merges ldflags values into base. Values equal to NotAvailable
// keep what base already carries. With a nil base a fresh BuildInfo is made.
func NewBuildInfo(version, commit, date string, base *BuildInfo) *BuildInfo {
	if base == nil {
		return &BuildInfo{
			BuildVersion: version,
			BuildCommit:  commit,
			BuildDate:    MustParseTime(date),
			Compiler:     runtime.Version(),
		}
	}
	if version != NotAvailable {
		base.BuildVersion = version
	}
	if commit != NotAvailable {
		base.BuildCommit = commit
	}
	if date != NotAvailable {
		base.BuildDate = MustParseTime(date)
	}
	return base
}

func (b *BuildInfo) String() string {
	return fmt.Sprintf(
		"Build Version : %s\nBuild Commit  : %s\nBuild Date    : %s\nCompiler      : %s\n",
		b.BuildVersion, b.BuildCommit, b.BuildDate.Format(time.RFC3339), b.Compiler,
	)
}

// Fields returns the build description as log fields.
func (b *BuildInfo) Fields() []zap.Field {
	return []zap.Field{
		zap.String("version", b.BuildVersion),
		zap.String("commit", b.BuildCommit),
		zap.Time("date", b.BuildDate),
		zap.String("compiler", b.Compiler),
	}
}

// MustParseTime parses an RFC3339 date and falls back to the current UTC
// time when val is empty or malformed.
func MustParseTime(val string) time.Time {
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return time.Now().UTC()
	}
	return t
}
