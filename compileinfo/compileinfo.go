// Package compileinfo reports how the running binary was built, so that every
// output file can be traced back to the code that produced it.
package compileinfo

import (
	"fmt"
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

type CompileInfo struct {
	Package    string
	Version    string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool
}

func (c CompileInfo) String() string {
	if c.GoVersion == "" {
		return "Build information is not available for this binary."
	}

	mod := ""
	if c.Modified {
		mod = " Files in the repo were modified after that commit."
	}

	commit := c.Commit
	if commit == "" {
		commit = "unknown"
	}

	return fmt.Sprintf("This %s %s binary was built with %s at commit %s at time %s.%s", c.Package, c.Version, c.GoVersion, commit, c.CommitTime, mod)
}

// Fields is the build information as structured log fields.
func (c CompileInfo) Fields() logrus.Fields {
	return logrus.Fields{
		"package":    c.Package,
		"version":    c.Version,
		"go":         c.GoVersion,
		"commit":     c.Commit,
		"commitTime": c.CommitTime,
		"modified":   c.Modified,
	}
}

func Get() CompileInfo {
	return fromBuildInfo(debug.ReadBuildInfo())
}

func fromBuildInfo(z *debug.BuildInfo, ok bool) CompileInfo {
	out := CompileInfo{}
	if !ok || z == nil {
		return out
	}

	out.GoVersion = z.GoVersion
	out.Package = z.Path
	out.Version = z.Main.Version
	for _, s := range z.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	return out
}

// Log writes the build information at info level.
func Log(log logrus.FieldLogger) {
	z := Get()
	log.WithFields(z.Fields()).Infoln(z.String())
}
