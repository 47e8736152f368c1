package cli

import (
	"io"
	"os"
	"runtime/debug"
	"time"
)

var (
	rootStdin    io.Reader = os.Stdin
	rootStdout   io.Writer = os.Stdout
	rootStderr   io.Writer = os.Stderr
	buildVersion           = "dev"
)

func init() {
	buildVersion = resolveBuildVersion(buildVersion)
}

// globalOptions hold the persistent flags. Zero values mean "not set"; only
// flags the user passed override the environment and config file.
type globalOptions struct {
	configPath      string
	port            int
	host            string
	refreshInterval time.Duration
	logLevel        string
}

func resolveBuildVersion(defaultVersion string) string {
	if defaultVersion != "" && defaultVersion != "dev" {
		return defaultVersion
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return defaultVersion
	}
	if info.Main.Version == "" || info.Main.Version == "(devel)" {
		return defaultVersion
	}
	return info.Main.Version
}
