package version

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
)

// Version is set at build time with -ldflags "-X .../internal/version.Version=v1.2.3".
var Version = ""

// GetVersion returns the build version, falling back to the module
// version and VCS revision recorded by the Go toolchain.
func GetVersion() string {
	if Version != "" {
		return Version
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	version := info.Main.Version
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" && len(setting.Value) >= 7 {
			if version == "" || version == "(devel)" {
				version = setting.Value[:7]
			}
		}
	}
	if version == "" {
		version = "(devel)"
	}
	return version
}

// WriteVersion writes the program name and version to w.
func WriteVersion(w io.Writer) {
	fmt.Fprintf(w, "%s version %s\n", os.Args[0], GetVersion()) //nolint:errcheck
}

// ShowVersion prints version information to stdout.
func ShowVersion() {
	WriteVersion(os.Stdout)
}
