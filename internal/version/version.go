// Package version holds the build-time version variables for the sgaudit
// binary. Local builds keep the zero values; release builds set them with
// -ldflags "-X".
package version

import (
	"fmt"
	"runtime"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Short returns the bare version, used for the root command's --version flag.
func Short() string { return Version }

// Info returns the multi-line string printed by sgaudit version.
func Info() string {
	return fmt.Sprintf(
		"sgaudit version %s\ncommit: %s\nbuilt: %s\ngo: %s %s/%s\n",
		Version,
		Commit,
		Date,
		runtime.Version(),
		runtime.GOOS,
		runtime.GOARCH,
	)
}
