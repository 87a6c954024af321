package version

import "runtime/debug"

var version = "0.1.0"

// Version reports the module version from build info when available,
// falling back to the compiled-in default.
func Version() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Sum != "" {
		return info.Main.Version
	}
	return version
}
