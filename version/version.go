package version

import "runtime/debug"

// These vars are set at build time via:
//
//	go build -ldflags "-X github.com/Manuela-30/GestionBiblioteca/version.Tag=v1.0.0 -X github.com/Manuela-30/GestionBiblioteca/version.GitCommit=abc1234"
var (
	Tag       = "dev"
	GitCommit = "" // empty = auto-detect from build info
	BuildTime = "" // empty = auto-detect from build info
)

func String() string {
	commit, buildTime := GitCommit, BuildTime
	if commit == "" || buildTime == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					if commit == "" && len(s.Value) >= 8 {
						commit = s.Value[:8]
					}
				case "vcs.time":
					if buildTime == "" {
						buildTime = s.Value
					}
				}
			}
		}
	}
	if commit == "" {
		commit = "unknown"
	}
	if buildTime == "" {
		buildTime = "unknown"
	}
	return "biblioteca " + Tag + " (commit " + commit + ", built " + buildTime + ")"
}
