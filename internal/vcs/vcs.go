package vcs

import (
	"fmt"
	"runtime/debug"
)

// Unknown is reported for binaries built without version control stamping,
// e.g. under `go test` or `go run`.
const Unknown = "unknown"

// Revision returns a build identifier of the form
//
//	`<time>-<revision-number>[-dirty]`
//
// read from the binary's embedded build info. It returns Unknown when no
// vcs.revision setting is present.
func Revision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Unknown
	}
	return revisionFromSettings(info.Settings)
}

func revisionFromSettings(settings []debug.BuildSetting) string {
	var (
		revision string
		time     string
		modified bool
	)

	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.time":
			time = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}

	if revision == "" {
		return Unknown
	}

	id := revision
	if time != "" {
		id = fmt.Sprintf("%s-%s", time, revision)
	}
	if modified {
		id += "-dirty"
	}
	return id
}
