package cassette

import (
	"fmt"
	"io"
	"runtime/debug"
)

// Set at build time via `-ldflags "-X 'github.com/doismellburning/sorcerer/src.VERSION=X'"`
var VERSION string

// vcsSetting is "" when the binary wasn't built from a checkout.
func vcsSetting(bi *debug.BuildInfo, key string) string {
	if bi == nil {
		return ""
	}

	for _, bs := range bi.Settings {
		if bs.Key == key {
			return bs.Value
		}
	}

	return ""
}

func PrintVersion(w io.Writer) {
	var bi, _ = debug.ReadBuildInfo()

	var version = IfThenElse(VERSION == "", "development", VERSION)

	var revision = vcsSetting(bi, "vcs.revision")
	if revision == "" {
		fmt.Fprintf(w, "cassette %s\n", version)
		return
	}

	if len(revision) > 12 {
		revision = revision[:12]
	}
	if vcsSetting(bi, "vcs.modified") == "true" {
		revision += "+dirty"
	}

	fmt.Fprintf(w, "cassette %s (%s, %s)\n", version, revision, vcsSetting(bi, "vcs.time"))
}
