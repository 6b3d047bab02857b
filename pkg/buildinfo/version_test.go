package buildinfo

import (
	"runtime"
	"strings"
	"testing"
)

func TestGetPrefersLdflags(t *testing.T) {
	defer func(v, c, d string) { Version, Commit, Date = v, c, d }(Version, Commit, Date)
	Version, Commit, Date = "v1.2.3", "abc123", "2026-01-01T00:00:00Z"

	got := Get()
	want := Info{Version: "v1.2.3", Commit: "abc123", Date: "2026-01-01T00:00:00Z", GoVersion: runtime.Version()}
	if got != want {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
	if tmpl := Template(); !strings.Contains(tmpl, "v1.2.3") || !strings.Contains(tmpl, "{{.Name}}") {
		t.Errorf("Template() = %q", tmpl)
	}
}
