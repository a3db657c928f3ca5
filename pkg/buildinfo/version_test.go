package buildinfo

import (
	"strings"
	"testing"
)

func TestStampedValuesWin(t *testing.T) {
	oldV, oldC := Version, Commit
	Version, Commit = "v1.2.3", "abc123"
	t.Cleanup(func() { Version, Commit = oldV, oldC })

	info := Get()
	if info.Version != "v1.2.3" || info.Commit != "abc123" {
		t.Errorf("Get() = %+v", info)
	}
	if !strings.HasPrefix(info.GoVersion, "go") {
		t.Errorf("GoVersion = %q", info.GoVersion)
	}
	for _, s := range []string{String(), Template()} {
		if !strings.Contains(s, "v1.2.3") || !strings.Contains(s, "abc123") {
			t.Errorf("missing stamped values in %q", s)
		}
	}
	if !strings.HasPrefix(Template(), "{{.Name}} version ") {
		t.Errorf("Template() = %q", Template())
	}
}

func TestUnstampedHasVersion(t *testing.T) {
	if Get().Version == "" {
		t.Error("version should never be empty")
	}
}
