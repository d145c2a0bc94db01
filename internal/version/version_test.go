package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func withBuildInfo(t *testing.T, v, commit, msg, date string) {
	t.Helper()
	origV, origC, origM, origD := Version, GitCommit, GitMessage, BuildDate
	Version, GitCommit, GitMessage, BuildDate = v, commit, msg, date
	t.Cleanup(func() { Version, GitCommit, GitMessage, BuildDate = origV, origC, origM, origD })
}

func noColor(t *testing.T) {
	t.Helper()
	orig := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = orig })
}

func TestColoredKeepsText(t *testing.T) {
	noColor(t)
	cases := []string{"0.1.0-dev", "1.2.3", "nightly"}
	for _, v := range cases {
		withBuildInfo(t, v, "", "", "")
		if got := Colored(); got != v {
			t.Fatalf("Colored() = %q, want %q", got, v)
		}
	}
}

func TestBanner(t *testing.T) {
	noColor(t)
	withBuildInfo(t, "1.2.3", "abc123def4567890", "fix lexer", "2026-01-15T10:30:00Z")

	short := Banner(false)
	if short != "rxc 1.2.3\n" {
		t.Fatalf("short banner = %q", short)
	}
	long := Banner(true)
	for _, want := range []string{"commit: abc123def456 (fix lexer)", "built:  2026-01-15T10:30:00Z"} {
		if !strings.Contains(long, want) {
			t.Fatalf("verbose banner missing %q:\n%s", want, long)
		}
	}
	if strings.Contains(long, "abc123def4567890") {
		t.Fatalf("commit hash must be shortened:\n%s", long)
	}
}

func TestBannerOmitsUnknownFields(t *testing.T) {
	noColor(t)
	withBuildInfo(t, "0.1.0", "", "", "")
	if got := Banner(true); got != "rxc 0.1.0\n" {
		t.Fatalf("banner = %q", got)
	}
}
