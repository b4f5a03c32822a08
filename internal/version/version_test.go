package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestVersionDefault(t *testing.T) {
	if Version == "" {
		t.Fatalf("Version should have a default value")
	}
	if !strings.HasSuffix(Version, "-dev") {
		t.Fatalf("expected a -dev build, got %q", Version)
	}
}

func TestVersionPlainWithoutColor(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	plain := versionMajorColor.Sprint("0") + "." + versionMinorColor.Sprint("3") + "." + versionPatchColor.Sprint("0")
	if plain != "0.3.0" {
		t.Fatalf("expected 0.3.0 without color, got %q", plain)
	}
}
