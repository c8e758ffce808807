package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestThemeForVariantFallsBack(t *testing.T) {
	want := ThemeForVariant("modern_arcade").Overlay.Render("x")
	if got := ThemeForVariant("neon").Overlay.Render("x"); got != want {
		t.Fatalf("unknown variant should use modern_arcade")
	}
}

func TestLoadingOverlayUsesThemeBox(t *testing.T) {
	v := New(Options{MotionLevel: "off", StyleVariant: "retro_terminal"})
	v.SetLoading(true, "Integrity is doing the right thing when no one is watching.")
	out := ansi.Strip(v.render())
	if !strings.Contains(out, "╔") || !strings.Contains(out, "Please wait") {
		t.Fatalf("expected double-bordered overlay:\n%s", out)
	}
}

func TestPanelTitleSitsInTopBorder(t *testing.T) {
	v := New(Options{ASCIIOnly: true})
	top := strings.Split(ansi.Strip(v.drawPanel("Scenario", nil, 20, 3)), "\n")[0]
	if top != "+- Scenario -------+" {
		t.Fatalf("unexpected top border %q", top)
	}
	top = strings.Split(ansi.Strip(v.drawPanel("A very long panel title", nil, 12, 3)), "\n")[0]
	if top != "+----------+" {
		t.Fatalf("oversized title should be dropped, got %q", top)
	}
}

func TestStatusFlashShown(t *testing.T) {
	v := New(Options{})
	v.cols = 400
	v.FlashStatus("backend unreachable")
	if !strings.Contains(ansi.Strip(v.statusText()), "backend unreachable") {
		t.Fatalf("flash missing from status line")
	}
}
