package ui

import (
	"strings"
	"sync"
	"testing"
	"time"

	"integribot/internal/meter"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
)

type mockController struct {
	mu    sync.Mutex
	calls map[string]int
}

func (m *mockController) hit(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = map[string]int{}
	}
	m.calls[name]++
}

func (m *mockController) count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

// waitFor polls because handlers are dispatched on their own goroutine.
func (m *mockController) waitFor(name string, want int) int {
	deadline := time.Now().Add(300 * time.Millisecond)
	for m.count(name) < want && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	return m.count(name)
}

func (m *mockController) OnGenerate()         { m.hit("generate") }
func (m *mockController) OnGenerateAgain()    { m.hit("again") }
func (m *mockController) OnSubmit()           { m.hit("submit") }
func (m *mockController) OnSave()             { m.hit("save") }
func (m *mockController) OnOpenLeaderboard()  { m.hit("leaderboard") }
func (m *mockController) OnCloseLeaderboard() { m.hit("close") }
func (m *mockController) OnClear()            { m.hit("clear") }
func (m *mockController) OnQuit()             { m.hit("quit") }

func press(v *Root, code rune, mod tea.KeyMod, text string) {
	_, _ = v.Update(tea.KeyPressMsg{Code: code, Mod: mod, Text: text})
}

func typeText(v *Root, s string) {
	for _, ch := range s {
		press(v, ch, 0, string(ch))
	}
}

func newTestRoot(ctrl Controller) *Root {
	v := New(Options{EnableAgain: true, EnableSave: true, MotionLevel: "off"})
	v.SetController(ctrl)
	return v
}

func TestBoundKeysDispatchHandlers(t *testing.T) {
	ctrl := &mockController{}
	v := newTestRoot(ctrl)

	keys := []struct {
		code rune
		name string
	}{
		{'g', "generate"},
		{'r', "again"},
		{'s', "submit"},
		{'p', "save"},
		{'l', "leaderboard"},
		{'x', "clear"},
		{'q', "quit"},
	}
	for _, k := range keys {
		press(v, k.code, tea.ModCtrl, "")
		if got := ctrl.waitFor(k.name, 1); got != 1 {
			t.Fatalf("expected ctrl+%c to trigger %s once, got %d", k.code, k.name, got)
		}
	}

	press(v, tea.KeyEsc, 0, "")
	if got := ctrl.waitFor("close", 1); got != 1 {
		t.Fatalf("expected Esc to close the leaderboard, got %d", got)
	}
}

func TestDisabledOptionalBindingsAreOmitted(t *testing.T) {
	ctrl := &mockController{}
	v := New(Options{EnableAgain: false, EnableSave: false})
	v.SetController(ctrl)

	press(v, 'r', tea.ModCtrl, "")
	press(v, 'p', tea.ModCtrl, "")
	press(v, 'g', tea.ModCtrl, "")
	if got := ctrl.waitFor("generate", 1); got != 1 {
		t.Fatalf("expected generate still bound, got %d", got)
	}
	if ctrl.count("again") != 0 || ctrl.count("save") != 0 {
		t.Fatalf("disabled bindings fired: %#v", ctrl.calls)
	}
	if strings.Contains(ansi.Strip(v.statusText()), "Again") {
		t.Fatalf("disabled binding should not appear in help")
	}
}

func TestClearKeyNeverReachesInput(t *testing.T) {
	ctrl := &mockController{}
	v := newTestRoot(ctrl)
	typeText(v, "Ana")
	press(v, 'x', tea.ModCtrl, "")
	if got := v.Form().Name; got != "Ana" {
		t.Fatalf("expected name untouched by clear key, got %q", got)
	}
	if got := ctrl.waitFor("clear", 1); got != 1 {
		t.Fatalf("expected clear dispatched, got %d", got)
	}
}

func TestTypingFillsFocusedFields(t *testing.T) {
	v := newTestRoot(&mockController{})
	typeText(v, "Ana")
	press(v, tea.KeyTab, 0, "")
	typeText(v, "Manageq")
	press(v, tea.KeyBackspace, 0, "")
	typeText(v, "r")
	press(v, tea.KeyTab, 0, "")
	typeText(v, "I would")
	press(v, tea.KeyEnter, 0, "")
	typeText(v, "report")
	press(v, tea.KeyTab, 0, "")
	press(v, tea.KeySpace, 0, " ")

	f := v.Form()
	if f.Name != "Ana" || f.Role != "Manager" || f.Response != "I would\nreport" || !f.Consent {
		t.Fatalf("unexpected form %#v", f)
	}

	press(v, tea.KeyTab, tea.ModShift, "")
	if v.focus != FieldResponse {
		t.Fatalf("expected shift+tab to move back, got %v", v.focus)
	}
	press(v, tea.KeyTab, 0, "")
	press(v, tea.KeyTab, 0, "")
	if v.focus != FieldName {
		t.Fatalf("expected focus to wrap to name, got %v", v.focus)
	}
}

func TestAlertBlocksUntilDismissed(t *testing.T) {
	ctrl := &mockController{}
	v := newTestRoot(ctrl)
	v.Alert("Please enter your name and role.")

	if !strings.Contains(ansi.Strip(v.render()), "Please enter your name and role.") {
		t.Fatalf("expected alert rendered")
	}
	press(v, 'g', tea.ModCtrl, "")
	press(v, tea.KeyEsc, 0, "")
	time.Sleep(30 * time.Millisecond)
	if ctrl.count("generate") != 0 || ctrl.count("close") != 0 {
		t.Fatalf("keys must not reach handlers while an alert is open")
	}
	if len(v.alerts) != 0 {
		t.Fatalf("expected Esc to dismiss alert")
	}
}

func TestPanelsRenderOnlyWhenVisible(t *testing.T) {
	v := New(Options{ASCIIOnly: true})
	v.SetScenarioText("A vendor offers a gift")
	v.SetFeedback("Good escalation")
	v.SetMeter(meter.Render(7.5))
	v.SetLeaderboard([]LeaderboardRow{{Rank: 1, Name: "Ana", Role: "Manager", Score: "7/10"}})

	out := ansi.Strip(v.render())
	if strings.Contains(out, "vendor") || strings.Contains(out, "Good escalation") || strings.Contains(out, "Ana") {
		t.Fatalf("hidden panels rendered:\n%s", out)
	}

	v.SetPanels(PanelScenario | PanelResult | PanelLeaderboard)
	out = ansi.Strip(v.render())
	for _, want := range []string{"vendor", "Good escalation", "7.5 / 10", "1. Ana", "7/10"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestScenarioTextShownVerbatim(t *testing.T) {
	v := New(Options{})
	v.SetScenarioText("As a *Broker*, file __report_v2__ now.\n# Note\n1) Ask 2) Tell")
	got := strings.Join(v.scenarioLines(80), "\n")
	for _, want := range []string{"As a *Broker*, file __report_v2__ now.", "# Note", "1) Ask 2) Tell"} {
		if !strings.Contains(ansi.Strip(got), want) {
			t.Fatalf("expected %q verbatim in:\n%s", want, got)
		}
	}
}

func TestScenarioMarkdownIsOptIn(t *testing.T) {
	v := New(Options{Markdown: true})
	v.SetScenarioText("As a *Broker*, act now.")
	got := ansi.Strip(strings.Join(v.scenarioLines(80), "\n"))
	if strings.Contains(got, "*Broker*") || !strings.Contains(got, "Broker") {
		t.Fatalf("expected markdown emphasis rendered, got %q", got)
	}
}

func TestMeterLabelTracksSetMeter(t *testing.T) {
	v := New(Options{})
	if v.MeterLabel() != "0 / 10" {
		t.Fatalf("expected initial zero label, got %q", v.MeterLabel())
	}
	v.SetMeter(meter.Render(11))
	if v.MeterLabel() != "10 / 10" {
		t.Fatalf("unexpected label %q", v.MeterLabel())
	}
}

func TestLoadingOverlayShowsQuote(t *testing.T) {
	v := New(Options{MotionLevel: "off"})
	v.SetLoading(true, "The time is always right to do what is right.")
	if !strings.Contains(v.render(), "always right") {
		t.Fatalf("expected quote in overlay")
	}
	v.SetLoading(false, "")
	if strings.Contains(v.render(), "always right") || strings.Contains(v.render(), "Please wait") {
		t.Fatalf("expected overlay gone after hide")
	}
}

func TestScrollToTopAndFocusName(t *testing.T) {
	v := newTestRoot(&mockController{})
	press(v, tea.KeyTab, 0, "")
	v.scroll = 7
	v.ScrollToTop()
	v.FocusName()
	if v.scroll != 0 || v.focus != FieldName {
		t.Fatalf("expected reset scroll and focus, got %d %v", v.scroll, v.focus)
	}
}

func TestRoleSuggestionsCycle(t *testing.T) {
	v := newTestRoot(&mockController{})
	v.SetRoleSuggestions([]string{"Manager", "Deputy Manager", "Supervisor"})
	press(v, 'o', tea.ModCtrl, "")
	if got := v.Form().Role; got != "Manager" {
		t.Fatalf("expected first suggestion, got %q", got)
	}
	press(v, 'o', tea.ModCtrl, "")
	if got := v.Form().Role; got != "Deputy Manager" {
		t.Fatalf("expected second suggestion, got %q", got)
	}
	if v.focus != FieldRole {
		t.Fatalf("expected role focused")
	}
}

func TestNextSuggestionNarrowsByPrefix(t *testing.T) {
	list := []string{"Manager", "Deputy Manager", "Supervisor", "Sr. Supervisor"}
	got, idx := nextSuggestion("su", list, -1)
	if got != "Supervisor" || idx != 2 {
		t.Fatalf("expected prefix match, got %q %d", got, idx)
	}
	got, idx = nextSuggestion("Supervisor", list, idx)
	if got != "Sr. Supervisor" || idx != 3 {
		t.Fatalf("expected plain cycling from exact match, got %q %d", got, idx)
	}
	got, _ = nextSuggestion("zzz", list, -1)
	if got != "zzz" {
		t.Fatalf("expected no change without matches, got %q", got)
	}
}

func TestPasteIntoNameCollapsesWhitespace(t *testing.T) {
	v := newTestRoot(&mockController{})
	_, _ = v.Update(tea.PasteMsg{Content: "Ana\n  Lopez"})
	if got := v.Form().Name; got != "Ana Lopez" {
		t.Fatalf("unexpected pasted name %q", got)
	}
}

func TestTooSmallLayout(t *testing.T) {
	v := New(Options{})
	_, _ = v.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	if !strings.Contains(ansi.Strip(v.render()), "Terminal too small") {
		t.Fatalf("expected resize prompt")
	}
}

func TestPadCellsHandlesStyledText(t *testing.T) {
	styled := "\x1b[1mbold\x1b[0m"
	if got := ansi.StringWidth(padCells(styled, 8)); got != 8 {
		t.Fatalf("expected width 8, got %d", got)
	}
	if got := ansi.Strip(padCells("abcdefgh", 4)); got != "abcd" {
		t.Fatalf("expected truncation, got %q", got)
	}
}

func TestViewImplementsInterfaceCompileTime(t *testing.T) {
	var _ View = New(Options{})
}
