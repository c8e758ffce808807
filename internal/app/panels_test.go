package app

import (
	"testing"

	"integribot/internal/ui"
)

func TestTransitionTable(t *testing.T) {
	all := ui.PanelScenario | ui.PanelResult | ui.PanelLeaderboard
	cases := []struct {
		from ui.Panels
		ev   PanelEvent
		want ui.Panels
	}{
		{ui.PanelsNone, EventScenarioGenerated, ui.PanelScenario},
		{all, EventScenarioGenerated, ui.PanelScenario},
		{ui.PanelScenario, EventEvaluated, ui.PanelScenario | ui.PanelResult},
		{ui.PanelsNone, EventEvaluated, ui.PanelResult},
		{ui.PanelsNone, EventLeaderboardLoaded, ui.PanelLeaderboard},
		{ui.PanelScenario | ui.PanelResult, EventLeaderboardLoaded, all},
		{all, EventLeaderboardClosed, ui.PanelScenario | ui.PanelResult},
		{ui.PanelScenario, EventLeaderboardClosed, ui.PanelScenario},
		{all, EventCleared, ui.PanelsNone},
	}
	for _, tc := range cases {
		if got := Transition(tc.from, tc.ev); got != tc.want {
			t.Fatalf("%s on %s: expected %s, got %s", tc.ev, tc.from, tc.want, got)
		}
	}
}

func TestSessionScenarioIsCopied(t *testing.T) {
	s := NewSession()
	if s.ID() == "" {
		t.Fatalf("expected session id")
	}
	if s.Scenario() != nil || s.ScenarioText() != "" {
		t.Fatalf("expected no scenario initially")
	}
	text := "S"
	s.Replace(apiScenario(text))
	got := s.Scenario()
	got.Difficulty = "mutated"
	if s.Scenario().Difficulty == "mutated" {
		t.Fatalf("expected copy to be detached from session")
	}
	if s.Reset() != ui.PanelsNone || s.Scenario() != nil {
		t.Fatalf("expected reset session")
	}
}
