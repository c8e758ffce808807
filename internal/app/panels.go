package app

import "integribot/internal/ui"

type PanelEvent int

const (
	EventScenarioGenerated PanelEvent = iota
	EventEvaluated
	EventLeaderboardLoaded
	EventLeaderboardClosed
	EventCleared
)

func (e PanelEvent) String() string {
	switch e {
	case EventScenarioGenerated:
		return "scenario_generated"
	case EventEvaluated:
		return "evaluated"
	case EventLeaderboardLoaded:
		return "leaderboard_loaded"
	case EventLeaderboardClosed:
		return "leaderboard_closed"
	case EventCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Transition returns the visible panels after e. A fresh scenario hides
// everything else; loading the leaderboard only ever adds.
func Transition(p ui.Panels, e PanelEvent) ui.Panels {
	switch e {
	case EventScenarioGenerated:
		return ui.PanelScenario
	case EventEvaluated:
		return p | ui.PanelResult
	case EventLeaderboardLoaded:
		return p | ui.PanelLeaderboard
	case EventLeaderboardClosed:
		return p &^ ui.PanelLeaderboard
	case EventCleared:
		return ui.PanelsNone
	default:
		return p
	}
}
