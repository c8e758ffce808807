package ui

import "integribot/internal/meter"

// Controller receives user triggers. The view binds them once and calls
// them off the render loop.
type Controller interface {
	OnGenerate()
	OnGenerateAgain()
	OnSubmit()
	OnSave()
	OnOpenLeaderboard()
	OnCloseLeaderboard()
	OnClear()
	OnQuit()
}

type View interface {
	Run() error
	Stop()
	SetController(Controller)

	Form() Form
	SetForm(Form)
	SetResponseText(text string)
	SetRoleSuggestions(roles []string)

	SetGreeting(text string)
	SetScenarioText(text string)
	SetFeedback(text string)
	SetCriteria(text string)
	SetMeter(r meter.Reading)
	MeterLabel() string
	SetPanels(p Panels)
	SetLeaderboard(rows []LeaderboardRow)
	SetLoading(visible bool, text string)

	Alert(msg string)
	FlashStatus(msg string)
	ScrollToTop()
	FocusName()
}

// Form holds the user-editable inputs.
type Form struct {
	Name     string
	Role     string
	Response string
	Consent  bool
}

// Panels is the set of visible content panels.
type Panels uint8

const (
	PanelScenario Panels = 1 << iota
	PanelResult
	PanelLeaderboard

	PanelsNone Panels = 0
)

func (p Panels) Has(q Panels) bool { return p&q == q && q != 0 }

func (p Panels) String() string {
	if p == PanelsNone {
		return "none"
	}
	out := ""
	for _, n := range []struct {
		p    Panels
		name string
	}{{PanelScenario, "scenario"}, {PanelResult, "result"}, {PanelLeaderboard, "leaderboard"}} {
		if p.Has(n.p) {
			if out != "" {
				out += "+"
			}
			out += n.name
		}
	}
	return out
}

type LeaderboardRow struct {
	Rank  int
	Name  string
	Role  string
	Score string
}

type Field int

const (
	FieldName Field = iota
	FieldRole
	FieldResponse
	FieldConsent
	fieldCount
)

type LayoutMode int

const (
	LayoutWide LayoutMode = iota
	LayoutCompact
	LayoutTooSmall
)
