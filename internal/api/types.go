package api

import "strconv"

const (
	PathGenerateScenario = "/generate_scenario"
	PathEvaluate         = "/evaluate"
	PathSubmitScore      = "/submit_score"
	PathLeaderboard      = "/leaderboard"
)

type ScenarioRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// Scenario is the generate_scenario response. Fields other than scenario
// are carried along but never interpreted by the client.
type Scenario struct {
	Scenario   *string `json:"scenario,omitempty"`
	Difficulty string  `json:"difficulty,omitempty"`
}

// Text returns the scenario prompt or "" when the server sent none.
func (s *Scenario) Text() string {
	if s == nil || s.Scenario == nil {
		return ""
	}
	return *s.Scenario
}

type EvaluateRequest struct {
	Role         string `json:"role"`
	Scenario     string `json:"scenario"`
	ResponseText string `json:"response_text"`
}

// Evaluation is the evaluate response. Score is left untyped; the meter
// coerces whatever the server sent.
type Evaluation struct {
	Feedback *string `json:"feedback,omitempty"`
	Criteria *string `json:"criteria,omitempty"`
	Score    any     `json:"score,omitempty"`
}

type SubmitScoreRequest struct {
	Name    string `json:"name"`
	Role    string `json:"role"`
	Score   int    `json:"score"`
	Consent bool   `json:"consent"`
}

type SubmitScoreResponse struct {
	OK bool `json:"ok"`
}

type Leaderboard struct {
	Items []LeaderboardItem `json:"items,omitempty"`
}

type LeaderboardItem struct {
	Name  *string `json:"name,omitempty"`
	Role  *string `json:"role,omitempty"`
	Score any     `json:"score,omitempty"`
}

// ScoreText renders the score as sent, or "-" when absent.
func (i LeaderboardItem) ScoreText() string {
	switch v := i.Score.(type) {
	case nil:
		return "-"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	default:
		return "-"
	}
}

// NameOr returns the entry name, or fallback when it is absent or empty.
func (i LeaderboardItem) NameOr(fallback string) string {
	if i.Name == nil || *i.Name == "" {
		return fallback
	}
	return *i.Name
}

func (i LeaderboardItem) RoleOr(fallback string) string {
	if i.Role == nil || *i.Role == "" {
		return fallback
	}
	return *i.Role
}
