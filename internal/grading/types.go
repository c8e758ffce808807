package grading

const (
	MinScore = 0
	MaxScore = 10
	// BaseScore is where the keyword heuristic starts before adjustments.
	BaseScore = 5

	DefaultCriteria = "Honesty • Transparency • Fairness • Compliance • Accountability • Courage"
	OfflineFeedback = "(Offline) Choose honesty, follow policy, refuse gifts/bribes, document actions, correct mistakes, and escalate appropriately."
)

type Request struct {
	Role     string
	Scenario string
	Response string
}

type Result struct {
	Score     int          `json:"score"`
	Feedback  string       `json:"feedback"`
	Criteria  string       `json:"criteria"`
	Source    string       `json:"-"`
	Breakdown []ScoreDelta `json:"-"`
}

type ScoreDelta struct {
	Kind   string
	Points int
	Phrase string
}

// Clamp bounds a score to [MinScore, MaxScore].
func Clamp(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
