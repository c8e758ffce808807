package grading

import (
	"context"
	"strings"
)

// Phrases are matched as lowercase substrings, so "own" also counts inside
// "ownership" and "knowingly".
var (
	DefaultRewarded = []string{
		"report", "escalate", "refuse", "policy", "compliance", "transparency",
		"document", "own", "accountable", "apologize", "correct", "no gift", "conflict of interest",
	}
	DefaultPenalized = []string{
		"hide", "ignore", "cover", "bribe", "kickback", "lie", "fake", "adjust numbers", "delay reporting",
	}
)

// KeywordGrader scores a response offline: BaseScore, plus one per rewarded
// phrase present, minus one per penalized phrase present, clamped.
type KeywordGrader struct {
	rewarded  []string
	penalized []string
}

func NewKeywordGrader() *KeywordGrader {
	return &KeywordGrader{rewarded: DefaultRewarded, penalized: DefaultPenalized}
}

func NewKeywordGraderWith(rewarded, penalized []string) *KeywordGrader {
	return &KeywordGrader{rewarded: lower(rewarded), penalized: lower(penalized)}
}

func (g *KeywordGrader) Grade(_ context.Context, req Request) (Result, error) {
	text := strings.ToLower(req.Response)
	score := BaseScore
	var breakdown []ScoreDelta
	for _, p := range g.rewarded {
		if strings.Contains(text, p) {
			score++
			breakdown = append(breakdown, ScoreDelta{Kind: "rewarded", Points: 1, Phrase: p})
		}
	}
	for _, p := range g.penalized {
		if strings.Contains(text, p) {
			score--
			breakdown = append(breakdown, ScoreDelta{Kind: "penalized", Points: -1, Phrase: p})
		}
	}
	return Result{
		Score:     Clamp(score),
		Feedback:  OfflineFeedback,
		Criteria:  DefaultCriteria,
		Source:    "keyword",
		Breakdown: breakdown,
	}, nil
}

func lower(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
