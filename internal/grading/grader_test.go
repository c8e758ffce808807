package grading

import (
	"context"
	"errors"
	"testing"
)

func TestKeywordGraderScores(t *testing.T) {
	g := NewKeywordGrader()
	cases := []struct {
		response string
		want     int
	}{
		{"", 5},
		{"I would report it and escalate per policy.", 8},
		{"I would hide it and take the kickback.", 3},
		{"Report, escalate, refuse, policy, compliance, transparency, document, accountable.", 10},
		{"hide ignore cover bribe kickback lie fake", 0},
		{"I would REPORT it", 6},
		{"Take ownership", 6},
	}
	for _, tc := range cases {
		res, err := g.Grade(context.Background(), Request{Response: tc.response})
		if err != nil {
			t.Fatalf("grade: %v", err)
		}
		if res.Score != tc.want {
			t.Fatalf("%q: expected %d, got %d (%#v)", tc.response, tc.want, res.Score, res.Breakdown)
		}
		if res.Feedback != OfflineFeedback || res.Criteria != DefaultCriteria {
			t.Fatalf("unexpected offline texts %#v", res)
		}
	}
}

func TestKeywordGraderBreakdown(t *testing.T) {
	g := NewKeywordGraderWith([]string{" Disclose "}, []string{"Conceal"})
	res, err := g.Grade(context.Background(), Request{Response: "I will disclose, not conceal."})
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if res.Score != 5 || len(res.Breakdown) != 2 {
		t.Fatalf("unexpected result %#v", res)
	}
	if res.Breakdown[0].Kind != "rewarded" || res.Breakdown[1].Points != -1 {
		t.Fatalf("unexpected breakdown %#v", res.Breakdown)
	}
}

type failingGrader struct{}

func (failingGrader) Grade(context.Context, Request) (Result, error) {
	return Result{}, errors.New("model unavailable")
}

func TestFallbackUsesSecondaryOnError(t *testing.T) {
	var seen error
	f := NewFallback(failingGrader{}, NewKeywordGrader(), func(err error) { seen = err })
	res, err := f.Grade(context.Background(), Request{Response: "report"})
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if res.Score != 6 || res.Source != "keyword" {
		t.Fatalf("unexpected fallback result %#v", res)
	}
	if seen == nil {
		t.Fatalf("expected primary error observed")
	}
}

func TestFallbackWithoutPrimary(t *testing.T) {
	f := NewFallback(nil, NewKeywordGrader(), nil)
	res, err := f.Grade(context.Background(), Request{Response: "bribe"})
	if err != nil || res.Score != 4 {
		t.Fatalf("unexpected result %#v %v", res, err)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(-3) != 0 || Clamp(14) != 10 || Clamp(7) != 7 {
		t.Fatalf("clamp out of range")
	}
}
