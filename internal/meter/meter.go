// Package meter maps evaluation scores onto the 0-10 score meter.
package meter

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	MinScore = 0
	MaxScore = 10
)

// Reading is what the meter shows for one score.
type Reading struct {
	Value   float64
	Percent float64
	Label   string
}

// Render coerces score to a number, clamps it to [0,10] and derives the bar
// proportion and the "k / 10" label from the clamped value. Values that are
// not numeric render as 0.
func Render(score any) Reading {
	v := clamp(coerce(score))
	return Reading{
		Value:   v,
		Percent: v * 10,
		Label:   FormatLabel(v),
	}
}

// FormatLabel renders an already clamped value.
func FormatLabel(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + " / " + strconv.Itoa(MaxScore)
}

// ParseLabel re-derives an integer score from a rendered label the way a
// lenient integer parse would: leading whitespace and sign are accepted,
// parsing stops at the first non-digit and a label without leading digits
// yields 0.
func ParseLabel(label string) int {
	s := strings.TrimLeft(label, " \t\r\n")
	if s == "" {
		s = Render(0).Label
	}
	neg := false
	if s[0] == '+' || s[0] == '-' {
		neg = s[0] == '-'
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	if neg {
		return -n
	}
	return n
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v <= MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}

func coerce(score any) float64 {
	switch v := score.(type) {
	case nil:
		return 0
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int8:
		return float64(v)
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint8:
		return float64(v)
	case uint16:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	case bool:
		if v {
			return 1
		}
		return 0
	case *float64:
		if v == nil {
			return 0
		}
		return *v
	case *int:
		if v == nil {
			return 0
		}
		return float64(*v)
	case json.Number:
		return parseNumeric(string(v))
	case string:
		return parseNumeric(v)
	case []byte:
		return parseNumeric(string(v))
	default:
		return 0
	}
}

func parseNumeric(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if errors.Is(err, strconv.ErrRange) {
		// f is ±Inf on overflow and clamps like any other number.
		return f
	}
	if err != nil {
		return 0
	}
	return f
}
