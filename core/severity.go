package core

import (
	"math"
	"strconv"
	"strings"
)

// Severity is the qualitative band derived from a CVSS score.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
	SeverityNone     Severity = "NONE"
)

// Band thresholds on the CVSS 0-10 scale.
const (
	CriticalThreshold = 9.0
	HighThreshold     = 7.0
	MediumThreshold   = 4.0
)

// AllSeverities lists the bands from most to least severe.
var AllSeverities = []Severity{
	SeverityCritical,
	SeverityHigh,
	SeverityMedium,
	SeverityLow,
	SeverityNone,
}

// String returns the string representation
func (s Severity) String() string {
	return string(s)
}

// IsValid checks if the severity is one of the known bands
func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityNone:
		return true
	default:
		return false
	}
}

// Classify maps a score to its band. A nil score and an exact zero are NONE.
func Classify(score *float64) Severity {
	if score == nil {
		return SeverityNone
	}
	return ClassifyValue(*score)
}

// ClassifyValue is Classify for a score known to be present.
func ClassifyValue(score float64) Severity {
	switch {
	case score >= CriticalThreshold:
		return SeverityCritical
	case score >= HighThreshold:
		return SeverityHigh
	case score >= MediumThreshold:
		return SeverityMedium
	case score > 0:
		return SeverityLow
	default:
		return SeverityNone
	}
}

// ScoreRange holds up to four independent bounds on a score. Each slot is
// nil when unconstrained. Slots are kept separate so that a later bound can
// replace one operator without touching the others.
type ScoreRange struct {
	GT  *float64 `json:"gt,omitempty"`
	GTE *float64 `json:"gte,omitempty"`
	LT  *float64 `json:"lt,omitempty"`
	LTE *float64 `json:"lte,omitempty"`
}

// IsEmpty reports whether no slot is set.
func (r ScoreRange) IsEmpty() bool {
	return r.GT == nil && r.GTE == nil && r.LT == nil && r.LTE == nil
}

// Contains reports whether score satisfies every set slot.
func (r ScoreRange) Contains(score float64) bool {
	if r.GT != nil && !(score > *r.GT) {
		return false
	}
	if r.GTE != nil && !(score >= *r.GTE) {
		return false
	}
	if r.LT != nil && !(score < *r.LT) {
		return false
	}
	if r.LTE != nil && !(score <= *r.LTE) {
		return false
	}
	return true
}

// LabelToRange converts a severity label into the score range it covers.
// Labels are matched case-insensitively. A label that is not a band name
// but parses as a number becomes a minimum threshold. Anything else,
// NaN included, returns ok=false and callers must apply no score constraint.
func LabelToRange(label string) (ScoreRange, bool) {
	switch Severity(strings.ToUpper(strings.TrimSpace(label))) {
	case SeverityCritical:
		return ScoreRange{GTE: Float(CriticalThreshold)}, true
	case SeverityHigh:
		return ScoreRange{GTE: Float(HighThreshold), LT: Float(CriticalThreshold)}, true
	case SeverityMedium:
		return ScoreRange{GTE: Float(MediumThreshold), LT: Float(HighThreshold)}, true
	case SeverityLow:
		return ScoreRange{GT: Float(0), LT: Float(MediumThreshold)}, true
	}

	if v, err := strconv.ParseFloat(strings.TrimSpace(label), 64); err == nil && !math.IsNaN(v) {
		return ScoreRange{GTE: Float(v)}, true
	}
	return ScoreRange{}, false
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}
