// Package scoringdomain implements the IDPA scoring rules as pure functions.
// Derived fields are always recomputed here; nothing downstream is allowed to
// author rawTime, pointsDown, penaltyTime, or finalTime directly.
package scoringdomain

import "fmt"

// ValidationError reports rejected score input. Validation failures are
// surfaced to the caller, never clamped or queued.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid score input: %s: %s", e.Field, e.Reason)
}

// ValidateStrings checks string times and hit counts. roundsPerString is the
// stage's configured round count; the scored-target hits of a string (down0
// through miss) may not exceed it. Non-threat hits are on separate targets
// and do not count against the round count.
func ValidateStrings(strings []StringResult, roundsPerString int) error {
	if len(strings) == 0 {
		return &ValidationError{Field: "strings", Reason: "at least one string required"}
	}
	return ValidateRecordedStrings(strings, roundsPerString)
}

// ValidateRecordedStrings checks whatever strings accompany a score without
// requiring a full set. DNF and DQ scores may carry partial results, but
// never invalid ones.
func ValidateRecordedStrings(strings []StringResult, roundsPerString int) error {
	for i, s := range strings {
		if s.Time < 0 {
			return &ValidationError{Field: fmt.Sprintf("strings[%d].time", i), Reason: "must not be negative"}
		}
		h := s.Hits
		if h.Down0 < 0 || h.Down1 < 0 || h.Down3 < 0 || h.Miss < 0 || h.NonThreat < 0 {
			return &ValidationError{Field: fmt.Sprintf("strings[%d].hits", i), Reason: "hit counts must not be negative"}
		}
		if roundsPerString > 0 {
			scored := h.Down0 + h.Down1 + h.Down3 + h.Miss
			if scored > roundsPerString {
				return &ValidationError{
					Field:  fmt.Sprintf("strings[%d].hits", i),
					Reason: fmt.Sprintf("scored hits %d exceed stage round count %d", scored, roundsPerString),
				}
			}
		}
	}
	return nil
}

// ValidatePenalties checks that all penalty counts and durations are non-negative.
func ValidatePenalties(p PenaltySet) error {
	if p.Procedural < 0 || p.NonThreat < 0 || p.FailureToNeutralize < 0 || p.Flagrant < 0 || p.FTDR < 0 {
		return &ValidationError{Field: "penalties", Reason: "counts must not be negative"}
	}
	for i, o := range p.Other {
		if o.Count < 0 {
			return &ValidationError{Field: fmt.Sprintf("penalties.other[%d].count", i), Reason: "must not be negative"}
		}
		if o.Seconds < 0 {
			return &ValidationError{Field: fmt.Sprintf("penalties.other[%d].seconds", i), Reason: "must not be negative"}
		}
	}
	return nil
}

// CalculateScoreBreakdown derives the stage score from raw strings and
// penalties. Deterministic and side-effect free: the same input always
// yields the same breakdown.
func CalculateScoreBreakdown(strings []StringResult, penalties PenaltySet) ScoreBreakdown {
	var raw float64
	var pointsDown int
	for _, s := range strings {
		raw += s.Time
		pointsDown += s.Hits.Down1*PointsDown1 +
			s.Hits.Down3*PointsDown3 +
			s.Hits.Miss*PointsMiss +
			s.Hits.NonThreat*PointsNonThreatHit
	}

	penaltyTime := float64(penalties.Procedural)*ProceduralSeconds +
		float64(penalties.NonThreat)*NonThreatSeconds +
		float64(penalties.FailureToNeutralize)*FailureToNeutralizeSeconds +
		float64(penalties.Flagrant)*FlagrantSeconds +
		float64(penalties.FTDR)*FTDRSeconds
	for _, o := range penalties.Other {
		penaltyTime += float64(o.Count) * o.Seconds
	}

	return ScoreBreakdown{
		RawTime:     raw,
		PointsDown:  pointsDown,
		PenaltyTime: penaltyTime,
		FinalTime:   raw + float64(pointsDown) + penaltyTime,
	}
}
