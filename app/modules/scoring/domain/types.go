package scoringdomain

// HitCounts is the per-target-zone hit breakdown for one string of fire.
type HitCounts struct {
	Down0     int `json:"down0"`
	Down1     int `json:"down1"`
	Down3     int `json:"down3"`
	Miss      int `json:"miss"`
	NonThreat int `json:"nonThreat"`
}

// StringResult is one timed string of fire. Time is in seconds.
type StringResult struct {
	Time float64   `json:"time"`
	Hits HitCounts `json:"hits"`
}

// OtherPenalty is a free-form penalty entry outside the five standard
// categories. Seconds is the per-occurrence penalty in seconds.
type OtherPenalty struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Seconds float64 `json:"seconds"`
}

// PenaltySet holds occurrence counts for the standard IDPA penalty
// categories plus any free-form entries.
type PenaltySet struct {
	Procedural          int            `json:"procedural"`
	NonThreat           int            `json:"nonThreat"`
	FailureToNeutralize int            `json:"failureToNeutralize"`
	Flagrant            int            `json:"flagrant"`
	FTDR                int            `json:"ftdr"`
	Other               []OtherPenalty `json:"other,omitempty"`
}

// Penalty seconds per occurrence for the standard categories.
const (
	ProceduralSeconds          = 3.0
	NonThreatSeconds           = 5.0
	FailureToNeutralizeSeconds = 5.0
	FlagrantSeconds            = 10.0
	FTDRSeconds                = 20.0
)

// Points down per hit by zone.
const (
	PointsDown1        = 1
	PointsDown3        = 3
	PointsMiss         = 5
	PointsNonThreatHit = 5
)

// ScoreBreakdown is the derived portion of a stage score. All values are in
// seconds except PointsDown, which is the raw point count (one point equals
// one second of added time).
type ScoreBreakdown struct {
	RawTime     float64 `json:"rawTime"`
	PointsDown  int     `json:"pointsDown"`
	PenaltyTime float64 `json:"penaltyTime"`
	FinalTime   float64 `json:"finalTime"`
}
