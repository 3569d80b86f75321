package rankingdomain

import (
	"sort"

	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
)

// ShooterAggregate is one shooter's whole-tournament totals before ranking.
// All time values are in seconds; FinalScore is the sum of stage final times.
type ShooterAggregate struct {
	ShooterID        sharedtypes.ShooterID
	Division         sharedtypes.Division
	Classification   sharedtypes.Classification
	CustomCategories []string
	TotalTime        float64
	TotalPointsDown  int
	TotalPenaltyTime float64
	FinalScore       float64
	CompletedStages  int
	TotalStages      int
	DNF              bool
	DQ               bool
}

// Finished reports whether the shooter is eligible for time-based ranking.
func (a ShooterAggregate) Finished() bool { return !a.DNF && !a.DQ }

// CompletionPct is the shooter's stage completion fraction for progress
// displays. It does not affect ranking order.
func (a ShooterAggregate) CompletionPct() float64 {
	if a.TotalStages == 0 {
		return 0
	}
	return float64(a.CompletedStages) / float64(a.TotalStages)
}

// Rankings holds the parallel rank numbers for one shooter. Ranks start at 1.
type Rankings struct {
	Overall        int            `json:"overall"`
	Division       int            `json:"division"`
	Classification int            `json:"classification"`
	CustomCategory map[string]int `json:"customCategory,omitempty"`
}

// RankedResult is one shooter's aggregate with rank numbers assigned.
type RankedResult struct {
	ShooterAggregate
	Rankings Rankings
}

// Rank orders the aggregates and assigns parallel rankings: overall,
// per-division, per-classification-within-division, and per custom award
// category. Finishers sort ascending by final score; DNF/DQ shooters sort
// after all finishers, ties among them broken by shooter id.
func Rank(aggregates []ShooterAggregate) []RankedResult {
	ordered := make([]ShooterAggregate, len(aggregates))
	copy(ordered, aggregates)
	sort.Slice(ordered, func(i, j int) bool { return resultLess(ordered[i], ordered[j]) })

	divisionCounts := map[sharedtypes.Division]int{}
	classCounts := map[classKey]int{}
	categoryCounts := map[string]int{}

	results := make([]RankedResult, len(ordered))
	for i, agg := range ordered {
		divisionCounts[agg.Division]++
		ck := classKey{division: agg.Division, classification: agg.Classification}
		classCounts[ck]++

		rankings := Rankings{
			Overall:        i + 1,
			Division:       divisionCounts[agg.Division],
			Classification: classCounts[ck],
		}
		if len(agg.CustomCategories) > 0 {
			rankings.CustomCategory = make(map[string]int, len(agg.CustomCategories))
			for _, category := range agg.CustomCategories {
				categoryCounts[category]++
				rankings.CustomCategory[category] = categoryCounts[category]
			}
		}

		results[i] = RankedResult{ShooterAggregate: agg, Rankings: rankings}
	}
	return results
}

type classKey struct {
	division       sharedtypes.Division
	classification sharedtypes.Classification
}

func resultLess(a, b ShooterAggregate) bool {
	aFinished, bFinished := a.Finished(), b.Finished()
	if aFinished != bFinished {
		return aFinished
	}
	if !aFinished {
		return a.ShooterID < b.ShooterID
	}
	if a.FinalScore != b.FinalScore {
		return a.FinalScore < b.FinalScore
	}
	return a.ShooterID < b.ShooterID
}
