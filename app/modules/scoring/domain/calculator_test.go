package scoringdomain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCalculateScoreBreakdown(t *testing.T) {
	tests := []struct {
		name      string
		strings   []StringResult
		penalties PenaltySet
		want      ScoreBreakdown
	}{
		{
			name: "clean stage with two points down",
			strings: []StringResult{
				{Time: 10, Hits: HitCounts{Down0: 8, Down1: 2}},
			},
			want: ScoreBreakdown{RawTime: 10, PointsDown: 2, PenaltyTime: 0, FinalTime: 12},
		},
		{
			name: "down zero contributes nothing",
			strings: []StringResult{
				{Time: 8.5, Hits: HitCounts{Down0: 12}},
			},
			want: ScoreBreakdown{RawTime: 8.5, PointsDown: 0, PenaltyTime: 0, FinalTime: 8.5},
		},
		{
			name: "misses and non-threats are five points each",
			strings: []StringResult{
				{Time: 12.25, Hits: HitCounts{Down0: 4, Down3: 1, Miss: 1, NonThreat: 1}},
			},
			want: ScoreBreakdown{RawTime: 12.25, PointsDown: 13, PenaltyTime: 0, FinalTime: 25.25},
		},
		{
			name: "multiple strings accumulate",
			strings: []StringResult{
				{Time: 5, Hits: HitCounts{Down0: 3, Down1: 1}},
				{Time: 6.5, Hits: HitCounts{Down0: 2, Down3: 1}},
				{Time: 4.25, Hits: HitCounts{Down0: 4}},
			},
			want: ScoreBreakdown{RawTime: 15.75, PointsDown: 4, PenaltyTime: 0, FinalTime: 19.75},
		},
		{
			name: "standard penalty categories",
			strings: []StringResult{
				{Time: 20, Hits: HitCounts{Down0: 10}},
			},
			penalties: PenaltySet{
				Procedural:          2,
				NonThreat:           1,
				FailureToNeutralize: 1,
				Flagrant:            1,
				FTDR:                1,
			},
			want: ScoreBreakdown{RawTime: 20, PointsDown: 0, PenaltyTime: 46, FinalTime: 66},
		},
		{
			name: "other penalties multiply count by seconds",
			strings: []StringResult{
				{Time: 15, Hits: HitCounts{Down0: 6}},
			},
			penalties: PenaltySet{
				Other: []OtherPenalty{
					{Label: "cover violation", Count: 2, Seconds: 3},
					{Label: "finger", Count: 1, Seconds: 10},
				},
			},
			want: ScoreBreakdown{RawTime: 15, PointsDown: 0, PenaltyTime: 16, FinalTime: 31},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateScoreBreakdown(tt.strings, tt.penalties)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("CalculateScoreBreakdown mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCalculateScoreBreakdownDeterminism(t *testing.T) {
	strings := []StringResult{
		{Time: 7.34, Hits: HitCounts{Down0: 5, Down1: 2, Down3: 1}},
		{Time: 9.12, Hits: HitCounts{Down0: 7, Miss: 1}},
	}
	penalties := PenaltySet{Procedural: 1, Other: []OtherPenalty{{Label: "x", Count: 1, Seconds: 2.5}}}

	first := CalculateScoreBreakdown(strings, penalties)
	for i := 0; i < 100; i++ {
		if got := CalculateScoreBreakdown(strings, penalties); got != first {
			t.Fatalf("iteration %d: breakdown changed: %+v != %+v", i, got, first)
		}
	}
}

func TestValidateStrings(t *testing.T) {
	tests := []struct {
		name            string
		strings         []StringResult
		roundsPerString int
		wantField       string
	}{
		{
			name:      "empty strings rejected",
			strings:   nil,
			wantField: "strings",
		},
		{
			name:      "negative time rejected",
			strings:   []StringResult{{Time: -1, Hits: HitCounts{Down0: 1}}},
			wantField: "strings[0].time",
		},
		{
			name:      "negative hit count rejected",
			strings:   []StringResult{{Time: 5, Hits: HitCounts{Down1: -2}}},
			wantField: "strings[0].hits",
		},
		{
			name:            "hit sum over round count rejected",
			strings:         []StringResult{{Time: 5, Hits: HitCounts{Down0: 10, Miss: 3}}},
			roundsPerString: 12,
			wantField:       "strings[0].hits",
		},
		{
			name:            "non-threat hits do not count against rounds",
			strings:         []StringResult{{Time: 5, Hits: HitCounts{Down0: 12, NonThreat: 2}}},
			roundsPerString: 12,
		},
		{
			name:            "valid input accepted",
			strings:         []StringResult{{Time: 5, Hits: HitCounts{Down0: 9, Down1: 2, Miss: 1}}},
			roundsPerString: 12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStrings(tt.strings, tt.roundsPerString)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			ve, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("field = %q, want %q", ve.Field, tt.wantField)
			}
		})
	}
}

func TestValidateRecordedStrings(t *testing.T) {
	if err := ValidateRecordedStrings(nil, 12); err != nil {
		t.Fatalf("no recorded strings should be fine: %v", err)
	}
	if err := ValidateRecordedStrings([]StringResult{{Time: 5, Hits: HitCounts{Down0: 6}}}, 12); err != nil {
		t.Fatalf("partial results should be fine: %v", err)
	}
	if err := ValidateRecordedStrings([]StringResult{{Time: -1}}, 12); err == nil {
		t.Fatal("expected error for negative time")
	}
	if err := ValidateRecordedStrings([]StringResult{{Time: 5, Hits: HitCounts{Miss: -1}}}, 12); err == nil {
		t.Fatal("expected error for negative hit count")
	}
}

func TestValidatePenalties(t *testing.T) {
	if err := ValidatePenalties(PenaltySet{Procedural: 1, FTDR: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidatePenalties(PenaltySet{Flagrant: -1}); err == nil {
		t.Fatal("expected error for negative count")
	}
	if err := ValidatePenalties(PenaltySet{Other: []OtherPenalty{{Count: 1, Seconds: -5}}}); err == nil {
		t.Fatal("expected error for negative seconds")
	}
}
