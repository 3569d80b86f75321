package scoringdomain

import (
	"time"
)

// ScoreVersion is one side of a potential conflict: the raw (non-derived)
// content of a stage score plus edit provenance.
type ScoreVersion struct {
	Strings    []StringResult `json:"strings"`
	Penalties  PenaltySet     `json:"penalties"`
	DNF        bool           `json:"dnf"`
	DQ         bool           `json:"dq"`
	ModifiedAt time.Time      `json:"modifiedAt"`
	ModifiedBy string         `json:"modifiedBy"`
}

// Resolution is the outcome of conflict resolution.
type Resolution string

const (
	ResolutionUseLocal  Resolution = "use_local"
	ResolutionUseServer Resolution = "use_server"
	ResolutionUseMerged Resolution = "use_merged"
	ResolutionManual    Resolution = "manual"
)

// Auto-resolution rule names, in evaluation order.
const (
	RuleLocalTerminal  = "local_dnf_dq"
	RuleServerTerminal = "server_dnf_dq"
	RuleLaterTimes     = "later_times"
	RulePenaltyMerge   = "penalty_merge"
	RuleNone           = "none"
)

// ConflictOutcome describes how a local/server divergence was (or was not)
// auto-resolved. Merged is set only when the penalty-merge rule fired; for a
// manual outcome it carries the merge candidate when one exists.
type ConflictOutcome struct {
	Resolution Resolution
	Rule       string
	Merged     *ScoreVersion
}

// InConflict reports whether two versions differ in actual score content:
// string hits or times, penalties, or the dnf/dq flags. A server write that
// round-trips identical values is not a conflict.
func InConflict(local, server ScoreVersion) bool {
	return !contentEqual(local, server)
}

// Resolve applies the auto-resolution rules in order; first match wins.
//
//  1. Local marks dnf/dq, server does not: the on-range scorer's call stands.
//  2. Server marks dnf/dq, local does not: prefer server.
//  3. Identical hits, only string times differ: later edit wins.
//  4. Identical strings and flags, only penalties differ: merge conservatively.
//  5. Otherwise manual.
func Resolve(local, server ScoreVersion) ConflictOutcome {
	localTerminal := local.DNF || local.DQ
	serverTerminal := server.DNF || server.DQ

	if localTerminal && !serverTerminal {
		return ConflictOutcome{Resolution: ResolutionUseLocal, Rule: RuleLocalTerminal}
	}
	if serverTerminal && !localTerminal {
		return ConflictOutcome{Resolution: ResolutionUseServer, Rule: RuleServerTerminal}
	}

	if hitsEqual(local.Strings, server.Strings) &&
		penaltiesEqual(local.Penalties, server.Penalties) &&
		local.DNF == server.DNF && local.DQ == server.DQ {
		// Only string times differ.
		if server.ModifiedAt.After(local.ModifiedAt) {
			return ConflictOutcome{Resolution: ResolutionUseServer, Rule: RuleLaterTimes}
		}
		return ConflictOutcome{Resolution: ResolutionUseLocal, Rule: RuleLaterTimes}
	}

	if stringsEqual(local.Strings, server.Strings) &&
		local.DNF == server.DNF && local.DQ == server.DQ {
		merged := local
		merged.Penalties = MergePenalties(local.Penalties, server.Penalties)
		if local.ModifiedAt.Before(server.ModifiedAt) {
			merged.ModifiedAt = server.ModifiedAt
			merged.ModifiedBy = server.ModifiedBy
		}
		return ConflictOutcome{Resolution: ResolutionUseMerged, Rule: RulePenaltyMerge, Merged: &merged}
	}

	return ConflictOutcome{Resolution: ResolutionManual, Rule: RuleNone}
}

// MergePenalties reconciles two penalty sets by taking the maximum count in
// each standard category and the union of free-form entries. Conservative: a
// recorded penalty is never silently dropped.
func MergePenalties(a, b PenaltySet) PenaltySet {
	merged := PenaltySet{
		Procedural:          maxInt(a.Procedural, b.Procedural),
		NonThreat:           maxInt(a.NonThreat, b.NonThreat),
		FailureToNeutralize: maxInt(a.FailureToNeutralize, b.FailureToNeutralize),
		Flagrant:            maxInt(a.Flagrant, b.Flagrant),
		FTDR:                maxInt(a.FTDR, b.FTDR),
	}

	type otherKey struct {
		label   string
		seconds float64
	}
	seen := make(map[otherKey]int)
	order := make([]otherKey, 0, len(a.Other)+len(b.Other))
	for _, o := range append(append([]OtherPenalty{}, a.Other...), b.Other...) {
		k := otherKey{label: o.Label, seconds: o.Seconds}
		if existing, ok := seen[k]; ok {
			if o.Count > existing {
				seen[k] = o.Count
			}
			continue
		}
		seen[k] = o.Count
		order = append(order, k)
	}
	for _, k := range order {
		merged.Other = append(merged.Other, OtherPenalty{Label: k.label, Count: seen[k], Seconds: k.seconds})
	}
	return merged
}

func contentEqual(a, b ScoreVersion) bool {
	return stringsEqual(a.Strings, b.Strings) &&
		penaltiesEqual(a.Penalties, b.Penalties) &&
		a.DNF == b.DNF && a.DQ == b.DQ
}

func stringsEqual(a, b []StringResult) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func hitsEqual(a, b []StringResult) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Hits != b[i].Hits {
			return false
		}
	}
	return true
}

func penaltiesEqual(a, b PenaltySet) bool {
	if a.Procedural != b.Procedural || a.NonThreat != b.NonThreat ||
		a.FailureToNeutralize != b.FailureToNeutralize ||
		a.Flagrant != b.Flagrant || a.FTDR != b.FTDR {
		return false
	}
	if len(a.Other) != len(b.Other) {
		return false
	}
	for i := range a.Other {
		if a.Other[i] != b.Other[i] {
			return false
		}
	}
	return true
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
