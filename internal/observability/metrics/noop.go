package metrics

import (
	"context"
	"time"
)

// NoOpRegistrationMetrics records nothing.
type NoOpRegistrationMetrics struct{}

func (NoOpRegistrationMetrics) RecordOperationAttempt(context.Context, string)                 {}
func (NoOpRegistrationMetrics) RecordOperationSuccess(context.Context, string)                 {}
func (NoOpRegistrationMetrics) RecordOperationFailure(context.Context, string)                 {}
func (NoOpRegistrationMetrics) RecordOperationDuration(context.Context, string, time.Duration) {}
func (NoOpRegistrationMetrics) RecordWaitlistPromotion(context.Context, string)                {}
func (NoOpRegistrationMetrics) RecordCapacityRejection(context.Context, string)                {}

// NoOpScoringMetrics records nothing.
type NoOpScoringMetrics struct{}

func (NoOpScoringMetrics) RecordOperationAttempt(context.Context, string)                 {}
func (NoOpScoringMetrics) RecordOperationSuccess(context.Context, string)                 {}
func (NoOpScoringMetrics) RecordOperationFailure(context.Context, string)                 {}
func (NoOpScoringMetrics) RecordOperationDuration(context.Context, string, time.Duration) {}
func (NoOpScoringMetrics) RecordScoreSubmission(context.Context, string)                  {}
func (NoOpScoringMetrics) RecordConflictDetected(context.Context, string)                 {}
func (NoOpScoringMetrics) RecordConflictManual(context.Context)                           {}

// NoOpRankingMetrics records nothing.
type NoOpRankingMetrics struct{}

func (NoOpRankingMetrics) RecordOperationAttempt(context.Context, string)                 {}
func (NoOpRankingMetrics) RecordOperationSuccess(context.Context, string)                 {}
func (NoOpRankingMetrics) RecordOperationFailure(context.Context, string)                 {}
func (NoOpRankingMetrics) RecordOperationDuration(context.Context, string, time.Duration) {}
func (NoOpRankingMetrics) RecordRecompute(context.Context, string, int)                   {}
func (NoOpRankingMetrics) RecordLeaderboardQuery(context.Context, string)                 {}

// NoOpSyncMetrics records nothing.
type NoOpSyncMetrics struct{}

func (NoOpSyncMetrics) RecordOperationAttempt(context.Context, string)                 {}
func (NoOpSyncMetrics) RecordOperationSuccess(context.Context, string)                 {}
func (NoOpSyncMetrics) RecordOperationFailure(context.Context, string)                 {}
func (NoOpSyncMetrics) RecordOperationDuration(context.Context, string, time.Duration) {}
func (NoOpSyncMetrics) RecordItemEnqueued(context.Context, string)                     {}
func (NoOpSyncMetrics) RecordItemCompleted(context.Context, string)                    {}
func (NoOpSyncMetrics) RecordItemRetry(context.Context, string)                        {}
func (NoOpSyncMetrics) RecordItemFailed(context.Context, string)                       {}
func (NoOpSyncMetrics) RecordDrainDuration(context.Context, time.Duration)             {}
