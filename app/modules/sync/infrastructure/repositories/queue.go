package syncdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	syncdomain "github.com/cascade-defensive-pistol/match-engine/app/modules/sync/domain"
	"github.com/cascade-defensive-pistol/match-engine/app/shared/sharedtypes"
)

// QueueDBImpl implements Repository on bun.
type QueueDBImpl struct {
	DB *bun.DB
}

var _ Repository = (*QueueDBImpl)(nil)

func (r *QueueDBImpl) idb(db bun.IDB) bun.IDB {
	if db != nil {
		return db
	}
	return r.DB
}

func (r *QueueDBImpl) Create(ctx context.Context, db bun.IDB, item *QueueItem) error {
	_, err := r.idb(db).NewInsert().
		Model(item).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create queue item for user %s: %w", item.UserID, err)
	}
	return nil
}

func (r *QueueDBImpl) GetByID(ctx context.Context, db bun.IDB, id sharedtypes.QueueItemID) (*QueueItem, error) {
	var item QueueItem
	err := r.idb(db).NewSelect().
		Model(&item).
		Where("oq.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to fetch queue item %s: %w", id, err)
	}
	return &item, nil
}

func (r *QueueDBImpl) ListPending(ctx context.Context, db bun.IDB, userID sharedtypes.UserID) ([]QueueItem, error) {
	var items []QueueItem
	err := r.idb(db).NewSelect().
		Model(&items).
		Where("oq.user_id = ?", userID).
		Where("oq.status = ?", syncdomain.StatusPending).
		Order("oq.created_at ASC", "oq.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending items for user %s: %w", userID, err)
	}
	return items, nil
}

func (r *QueueDBImpl) NextPending(ctx context.Context, db bun.IDB, userID sharedtypes.UserID) (*QueueItem, error) {
	var item QueueItem
	err := r.idb(db).NewSelect().
		Model(&item).
		Where("oq.user_id = ?", userID).
		Where("oq.status = ?", syncdomain.StatusPending).
		Order("oq.created_at ASC", "oq.id ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to fetch next pending item for user %s: %w", userID, err)
	}
	return &item, nil
}

func (r *QueueDBImpl) ClaimProcessing(ctx context.Context, db bun.IDB, id sharedtypes.QueueItemID) (bool, error) {
	res, err := r.idb(db).NewUpdate().
		Model((*QueueItem)(nil)).
		Set("status = ?", syncdomain.StatusProcessing).
		Set("updated_at = now()").
		Where("id = ?", id).
		Where("status = ?", syncdomain.StatusPending).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to claim queue item %s: %w", id, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read claim result for item %s: %w", id, err)
	}
	return rows == 1, nil
}

func (r *QueueDBImpl) MarkCompleted(ctx context.Context, db bun.IDB, id sharedtypes.QueueItemID, completedAt time.Time, note string) error {
	_, err := r.idb(db).NewUpdate().
		Model((*QueueItem)(nil)).
		Set("status = ?", syncdomain.StatusCompleted).
		Set("completed_at = ?", completedAt).
		Set("last_error = ?", note).
		Set("updated_at = now()").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to complete queue item %s: %w", id, err)
	}
	return nil
}

func (r *QueueDBImpl) MarkFailed(ctx context.Context, db bun.IDB, id sharedtypes.QueueItemID, retries int, lastError string) error {
	_, err := r.idb(db).NewUpdate().
		Model((*QueueItem)(nil)).
		Set("status = ?", syncdomain.StatusFailed).
		Set("retries = ?", retries).
		Set("last_error = ?", lastError).
		Set("updated_at = now()").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to freeze queue item %s: %w", id, err)
	}
	return nil
}

func (r *QueueDBImpl) ReturnToPending(ctx context.Context, db bun.IDB, id sharedtypes.QueueItemID, retries int, lastError string) error {
	_, err := r.idb(db).NewUpdate().
		Model((*QueueItem)(nil)).
		Set("status = ?", syncdomain.StatusPending).
		Set("retries = ?", retries).
		Set("last_error = ?", lastError).
		Set("updated_at = now()").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to return queue item %s to pending: %w", id, err)
	}
	return nil
}

func (r *QueueDBImpl) CountsByStatus(ctx context.Context, db bun.IDB, userID sharedtypes.UserID) (StatusCounts, error) {
	var rows []struct {
		Status syncdomain.Status `bun:"status"`
		Count  int               `bun:"count"`
	}
	err := r.idb(db).NewSelect().
		Model((*QueueItem)(nil)).
		Column("status").
		ColumnExpr("COUNT(*) AS count").
		Where("oq.user_id = ?", userID).
		Group("status").
		Scan(ctx, &rows)
	if err != nil {
		return StatusCounts{}, fmt.Errorf("failed to count queue items for user %s: %w", userID, err)
	}

	var counts StatusCounts
	for _, row := range rows {
		switch row.Status {
		case syncdomain.StatusPending:
			counts.Pending = row.Count
		case syncdomain.StatusProcessing:
			counts.Processing = row.Count
		case syncdomain.StatusCompleted:
			counts.Completed = row.Count
		case syncdomain.StatusFailed:
			counts.Failed = row.Count
		}
	}
	return counts, nil
}

func (r *QueueDBImpl) DeleteCompletedBefore(ctx context.Context, db bun.IDB, cutoff time.Time) (int, error) {
	res, err := r.idb(db).NewDelete().
		Model((*QueueItem)(nil)).
		Where("status = ?", syncdomain.StatusCompleted).
		Where("completed_at < ?", cutoff).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired queue items: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read retention delete result: %w", err)
	}
	return int(rows), nil
}
