package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"coilledger/internal/core/apperror"
	"coilledger/internal/core/id"
	"coilledger/internal/domain/documents/production"
	"coilledger/internal/infrastructure/storage/postgres"
)

const batchTable = "production_batches"

// BatchRepo persists production batches.
type BatchRepo struct {
	txm  *postgres.TxManager
	cols []string
}

// NewBatchRepo creates a production batch repository.
func NewBatchRepo(txm *postgres.TxManager) *BatchRepo {
	return &BatchRepo{
		txm:  txm,
		cols: postgres.ExtractDBColumns[production.Batch](),
	}
}

// Create inserts a production batch.
func (r *BatchRepo) Create(ctx context.Context, b *production.Batch) error {
	q := builder().Insert(batchTable).SetMap(postgres.StructToMap(b))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", batchTable, err)
	}
	return nil
}

// GetByID retrieves a batch by id.
func (r *BatchRepo) GetByID(ctx context.Context, batchID id.ID) (*production.Batch, error) {
	q := builder().
		Select(r.cols...).
		From(batchTable).
		Where(squirrel.Eq{"id": batchID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var b production.Batch
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &b, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("production batch", batchID.String())
		}
		return nil, fmt.Errorf("get by id: %w", err)
	}
	return &b, nil
}

// ListAll retrieves every batch in date order.
func (r *BatchRepo) ListAll(ctx context.Context) ([]production.Batch, error) {
	q := builder().
		Select(r.cols...).
		From(batchTable).
		OrderBy("date ASC", "tracking_id ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []production.Batch
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", batchTable, err)
	}
	return items, nil
}

// ListByTrackingPrefix retrieves the packs of one logical lot.
func (r *BatchRepo) ListByTrackingPrefix(ctx context.Context, lotBase string) ([]production.Batch, error) {
	q := builder().
		Select(r.cols...).
		From(batchTable).
		Where(squirrel.Like{"tracking_id": lotBase + "-%"}).
		OrderBy("pack_index ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []production.Batch
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list by tracking prefix: %w", err)
	}
	return items, nil
}
