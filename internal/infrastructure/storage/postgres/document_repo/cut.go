// Package document_repo provides PostgreSQL repositories for the
// transaction documents: cut records, production batches and shipments.
package document_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"coilledger/internal/core/apperror"
	"coilledger/internal/core/id"
	"coilledger/internal/domain/documents/cut"
	"coilledger/internal/infrastructure/storage/postgres"
)

const cutTable = "cut_records"

// CutRepo persists cut records.
type CutRepo struct {
	txm  *postgres.TxManager
	cols []string
}

// NewCutRepo creates a cut record repository.
func NewCutRepo(txm *postgres.TxManager) *CutRepo {
	return &CutRepo{
		txm:  txm,
		cols: postgres.ExtractDBColumns[cut.Record](),
	}
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a cut record.
func (r *CutRepo) Create(ctx context.Context, rec *cut.Record) error {
	q := builder().Insert(cutTable).SetMap(postgres.StructToMap(rec))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", cutTable, err)
	}
	return nil
}

// GetByID retrieves a cut record by id.
func (r *CutRepo) GetByID(ctx context.Context, recID id.ID) (*cut.Record, error) {
	q := builder().
		Select(r.cols...).
		From(cutTable).
		Where(squirrel.Eq{"id": recID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rec cut.Record
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &rec, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("cut record", recID.String())
		}
		return nil, fmt.Errorf("get by id: %w", err)
	}
	return &rec, nil
}

// ListAll retrieves every cut record in date order.
func (r *CutRepo) ListAll(ctx context.Context) ([]cut.Record, error) {
	q := builder().
		Select(r.cols...).
		From(cutTable).
		OrderBy("date ASC", "created_at ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []cut.Record
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", cutTable, err)
	}
	return items, nil
}

// ListByPeriod retrieves cut records inside [from, to].
func (r *CutRepo) ListByPeriod(ctx context.Context, from, to time.Time) ([]cut.Record, error) {
	q := builder().
		Select(r.cols...).
		From(cutTable).
		OrderBy("date ASC")

	if !from.IsZero() {
		q = q.Where(squirrel.GtOrEq{"date": from})
	}
	if !to.IsZero() {
		q = q.Where(squirrel.LtOrEq{"date": to})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []cut.Record
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list by period: %w", err)
	}
	return items, nil
}
