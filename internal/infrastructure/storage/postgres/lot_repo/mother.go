// Package lot_repo provides PostgreSQL repositories for mother and
// child coil lots.
package lot_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"coilledger/internal/core/apperror"
	"coilledger/internal/core/id"
	"coilledger/internal/domain/lots"
	"coilledger/internal/infrastructure/storage/postgres"
)

const motherTable = "mother_lots"

// MotherRepo persists mother coil lots.
type MotherRepo struct {
	txm  *postgres.TxManager
	cols []string
}

// NewMotherRepo creates a mother lot repository.
func NewMotherRepo(txm *postgres.TxManager) *MotherRepo {
	return &MotherRepo{
		txm:  txm,
		cols: postgres.ExtractDBColumns[lots.MotherLot](),
	}
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a new mother lot.
func (r *MotherRepo) Create(ctx context.Context, lot *lots.MotherLot) error {
	q := builder().Insert(motherTable).SetMap(postgres.StructToMap(lot))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", motherTable, err)
	}
	return nil
}

// Update rewrites a mother lot by id.
func (r *MotherRepo) Update(ctx context.Context, lot *lots.MotherLot) error {
	data := postgres.StructToMap(lot)
	delete(data, "id")

	q := builder().
		Update(motherTable).
		SetMap(data).
		Where(squirrel.Eq{"id": lot.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", motherTable, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(motherTable, lot.ID.String())
	}
	return nil
}

// GetByID retrieves a mother lot by id.
func (r *MotherRepo) GetByID(ctx context.Context, lotID id.ID) (*lots.MotherLot, error) {
	q := builder().
		Select(r.cols...).
		From(motherTable).
		Where(squirrel.Eq{"id": lotID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lot lots.MotherLot
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &lot, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("mother lot", lotID.String())
		}
		return nil, fmt.Errorf("get by id: %w", err)
	}
	return &lot, nil
}

// ListAll retrieves every mother lot ordered by entry date.
func (r *MotherRepo) ListAll(ctx context.Context) ([]lots.MotherLot, error) {
	q := builder().
		Select(r.cols...).
		From(motherTable).
		OrderBy("entry_date ASC", "code ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []lots.MotherLot
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", motherTable, err)
	}
	return items, nil
}

// ListByCode retrieves mother lots for one material code.
func (r *MotherRepo) ListByCode(ctx context.Context, code string) ([]lots.MotherLot, error) {
	q := builder().
		Select(r.cols...).
		From(motherTable).
		Where(squirrel.Eq{"code": code}).
		OrderBy("entry_date ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []lots.MotherLot
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list by code: %w", err)
	}
	return items, nil
}

// Delete removes a mother lot.
func (r *MotherRepo) Delete(ctx context.Context, lotID id.ID) error {
	q := builder().Delete(motherTable).Where(squirrel.Eq{"id": lotID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete %s: %w", motherTable, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("mother lot", lotID.String())
	}
	return nil
}
