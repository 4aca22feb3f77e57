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

const childTable = "child_lots"

// ChildRepo persists slit child lots.
type ChildRepo struct {
	txm  *postgres.TxManager
	cols []string
}

// NewChildRepo creates a child lot repository.
func NewChildRepo(txm *postgres.TxManager) *ChildRepo {
	return &ChildRepo{
		txm:  txm,
		cols: postgres.ExtractDBColumns[lots.ChildLot](),
	}
}

// Create inserts a new child lot.
func (r *ChildRepo) Create(ctx context.Context, lot *lots.ChildLot) error {
	q := builder().Insert(childTable).SetMap(postgres.StructToMap(lot))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", childTable, err)
	}
	return nil
}

// Update rewrites a child lot by id.
func (r *ChildRepo) Update(ctx context.Context, lot *lots.ChildLot) error {
	data := postgres.StructToMap(lot)
	delete(data, "id")

	q := builder().
		Update(childTable).
		SetMap(data).
		Where(squirrel.Eq{"id": lot.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", childTable, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(childTable, lot.ID.String())
	}
	return nil
}

// GetByID retrieves a child lot by id.
func (r *ChildRepo) GetByID(ctx context.Context, lotID id.ID) (*lots.ChildLot, error) {
	q := builder().
		Select(r.cols...).
		From(childTable).
		Where(squirrel.Eq{"id": lotID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lot lots.ChildLot
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &lot, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("child lot", lotID.String())
		}
		return nil, fmt.Errorf("get by id: %w", err)
	}
	return &lot, nil
}

// ListAll retrieves every child lot ordered by creation.
func (r *ChildRepo) ListAll(ctx context.Context) ([]lots.ChildLot, error) {
	q := builder().
		Select(r.cols...).
		From(childTable).
		OrderBy("created_at ASC", "code ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []lots.ChildLot
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", childTable, err)
	}
	return items, nil
}

// ListByMotherCode retrieves the children slit from one mother code.
func (r *ChildRepo) ListByMotherCode(ctx context.Context, motherCode string) ([]lots.ChildLot, error) {
	q := builder().
		Select(r.cols...).
		From(childTable).
		Where(squirrel.Eq{"mother_code": motherCode}).
		OrderBy("created_at ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []lots.ChildLot
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list by mother code: %w", err)
	}
	return items, nil
}

// Delete removes a child lot.
func (r *ChildRepo) Delete(ctx context.Context, lotID id.ID) error {
	q := builder().Delete(childTable).Where(squirrel.Eq{"id": lotID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete %s: %w", childTable, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("child lot", lotID.String())
	}
	return nil
}
