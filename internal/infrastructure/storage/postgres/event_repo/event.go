// Package event_repo provides the PostgreSQL repository for the
// persisted movement-event stream.
package event_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"coilledger/internal/domain/events"
	"coilledger/internal/infrastructure/storage/postgres"
)

const eventTable = "events"

// row is the storage shape of one event.
type row struct {
	ID         string    `db:"id"`
	Type       string    `db:"type"`
	SourceID   string    `db:"source_id"`
	TargetIDs  []string  `db:"target_ids"`
	Timestamp  time.Time `db:"timestamp"`
	Details    string    `db:"details"`
	Code       string    `db:"code"`
	Weight     float64   `db:"weight"`
	Pieces     int       `db:"pieces"`
	Packs      int       `db:"packs"`
	TrackingID string    `db:"tracking_id"`
	PackIndex  int       `db:"pack_index"`
}

func toRow(e events.Event) row {
	return row{
		ID:         e.ID,
		Type:       string(e.Type),
		SourceID:   e.SourceID,
		TargetIDs:  e.TargetIDs,
		Timestamp:  e.Timestamp,
		Details:    e.Details,
		Code:       e.Code,
		Weight:     e.Weight,
		Pieces:     e.Pieces,
		Packs:      e.Packs,
		TrackingID: e.TrackingID,
		PackIndex:  e.PackIndex,
	}
}

func (r row) toEvent() events.Event {
	return events.Event{
		ID:         r.ID,
		Type:       events.Type(r.Type),
		SourceID:   r.SourceID,
		TargetIDs:  r.TargetIDs,
		Timestamp:  r.Timestamp,
		Details:    r.Details,
		Code:       r.Code,
		Weight:     r.Weight,
		Pieces:     r.Pieces,
		Packs:      r.Packs,
		TrackingID: r.TrackingID,
		PackIndex:  r.PackIndex,
	}
}

// EventRepo persists movement events.
type EventRepo struct {
	txm  *postgres.TxManager
	cols []string
}

// NewEventRepo creates an event repository.
func NewEventRepo(txm *postgres.TxManager) *EventRepo {
	return &EventRepo{
		txm:  txm,
		cols: postgres.ExtractDBColumns[row](),
	}
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Append stores one event; duplicate ids are ignored so re-posting a
// document does not double the feed.
func (r *EventRepo) Append(ctx context.Context, e events.Event) error {
	q := builder().
		Insert(eventTable).
		SetMap(postgres.StructToMap(toRow(e))).
		Suffix("ON CONFLICT (id) DO NOTHING")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", eventTable, err)
	}
	return nil
}

// ListRecent returns the newest events, most recent first.
func (r *EventRepo) ListRecent(ctx context.Context, limit int) ([]events.Event, error) {
	if limit <= 0 {
		limit = events.DefaultFeedLimit
	}

	q := builder().
		Select(r.cols...).
		From(eventTable).
		OrderBy("timestamp DESC").
		Limit(uint64(limit))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", eventTable, err)
	}

	out := make([]events.Event, 0, len(rows))
	for _, rw := range rows {
		out = append(out, rw.toEvent())
	}
	return out, nil
}

// Count reports how many events are stored, used to decide between the
// persisted and synthesized feed sources.
func (r *EventRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.txm.GetQuerier(ctx).
		QueryRow(ctx, "SELECT COUNT(*) FROM "+eventTable).
		Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", eventTable, err)
	}
	return n, nil
}
