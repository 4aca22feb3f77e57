package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coilledger/internal/core/id"
	"coilledger/internal/domain/lots"
)

type persisterFunc func(ctx context.Context, prev, next Snapshot) error

func (f persisterFunc) Persist(ctx context.Context, prev, next Snapshot) error {
	return f(ctx, prev, next)
}

func seedSnapshot() Snapshot {
	return Snapshot{
		Mothers: []lots.MotherLot{{
			ID:              id.New(),
			Code:            "1000",
			Width:           1200,
			OriginalWeight:  9000,
			RemainingWeight: 9000,
			Status:          lots.StatusStock,
			EntryDate:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		}},
	}
}

func TestApply_InstallsMutatedSnapshot(t *testing.T) {
	s := New(seedSnapshot())

	err := s.Apply(context.Background(), nil, func(snap Snapshot) (Snapshot, error) {
		snap.Mothers[0].RemainingWeight = 5000
		return snap, nil
	})
	require.NoError(t, err)

	assert.Equal(t, 5000.0, s.Snapshot().Mothers[0].RemainingWeight)
}

func TestApply_MutateErrorLeavesStateUntouched(t *testing.T) {
	s := New(seedSnapshot())

	err := s.Apply(context.Background(), nil, func(snap Snapshot) (Snapshot, error) {
		snap.Mothers[0].RemainingWeight = 0
		return snap, errors.New("validation failed")
	})
	require.Error(t, err)

	assert.Equal(t, 9000.0, s.Snapshot().Mothers[0].RemainingWeight)
}

func TestApply_RevertsOnPersistFailure(t *testing.T) {
	s := New(seedSnapshot())

	boom := errors.New("connection lost")
	var sawPrev, sawNext Snapshot
	p := persisterFunc(func(ctx context.Context, prev, next Snapshot) error {
		sawPrev, sawNext = prev, next
		return boom
	})

	err := s.Apply(context.Background(), p, func(snap Snapshot) (Snapshot, error) {
		snap.Mothers[0].RemainingWeight = 4000
		return snap, nil
	})
	require.ErrorIs(t, err, boom)

	// Persister saw the transition, but the mirror rolled back.
	assert.Equal(t, 9000.0, sawPrev.Mothers[0].RemainingWeight)
	assert.Equal(t, 4000.0, sawNext.Mothers[0].RemainingWeight)
	assert.Equal(t, 9000.0, s.Snapshot().Mothers[0].RemainingWeight)
}

func TestApply_MutationsDoNotAliasCallerSnapshots(t *testing.T) {
	s := New(seedSnapshot())

	before := s.Snapshot()
	err := s.Apply(context.Background(), nil, func(snap Snapshot) (Snapshot, error) {
		snap.Mothers[0].RemainingWeight = 100
		return snap, nil
	})
	require.NoError(t, err)

	// The copy handed out earlier is unaffected.
	assert.Equal(t, 9000.0, before.Mothers[0].RemainingWeight)
}
