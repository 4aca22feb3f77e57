// Package mirror loads the collection mirror from PostgreSQL and
// persists snapshot transitions produced by the command layer. A
// transition is written atomically: lot upserts, new documents, the
// event feed and the audit trail all land in one transaction.
package mirror

import (
	"context"
	"fmt"

	"coilledger/internal/core/id"
	"coilledger/internal/domain/events"
	"coilledger/internal/domain/store"
	"coilledger/internal/infrastructure/storage/postgres"
	"coilledger/internal/infrastructure/storage/postgres/document_repo"
	"coilledger/internal/infrastructure/storage/postgres/event_repo"
	"coilledger/internal/infrastructure/storage/postgres/lot_repo"
)

// Compile-time check.
var _ store.Persister = (*Persister)(nil)

// Repos bundles the repositories the mirror reads and writes.
type Repos struct {
	Mothers   *lot_repo.MotherRepo
	Children  *lot_repo.ChildRepo
	Cuts      *document_repo.CutRepo
	Batches   *document_repo.BatchRepo
	Shipments *document_repo.ShipmentRepo
	Events    *event_repo.EventRepo
}

// NewRepos wires the full repository set over one transaction manager.
func NewRepos(txm *postgres.TxManager) Repos {
	return Repos{
		Mothers:   lot_repo.NewMotherRepo(txm),
		Children:  lot_repo.NewChildRepo(txm),
		Cuts:      document_repo.NewCutRepo(txm),
		Batches:   document_repo.NewBatchRepo(txm),
		Shipments: document_repo.NewShipmentRepo(txm),
		Events:    event_repo.NewEventRepo(txm),
	}
}

// Load reads every collection into an in-memory snapshot.
func Load(ctx context.Context, repos Repos) (store.Snapshot, error) {
	var snap store.Snapshot
	var err error

	if snap.Mothers, err = repos.Mothers.ListAll(ctx); err != nil {
		return store.Snapshot{}, fmt.Errorf("load mothers: %w", err)
	}
	if snap.Children, err = repos.Children.ListAll(ctx); err != nil {
		return store.Snapshot{}, fmt.Errorf("load children: %w", err)
	}
	if snap.Cuts, err = repos.Cuts.ListAll(ctx); err != nil {
		return store.Snapshot{}, fmt.Errorf("load cuts: %w", err)
	}
	if snap.Batches, err = repos.Batches.ListAll(ctx); err != nil {
		return store.Snapshot{}, fmt.Errorf("load batches: %w", err)
	}
	if snap.Shipments, err = repos.Shipments.ListAll(ctx); err != nil {
		return store.Snapshot{}, fmt.Errorf("load shipments: %w", err)
	}

	return snap, nil
}

// Persister writes snapshot transitions.
type Persister struct {
	txm   *postgres.TxManager
	repos Repos
	audit *postgres.AuditService
}

// NewPersister creates a persister. audit may be nil to skip the trail.
func NewPersister(txm *postgres.TxManager, repos Repos, audit *postgres.AuditService) *Persister {
	return &Persister{txm: txm, repos: repos, audit: audit}
}

// Persist writes the difference between prev and next in one
// transaction. Lots are upserted; documents are append-only, so only
// records new in next are inserted, each with its feed event.
func (p *Persister) Persist(ctx context.Context, prev, next store.Snapshot) error {
	return p.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := p.persistMothers(ctx, prev, next); err != nil {
			return err
		}
		if err := p.persistChildren(ctx, prev, next); err != nil {
			return err
		}
		if err := p.persistDocuments(ctx, prev, next); err != nil {
			return err
		}
		return nil
	})
}

func (p *Persister) persistMothers(ctx context.Context, prev, next store.Snapshot) error {
	known := make(map[string]int, len(prev.Mothers))
	for i := range prev.Mothers {
		known[prev.Mothers[i].ID.String()] = i
	}

	for i := range next.Mothers {
		m := &next.Mothers[i]
		pi, ok := known[m.ID.String()]
		if !ok {
			if err := p.repos.Mothers.Create(ctx, m); err != nil {
				return err
			}
			p.logChange(ctx, "mother_lot", m.ID, postgres.AuditActionCreate, nil, postgres.StructToMap(m))
			continue
		}
		if *m != prev.Mothers[pi] {
			if err := p.repos.Mothers.Update(ctx, m); err != nil {
				return err
			}
			p.logChange(ctx, "mother_lot", m.ID, postgres.AuditActionUpdate,
				postgres.StructToMap(&prev.Mothers[pi]), postgres.StructToMap(m))
		}
	}

	kept := idSet(len(next.Mothers))
	for i := range next.Mothers {
		kept[next.Mothers[i].ID.String()] = struct{}{}
	}
	for i := range prev.Mothers {
		m := &prev.Mothers[i]
		if _, ok := kept[m.ID.String()]; ok {
			continue
		}
		if err := p.repos.Mothers.Delete(ctx, m.ID); err != nil {
			return err
		}
		p.logChange(ctx, "mother_lot", m.ID, postgres.AuditActionDelete, postgres.StructToMap(m), nil)
	}
	return nil
}

func (p *Persister) persistChildren(ctx context.Context, prev, next store.Snapshot) error {
	known := make(map[string]int, len(prev.Children))
	for i := range prev.Children {
		known[prev.Children[i].ID.String()] = i
	}

	for i := range next.Children {
		c := &next.Children[i]
		pi, ok := known[c.ID.String()]
		if !ok {
			if err := p.repos.Children.Create(ctx, c); err != nil {
				return err
			}
			p.logChange(ctx, "child_lot", c.ID, postgres.AuditActionCreate, nil, postgres.StructToMap(c))
			continue
		}
		if *c != prev.Children[pi] {
			if err := p.repos.Children.Update(ctx, c); err != nil {
				return err
			}
			p.logChange(ctx, "child_lot", c.ID, postgres.AuditActionUpdate,
				postgres.StructToMap(&prev.Children[pi]), postgres.StructToMap(c))
		}
	}

	kept := idSet(len(next.Children))
	for i := range next.Children {
		kept[next.Children[i].ID.String()] = struct{}{}
	}
	for i := range prev.Children {
		c := &prev.Children[i]
		if _, ok := kept[c.ID.String()]; ok {
			continue
		}
		if err := p.repos.Children.Delete(ctx, c.ID); err != nil {
			return err
		}
		p.logChange(ctx, "child_lot", c.ID, postgres.AuditActionDelete, postgres.StructToMap(c), nil)
	}
	return nil
}

func (p *Persister) persistDocuments(ctx context.Context, prev, next store.Snapshot) error {
	knownCuts := idSet(len(prev.Cuts))
	for i := range prev.Cuts {
		knownCuts[prev.Cuts[i].ID.String()] = struct{}{}
	}
	for i := range next.Cuts {
		rec := &next.Cuts[i]
		if _, ok := knownCuts[rec.ID.String()]; ok {
			continue
		}
		if err := p.repos.Cuts.Create(ctx, rec); err != nil {
			return err
		}
		p.logChange(ctx, "cut_record", rec.ID, postgres.AuditActionCut, nil, postgres.StructToMap(rec))
		if err := p.appendDocEvents(ctx, store.Snapshot{Cuts: next.Cuts[i : i+1], Children: next.Children}); err != nil {
			return err
		}
	}

	knownBatches := idSet(len(prev.Batches))
	for i := range prev.Batches {
		knownBatches[prev.Batches[i].ID.String()] = struct{}{}
	}
	for i := range next.Batches {
		b := &next.Batches[i]
		if _, ok := knownBatches[b.ID.String()]; ok {
			continue
		}
		if err := p.repos.Batches.Create(ctx, b); err != nil {
			return err
		}
		p.logChange(ctx, "production_batch", b.ID, postgres.AuditActionPack, nil, postgres.StructToMap(b))
		if err := p.appendDocEvents(ctx, store.Snapshot{Batches: next.Batches[i : i+1]}); err != nil {
			return err
		}
	}

	knownShipments := idSet(len(prev.Shipments))
	for i := range prev.Shipments {
		knownShipments[prev.Shipments[i].ID.String()] = struct{}{}
	}
	for i := range next.Shipments {
		rec := &next.Shipments[i]
		if _, ok := knownShipments[rec.ID.String()]; ok {
			continue
		}
		if err := p.repos.Shipments.Create(ctx, rec); err != nil {
			return err
		}
		p.logChange(ctx, "shipment_record", rec.ID, postgres.AuditActionShip, nil, postgres.StructToMap(rec))
		if err := p.appendDocEvents(ctx, store.Snapshot{Shipments: next.Shipments[i : i+1]}); err != nil {
			return err
		}
	}

	return nil
}

// appendDocEvents derives feed events for one new document the same way
// the synthesized source would and stores them in the stream.
func (p *Persister) appendDocEvents(ctx context.Context, docSnap store.Snapshot) error {
	for _, ev := range (events.SynthesizedSource{Snap: docSnap}).Events() {
		if err := p.repos.Events.Append(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

func (p *Persister) logChange(ctx context.Context, entityType string, entityID id.ID, action postgres.AuditAction, oldState, newState map[string]any) {
	if p.audit == nil {
		return
	}
	changes := newState
	if oldState != nil {
		changes = postgres.Diff(oldState, newState)
	}
	// Audit failure must not fail the business transaction.
	_ = p.audit.LogChange(ctx, entityType, entityID, action, changes)
}

func idSet(capacity int) map[string]struct{} {
	return make(map[string]struct{}, capacity)
}
