// Package commands holds the explicit state-transition commands the
// surrounding application issues against the collection mirror. Each
// command validates against the current snapshot and returns the next
// one; the reporting engine only ever reads.
package commands

import (
	"time"

	"coilledger/internal/core/apperror"
	"coilledger/internal/core/id"
	"coilledger/internal/core/types"
	"coilledger/internal/domain/documents/cut"
	"coilledger/internal/domain/documents/production"
	"coilledger/internal/domain/documents/shipment"
	"coilledger/internal/domain/lots"
	"coilledger/internal/domain/store"
)

// NewChild describes one coil produced by a cut.
type NewChild struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Width     float64 `json:"width"`
	Thickness float64 `json:"thickness"`
	Weight    float64 `json:"weight"`
}

// ApplyCut consumes weight from a mother coil and creates its children.
type ApplyCut struct {
	MotherCode  string     `json:"motherCode"`
	Width       float64    `json:"width,omitempty"`
	InputWeight float64    `json:"inputWeight"`
	Scrap       float64    `json:"scrap"`
	Children    []NewChild `json:"children"`
	Date        time.Time  `json:"date"`
}

// Execute validates the cut and returns the next snapshot plus the
// created record.
func (c ApplyCut) Execute(snap store.Snapshot) (store.Snapshot, *cut.Record, error) {
	if c.InputWeight <= 0 {
		return snap, nil, apperror.NewValidation("input weight must be positive")
	}

	weights := make([]float64, 0, len(c.Children))
	var produced float64
	for _, ch := range c.Children {
		if ch.Weight <= 0 {
			return snap, nil, apperror.NewValidation("child weight must be positive")
		}
		weights = append(weights, ch.Weight)
		produced += ch.Weight
	}
	if !types.ConservationHolds(c.InputWeight, weights, c.Scrap) {
		return snap, nil, apperror.NewWeightMismatch(c.MotherCode, c.InputWeight, produced, c.Scrap)
	}

	next := snap // Execute received its own clone from the store.
	mi := -1
	for i := range next.Mothers {
		m := &next.Mothers[i]
		if m.Code != c.MotherCode || !m.InStock() {
			continue
		}
		if c.Width != 0 && m.Width != c.Width {
			continue
		}
		mi = i
		break
	}
	if mi < 0 {
		return snap, nil, apperror.NewNotFound("mother lot", c.MotherCode)
	}

	mother := &next.Mothers[mi]
	if !mother.CanConsume(c.InputWeight) {
		return snap, nil, apperror.NewInsufficientLot(mother.Code, c.InputWeight, mother.RemainingWeight)
	}

	mother.RemainingWeight -= c.InputWeight
	if mother.RemainingWeight < 0 {
		mother.RemainingWeight = 0
	}
	if mother.Exhausted() {
		mother.Status = lots.StatusConsumed
		consumed := c.Date
		mother.ConsumedDate = &consumed
	}
	mother.UpdatedAt = c.Date

	for _, ch := range c.Children {
		next.Children = append(next.Children, lots.ChildLot{
			ID:            id.New(),
			Code:          ch.Code,
			Name:          ch.Name,
			Width:         ch.Width,
			Thickness:     ch.Thickness,
			Weight:        ch.Weight,
			InitialWeight: ch.Weight,
			Status:        lots.StatusStock,
			MotherCode:    c.MotherCode,
			CreatedAt:     c.Date,
		})
	}

	rec := cut.Record{
		ID:          id.New(),
		MotherCode:  c.MotherCode,
		Width:       mother.Width,
		InputWeight: c.InputWeight,
		Scrap:       c.Scrap,
		OutputCount: len(c.Children),
		Date:        c.Date,
		CreatedAt:   c.Date,
	}
	next.Cuts = append(next.Cuts, rec)

	return next, &rec, nil
}

// ApplyProduction packs finished product, consuming child lots.
type ApplyProduction struct {
	ProductCode string    `json:"productCode"`
	TrackingID  string    `json:"trackingId"`
	Pieces      int       `json:"pieces"`
	PackIndex   int       `json:"packIndex"`
	Scrap       float64   `json:"scrap"`
	ChildIDs    []string  `json:"childIds"`
	Date        time.Time `json:"date"`
}

func (p ApplyProduction) Execute(snap store.Snapshot) (store.Snapshot, *production.Batch, error) {
	if p.Pieces <= 0 {
		return snap, nil, apperror.NewValidation("pieces must be positive")
	}

	next := snap
	for _, cid := range p.ChildIDs {
		found := false
		for i := range next.Children {
			c := &next.Children[i]
			if c.ID.String() != cid {
				continue
			}
			found = true
			if !c.InStock() {
				return snap, nil, apperror.NewLotConsumed(c.Code)
			}
			c.Status = lots.StatusConsumed
			c.Weight = 0
			c.UpdatedAt = p.Date
			break
		}
		if !found {
			return snap, nil, apperror.NewNotFound("child lot", cid)
		}
	}

	batch := production.Batch{
		ID:          id.New(),
		ProductCode: p.ProductCode,
		TrackingID:  p.TrackingID,
		Pieces:      p.Pieces,
		PackIndex:   p.PackIndex,
		Scrap:       p.Scrap,
		ChildIDs:    append([]string(nil), p.ChildIDs...),
		Date:        p.Date,
		CreatedAt:   p.Date,
	}
	next.Batches = append(next.Batches, batch)

	return next, &batch, nil
}

// ApplyShipment records an outbound movement of finished product.
type ApplyShipment struct {
	ProductCode string    `json:"productCode"`
	Quantity    int       `json:"quantity"`
	Destination string    `json:"destination"`
	Date        time.Time `json:"date"`
}

func (s ApplyShipment) Execute(snap store.Snapshot) (store.Snapshot, *shipment.Record, error) {
	if s.Quantity <= 0 {
		return snap, nil, apperror.NewValidation("quantity must be positive")
	}

	available := 0
	for i := range snap.Batches {
		if snap.Batches[i].ProductCode == s.ProductCode {
			available += snap.Batches[i].Pieces
		}
	}
	for i := range snap.Shipments {
		if snap.Shipments[i].ProductCode == s.ProductCode {
			available -= snap.Shipments[i].Quantity
		}
	}
	if s.Quantity > available {
		return snap, nil, apperror.NewInsufficientLot(s.ProductCode, float64(s.Quantity), float64(available))
	}

	next := snap
	rec := shipment.Record{
		ID:          id.New(),
		ProductCode: s.ProductCode,
		Quantity:    s.Quantity,
		Destination: s.Destination,
		Date:        s.Date,
		CreatedAt:   s.Date,
	}
	next.Shipments = append(next.Shipments, rec)

	return next, &rec, nil
}

// ApplyAdjustment manually corrects a mother lot's remaining weight,
// optionally closing it.
type ApplyAdjustment struct {
	MotherID     id.ID     `json:"motherId"`
	NewRemaining float64   `json:"newRemaining"`
	Close        bool      `json:"close"`
	Reason       string    `json:"reason"`
	Date         time.Time `json:"date"`
}

func (a ApplyAdjustment) Execute(snap store.Snapshot) (store.Snapshot, *lots.MotherLot, error) {
	if a.NewRemaining < 0 {
		return snap, nil, apperror.NewValidation("remaining weight cannot be negative")
	}

	next := snap
	for i := range next.Mothers {
		m := &next.Mothers[i]
		if m.ID != a.MotherID {
			continue
		}
		if a.NewRemaining > m.OriginalWeight {
			return snap, nil, apperror.NewValidation("remaining weight cannot exceed original weight")
		}
		m.RemainingWeight = a.NewRemaining
		if a.Close || m.Exhausted() {
			m.Status = lots.StatusConsumed
			consumed := a.Date
			m.ConsumedDate = &consumed
		} else {
			m.Status = lots.StatusStock
			m.ConsumedDate = nil
		}
		m.UpdatedAt = a.Date
		return next, m, nil
	}

	return snap, nil, apperror.NewNotFound("mother lot", a.MotherID.String())
}
