package dto

import (
	"time"

	"coilledger/internal/core/dates"
	"coilledger/internal/core/id"
	"coilledger/internal/domain/commands"
)

// parseDate resolves an optional document date: empty means now, a
// garbage value reports failure.
func parseDate(s string, now time.Time) (time.Time, bool) {
	if s == "" {
		return now, true
	}
	t := dates.Parse(s)
	if t.IsZero() {
		return time.Time{}, false
	}
	return t, true
}

// CutChildRequest describes one coil produced by a cut.
type CutChildRequest struct {
	Code      string  `json:"code" binding:"required"`
	Name      string  `json:"name"`
	Width     float64 `json:"width" binding:"required,gt=0"`
	Thickness float64 `json:"thickness"`
	Weight    float64 `json:"weight" binding:"required,gt=0"`
}

// CutRequest for POST /cuts.
type CutRequest struct {
	MotherCode  string            `json:"motherCode" binding:"required"`
	Width       float64           `json:"width"`
	InputWeight float64           `json:"inputWeight" binding:"required,gt=0"`
	Scrap       float64           `json:"scrap"`
	Children    []CutChildRequest `json:"children" binding:"required,min=1,dive"`
	Date        string            `json:"date"`
}

// ToCommand converts the request into an executable cut.
func (r CutRequest) ToCommand(now time.Time) (commands.ApplyCut, bool) {
	date, ok := parseDate(r.Date, now)
	if !ok {
		return commands.ApplyCut{}, false
	}
	children := make([]commands.NewChild, len(r.Children))
	for i, ch := range r.Children {
		children[i] = commands.NewChild{
			Code:      ch.Code,
			Name:      ch.Name,
			Width:     ch.Width,
			Thickness: ch.Thickness,
			Weight:    ch.Weight,
		}
	}
	return commands.ApplyCut{
		MotherCode:  r.MotherCode,
		Width:       r.Width,
		InputWeight: r.InputWeight,
		Scrap:       r.Scrap,
		Children:    children,
		Date:        date,
	}, true
}

// ProductionRequest for POST /production.
type ProductionRequest struct {
	ProductCode string   `json:"productCode" binding:"required"`
	TrackingID  string   `json:"trackingId" binding:"required"`
	Pieces      int      `json:"pieces" binding:"required,gt=0"`
	PackIndex   int      `json:"packIndex"`
	Scrap       float64  `json:"scrap"`
	ChildIDs    []string `json:"childIds"`
	Date        string   `json:"date"`
}

// ToCommand converts the request into an executable production run.
func (r ProductionRequest) ToCommand(now time.Time) (commands.ApplyProduction, bool) {
	date, ok := parseDate(r.Date, now)
	if !ok {
		return commands.ApplyProduction{}, false
	}
	return commands.ApplyProduction{
		ProductCode: r.ProductCode,
		TrackingID:  r.TrackingID,
		Pieces:      r.Pieces,
		PackIndex:   r.PackIndex,
		Scrap:       r.Scrap,
		ChildIDs:    r.ChildIDs,
		Date:        date,
	}, true
}

// ShipmentRequest for POST /shipments.
type ShipmentRequest struct {
	ProductCode string `json:"productCode" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,gt=0"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
}

// ToCommand converts the request into an executable shipment.
func (r ShipmentRequest) ToCommand(now time.Time) (commands.ApplyShipment, bool) {
	date, ok := parseDate(r.Date, now)
	if !ok {
		return commands.ApplyShipment{}, false
	}
	return commands.ApplyShipment{
		ProductCode: r.ProductCode,
		Quantity:    r.Quantity,
		Destination: r.Destination,
		Date:        date,
	}, true
}

// AdjustmentRequest for POST /adjustments.
type AdjustmentRequest struct {
	MotherID     string  `json:"motherId" binding:"required,uuid"`
	NewRemaining float64 `json:"newRemaining"`
	Close        bool    `json:"close"`
	Reason       string  `json:"reason" binding:"required"`
	Date         string  `json:"date"`
}

// ToCommand converts the request into an executable adjustment.
func (r AdjustmentRequest) ToCommand(now time.Time) (commands.ApplyAdjustment, bool) {
	date, ok := parseDate(r.Date, now)
	if !ok {
		return commands.ApplyAdjustment{}, false
	}
	motherID, err := id.Parse(r.MotherID)
	if err != nil {
		return commands.ApplyAdjustment{}, false
	}
	return commands.ApplyAdjustment{
		MotherID:     motherID,
		NewRemaining: r.NewRemaining,
		Close:        r.Close,
		Reason:       r.Reason,
		Date:         date,
	}, true
}
