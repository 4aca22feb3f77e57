package dto

import (
	"time"

	"coilledger/internal/core/dates"
	"coilledger/internal/core/id"
	"coilledger/internal/domain/lots"
)

// CreateMotherRequest for POST /lots/mothers. EntryDate accepts
// ISO (2006-01-02), BR (02/01/2006) or RFC3339.
type CreateMotherRequest struct {
	Code         string  `json:"code" binding:"required"`
	Width        float64 `json:"width" binding:"required,gt=0"`
	Thickness    float64 `json:"thickness"`
	MaterialType string  `json:"materialType"`
	Description  string  `json:"description"`
	Weight       float64 `json:"weight" binding:"required,gt=0"`
	EntryDate    string  `json:"entryDate" binding:"required"`
	NF           string  `json:"nf"`
}

// ToMotherLot builds a fresh mother lot from the request.
func (r CreateMotherRequest) ToMotherLot(now time.Time) (lots.MotherLot, bool) {
	entry := dates.Parse(r.EntryDate)
	if entry.IsZero() {
		return lots.MotherLot{}, false
	}
	return lots.MotherLot{
		ID:              id.New(),
		Code:            r.Code,
		Width:           r.Width,
		Thickness:       r.Thickness,
		MaterialType:    r.MaterialType,
		Description:     r.Description,
		OriginalWeight:  r.Weight,
		RemainingWeight: r.Weight,
		Status:          lots.StatusStock,
		EntryDate:       entry,
		NF:              r.NF,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, true
}

// UpdateMotherRequest for PUT /lots/mothers/:id. Nil fields are left
// untouched; remaining weight changes go through the adjustment
// endpoint instead.
type UpdateMotherRequest struct {
	Thickness    *float64 `json:"thickness"`
	MaterialType *string  `json:"materialType"`
	Description  *string  `json:"description"`
	NF           *string  `json:"nf"`
}

// ApplyTo merges the request into an existing lot.
func (r UpdateMotherRequest) ApplyTo(m *lots.MotherLot, now time.Time) {
	if r.Thickness != nil {
		m.Thickness = *r.Thickness
	}
	if r.MaterialType != nil {
		m.MaterialType = *r.MaterialType
	}
	if r.Description != nil {
		m.Description = *r.Description
	}
	if r.NF != nil {
		m.NF = *r.NF
	}
	m.UpdatedAt = now
}
