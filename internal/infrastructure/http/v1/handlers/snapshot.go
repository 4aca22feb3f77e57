package handlers

import (
	"github.com/gin-gonic/gin"

	"coilledger/internal/core/apperror"
	"coilledger/internal/core/dates"
	"coilledger/internal/domain/ledger"
	"coilledger/internal/domain/snapshot"
	"coilledger/internal/domain/store"
	"coilledger/internal/infrastructure/http/v1/dto"
)

// SnapshotHandler reconstructs the stock position at a past cutoff.
type SnapshotHandler struct {
	*BaseHandler
	store    *store.Store
	resolver ResolverFunc
}

// NewSnapshotHandler creates a new snapshot handler.
func NewSnapshotHandler(base *BaseHandler, st *store.Store, resolver ResolverFunc) *SnapshotHandler {
	return &SnapshotHandler{BaseHandler: base, store: st, resolver: resolver}
}

// GetSnapshot handles GET /snapshot?at=
// The cutoff is inclusive; movements after it are rolled back.
func (h *SnapshotHandler) GetSnapshot(c *gin.Context) {
	atStr := c.Query("at")
	if atStr == "" {
		h.Error(c, apperror.NewValidation("at is required"))
		return
	}

	at := dates.Parse(atStr)
	if at.IsZero() {
		h.Error(c, apperror.NewValidation("invalid at date"))
		return
	}

	rebuilt := snapshot.Reconstruct(h.store.Snapshot(), at)
	rows := ledger.Aggregate(rebuilt, h.resolver())

	h.OK(c, dto.SnapshotResponse{
		At:       at,
		Snapshot: rebuilt,
		Stock:    rows,
	})
}

// RegisterRoutes registers snapshot routes.
func (h *SnapshotHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.GetSnapshot)
}
