package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"coilledger/internal/core/apperror"
	"coilledger/internal/domain/documents/cut"
	"coilledger/internal/domain/documents/production"
	"coilledger/internal/domain/documents/shipment"
	"coilledger/internal/domain/lots"
	"coilledger/internal/domain/store"
	"coilledger/internal/infrastructure/http/v1/dto"
)

// CommandsHandler exposes the state-transition commands: cuts,
// production runs, shipments and manual adjustments. Every command
// validates against the current snapshot inside store.Apply, so
// concurrent requests serialize on the mirror.
type CommandsHandler struct {
	*BaseHandler
	store     *store.Store
	persister store.Persister
}

// NewCommandsHandler creates a new commands handler.
func NewCommandsHandler(base *BaseHandler, st *store.Store, persister store.Persister) *CommandsHandler {
	return &CommandsHandler{BaseHandler: base, store: st, persister: persister}
}

// Cut handles POST /cuts
func (h *CommandsHandler) Cut(c *gin.Context) {
	var req dto.CutRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cmd, ok := req.ToCommand(time.Now())
	if !ok {
		h.Error(c, apperror.NewValidation("invalid date"))
		return
	}

	var rec *cut.Record
	err := h.store.Apply(c.Request.Context(), h.persister, func(snap store.Snapshot) (store.Snapshot, error) {
		next, r, err := cmd.Execute(snap)
		rec = r
		return next, err
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, rec.ID.String())
}

// Production handles POST /production
func (h *CommandsHandler) Production(c *gin.Context) {
	var req dto.ProductionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cmd, ok := req.ToCommand(time.Now())
	if !ok {
		h.Error(c, apperror.NewValidation("invalid date"))
		return
	}

	var batch *production.Batch
	err := h.store.Apply(c.Request.Context(), h.persister, func(snap store.Snapshot) (store.Snapshot, error) {
		next, b, err := cmd.Execute(snap)
		batch = b
		return next, err
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, batch.ID.String())
}

// Shipment handles POST /shipments
func (h *CommandsHandler) Shipment(c *gin.Context) {
	var req dto.ShipmentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cmd, ok := req.ToCommand(time.Now())
	if !ok {
		h.Error(c, apperror.NewValidation("invalid date"))
		return
	}

	var rec *shipment.Record
	err := h.store.Apply(c.Request.Context(), h.persister, func(snap store.Snapshot) (store.Snapshot, error) {
		next, r, err := cmd.Execute(snap)
		rec = r
		return next, err
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, rec.ID.String())
}

// Adjustment handles POST /adjustments
func (h *CommandsHandler) Adjustment(c *gin.Context) {
	var req dto.AdjustmentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cmd, ok := req.ToCommand(time.Now())
	if !ok {
		h.Error(c, apperror.NewValidation("invalid date or motherId"))
		return
	}

	var adjusted *lots.MotherLot
	err := h.store.Apply(c.Request.Context(), h.persister, func(snap store.Snapshot) (store.Snapshot, error) {
		next, m, err := cmd.Execute(snap)
		adjusted = m
		return next, err
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, adjusted)
}

// ListCuts handles GET /cuts
func (h *CommandsHandler) ListCuts(c *gin.Context) {
	snap := h.store.Snapshot()
	h.OK(c, dto.ListResponse{Items: snap.Cuts, TotalCount: len(snap.Cuts)})
}

// ListProduction handles GET /production
func (h *CommandsHandler) ListProduction(c *gin.Context) {
	snap := h.store.Snapshot()
	h.OK(c, dto.ListResponse{Items: snap.Batches, TotalCount: len(snap.Batches)})
}

// ListShipments handles GET /shipments
func (h *CommandsHandler) ListShipments(c *gin.Context) {
	snap := h.store.Snapshot()
	h.OK(c, dto.ListResponse{Items: snap.Shipments, TotalCount: len(snap.Shipments)})
}

// RegisterRoutes registers command routes on the API root.
func (h *CommandsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/cuts", h.Cut)
	rg.GET("/cuts", h.ListCuts)
	rg.POST("/production", h.Production)
	rg.GET("/production", h.ListProduction)
	rg.POST("/shipments", h.Shipment)
	rg.GET("/shipments", h.ListShipments)
	rg.POST("/adjustments", h.Adjustment)
}
