package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"coilledger/internal/core/apperror"
	"coilledger/internal/core/id"
	"coilledger/internal/domain/lots"
	"coilledger/internal/domain/store"
	"coilledger/internal/infrastructure/http/v1/dto"
)

// LotsHandler handles CRUD for mother and child lots. Mutations run
// through the store so the database mirror and the in-memory state
// move together.
type LotsHandler struct {
	*BaseHandler
	store     *store.Store
	persister store.Persister
}

// NewLotsHandler creates a new lots handler.
func NewLotsHandler(base *BaseHandler, st *store.Store, persister store.Persister) *LotsHandler {
	return &LotsHandler{BaseHandler: base, store: st, persister: persister}
}

// ListMothers handles GET /lots/mothers
// Optional filters: ?code= and ?status=.
func (h *LotsHandler) ListMothers(c *gin.Context) {
	snap := h.store.Snapshot()

	code := c.Query("code")
	status := c.Query("status")

	out := make([]lots.MotherLot, 0, len(snap.Mothers))
	for _, m := range snap.Mothers {
		if code != "" && m.Code != code {
			continue
		}
		if status != "" && string(m.Status) != status {
			continue
		}
		out = append(out, m)
	}

	h.OK(c, dto.ListResponse{Items: out, TotalCount: len(out)})
}

// GetMother handles GET /lots/mothers/:id
func (h *LotsHandler) GetMother(c *gin.Context) {
	lotID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	snap := h.store.Snapshot()
	for i := range snap.Mothers {
		if snap.Mothers[i].ID == lotID {
			h.OK(c, snap.Mothers[i])
			return
		}
	}
	h.Error(c, apperror.NewNotFound("mother lot", lotID.String()))
}

// CreateMother handles POST /lots/mothers
func (h *LotsHandler) CreateMother(c *gin.Context) {
	var req dto.CreateMotherRequest
	if !h.BindJSON(c, &req) {
		return
	}

	lot, ok := req.ToMotherLot(time.Now())
	if !ok {
		h.Error(c, apperror.NewValidation("invalid entryDate"))
		return
	}

	err := h.store.Apply(c.Request.Context(), h.persister, func(snap store.Snapshot) (store.Snapshot, error) {
		snap.Mothers = append(snap.Mothers, lot)
		return snap, nil
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, lot.ID.String())
}

// UpdateMother handles PUT /lots/mothers/:id
func (h *LotsHandler) UpdateMother(c *gin.Context) {
	lotID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateMotherRequest
	if !h.BindJSON(c, &req) {
		return
	}

	err = h.store.Apply(c.Request.Context(), h.persister, func(snap store.Snapshot) (store.Snapshot, error) {
		for i := range snap.Mothers {
			if snap.Mothers[i].ID == lotID {
				req.ApplyTo(&snap.Mothers[i], time.Now())
				return snap, nil
			}
		}
		return snap, apperror.NewNotFound("mother lot", lotID.String())
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "mother lot updated")
}

// DeleteMother handles DELETE /lots/mothers/:id
// Refused while cut records reference the lot's code.
func (h *LotsHandler) DeleteMother(c *gin.Context) {
	lotID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	err = h.store.Apply(c.Request.Context(), h.persister, func(snap store.Snapshot) (store.Snapshot, error) {
		idx := -1
		for i := range snap.Mothers {
			if snap.Mothers[i].ID == lotID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return snap, apperror.NewNotFound("mother lot", lotID.String())
		}

		code := snap.Mothers[idx].Code
		for i := range snap.Cuts {
			if snap.Cuts[i].MotherCode == code {
				return snap, apperror.NewValidation("mother lot has cut records").
					WithDetail("code", code)
			}
		}

		snap.Mothers = append(snap.Mothers[:idx], snap.Mothers[idx+1:]...)
		return snap, nil
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// ListChildren handles GET /lots/children
// Optional filters: ?motherCode=, ?code= and ?status=.
func (h *LotsHandler) ListChildren(c *gin.Context) {
	snap := h.store.Snapshot()

	motherCode := c.Query("motherCode")
	code := c.Query("code")
	status := c.Query("status")

	out := make([]lots.ChildLot, 0, len(snap.Children))
	for _, ch := range snap.Children {
		if motherCode != "" && ch.MotherCode != motherCode {
			continue
		}
		if code != "" && ch.Code != code {
			continue
		}
		if status != "" && string(ch.Status) != status {
			continue
		}
		out = append(out, ch)
	}

	h.OK(c, dto.ListResponse{Items: out, TotalCount: len(out)})
}

// GetChild handles GET /lots/children/:id
func (h *LotsHandler) GetChild(c *gin.Context) {
	lotID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	snap := h.store.Snapshot()
	for i := range snap.Children {
		if snap.Children[i].ID == lotID {
			h.OK(c, snap.Children[i])
			return
		}
	}
	h.Error(c, apperror.NewNotFound("child lot", lotID.String()))
}

// RegisterRoutes registers lot routes.
func (h *LotsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	mothers := rg.Group("/mothers")
	{
		mothers.GET("", h.ListMothers)
		mothers.POST("", h.CreateMother)
		mothers.GET("/:id", h.GetMother)
		mothers.PUT("/:id", h.UpdateMother)
		mothers.DELETE("/:id", h.DeleteMother)
	}

	children := rg.Group("/children")
	{
		children.GET("", h.ListChildren)
		children.GET("/:id", h.GetChild)
	}
}
