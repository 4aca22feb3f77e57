package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"coilledger/internal/core/apperror"
	"coilledger/internal/domain/catalogs/material"
	"coilledger/internal/infrastructure/http/v1/dto"
	"coilledger/internal/infrastructure/storage/postgres/catalog_repo"
)

// MaterialsHandler maintains the material catalog. Writes go to the
// database and then rebuild the in-memory resolver via onChange.
type MaterialsHandler struct {
	*BaseHandler
	repo     *catalog_repo.MaterialRepo
	onChange func(ctx context.Context) error
}

// NewMaterialsHandler creates a new materials handler. onChange is
// invoked after every successful write; pass nil to skip.
func NewMaterialsHandler(base *BaseHandler, repo *catalog_repo.MaterialRepo, onChange func(ctx context.Context) error) *MaterialsHandler {
	return &MaterialsHandler{BaseHandler: base, repo: repo, onChange: onChange}
}

// UpsertMaterialRequest for PUT /materials/:code.
type UpsertMaterialRequest struct {
	Description string  `json:"description" binding:"required"`
	Thickness   float64 `json:"thickness" binding:"gte=0"`
	Type        string  `json:"type"`
}

// List handles GET /materials
func (h *MaterialsHandler) List(c *gin.Context) {
	entries, err := h.repo.ListAll(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{Items: entries, TotalCount: len(entries)})
}

// Get handles GET /materials/:code
func (h *MaterialsHandler) Get(c *gin.Context) {
	entry, err := h.repo.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, entry)
}

// Upsert handles PUT /materials/:code
func (h *MaterialsHandler) Upsert(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		h.Error(c, apperror.NewValidation("code is required"))
		return
	}

	var req UpsertMaterialRequest
	if !h.BindJSON(c, &req) {
		return
	}

	entry := material.Entry{
		Code:        code,
		Description: req.Description,
		Thickness:   decimal.NewFromFloat(req.Thickness),
		Type:        material.Type(req.Type),
	}
	if err := h.repo.Upsert(c.Request.Context(), &entry); err != nil {
		h.Error(c, err)
		return
	}

	if h.onChange != nil {
		if err := h.onChange(c.Request.Context()); err != nil {
			h.Error(c, err)
			return
		}
	}

	h.OK(c, entry)
}

// RegisterRoutes registers material catalog routes.
func (h *MaterialsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:code", h.Get)
	rg.PUT("/:code", h.Upsert)
}
