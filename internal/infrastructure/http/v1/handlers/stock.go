package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"coilledger/internal/domain/catalogs/material"
	"coilledger/internal/domain/ledger"
	"coilledger/internal/domain/opstatus"
	"coilledger/internal/domain/store"
	"coilledger/internal/infrastructure/http/v1/dto"
)

// ResolverFunc returns the current material catalog resolver. Handlers
// take a func so catalog updates become visible without rewiring.
type ResolverFunc func() *material.Resolver

// StockHandler serves the aggregated present-day stock position.
type StockHandler struct {
	*BaseHandler
	store     *store.Store
	resolver  ResolverFunc
	statusCfg opstatus.Config
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, st *store.Store, resolver ResolverFunc, statusCfg opstatus.Config) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		store:       st,
		resolver:    resolver,
		statusCfg:   statusCfg,
	}
}

// GetStock handles GET /stock
// Returns raw-material rows; finished goods are appended when
// ?finished=true.
func (h *StockHandler) GetStock(c *gin.Context) {
	snap := h.store.Snapshot()

	rows := ledger.Aggregate(snap, h.resolver())
	if c.Query("finished") == "true" {
		rows = append(rows, ledger.AggregateFinished(snap)...)
	}

	h.OK(c, dto.StockListResponse{Items: rows, TotalCount: len(rows)})
}

// GetStatus handles GET /stock/status
// Classifies every stocked key, raw material and finished goods both.
func (h *StockHandler) GetStatus(c *gin.Context) {
	snap := h.store.Snapshot()

	rows := ledger.Aggregate(snap, h.resolver())
	rows = append(rows, ledger.AggregateFinished(snap)...)

	results := opstatus.Classify(snap, rows, h.statusCfg, time.Now())
	h.OK(c, dto.FromStatusMap(rows, results))
}

// RegisterRoutes registers stock routes.
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.GetStock)
	rg.GET("/status", h.GetStatus)
}
