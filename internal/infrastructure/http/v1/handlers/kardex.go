package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"coilledger/internal/core/apperror"
	"coilledger/internal/core/dates"
	"coilledger/internal/domain/kardex"
	"coilledger/internal/domain/ledger"
	"coilledger/internal/domain/store"
	"coilledger/internal/infrastructure/export"
)

// KardexHandler serves the running-balance movement report.
type KardexHandler struct {
	*BaseHandler
	store    *store.Store
	resolver ResolverFunc
}

// NewKardexHandler creates a new kardex handler.
func NewKardexHandler(base *BaseHandler, st *store.Store, resolver ResolverFunc) *KardexHandler {
	return &KardexHandler{BaseHandler: base, store: st, resolver: resolver}
}

// GetKardex handles GET /kardex?from=&to=
// Dates accept ISO, BR or RFC3339; defaults to the current month.
func (h *KardexHandler) GetKardex(c *gin.Context) {
	report, ok := h.build(c)
	if !ok {
		return
	}
	h.OK(c, report)
}

// Export handles GET /kardex/export
// Same window semantics as GetKardex, rendered as XLSX.
func (h *KardexHandler) Export(c *gin.Context) {
	report, ok := h.build(c)
	if !ok {
		return
	}

	data, err := export.KardexXLSX(report)
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}

	filename := fmt.Sprintf("kardex_%s_%s.xlsx",
		report.From.Format("20060102"), report.To.Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *KardexHandler) build(c *gin.Context) (kardex.Report, bool) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := now

	if fromStr := c.Query("from"); fromStr != "" {
		from = dates.Parse(fromStr)
		if from.IsZero() {
			h.Error(c, apperror.NewValidation("invalid from date"))
			return kardex.Report{}, false
		}
		from = dates.DayStart(from)
	}
	if toStr := c.Query("to"); toStr != "" {
		to = dates.Parse(toStr)
		if to.IsZero() {
			h.Error(c, apperror.NewValidation("invalid to date"))
			return kardex.Report{}, false
		}
		// A bare date means the whole day, movements of that
		// afternoon included.
		to = dates.DayEnd(to)
	}
	if to.Before(from) {
		h.Error(c, apperror.NewValidation("to date precedes from date"))
		return kardex.Report{}, false
	}

	snap := h.store.Snapshot()
	rows := ledger.Aggregate(snap, h.resolver())
	return kardex.Build(snap, rows, h.resolver(), from, to), true
}

// RegisterRoutes registers kardex routes.
func (h *KardexHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.GetKardex)
	rg.GET("/export", h.Export)
}
