package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coilledger/internal/core/id"
	"coilledger/internal/domain/catalogs/material"
	"coilledger/internal/domain/kardex"
	"coilledger/internal/domain/lots"
	"coilledger/internal/domain/store"
)

func kardexTestRouter(snap store.Snapshot) *gin.Engine {
	gin.SetMode(gin.TestMode)
	resolver := material.NewResolver(nil)
	h := NewKardexHandler(NewBaseHandler(), store.New(snap), func() *material.Resolver { return resolver })

	r := gin.New()
	h.RegisterRoutes(r.Group("/kardex"))
	return r
}

func TestGetKardex_ToDateCoversWholeDay(t *testing.T) {
	// An intake landing in the afternoon of the requested end date must
	// still fall inside the window.
	entry := time.Date(2025, 1, 10, 15, 30, 0, 0, time.UTC)
	snap := store.Snapshot{Mothers: []lots.MotherLot{{
		ID:              id.New(),
		Code:            "1000",
		Width:           1200,
		OriginalWeight:  5000,
		RemainingWeight: 5000,
		Status:          lots.StatusStock,
		EntryDate:       entry,
		NF:              "12345",
	}}}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/kardex?from=2025-01-10&to=2025-01-10", nil)
	kardexTestRouter(snap).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var report kardex.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	require.Len(t, report.Rows, 1)

	row := report.Rows[0]
	assert.Equal(t, 5000.0, row.PeriodIn)
	assert.Equal(t, 0.0, row.InitialBalance)
	assert.Equal(t, 5000.0, row.FinalBalance)
	require.Len(t, row.Movements, 1)
	assert.True(t, entry.Equal(row.Movements[0].Date))
}

func TestGetKardex_FromDateStartsAtMidnight(t *testing.T) {
	// A from value carrying a time of day is widened back to midnight,
	// so the window stays a whole-day range.
	entry := time.Date(2025, 1, 10, 0, 30, 0, 0, time.UTC)
	snap := store.Snapshot{Mothers: []lots.MotherLot{{
		ID:              id.New(),
		Code:            "1000",
		Width:           1200,
		OriginalWeight:  3000,
		RemainingWeight: 3000,
		Status:          lots.StatusStock,
		EntryDate:       entry,
	}}}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/kardex?from=2025-01-10T12:00:00Z&to=2025-01-11", nil)
	kardexTestRouter(snap).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var report kardex.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	require.Len(t, report.Rows, 1)
	assert.Equal(t, 3000.0, report.Rows[0].PeriodIn)
}
