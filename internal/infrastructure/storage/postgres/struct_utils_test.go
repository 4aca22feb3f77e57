package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"coilledger/internal/core/id"
)

type MockTimestamps struct {
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

type hiddenMeta struct {
	Secret string `db:"secret"`
}

type mockLotRecord struct {
	MockTimestamps
	hiddenMeta
	ID       id.ID   `db:"id" json:"id"`
	Code     string  `db:"code" json:"code"`
	Width    float64 `db:"width_mm" json:"width"`
	internal string  // untagged, must be skipped
	Note     string  `db:"-" json:"note"`
}

func TestExtractDBColumns_FlattensExportedEmbedded(t *testing.T) {
	cols := ExtractDBColumns[mockLotRecord]()

	expected := []string{"created_at", "updated_at", "id", "code", "width_mm"}
	for _, col := range expected {
		assert.Contains(t, cols, col)
	}
	assert.NotContains(t, cols, "secret")
	assert.Len(t, cols, len(expected))
}

func TestStructToMap_SkipsUntaggedFields(t *testing.T) {
	now := time.Now().UTC()
	rec := mockLotRecord{
		MockTimestamps: MockTimestamps{CreatedAt: now, UpdatedAt: now},
		ID:             id.New(),
		Code:           "1020",
		Width:          1200,
		internal:       "hidden",
		Note:           "skipped",
	}

	m := StructToMap(rec)

	assert.Equal(t, rec.ID, m["id"])
	assert.Equal(t, "1020", m["code"])
	assert.Equal(t, float64(1200), m["width_mm"])
	assert.Equal(t, now, m["created_at"])
	assert.NotContains(t, m, "internal")
	assert.NotContains(t, m, "-")
	assert.Len(t, m, 5)
}

func TestStructToMap_IgnoresUnexportedEmbedded(t *testing.T) {
	rec := mockLotRecord{
		hiddenMeta: hiddenMeta{Secret: "nope"},
		Code:       "2030",
	}

	var m map[string]any
	assert.NotPanics(t, func() { m = StructToMap(rec) })
	assert.NotContains(t, m, "secret")
	assert.Equal(t, "2030", m["code"])
}
