package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	iso := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, iso, Parse("2025-03-10"))
	assert.Equal(t, iso, Parse("10/03/2025"))
	assert.Equal(t,
		time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC),
		Parse("2025-03-10T14:30:00Z"))
}

func TestParse_Garbage(t *testing.T) {
	assert.True(t, Parse("").IsZero())
	assert.True(t, Parse("not-a-date").IsZero())
	assert.True(t, Parse("31/31/2025").IsZero())
	assert.False(t, Valid(Parse("")))
}

func TestInRange(t *testing.T) {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	mid := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	assert.True(t, InRange(mid, from, to))
	assert.True(t, InRange(from, from, to))
	assert.True(t, InRange(to, from, to))
	assert.False(t, InRange(from.AddDate(0, 0, -1), from, to))
	assert.False(t, InRange(to.AddDate(0, 0, 1), from, to))

	// Open bounds.
	assert.True(t, InRange(mid, time.Time{}, to))
	assert.True(t, InRange(mid, from, time.Time{}))

	// A dateless record never matches a range filter.
	assert.False(t, InRange(time.Time{}, from, to))
	assert.False(t, InRange(time.Time{}, time.Time{}, time.Time{}))
}

func TestDaysSince(t *testing.T) {
	now := time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysSince(now, now))
	assert.Equal(t, 30, DaysSince(now.AddDate(0, 0, -30), now))
	assert.Equal(t, -1, DaysSince(time.Time{}, now))
}

func TestDayBounds(t *testing.T) {
	at := time.Date(2025, 3, 10, 14, 30, 45, 123, time.UTC)

	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), DayStart(at))
	end := DayEnd(at)
	assert.Equal(t, 10, end.Day())
	assert.Equal(t, 23, end.Hour())
	assert.True(t, end.Before(DayStart(at).AddDate(0, 0, 1)))
}
