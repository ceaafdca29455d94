package dates_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/centavohq/centavo-books/internal/utils/dates"
)

func TestDayLabel(t *testing.T) {
	ts := time.Date(2025, time.January, 2, 15, 4, 5, 0, time.UTC)

	assert.Equal(t, "02 de enero", dates.DayLabel(ts, "es"))
	assert.Equal(t, "02 de enero", dates.DayLabel(ts, "es-AR"))
	assert.Equal(t, "January 02", dates.DayLabel(ts, "en-US"))
	assert.Equal(t, "January 02", dates.DayLabel(ts, ""))
}

func TestDayKeyCollapsesSameDay(t *testing.T) {
	morning := time.Date(2025, time.March, 9, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2025, time.March, 9, 23, 59, 0, 0, time.UTC)
	nextDay := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, dates.DayKey(morning), dates.DayKey(evening))
	assert.NotEqual(t, dates.DayKey(morning), dates.DayKey(nextDay))
}
