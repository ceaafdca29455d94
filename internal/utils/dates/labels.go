// Package dates provides locale-aware calendar-day labels for grouping
// journal and ledger rows. The locale is always an explicit parameter; there
// is no process-wide formatting state.
package dates

import (
	"fmt"
	"strings"
	"time"
)

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// DayLabel formats the calendar day of t for display grouping,
// e.g. "02 de enero" (es) or "January 02" (everything else).
func DayLabel(t time.Time, locale string) string {
	if strings.HasPrefix(strings.ToLower(locale), "es") {
		return fmt.Sprintf("%02d de %s", t.Day(), spanishMonths[t.Month()-1])
	}
	return fmt.Sprintf("%s %02d", t.Month().String(), t.Day())
}

// DayKey returns the grouping key for t: the calendar date truncated to
// midnight UTC, so two timestamps on the same day always land in the same
// group regardless of label collisions across locales.
func DayKey(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
