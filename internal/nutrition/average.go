package nutrition

import (
	"time"

	"github.com/koriwi/nutriplan-cli/internal/models"
)

// RemainingDaysInWeek counts the days from now through Sunday, inclusive.
// Weeks start on Monday, so Monday gives 7 and Sunday gives 1.
func RemainingDaysInWeek(now time.Time) int {
	wd := int(now.Weekday())
	if wd == 0 {
		wd = 7
	}
	return 7 - wd + 1
}

// RemainingDaysInMonth counts the days from now through the last day of the
// month, inclusive.
func RemainingDaysInMonth(now time.Time) int {
	last := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()
	return last - now.Day() + 1
}

// BuildWeeklyAverageRDI spreads a week's remaining totals over the days left.
func BuildWeeklyAverageRDI(snap *models.RDISnapshot, now time.Time) *models.RDISnapshot {
	return averageOver(snap, RemainingDaysInWeek(now), models.RDIWeekAverage)
}

// BuildMonthlyAverageRDI spreads a month's remaining totals over the days left.
func BuildMonthlyAverageRDI(snap *models.RDISnapshot, now time.Time) *models.RDISnapshot {
	return averageOver(snap, RemainingDaysInMonth(now), models.RDIMonthAverage)
}

// averageOver returns snap untouched on the last day of the period, where a
// per-day figure would equal the total anyway.
func averageOver(snap *models.RDISnapshot, days int, variant models.RDIVariant) *models.RDISnapshot {
	if snap == nil || days <= 1 {
		return snap
	}
	out := snap.Clone()
	out.Variant = variant
	for i := range out.Nutrients {
		out.Nutrients[i].Value /= float64(days)
	}
	return out
}
