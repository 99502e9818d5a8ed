// Package billing holds the date arithmetic for revolving credit-card
// statement cycles and subscription period rollover. All functions are pure
// and operate on calendar dates; callers pass the reference instant
// explicitly so results are reproducible in tests.
package billing

import (
	"fmt"
	"math"
	"time"
)

// PlanInterval is a subscription billing interval.
type PlanInterval string

const (
	IntervalMonthly PlanInterval = "monthly"
	IntervalYearly  PlanInterval = "yearly"
)

// Valid reports whether the interval is one of the supported plan intervals.
func (p PlanInterval) Valid() bool {
	return p == IntervalMonthly || p == IntervalYearly
}

// daysInMonth returns the number of days in the given month.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// clampDay limits day to the length of the target month. A statement day of
// 31 in a 30-day month lands on the 30th rather than rolling into the next
// month.
func clampDay(year int, month time.Month, day int) int {
	if max := daysInMonth(year, month); day > max {
		return max
	}
	return day
}

// NextDueDate returns the due date of the statement cycle that the reference
// date falls in. When the reference day is past the closing day the current
// statement is already closed, so the due date moves to the next calendar
// month (December wraps into January of the following year).
func NextDueDate(closingDay, dueDay int, ref time.Time) time.Time {
	year, month, day := ref.Date()

	if day > closingDay {
		month++
		if month > time.December {
			month = time.January
			year++
		}
	}

	return time.Date(year, month, clampDay(year, month, dueDay), 0, 0, 0, 0, ref.Location())
}

// CycleStart returns the start of the statement cycle that the reference
// date falls in: the closing day of the current month once it has passed,
// otherwise the closing day of the previous month (January wraps into
// December of the previous year).
func CycleStart(closingDay int, ref time.Time) time.Time {
	year, month, day := ref.Date()

	if day <= closingDay {
		month--
		if month < time.January {
			month = time.December
			year--
		}
	}

	return time.Date(year, month, clampDay(year, month, closingDay), 0, 0, 0, 0, ref.Location())
}

// DaysUntilDue returns the whole-day count from the reference date to the
// next due date, rounding partial days up. Zero means the payment is due
// today; a negative count is possible when the due day precedes the closing
// day inside the same cycle.
func DaysUntilDue(closingDay, dueDay int, ref time.Time) int {
	due := NextDueDate(closingDay, dueDay, ref)
	diff := due.Sub(ref)
	return int(math.Ceil(diff.Hours() / 24))
}

// DueLabel renders a day count the way the card list shows it.
func DueLabel(days int) string {
	switch {
	case days < 0:
		return "overdue"
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	default:
		return fmt.Sprintf("in %d days", days)
	}
}

// PeriodEnd advances the anchor date by one plan interval using
// calendar-correct addition: a monthly period anchored on January 31 ends on
// the last day of February, and a yearly period anchored on February 29 ends
// on February 28 of a non-leap year.
func PeriodEnd(interval PlanInterval, anchor time.Time) time.Time {
	year, month, day := anchor.Date()
	h, m, s := anchor.Clock()

	switch interval {
	case IntervalYearly:
		year++
	default:
		month++
		if month > time.December {
			month = time.January
			year++
		}
	}

	return time.Date(year, month, clampDay(year, month, day), h, m, s, anchor.Nanosecond(), anchor.Location())
}
