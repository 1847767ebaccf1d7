package recurrence

import (
	"fmt"
	"time"

	"github.com/carson-networks/budget-ledger/internal/storage/subscription"
)

// Period is the billing window a single charge belongs to: a calendar
// month for monthly subscriptions, a calendar year for yearly ones.
type Period struct {
	Cycle subscription.BillingCycle
	Year  int
	Month time.Month
}

// Key is the durable identifier stored on materialized transactions.
func (p Period) Key() string {
	if p.Cycle == subscription.CycleYearly {
		return fmt.Sprintf("%04d", p.Year)
	}
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

func (p Period) String() string {
	return string(p.Cycle) + ":" + p.Key()
}

// DuePeriod reports whether sub is due at now and, if so, the period it is
// due for and its billing date. The calendar date of now is taken in loc.
// A billing day past the end of the month falls on the month's last day.
func DuePeriod(sub *subscription.Subscription, now time.Time, loc *time.Location) (Period, time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	year, month, day := local.Date()

	if sub.BillingCycle == subscription.CycleYearly && month != time.Month(sub.BillingMonth) {
		return Period{}, time.Time{}, false
	}

	billingDay := clampDay(sub.BillingDay, year, month, loc)
	if day < billingDay {
		return Period{}, time.Time{}, false
	}

	period := Period{Cycle: sub.BillingCycle, Year: year, Month: month}
	if sub.BillingCycle == subscription.CycleYearly {
		period.Month = 0
	}
	dueDate := time.Date(year, month, billingDay, local.Hour(), local.Minute(), local.Second(), local.Nanosecond(), loc)
	return period, dueDate, true
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

func clampDay(day, year int, month time.Month, loc *time.Location) int {
	if last := daysIn(year, month, loc); day > last {
		return last
	}
	return day
}

// monthBounds returns [start, end) of the calendar month containing t in loc.
func monthBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}
