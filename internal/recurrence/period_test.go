package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/carson-networks/budget-ledger/internal/storage/subscription"
)

func TestPeriod_Key(t *testing.T) {
	assert.Equal(t, "2024-06", Period{Cycle: subscription.CycleMonthly, Year: 2024, Month: time.June}.Key())
	assert.Equal(t, "2024", Period{Cycle: subscription.CycleYearly, Year: 2024}.Key())
}

func TestDuePeriod_Monthly(t *testing.T) {
	sub := &subscription.Subscription{BillingCycle: subscription.CycleMonthly, BillingDay: 15}

	tests := []struct {
		name string
		now  time.Time
		due  bool
	}{
		{"before billing day", date(2024, time.June, 14), false},
		{"on billing day", date(2024, time.June, 15), true},
		{"after billing day", date(2024, time.June, 30), true},
		{"first of next month", date(2024, time.July, 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			period, _, due := DuePeriod(sub, tt.now, time.UTC)
			assert.Equal(t, tt.due, due)
			if due {
				assert.Equal(t, tt.now.Format("2006-01"), period.Key())
			}
		})
	}
}

func TestDuePeriod_Yearly(t *testing.T) {
	sub := &subscription.Subscription{BillingCycle: subscription.CycleYearly, BillingDay: 10, BillingMonth: 3}

	tests := []struct {
		name string
		now  time.Time
		due  bool
	}{
		{"march before day", date(2024, time.March, 9), false},
		{"march on day", date(2024, time.March, 10), true},
		{"march after day", date(2024, time.March, 31), true},
		{"april", date(2024, time.April, 10), false},
		{"february", date(2024, time.February, 20), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			period, _, due := DuePeriod(sub, tt.now, time.UTC)
			assert.Equal(t, tt.due, due)
			if due {
				assert.Equal(t, "2024", period.Key())
			}
		})
	}
}

func TestDuePeriod_ClampsToLastDay(t *testing.T) {
	sub := &subscription.Subscription{BillingCycle: subscription.CycleMonthly, BillingDay: 31}

	_, dueDate, due := DuePeriod(sub, date(2024, time.June, 30), time.UTC)
	assert.True(t, due)
	assert.Equal(t, 30, dueDate.Day())

	_, _, due = DuePeriod(sub, date(2023, time.February, 27), time.UTC)
	assert.False(t, due)

	_, dueDate, due = DuePeriod(sub, date(2023, time.February, 28), time.UTC)
	assert.True(t, due)
	assert.Equal(t, 28, dueDate.Day())

	_, dueDate, due = DuePeriod(sub, date(2024, time.February, 29), time.UTC)
	assert.True(t, due)
	assert.Equal(t, 29, dueDate.Day())
}

func TestDuePeriod_UsesLocation(t *testing.T) {
	sub := &subscription.Subscription{BillingCycle: subscription.CycleMonthly, BillingDay: 15}
	tokyo := time.FixedZone("JST", 9*60*60)

	// 2024-06-14 20:00 UTC is already the 15th in Tokyo.
	now := time.Date(2024, time.June, 14, 20, 0, 0, 0, time.UTC)

	_, _, due := DuePeriod(sub, now, time.UTC)
	assert.False(t, due)

	_, dueDate, due := DuePeriod(sub, now, tokyo)
	assert.True(t, due)
	assert.Equal(t, 15, dueDate.Day())
}
