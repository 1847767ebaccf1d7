package service

import (
	"context"
	"sort"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-ledger/internal/storage/transaction"
)

const (
	uncategorized = "Uncategorized"
	unspecified   = "Unspecified"
)

// Breakdown is the expense total for one label.
type Breakdown struct {
	Label  string
	Amount decimal.Decimal
	Count  int
}

// DailyBalance is one day's movements and the running balance at its end.
type DailyBalance struct {
	Date    time.Time
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

// Summary aggregates a user's transactions over [From, To).
type Summary struct {
	From             time.Time
	To               time.Time
	Income           decimal.Decimal
	Expense          decimal.Decimal
	Net              decimal.Decimal
	TransactionCount int
	ByCategory       []Breakdown
	ByPaymentMethod  []Breakdown
	Daily            []DailyBalance
}

type SummaryService struct {
	reader transaction.IReader
	loc    *time.Location
}

func NewSummaryService(reader transaction.IReader, loc *time.Location) *SummaryService {
	if loc == nil {
		loc = time.UTC
	}
	return &SummaryService{reader: reader, loc: loc}
}

func (s *SummaryService) Summarize(ctx context.Context, userID uuid.UUID, from, to time.Time) (*Summary, error) {
	rows, err := s.reader.List(ctx, &transaction.TransactionFilter{
		UserID: userID,
		From:   &from,
		To:     &to,
	})
	if err != nil {
		return nil, err
	}
	return summarize(rows, from, to, s.loc), nil
}

func summarize(rows []*transaction.Transaction, from, to time.Time, loc *time.Location) *Summary {
	summary := &Summary{
		From:             from,
		To:               to,
		Income:           decimal.Zero,
		Expense:          decimal.Zero,
		TransactionCount: len(rows),
	}

	byCategory := make(map[string]*Breakdown)
	byPayment := make(map[string]*Breakdown)
	byDay := make(map[time.Time]*DailyBalance)

	for _, row := range rows {
		local := row.TransactionDate.In(loc)
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
		daily, ok := byDay[day]
		if !ok {
			daily = &DailyBalance{Date: day, Income: decimal.Zero, Expense: decimal.Zero}
			byDay[day] = daily
		}

		if row.Type == transaction.TypeIncome {
			summary.Income = summary.Income.Add(row.Amount)
			daily.Income = daily.Income.Add(row.Amount)
			continue
		}

		summary.Expense = summary.Expense.Add(row.Amount)
		daily.Expense = daily.Expense.Add(row.Amount)
		addBreakdown(byCategory, labelOr(row.Category, uncategorized), row.Amount)
		addBreakdown(byPayment, labelOr(row.PaymentMethod, unspecified), row.Amount)
	}

	summary.Net = summary.Income.Sub(summary.Expense)
	summary.ByCategory = sortedBreakdown(byCategory)
	summary.ByPaymentMethod = sortedBreakdown(byPayment)

	summary.Daily = make([]DailyBalance, 0, len(byDay))
	for _, daily := range byDay {
		summary.Daily = append(summary.Daily, *daily)
	}
	sort.Slice(summary.Daily, func(i, j int) bool {
		return summary.Daily[i].Date.Before(summary.Daily[j].Date)
	})
	balance := decimal.Zero
	for i := range summary.Daily {
		balance = balance.Add(summary.Daily[i].Income).Sub(summary.Daily[i].Expense)
		summary.Daily[i].Balance = balance
	}
	return summary
}

func addBreakdown(m map[string]*Breakdown, label string, amount decimal.Decimal) {
	entry, ok := m[label]
	if !ok {
		entry = &Breakdown{Label: label, Amount: decimal.Zero}
		m[label] = entry
	}
	entry.Amount = entry.Amount.Add(amount)
	entry.Count++
}

func sortedBreakdown(m map[string]*Breakdown) []Breakdown {
	result := make([]Breakdown, 0, len(m))
	for _, entry := range m {
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool {
		if cmp := result[i].Amount.Cmp(result[j].Amount); cmp != 0 {
			return cmp > 0
		}
		return result[i].Label < result[j].Label
	})
	return result
}

func labelOr(label, fallback string) string {
	if label == "" {
		return fallback
	}
	return label
}
