package summary

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/handlers/handlerutil"
	"github.com/carson-networks/budget-ledger/internal/service"
)

const dateLayout = "2006-01-02"

type Breakdown struct {
	Label  string `json:"label" doc:"Category or payment method"`
	Amount string `json:"amount" doc:"Total expense for the label"`
	Count  int    `json:"count" doc:"Number of expense transactions"`
}

type DailyBalance struct {
	Date    string `json:"date" doc:"Day in the configured timezone, YYYY-MM-DD"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Balance string `json:"balance" doc:"Running balance at the end of the day"`
}

type SummaryBody struct {
	From             string         `json:"from"`
	To               string         `json:"to"`
	Income           string         `json:"income"`
	Expense          string         `json:"expense"`
	Net              string         `json:"net"`
	TransactionCount int            `json:"transactionCount"`
	ByCategory       []Breakdown    `json:"byCategory"`
	ByPaymentMethod  []Breakdown    `json:"byPaymentMethod"`
	Daily            []DailyBalance `json:"daily"`
}

type SummaryInput struct {
	From string `query:"from" required:"true" format:"date-time" doc:"Inclusive start of the window"`
	To   string `query:"to" required:"true" format:"date-time" doc:"Exclusive end of the window"`
}

type SummaryOutput struct {
	Body SummaryBody
}

type summarizer interface {
	Summarize(ctx context.Context, userID uuid.UUID, from, to time.Time) (*service.Summary, error)
}

// Handler serves GET /v1/summary.
type Handler struct {
	SummaryService summarizer
}

func NewHandler(svc summarizer) *Handler {
	return &Handler{SummaryService: svc}
}

func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-summary",
		Method:      http.MethodGet,
		Path:        "/v1/summary",
		Summary:     "Summarize transactions",
		Description: "Totals, expense breakdowns and a daily running balance over a time window.",
		Tags:        []string{"Summary"},
	}, h.handle)
}

func parseWindow(input *SummaryInput) (time.Time, time.Time, error) {
	from, err := time.Parse(time.RFC3339, input.From)
	if err != nil {
		return time.Time{}, time.Time{}, huma.NewError(http.StatusBadRequest, "invalid from", err)
	}
	to, err := time.Parse(time.RFC3339, input.To)
	if err != nil {
		return time.Time{}, time.Time{}, huma.NewError(http.StatusBadRequest, "invalid to", err)
	}
	if !to.After(from) {
		return time.Time{}, time.Time{}, huma.Error400BadRequest("to must be after from")
	}
	return from, to, nil
}

func breakdowns(in []service.Breakdown) []Breakdown {
	out := make([]Breakdown, len(in))
	for i, b := range in {
		out[i] = Breakdown{Label: b.Label, Amount: b.Amount.StringFixed(2), Count: b.Count}
	}
	return out
}

func fromService(s *service.Summary) SummaryBody {
	body := SummaryBody{
		From:             s.From.Format(time.RFC3339),
		To:               s.To.Format(time.RFC3339),
		Income:           s.Income.StringFixed(2),
		Expense:          s.Expense.StringFixed(2),
		Net:              s.Net.StringFixed(2),
		TransactionCount: s.TransactionCount,
		ByCategory:       breakdowns(s.ByCategory),
		ByPaymentMethod:  breakdowns(s.ByPaymentMethod),
		Daily:            make([]DailyBalance, len(s.Daily)),
	}
	for i, d := range s.Daily {
		body.Daily[i] = DailyBalance{
			Date:    d.Date.Format(dateLayout),
			Income:  d.Income.StringFixed(2),
			Expense: d.Expense.StringFixed(2),
			Balance: d.Balance.StringFixed(2),
		}
	}
	return body
}

func (h *Handler) handle(ctx context.Context, input *SummaryInput) (*SummaryOutput, error) {
	identity, err := handlerutil.Identity(ctx)
	if err != nil {
		return nil, err
	}

	from, to, err := parseWindow(input)
	if err != nil {
		return nil, err
	}

	summary, err := h.SummaryService.Summarize(ctx, identity.UserID, from, to)
	if err != nil {
		return nil, handlerutil.ServiceError(ctx, "failed to summarize transactions", err)
	}
	return &SummaryOutput{Body: fromService(summary)}, nil
}
