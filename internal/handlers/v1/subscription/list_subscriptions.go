package subscription

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/handlers/handlerutil"
	"github.com/carson-networks/budget-ledger/internal/logging"
	"github.com/carson-networks/budget-ledger/internal/service"
)

type ListSubscriptionsInput struct {
	Status string `query:"status" enum:"all,active,paused" default:"all" doc:"Filter by active state"`
}

type ListSubscriptionsResponseBody struct {
	Subscriptions []Subscription `json:"subscriptions" doc:"Subscriptions ordered by name"`
}

type ListSubscriptionsOutput struct {
	Body ListSubscriptionsResponseBody
}

type subscriptionLister interface {
	ListSubscriptions(ctx context.Context, userID uuid.UUID, include *bool) ([]service.Subscription, error)
}

// ListSubscriptionsHandler handles GET /v1/subscriptions.
type ListSubscriptionsHandler struct {
	SubscriptionService subscriptionLister
}

func NewListSubscriptionsHandler(svc subscriptionLister) *ListSubscriptionsHandler {
	return &ListSubscriptionsHandler{SubscriptionService: svc}
}

func (h *ListSubscriptionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-subscriptions",
		Method:      http.MethodGet,
		Path:        "/v1/subscriptions",
		Summary:     "List subscriptions",
		Tags:        []string{"Subscriptions"},
	}, h.handle)
}

func includeFilter(status string) *bool {
	var include bool
	switch status {
	case "active":
		include = true
	case "paused":
		include = false
	default:
		return nil
	}
	return &include
}

func (h *ListSubscriptionsHandler) handle(ctx context.Context, input *ListSubscriptionsInput) (*ListSubscriptionsOutput, error) {
	identity, err := handlerutil.Identity(ctx)
	if err != nil {
		return nil, err
	}

	subs, err := h.SubscriptionService.ListSubscriptions(ctx, identity.UserID, includeFilter(input.Status))
	if err != nil {
		return nil, handlerutil.ServiceError(ctx, "failed to list subscriptions", err)
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("subscriptionCount", len(subs))
	}

	resp := ListSubscriptionsResponseBody{Subscriptions: make([]Subscription, len(subs))}
	for i, sub := range subs {
		resp.Subscriptions[i] = FromService(sub)
	}
	return &ListSubscriptionsOutput{Body: resp}, nil
}
