package subscription

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/handlers/handlerutil"
	"github.com/carson-networks/budget-ledger/internal/service"
)

type GetSubscriptionInput struct {
	ID string `path:"id" format:"uuid" doc:"Subscription UUID"`
}

type GetSubscriptionOutput struct {
	Body Subscription
}

type subscriptionGetter interface {
	GetSubscription(ctx context.Context, userID, id uuid.UUID) (*service.Subscription, error)
}

// GetSubscriptionHandler handles GET /v1/subscription/{id}.
type GetSubscriptionHandler struct {
	SubscriptionService subscriptionGetter
}

func NewGetSubscriptionHandler(svc subscriptionGetter) *GetSubscriptionHandler {
	return &GetSubscriptionHandler{SubscriptionService: svc}
}

func (h *GetSubscriptionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-subscription",
		Method:      http.MethodGet,
		Path:        "/v1/subscription/{id}",
		Summary:     "Get subscription",
		Tags:        []string{"Subscriptions"},
	}, h.handle)
}

func (h *GetSubscriptionHandler) handle(ctx context.Context, input *GetSubscriptionInput) (*GetSubscriptionOutput, error) {
	identity, err := handlerutil.Identity(ctx)
	if err != nil {
		return nil, err
	}

	id, err := uuid.FromString(input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid subscription id", err)
	}

	sub, err := h.SubscriptionService.GetSubscription(ctx, identity.UserID, id)
	if err != nil {
		return nil, handlerutil.ServiceError(ctx, "failed to get subscription", err)
	}
	return &GetSubscriptionOutput{Body: FromService(*sub)}, nil
}
