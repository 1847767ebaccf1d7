package subscription

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/handlers/handlerutil"
)

type DeleteSubscriptionInput struct {
	ID string `path:"id" format:"uuid" doc:"Subscription UUID"`
}

type subscriptionDeleter interface {
	DeleteSubscription(ctx context.Context, userID, id uuid.UUID) error
}

// DeleteSubscriptionHandler handles DELETE /v1/subscription/{id}. Generated
// transactions survive and lose their subscription link.
type DeleteSubscriptionHandler struct {
	SubscriptionService subscriptionDeleter
}

func NewDeleteSubscriptionHandler(svc subscriptionDeleter) *DeleteSubscriptionHandler {
	return &DeleteSubscriptionHandler{SubscriptionService: svc}
}

func (h *DeleteSubscriptionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "delete-subscription",
		Method:        http.MethodDelete,
		Path:          "/v1/subscription/{id}",
		Summary:       "Delete subscription",
		Tags:          []string{"Subscriptions"},
		DefaultStatus: http.StatusNoContent,
	}, h.handle)
}

func (h *DeleteSubscriptionHandler) handle(ctx context.Context, input *DeleteSubscriptionInput) (*struct{}, error) {
	identity, err := handlerutil.Identity(ctx)
	if err != nil {
		return nil, err
	}

	id, err := uuid.FromString(input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid subscription id", err)
	}

	if err := h.SubscriptionService.DeleteSubscription(ctx, identity.UserID, id); err != nil {
		return nil, handlerutil.ServiceError(ctx, "failed to delete subscription", err)
	}
	return nil, nil
}
