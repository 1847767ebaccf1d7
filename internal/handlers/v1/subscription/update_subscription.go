package subscription

import (
	"context"
	"net/http"

	"github.com/aarondl/opt/omit"
	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-ledger/internal/handlers/handlerutil"
	"github.com/carson-networks/budget-ledger/internal/service"
)

// UpdateSubscriptionBody holds the fields to change. Absent fields keep
// their stored value.
type UpdateSubscriptionBody struct {
	Name          *string `json:"name,omitempty" minLength:"1" doc:"Display name"`
	Amount        *string `json:"amount,omitempty" doc:"Positive decimal amount"`
	BillingCycle  *string `json:"billingCycle,omitempty" enum:"monthly,yearly" doc:"How often the charge recurs"`
	BillingDay    *int    `json:"billingDay,omitempty" minimum:"1" maximum:"31" doc:"Day of month the charge is due"`
	BillingMonth  *int    `json:"billingMonth,omitempty" minimum:"0" maximum:"12" doc:"Month the charge is due"`
	Category      *string `json:"category,omitempty" doc:"Category label"`
	PaymentMethod *string `json:"paymentMethod,omitempty" doc:"Payment method label"`
	Include       *bool   `json:"include,omitempty" doc:"Pause or resume the subscription"`
}

type UpdateSubscriptionInput struct {
	ID   string `path:"id" format:"uuid" doc:"Subscription UUID"`
	Body UpdateSubscriptionBody
}

type UpdateSubscriptionOutput struct {
	Body Subscription
}

type subscriptionUpdater interface {
	UpdateSubscription(ctx context.Context, userID, id uuid.UUID, patch service.SubscriptionPatch) (*service.Subscription, error)
}

// UpdateSubscriptionHandler handles PATCH /v1/subscription/{id}.
type UpdateSubscriptionHandler struct {
	SubscriptionService subscriptionUpdater
}

func NewUpdateSubscriptionHandler(svc subscriptionUpdater) *UpdateSubscriptionHandler {
	return &UpdateSubscriptionHandler{SubscriptionService: svc}
}

func (h *UpdateSubscriptionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-subscription",
		Method:      http.MethodPatch,
		Path:        "/v1/subscription/{id}",
		Summary:     "Update subscription",
		Description: "Changes some fields of a subscription. Already generated transactions are not rewritten.",
		Tags:        []string{"Subscriptions"},
	}, h.handle)
}

func fromPtr[T any](v *T) omit.Val[T] {
	if v == nil {
		return omit.Val[T]{}
	}
	return omit.From(*v)
}

func parseUpdateSubscriptionInput(input *UpdateSubscriptionInput) (uuid.UUID, service.SubscriptionPatch, error) {
	id, err := uuid.FromString(input.ID)
	if err != nil {
		return uuid.Nil, service.SubscriptionPatch{}, huma.NewError(http.StatusBadRequest, "invalid subscription id", err)
	}

	body := input.Body
	patch := service.SubscriptionPatch{
		Name:          fromPtr(body.Name),
		BillingDay:    fromPtr(body.BillingDay),
		BillingMonth:  fromPtr(body.BillingMonth),
		Category:      fromPtr(body.Category),
		PaymentMethod: fromPtr(body.PaymentMethod),
		Include:       fromPtr(body.Include),
	}
	if body.Amount != nil {
		amount, err := decimal.NewFromString(*body.Amount)
		if err != nil {
			return uuid.Nil, service.SubscriptionPatch{}, huma.NewError(http.StatusBadRequest, "invalid amount", err)
		}
		patch.Amount = omit.From(amount)
	}
	if body.BillingCycle != nil {
		patch.BillingCycle = omit.From(service.BillingCycle(*body.BillingCycle))
	}
	return id, patch, nil
}

func (h *UpdateSubscriptionHandler) handle(ctx context.Context, input *UpdateSubscriptionInput) (*UpdateSubscriptionOutput, error) {
	identity, err := handlerutil.Identity(ctx)
	if err != nil {
		return nil, err
	}

	id, patch, err := parseUpdateSubscriptionInput(input)
	if err != nil {
		return nil, err
	}

	updated, err := h.SubscriptionService.UpdateSubscription(ctx, identity.UserID, id, patch)
	if err != nil {
		return nil, handlerutil.ServiceError(ctx, "failed to update subscription", err)
	}
	return &UpdateSubscriptionOutput{Body: FromService(*updated)}, nil
}
