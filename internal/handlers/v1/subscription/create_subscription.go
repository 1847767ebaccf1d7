package subscription

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-ledger/internal/handlers/handlerutil"
	"github.com/carson-networks/budget-ledger/internal/service"
)

// CreateSubscriptionBody is the request body for creating a subscription.
type CreateSubscriptionBody struct {
	Name          string `json:"name" required:"true" minLength:"1" doc:"Display name"`
	Amount        string `json:"amount" required:"true" doc:"Positive decimal amount"`
	BillingCycle  string `json:"billingCycle" required:"true" enum:"monthly,yearly" doc:"How often the charge recurs"`
	BillingDay    int    `json:"billingDay" required:"true" minimum:"1" maximum:"31" doc:"Day of month the charge is due"`
	BillingMonth  int    `json:"billingMonth,omitempty" minimum:"0" maximum:"12" doc:"Month the charge is due, required for yearly"`
	Category      string `json:"category,omitempty" doc:"Category label"`
	PaymentMethod string `json:"paymentMethod,omitempty" doc:"Payment method label"`
	Include       *bool  `json:"include,omitempty" doc:"Whether the subscription is active, defaults to true"`
}

type CreateSubscriptionInput struct {
	Body CreateSubscriptionBody
}

type CreateSubscriptionOutput struct {
	Status int `json:"-"`
	Body   Subscription
}

type subscriptionCreator interface {
	CreateSubscription(ctx context.Context, userID uuid.UUID, sub service.Subscription) (*service.Subscription, error)
}

// CreateSubscriptionHandler handles POST /v1/subscription.
type CreateSubscriptionHandler struct {
	SubscriptionService subscriptionCreator
}

func NewCreateSubscriptionHandler(svc subscriptionCreator) *CreateSubscriptionHandler {
	return &CreateSubscriptionHandler{SubscriptionService: svc}
}

func (h *CreateSubscriptionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-subscription",
		Method:        http.MethodPost,
		Path:          "/v1/subscription",
		Summary:       "Create subscription",
		Description:   "Creates a recurring charge that is materialized into a transaction once per billing period.",
		Tags:          []string{"Subscriptions"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func parseCreateSubscriptionInput(input *CreateSubscriptionInput) (service.Subscription, error) {
	amount, err := decimal.NewFromString(input.Body.Amount)
	if err != nil {
		return service.Subscription{}, huma.NewError(http.StatusBadRequest, "invalid amount", err)
	}

	include := true
	if input.Body.Include != nil {
		include = *input.Body.Include
	}

	return service.Subscription{
		Name:          input.Body.Name,
		Amount:        amount,
		BillingCycle:  service.BillingCycle(input.Body.BillingCycle),
		BillingDay:    input.Body.BillingDay,
		BillingMonth:  input.Body.BillingMonth,
		Category:      input.Body.Category,
		PaymentMethod: input.Body.PaymentMethod,
		Include:       include,
	}, nil
}

func (h *CreateSubscriptionHandler) handle(ctx context.Context, input *CreateSubscriptionInput) (*CreateSubscriptionOutput, error) {
	identity, err := handlerutil.Identity(ctx)
	if err != nil {
		return nil, err
	}

	sub, err := parseCreateSubscriptionInput(input)
	if err != nil {
		return nil, err
	}

	created, err := h.SubscriptionService.CreateSubscription(ctx, identity.UserID, sub)
	if err != nil {
		return nil, handlerutil.ServiceError(ctx, "failed to create subscription", err)
	}

	return &CreateSubscriptionOutput{Status: http.StatusCreated, Body: FromService(*created)}, nil
}
