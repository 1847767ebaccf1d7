package lookup

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/handlers/handlerutil"
	"github.com/carson-networks/budget-ledger/internal/service"
)

// Item is the API model for a category or payment-method label.
type Item struct {
	ID        string  `json:"id" doc:"Lookup item UUID"`
	Kind      string  `json:"kind" enum:"category,payment_method" doc:"Which label set the item belongs to"`
	Name      string  `json:"name" doc:"Label text"`
	Color     *string `json:"color,omitempty" doc:"Display color"`
	IsDefault bool    `json:"isDefault" doc:"Whether the item is preselected in forms"`
}

func FromService(item service.LookupItem) Item {
	return Item{
		ID:        item.ID.String(),
		Kind:      string(item.Kind),
		Name:      item.Name,
		Color:     item.Color,
		IsDefault: item.IsDefault,
	}
}

type CreateLookupBody struct {
	Kind      string  `json:"kind" required:"true" enum:"category,payment_method" doc:"Which label set to add to"`
	Name      string  `json:"name" required:"true" minLength:"1" doc:"Label text"`
	Color     *string `json:"color,omitempty" doc:"Display color"`
	IsDefault bool    `json:"isDefault,omitempty" doc:"Whether the item is preselected in forms"`
}

type CreateLookupInput struct {
	Body CreateLookupBody
}

type CreateLookupOutput struct {
	Status int `json:"-"`
	Body   Item
}

type ListLookupsInput struct {
	Kind string `query:"kind" enum:"category,payment_method" doc:"Only items of this kind"`
}

type ListLookupsResponseBody struct {
	Items []Item `json:"items" doc:"Lookup items ordered by kind and name"`
}

type ListLookupsOutput struct {
	Body ListLookupsResponseBody
}

type DeleteLookupInput struct {
	ID string `path:"id" format:"uuid" doc:"Lookup item UUID"`
}

type lookupService interface {
	CreateLookup(ctx context.Context, userID uuid.UUID, item service.LookupItem) (*service.LookupItem, error)
	ListLookups(ctx context.Context, userID uuid.UUID, kind *service.LookupKind) ([]service.LookupItem, error)
	DeleteLookup(ctx context.Context, userID, id uuid.UUID) error
}

// Handler serves POST /v1/lookup, GET /v1/lookups and DELETE /v1/lookup/{id}.
type Handler struct {
	LookupService lookupService
}

func NewHandler(svc lookupService) *Handler {
	return &Handler{LookupService: svc}
}

func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-lookup",
		Method:        http.MethodPost,
		Path:          "/v1/lookup",
		Summary:       "Create lookup item",
		Description:   "Adds a category or payment-method label that subscriptions may reference.",
		Tags:          []string{"Lookups"},
		DefaultStatus: http.StatusCreated,
	}, h.create)

	huma.Register(api, huma.Operation{
		OperationID: "list-lookups",
		Method:      http.MethodGet,
		Path:        "/v1/lookups",
		Summary:     "List lookup items",
		Tags:        []string{"Lookups"},
	}, h.list)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-lookup",
		Method:        http.MethodDelete,
		Path:          "/v1/lookup/{id}",
		Summary:       "Delete lookup item",
		Description:   "Removes a label. Transactions that used it keep the label text.",
		Tags:          []string{"Lookups"},
		DefaultStatus: http.StatusNoContent,
	}, h.delete)
}

func (h *Handler) create(ctx context.Context, input *CreateLookupInput) (*CreateLookupOutput, error) {
	identity, err := handlerutil.Identity(ctx)
	if err != nil {
		return nil, err
	}

	created, err := h.LookupService.CreateLookup(ctx, identity.UserID, service.LookupItem{
		Kind:      service.LookupKind(input.Body.Kind),
		Name:      input.Body.Name,
		Color:     input.Body.Color,
		IsDefault: input.Body.IsDefault,
	})
	if err != nil {
		return nil, handlerutil.ServiceError(ctx, "failed to create lookup item", err)
	}
	return &CreateLookupOutput{Status: http.StatusCreated, Body: FromService(*created)}, nil
}

func (h *Handler) list(ctx context.Context, input *ListLookupsInput) (*ListLookupsOutput, error) {
	identity, err := handlerutil.Identity(ctx)
	if err != nil {
		return nil, err
	}

	var kind *service.LookupKind
	if input.Kind != "" {
		k := service.LookupKind(input.Kind)
		kind = &k
	}

	items, err := h.LookupService.ListLookups(ctx, identity.UserID, kind)
	if err != nil {
		return nil, handlerutil.ServiceError(ctx, "failed to list lookup items", err)
	}

	resp := ListLookupsResponseBody{Items: make([]Item, len(items))}
	for i, item := range items {
		resp.Items[i] = FromService(item)
	}
	return &ListLookupsOutput{Body: resp}, nil
}

func (h *Handler) delete(ctx context.Context, input *DeleteLookupInput) (*struct{}, error) {
	identity, err := handlerutil.Identity(ctx)
	if err != nil {
		return nil, err
	}

	id, err := uuid.FromString(input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid lookup item id", err)
	}

	if err := h.LookupService.DeleteLookup(ctx, identity.UserID, id); err != nil {
		return nil, handlerutil.ServiceError(ctx, "failed to delete lookup item", err)
	}
	return nil, nil
}
