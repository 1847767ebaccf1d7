package lookup

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/budget-ledger/internal/auth"
	"github.com/carson-networks/budget-ledger/internal/service"
	storagelookup "github.com/carson-networks/budget-ledger/internal/storage/lookup"
)

var testIdentity = auth.Identity{
	UserID:    uuid.Must(uuid.FromString("5b9f2f8e-0d8c-4d4a-8a59-1a2b3c4d5e6f")),
	SessionID: uuid.Must(uuid.FromString("0e6c3f0a-7b1d-4c2e-9f8a-6b5c4d3e2f1a")),
}

type mockLookupService struct {
	mock.Mock
}

func (m *mockLookupService) CreateLookup(ctx context.Context, userID uuid.UUID, item service.LookupItem) (*service.LookupItem, error) {
	args := m.Called(ctx, userID, item)
	created, _ := args.Get(0).(*service.LookupItem)
	return created, args.Error(1)
}

func (m *mockLookupService) ListLookups(ctx context.Context, userID uuid.UUID, kind *service.LookupKind) ([]service.LookupItem, error) {
	args := m.Called(ctx, userID, kind)
	items, _ := args.Get(0).([]service.LookupItem)
	return items, args.Error(1)
}

func (m *mockLookupService) DeleteLookup(ctx context.Context, userID, id uuid.UUID) error {
	return m.Called(ctx, userID, id).Error(0)
}

func newTestAPI(t *testing.T, svc *mockLookupService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	api.UseMiddleware(func(ctx huma.Context, next func(huma.Context)) {
		next(huma.WithContext(ctx, auth.WithIdentity(ctx.Context(), testIdentity)))
	})
	NewHandler(svc).Register(api)
	return api
}

func TestHTTP_CreateLookup_Success(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	svc := new(mockLookupService)
	svc.On("CreateLookup", mock.Anything, testIdentity.UserID, service.LookupItem{
		Kind: service.LookupKindCategory,
		Name: "Entertainment",
	}).Return(&service.LookupItem{ID: id, Kind: service.LookupKindCategory, Name: "Entertainment"}, nil)

	resp := newTestAPI(t, svc).Post("/v1/lookup", CreateLookupBody{Kind: "category", Name: "Entertainment"})

	assert.Equal(t, http.StatusCreated, resp.Code)
	var body Item
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, id.String(), body.ID)
	assert.Equal(t, "category", body.Kind)
	svc.AssertExpectations(t)
}

func TestHTTP_CreateLookup_Duplicate(t *testing.T) {
	svc := new(mockLookupService)
	svc.On("CreateLookup", mock.Anything, mock.Anything, mock.Anything).Return(nil, storagelookup.ErrDuplicate)

	resp := newTestAPI(t, svc).Post("/v1/lookup", CreateLookupBody{Kind: "payment_method", Name: "Visa"})

	assert.Equal(t, http.StatusConflict, resp.Code)
	svc.AssertExpectations(t)
}

func TestHTTP_CreateLookup_UnknownKind(t *testing.T) {
	svc := new(mockLookupService)

	resp := newTestAPI(t, svc).Post("/v1/lookup", CreateLookupBody{Kind: "merchant", Name: "Shop"})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	svc.AssertNotCalled(t, "CreateLookup")
}

func TestHTTP_ListLookups_ByKind(t *testing.T) {
	svc := new(mockLookupService)
	svc.On("ListLookups", mock.Anything, testIdentity.UserID, mock.MatchedBy(func(kind *service.LookupKind) bool {
		return kind != nil && *kind == service.LookupKindPaymentMethod
	})).Return([]service.LookupItem{
		{ID: uuid.Must(uuid.NewV4()), Kind: service.LookupKindPaymentMethod, Name: "Visa", IsDefault: true},
	}, nil)

	resp := newTestAPI(t, svc).Get("/v1/lookups?kind=payment_method")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListLookupsResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, "Visa", body.Items[0].Name)
	assert.True(t, body.Items[0].IsDefault)
	svc.AssertExpectations(t)
}

func TestHTTP_ListLookups_AllKinds(t *testing.T) {
	svc := new(mockLookupService)
	svc.On("ListLookups", mock.Anything, testIdentity.UserID, (*service.LookupKind)(nil)).
		Return([]service.LookupItem{}, nil)

	resp := newTestAPI(t, svc).Get("/v1/lookups")

	assert.Equal(t, http.StatusOK, resp.Code)
	svc.AssertExpectations(t)
}

func TestHTTP_DeleteLookup_Success(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	svc := new(mockLookupService)
	svc.On("DeleteLookup", mock.Anything, testIdentity.UserID, id).Return(nil)

	resp := newTestAPI(t, svc).Delete("/v1/lookup/" + id.String())

	assert.Equal(t, http.StatusNoContent, resp.Code)
	svc.AssertExpectations(t)
}

func TestHTTP_DeleteLookup_NotFound(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	svc := new(mockLookupService)
	svc.On("DeleteLookup", mock.Anything, testIdentity.UserID, id).Return(storagelookup.ErrNotFound)

	resp := newTestAPI(t, svc).Delete("/v1/lookup/" + id.String())

	assert.Equal(t, http.StatusNotFound, resp.Code)
	svc.AssertExpectations(t)
}
