// Package handlerutil holds helpers shared by the v1 huma handlers.
package handlerutil

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/budget-ledger/internal/auth"
	"github.com/carson-networks/budget-ledger/internal/logging"
	"github.com/carson-networks/budget-ledger/internal/operator"
	"github.com/carson-networks/budget-ledger/internal/operator/actions"
	"github.com/carson-networks/budget-ledger/internal/session"
	"github.com/carson-networks/budget-ledger/internal/storage/lookup"
	"github.com/carson-networks/budget-ledger/internal/storage/subscription"
)

// Identity returns the authenticated caller or a 401.
func Identity(ctx context.Context) (auth.Identity, error) {
	identity, ok := auth.IdentityFrom(ctx)
	if !ok {
		return auth.Identity{}, huma.Error401Unauthorized("authentication required")
	}
	return identity, nil
}

// ServiceError maps a service or action error onto an HTTP error.
func ServiceError(ctx context.Context, msg string, err error) error {
	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("serviceError", err.Error())
	}

	var invalid *actions.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		return huma.NewError(http.StatusUnprocessableEntity, msg, invalid.Err)
	case errors.Is(err, subscription.ErrNotFound), errors.Is(err, lookup.ErrNotFound):
		return huma.NewError(http.StatusNotFound, msg, err)
	case errors.Is(err, lookup.ErrDuplicate):
		return huma.NewError(http.StatusConflict, msg, err)
	case errors.Is(err, session.ErrSessionOwner):
		return huma.NewError(http.StatusForbidden, msg, err)
	case errors.Is(err, operator.ErrStopped):
		return huma.NewError(http.StatusServiceUnavailable, msg, err)
	case errors.Is(err, context.DeadlineExceeded):
		return huma.NewError(http.StatusGatewayTimeout, msg, err)
	}
	return huma.NewError(http.StatusInternalServerError, msg, err)
}
