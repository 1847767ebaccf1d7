package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/handlers/handlerutil"
	"github.com/carson-networks/budget-ledger/internal/handlers/v1/transaction"
	"github.com/carson-networks/budget-ledger/internal/logging"
	"github.com/carson-networks/budget-ledger/internal/service"
	sessions "github.com/carson-networks/budget-ledger/internal/session"
)

type SkippedSubscription struct {
	SubscriptionID string `json:"subscriptionID,omitempty"`
	Name           string `json:"name"`
	Reason         string `json:"reason" doc:"Why no transaction was generated"`
}

// StartSessionBody reports what the session's materialization pass did.
// A failed pass is reported in Error and leaves the session usable.
type StartSessionBody struct {
	SessionID string                    `json:"sessionID"`
	StartedAt string                    `json:"startedAt,omitempty"`
	Processed int                       `json:"processed" doc:"Number of transactions generated"`
	Created   []transaction.Transaction `json:"created"`
	Skipped   []SkippedSubscription     `json:"skipped"`
	Message   string                    `json:"message"`
	Error     string                    `json:"error,omitempty"`
}

type StartSessionOutput struct {
	Body StartSessionBody
}

type sessionService interface {
	StartSession(ctx context.Context, sessionID, userID uuid.UUID) (*service.SessionStart, error)
	EndSession(sessionID uuid.UUID)
}

// Handler serves POST and DELETE /v1/session.
type Handler struct {
	SessionService sessionService
}

func NewHandler(svc sessionService) *Handler {
	return &Handler{SessionService: svc}
}

func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "start-session",
		Method:      http.MethodPost,
		Path:        "/v1/session",
		Summary:     "Start session",
		Description: "Generates the transactions due for the caller's active subscriptions. Repeated calls within the same session return the first outcome.",
		Tags:        []string{"Session"},
	}, h.start)

	huma.Register(api, huma.Operation{
		OperationID:   "end-session",
		Method:        http.MethodDelete,
		Path:          "/v1/session",
		Summary:       "End session",
		Tags:          []string{"Session"},
		DefaultStatus: http.StatusNoContent,
	}, h.end)
}

func processedMessage(n int) string {
	return fmt.Sprintf("Processed %d recurring subscriptions", n)
}

func (h *Handler) start(ctx context.Context, _ *struct{}) (*StartSessionOutput, error) {
	identity, err := handlerutil.Identity(ctx)
	if err != nil {
		return nil, err
	}
	if identity.SessionID == uuid.Nil {
		return nil, huma.Error400BadRequest("token carries no session id")
	}

	start, err := h.SessionService.StartSession(ctx, identity.SessionID, identity.UserID)
	if errors.Is(err, sessions.ErrSessionOwner) {
		return nil, handlerutil.ServiceError(ctx, "session belongs to another user", err)
	}
	if err != nil {
		if logData := logging.GetLogData(ctx); logData != nil {
			logData.AddData("materializeError", err.Error())
		}
		return &StartSessionOutput{Body: StartSessionBody{
			SessionID: identity.SessionID.String(),
			Created:   []transaction.Transaction{},
			Skipped:   []SkippedSubscription{},
			Message:   processedMessage(0),
			Error:     err.Error(),
		}}, nil
	}

	body := StartSessionBody{
		SessionID: start.SessionID.String(),
		StartedAt: start.StartedAt.Format(time.RFC3339),
		Processed: start.Processed,
		Created:   make([]transaction.Transaction, len(start.Created)),
		Skipped:   make([]SkippedSubscription, len(start.Skipped)),
		Message:   processedMessage(start.Processed),
	}
	for i, tx := range start.Created {
		body.Created[i] = transaction.FromService(tx)
	}
	for i, skip := range start.Skipped {
		body.Skipped[i] = SkippedSubscription{Name: skip.Name, Reason: skip.Reason}
		if skip.SubscriptionID != uuid.Nil {
			body.Skipped[i].SubscriptionID = skip.SubscriptionID.String()
		}
	}
	return &StartSessionOutput{Body: body}, nil
}

func (h *Handler) end(ctx context.Context, _ *struct{}) (*struct{}, error) {
	identity, err := handlerutil.Identity(ctx)
	if err != nil {
		return nil, err
	}
	h.SessionService.EndSession(identity.SessionID)
	return nil, nil
}
