package transaction

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-ledger/internal/handlers/handlerutil"
	"github.com/carson-networks/budget-ledger/internal/service"
)

// CreateTransactionBody is the request body for creating a transaction.
type CreateTransactionBody struct {
	Type            string  `json:"type" required:"true" enum:"expense,income" doc:"Direction of the money movement"`
	Description     string  `json:"description" required:"true" minLength:"1" doc:"Description of the transaction"`
	Amount          string  `json:"amount" required:"true" doc:"Positive decimal amount"`
	Category        string  `json:"category,omitempty" doc:"Category label"`
	PaymentMethod   string  `json:"paymentMethod,omitempty" doc:"Payment method label"`
	ReceiptURL      *string `json:"receiptUrl,omitempty" format:"uri" doc:"Link to a stored receipt"`
	TransactionDate string  `json:"transactionDate,omitempty" format:"date-time" doc:"RFC3339 transaction date, defaults to now"`
}

// CreateTransactionInput is the Huma input for creating a transaction.
type CreateTransactionInput struct {
	Body CreateTransactionBody
}

// CreateTransactionOutput is the Huma output for creating a transaction.
type CreateTransactionOutput struct {
	Status int `json:"-"`
	Body   Transaction
}

type transactionCreator interface {
	CreateTransaction(ctx context.Context, userID uuid.UUID, tx service.Transaction) (*service.Transaction, error)
}

// CreateTransactionHandler handles POST /v1/transaction.
type CreateTransactionHandler struct {
	TransactionService transactionCreator
}

// NewCreateTransactionHandler creates a new CreateTransactionHandler.
func NewCreateTransactionHandler(svc transactionCreator) *CreateTransactionHandler {
	return &CreateTransactionHandler{TransactionService: svc}
}

// Register registers the create transaction endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-transaction",
		Method:        http.MethodPost,
		Path:          "/v1/transaction",
		Summary:       "Create transaction",
		Description:   "Records a manual income or expense transaction.",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

// parseCreateTransactionInput converts the request body into a service
// transaction. A missing transactionDate stays zero and defaults to now on insert.
func parseCreateTransactionInput(input *CreateTransactionInput) (service.Transaction, error) {
	amount, err := decimal.NewFromString(input.Body.Amount)
	if err != nil {
		return service.Transaction{}, huma.NewError(http.StatusBadRequest, "invalid amount", err)
	}

	var transactionDate time.Time
	if input.Body.TransactionDate != "" {
		transactionDate, err = time.Parse(time.RFC3339, input.Body.TransactionDate)
		if err != nil {
			return service.Transaction{}, huma.NewError(http.StatusBadRequest, "invalid transactionDate", err)
		}
	}

	return service.Transaction{
		Type:            service.TransactionType(input.Body.Type),
		Description:     input.Body.Description,
		Amount:          amount,
		Category:        input.Body.Category,
		PaymentMethod:   input.Body.PaymentMethod,
		ReceiptURL:      input.Body.ReceiptURL,
		TransactionDate: transactionDate,
	}, nil
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	identity, err := handlerutil.Identity(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := parseCreateTransactionInput(input)
	if err != nil {
		return nil, err
	}

	created, err := h.TransactionService.CreateTransaction(ctx, identity.UserID, tx)
	if err != nil {
		return nil, handlerutil.ServiceError(ctx, "failed to create transaction", err)
	}

	return &CreateTransactionOutput{Status: http.StatusCreated, Body: FromService(*created)}, nil
}
