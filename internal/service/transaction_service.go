package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/operator/actions"
	"github.com/carson-networks/budget-ledger/internal/storage/transaction"
)

const defaultLimit = 20

// TransactionService handles transaction business logic.
type TransactionService struct {
	reader     transaction.IReader
	dispatcher Dispatcher
	now        func() time.Time
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(reader transaction.IReader, dispatcher Dispatcher) *TransactionService {
	return &TransactionService{reader: reader, dispatcher: dispatcher, now: time.Now}
}

// CreateTransaction records a manual transaction for userID.
func (s *TransactionService) CreateTransaction(ctx context.Context, userID uuid.UUID, tx Transaction) (*Transaction, error) {
	action := &actions.CreateTransaction{
		UserID:          userID,
		Type:            transaction.Type(tx.Type),
		Description:     tx.Description,
		Amount:          tx.Amount,
		Category:        tx.Category,
		PaymentMethod:   tx.PaymentMethod,
		ReceiptURL:      tx.ReceiptURL,
		TransactionDate: tx.TransactionDate,
	}
	if err := s.dispatcher.Process(ctx, action); err != nil {
		return nil, err
	}

	created := transactionFromStorage(action.Created)
	return &created, nil
}

// ListTransactions returns a page of transactions using cursor-based pagination.
func (s *TransactionService) ListTransactions(ctx context.Context, userID uuid.UUID, query TransactionQuery, cursor *TransactionCursor) ([]Transaction, *TransactionCursor, error) {
	limit := defaultLimit
	offset := 0
	var maxCreationTime *time.Time
	if cursor != nil {
		limit = cursor.Limit
		offset = cursor.Position
		maxCreationTime = &cursor.MaxCreationTime
	}
	firstPageTime := s.now()

	filter := &transaction.TransactionFilter{
		UserID:          userID,
		From:            query.From,
		To:              query.To,
		Category:        query.Category,
		PaymentMethod:   query.PaymentMethod,
		Limit:           limit,
		Offset:          offset,
		MaxCreationTime: maxCreationTime,
	}
	if query.Type != nil {
		txType := transaction.Type(*query.Type)
		filter.Type = &txType
	}

	rows, err := s.reader.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	if len(rows) == 0 {
		return nil, nil, nil
	}

	var nextCursor *TransactionCursor
	if len(rows) > limit {
		rows = rows[:limit]

		// Rows created after the first page was read must not shift later pages.
		cursorMaxCreationTime := firstPageTime
		if maxCreationTime != nil {
			cursorMaxCreationTime = *maxCreationTime
		}

		nextCursor = &TransactionCursor{
			Position:        offset + limit,
			Limit:           limit,
			MaxCreationTime: cursorMaxCreationTime,
		}
	}

	convertedTransactions := make([]Transaction, len(rows))
	for i, row := range rows {
		convertedTransactions[i] = transactionFromStorage(row)
	}

	return convertedTransactions, nextCursor, nil
}
