package storage

import (
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/budget-ledger/internal/storage/lookup"
	"github.com/carson-networks/budget-ledger/internal/storage/subscription"
	"github.com/carson-networks/budget-ledger/internal/storage/transaction"
)

type Reader struct {
	Lookups       *lookup.Reader
	Subscriptions *subscription.Reader
	Transactions  *transaction.Reader
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{
		Lookups:       lookup.NewReader(exec),
		Subscriptions: subscription.NewReader(exec),
		Transactions:  transaction.NewReader(exec),
	}
}
