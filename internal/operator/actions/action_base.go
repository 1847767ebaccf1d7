package actions

import (
	"context"

	"github.com/carson-networks/budget-ledger/internal/storage"
)

type IAction interface {
	Name() string
	Perform(ctx context.Context, writer *storage.Writer) error
}

// InvalidInputError marks an action rejected before anything was written.
type InvalidInputError struct {
	Err error
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Err.Error()
}

func (e *InvalidInputError) Unwrap() error {
	return e.Err
}
