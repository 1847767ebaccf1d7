package service

import (
	"context"

	"github.com/carson-networks/budget-ledger/internal/operator/actions"
)

// fakeDispatcher records dispatched actions and lets a test fill in their
// outputs the way Perform would.
type fakeDispatcher struct {
	dispatched []actions.IAction
	perform    func(action actions.IAction) error
}

func (f *fakeDispatcher) Process(ctx context.Context, action actions.IAction) error {
	f.dispatched = append(f.dispatched, action)
	if f.perform == nil {
		return nil
	}
	return f.perform(action)
}
