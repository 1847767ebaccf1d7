package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/carson-networks/budget-ledger/internal/storage"
	"github.com/carson-networks/budget-ledger/internal/storage/lookup"
)

type CreateLookup struct {
	Create lookup.ItemCreate

	Created *lookup.Item
	IAction
}

func (c *CreateLookup) Name() string {
	return "CreateLookup"
}

func (c *CreateLookup) Perform(ctx context.Context, writer *storage.Writer) error {
	if !c.Create.Kind.Valid() {
		return &InvalidInputError{Err: fmt.Errorf("unknown lookup kind %q", c.Create.Kind)}
	}
	c.Create.Name = strings.TrimSpace(c.Create.Name)
	if c.Create.Name == "" {
		return &InvalidInputError{Err: fmt.Errorf("name must not be blank")}
	}

	created, err := writer.Lookup.Insert(ctx, &c.Create)
	if err != nil {
		return err
	}

	c.Created = created
	return nil
}
