package lookup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/scan"
)

type Writer struct {
	tx bob.Tx
	Reader
}

func NewWriter(tx bob.Tx) *Writer {
	return &Writer{
		tx: tx,
		Reader: Reader{
			exec: tx,
		},
	}
}

// Insert creates a lookup item. Names are unique per (user, kind).
func (w *Writer) Insert(ctx context.Context, create *ItemCreate) (*Item, error) {
	var color sql.NullString
	if create.Color != nil {
		color = sql.NullString{String: *create.Color, Valid: true}
	}

	query := psql.Insert(
		im.Into(tableName, "user_id", "kind", "name", "color", "is_default"),
		im.Values(psql.Arg(create.UserID, string(create.Kind), create.Name, color, create.IsDefault)),
		im.OnConflict("user_id", "kind", "name").DoNothing(),
		im.Returning(columns...),
	)

	row, err := bob.One(ctx, w.tx, query, scan.StructMapper[itemRow]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("insert lookup item: %w", err)
	}
	return rowToItem(row), nil
}

// Delete removes a lookup item. Existing transactions keep their label.
func (w *Writer) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	query := psql.Delete(
		dm.From(tableName),
		dm.Where(psql.Quote("user_id").EQ(psql.Arg(userID))),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	res, err := bob.Exec(ctx, w.tx, query)
	if err != nil {
		return fmt.Errorf("delete lookup item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete lookup item rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
