package lookup

import (
	"context"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"
)

var _ IReader = (*Reader)(nil)

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

// List returns the user's lookup items ordered by kind, then name.
func (r *Reader) List(ctx context.Context, filter *LookupFilter) ([]*Item, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(filter.UserID))),
	}
	if filter.Kind != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("kind").EQ(psql.Arg(string(*filter.Kind)))))
	}
	queryMods = append(queryMods,
		sm.OrderBy(psql.Quote("kind")).Asc(),
		sm.OrderBy(psql.Quote("name")).Asc(),
	)

	rows, err := bob.All(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[itemRow]())
	if err != nil {
		return nil, err
	}

	result := make([]*Item, len(rows))
	for i, row := range rows {
		result[i] = rowToItem(row)
	}
	return result, nil
}
