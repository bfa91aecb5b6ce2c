package builder

import (
	"context"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/tobsdb/pagedb/internal/query"
	"github.com/tobsdb/pagedb/pkg"
)

// Insert appends every row of {cmd} in order and returns the assigned
// primary keys. Rows written before a failure stay committed.
func (db *PageDB) Insert(ctx context.Context, cmd *query.Insert) (pks []int64, err error) {
	table, err := db.table(cmd.Table)
	if err != nil {
		return nil, err
	}
	if len(cmd.Rows) == 0 {
		return nil, query.NewParseError("INSERT into %s has no rows", table.Name)
	}
	for i, row := range cmd.Rows {
		if len(row) != len(table.Columns) {
			return nil, query.NewParseError("row %d: expected %d values for table %s, got %d",
				i+1, len(table.Columns), table.Name, len(row))
		}
	}

	release, err := db.acquire(table.Name)
	if err != nil {
		return nil, err
	}
	defer finish(table.Name, release, &err)

	pks = make([]int64, 0, len(cmd.Rows))
	for _, row := range cmd.Rows {
		if ctx_err := ctx.Err(); ctx_err != nil {
			return pks, query.NewIOError(ctx_err, "insert into %s stopped after %d rows", table.Name, len(pks))
		}

		index, err := db.pager.FindWritablePage(table.Name)
		if err != nil {
			return pks, query.NewIOError(err, "failed to find a page in table %s", table.Name)
		}
		pk, err := db.sequencer.NextPK(table.Name)
		if err != nil {
			return pks, query.NewIOError(err, "failed to assign primary key in table %s", table.Name)
		}

		line := make([]string, 0, len(row)+1)
		line = append(line, strconv.FormatInt(pk, 10))
		line = append(line, row...)
		if err := db.pager.AppendRow(table.Name, index, line); err != nil {
			return pks, query.NewIOError(err, "failed to write row %d to table %s", pk, table.Name)
		}
		pks = append(pks, pk)
	}

	pkg.DebugLog("inserted", len(pks), "rows into", table.Name)
	return pks, nil
}

// Delete removes every row matching {cmd}.Where, page by page, and returns
// how many rows were removed. Pages rewritten before a failure stay rewritten.
func (db *PageDB) Delete(ctx context.Context, cmd *query.Delete) (deleted int, err error) {
	table, err := db.table(cmd.Table)
	if err != nil {
		return 0, err
	}
	if len(cmd.Where) == 0 {
		return 0, query.NewParseError("DELETE requires a WHERE clause")
	}

	release, err := db.acquire(table.Name)
	if err != nil {
		return 0, err
	}
	defer finish(table.Name, release, &err)

	count, err := db.pager.PageCount(table.Name)
	if err != nil {
		return 0, query.NewIOError(err, "failed to list pages of table %s", table.Name)
	}

	for index := 1; index <= count; index++ {
		if ctx_err := ctx.Err(); ctx_err != nil {
			return deleted, query.NewIOError(ctx_err, "delete from %s stopped at page %d", table.Name, index)
		}

		page, err := db.pager.ReadPage(table.Name, index)
		if err != nil {
			return deleted, query.NewIOError(err, "failed to read page %d of table %s", index, table.Name)
		}

		kept := make([][]string, 0, page.Len())
		for i, row := range page.Rows {
			if !cmd.Where.Matches(page.Fields(i)) {
				kept = append(kept, row)
			}
		}
		if len(kept) == page.Len() {
			continue
		}

		header := page.Header
		if header == nil {
			header = table.Header()
		}
		if err := db.pager.RewritePage(table.Name, index, header, kept); err != nil {
			return deleted, query.NewIOError(err, "failed to rewrite page %d of table %s", index, table.Name)
		}
		deleted += page.Len() - len(kept)
	}

	pkg.DebugLog("deleted", deleted, "rows from", table.Name)
	return deleted, nil
}

// Select joins every FROM table, filters the product and projects the
// declared columns in declared order.
func (db *PageDB) Select(ctx context.Context, cmd *query.Select) ([][]string, error) {
	if len(cmd.From) == 0 {
		return nil, query.NewParseError("SELECT requires at least one table")
	}
	for _, name := range cmd.From {
		if _, err := db.table(name); err != nil {
			return nil, err
		}
	}
	for _, col := range cmd.Columns {
		table, err := db.table(col.Table)
		if err != nil {
			return nil, err
		}
		if !table.HasColumn(col.Name) {
			return nil, query.NewParseError("Column %s not found in table %s", col.Name, table.Name)
		}
	}

	sources, err := db.readTables(ctx, cmd.From)
	if err != nil {
		return nil, err
	}

	combined := cartesian(sources)
	if cmd.HasWhere() {
		combined = cmd.Where.Filter(combined)
	}
	return project(combined, cmd.Columns), nil
}

// readTables reads the rows of every table concurrently, failing if any of
// them is locked by a writer.
func (db *PageDB) readTables(ctx context.Context, tables []string) ([][]query.Fields, error) {
	for _, name := range tables {
		locked, err := db.locks.IsLocked(name)
		if err != nil {
			return nil, query.NewIOError(err, "failed to read lock of table %s", name)
		}
		if locked {
			return nil, query.NewLockConflictError(name, nil)
		}
	}

	sources := make([][]query.Fields, len(tables))
	g, ctx := errgroup.WithContext(ctx)
	for i, name := range tables {
		i, name := i, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return query.NewIOError(err, "read of table %s cancelled", name)
			}
			rows, err := db.pager.ReadAllRows(name)
			if err != nil {
				return query.NewIOError(err, "failed to read table %s", name)
			}
			sources[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sources, nil
}

// cartesian combines the tables left to right; keys are table qualified so
// merged rows never collide.
func cartesian(sources [][]query.Fields) []query.Fields {
	product := []query.Fields{{}}
	for _, rows := range sources {
		next := make([]query.Fields, 0, len(product)*len(rows))
		for _, left := range product {
			for _, right := range rows {
				next = append(next, left.Merge(right))
			}
		}
		product = next
	}
	return product
}

func project(rows []query.Fields, columns []query.Column) [][]string {
	res := make([][]string, 0, len(rows))
	for _, row := range rows {
		values := make([]string, len(columns))
		for i, col := range columns {
			values[i] = row.Get(col.String())
		}
		res = append(res, values)
	}
	return res
}
