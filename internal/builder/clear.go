package builder

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/tobsdb/pagedb/internal/query"
	"github.com/tobsdb/pagedb/pkg"
)

// Clear deletes every row of every table. Primary key sequences are kept, so
// keys are never reused. A lock flag left behind by a crashed writer is
// overridden and cleared.
func (db *PageDB) Clear(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, table := range db.Schema.Tables() {
		table := table
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return query.NewIOError(err, "clear of table %s cancelled", table.Name)
			}
			return db.clearTable(table.Name)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	pkg.InfoLog("cleared database", db.Schema.Name)
	return nil
}

func (db *PageDB) clearTable(name string) (err error) {
	release, err := db.locks.AcquireForce(name)
	if err != nil {
		return query.NewIOError(err, "failed to lock table %s", name)
	}
	defer finish(name, release, &err)

	if err := db.pager.WipeTablePages(name); err != nil {
		return query.NewIOError(err, "failed to wipe table %s", name)
	}
	// page 1 always exists for an initialized table
	if _, err := db.pager.FindWritablePage(name); err != nil {
		return query.NewIOError(err, "failed to recreate page 1 of table %s", name)
	}
	return nil
}

// ResetLock clears the lock flag of {table} without touching its rows. It
// waits for a live writer to finish, so only a flag left behind by a crashed
// writer is actually overridden.
func (db *PageDB) ResetLock(table string) (err error) {
	if _, err := db.table(table); err != nil {
		return err
	}

	release, err := db.locks.AcquireForce(table)
	if err != nil {
		return query.NewIOError(err, "failed to lock table %s", table)
	}
	defer finish(table, release, &err)

	pkg.InfoLog("reset lock of table", table)
	return nil
}
