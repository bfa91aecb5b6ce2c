package builder

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/tobsdb/pagedb/internal/lock"
	"github.com/tobsdb/pagedb/internal/paging"
	"github.com/tobsdb/pagedb/internal/parser"
	"github.com/tobsdb/pagedb/internal/query"
	"github.com/tobsdb/pagedb/internal/schema"
	"github.com/tobsdb/pagedb/internal/sequence"
	"github.com/tobsdb/pagedb/pkg"
)

const DEFAULT_STATEMENT_CACHE_SIZE = 1024

type Options struct {
	// Maximum number of parsed statements kept in memory. Zero uses
	// DEFAULT_STATEMENT_CACHE_SIZE; a negative value disables the cache.
	StatementCacheSize int64
}

// PageDB executes statements against the paged tables of one schema stored
// under Root. Every piece of table state lives on disk, so several PageDB
// values (in one process or many) may share a root.
type PageDB struct {
	Schema *schema.Schema

	pager      *paging.Pager
	sequencer  *sequence.Sequencer
	locks      *lock.Coordinator
	statements *ristretto.Cache[string, query.Command]
}

// NewPageDB prepares the database at base/<schema name>, creating any table
// file that does not exist yet.
func NewPageDB(base string, s *schema.Schema, opts Options) (*PageDB, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}

	pager := paging.NewPager(s.Root(base), s)
	if err := pager.EnsureInitialized(); err != nil {
		return nil, fmt.Errorf("initializing %s: %w", pager.Root(), err)
	}

	db := &PageDB{
		Schema:    s,
		pager:     pager,
		sequencer: sequence.NewSequencer(pager),
		locks:     lock.NewCoordinator(pager),
	}

	size := opts.StatementCacheSize
	if size == 0 {
		size = DEFAULT_STATEMENT_CACHE_SIZE
	}
	if size > 0 {
		cache, err := ristretto.NewCache(&ristretto.Config[string, query.Command]{
			NumCounters: size * 10,
			MaxCost:     size,
			BufferItems: 64,
		})
		if err != nil {
			return nil, fmt.Errorf("creating statement cache: %w", err)
		}
		db.statements = cache
	}

	pkg.InfoLog("opened database", s.Name, "at", pager.Root(), "with", s.Len(), "tables")
	return db, nil
}

func (db *PageDB) Root() string { return db.pager.Root() }

func (db *PageDB) Pager() *paging.Pager { return db.pager }

func (db *PageDB) Close() {
	if db.statements != nil {
		db.statements.Close()
	}
}

// Parse returns the command for {text}, reusing an earlier parse of the same
// text when one is cached.
func (db *PageDB) Parse(text string) (query.Command, error) {
	text = strings.TrimSpace(text)
	if db.statements != nil {
		if cmd, ok := db.statements.Get(text); ok {
			return cmd, nil
		}
	}

	cmd, err := parser.Parse(text, db.Schema)
	if err != nil {
		return nil, err
	}
	if db.statements != nil {
		db.statements.Set(text, cmd, 1)
	}
	return cmd, nil
}

// Execute parses and runs one statement. Every failure is reported in the
// response; Execute never panics on bad input.
func (db *PageDB) Execute(ctx context.Context, text string) query.Response {
	cmd, err := db.Parse(text)
	if err != nil {
		pkg.DebugLog("parse failed:", err)
		return query.ErrorToResponse(err)
	}
	return db.ExecuteCommand(ctx, cmd)
}

func (db *PageDB) ExecuteCommand(ctx context.Context, cmd query.Command) query.Response {
	switch c := cmd.(type) {
	case *query.Insert:
		return db.InsertHandler(ctx, c)
	case *query.Delete:
		return db.DeleteHandler(ctx, c)
	case *query.Select:
		return db.SelectHandler(ctx, c)
	}
	return query.NewErrorResponse(http.StatusBadRequest, "Unsupported command")
}

func (db *PageDB) table(name string) (*schema.Table, error) {
	table, ok := db.Schema.Table(name)
	if !ok {
		return nil, query.NewUnknownTableError(name)
	}
	return table, nil
}

// acquire enters the table's critical section for a write.
func (db *PageDB) acquire(table string) (lock.Release, error) {
	release, err := db.locks.Acquire(table)
	if err != nil {
		if errors.Is(err, lock.ERR_TABLE_LOCKED) {
			return nil, query.NewLockConflictError(table, err)
		}
		return nil, query.NewIOError(err, "failed to lock table %s", table)
	}
	return release, nil
}

// finish releases the critical section, reporting a release failure only
// when the operation itself succeeded.
func finish(table string, release lock.Release, err *error) {
	if release_err := release(); release_err != nil {
		pkg.ErrorLog("failed to release table", table, release_err)
		if *err == nil {
			*err = query.NewIOError(release_err, "failed to unlock table %s", table)
		}
	}
}
