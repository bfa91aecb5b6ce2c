package builder

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tobsdb/pagedb/internal/query"
)

func (db *PageDB) InsertHandler(ctx context.Context, cmd *query.Insert) query.Response {
	pks, err := db.Insert(ctx, cmd)
	if err != nil {
		return query.ErrorToResponse(err)
	}

	return query.NewResponse(
		http.StatusCreated,
		fmt.Sprintf("Created %d new rows in table %s", len(pks), cmd.Table),
		nil,
	)
}

func (db *PageDB) DeleteHandler(ctx context.Context, cmd *query.Delete) query.Response {
	deleted, err := db.Delete(ctx, cmd)
	if err != nil {
		return query.ErrorToResponse(err)
	}

	return query.NewResponse(
		http.StatusOK,
		fmt.Sprintf("Deleted %d rows in table %s", deleted, cmd.Table),
		nil,
	)
}

func (db *PageDB) SelectHandler(ctx context.Context, cmd *query.Select) query.Response {
	rows, err := db.Select(ctx, cmd)
	if err != nil {
		return query.ErrorToResponse(err)
	}

	return query.NewResponse(
		http.StatusOK,
		fmt.Sprintf("Found %d rows", len(rows)),
		rows,
	)
}

func (db *PageDB) ClearHandler(ctx context.Context) query.Response {
	if err := db.Clear(ctx); err != nil {
		return query.ErrorToResponse(err)
	}
	return query.NewResponse(
		http.StatusOK,
		fmt.Sprintf("Cleared %d tables in database %s", db.Schema.Len(), db.Schema.Name),
		nil,
	)
}

func (db *PageDB) ResetLockHandler(table string) query.Response {
	if err := db.ResetLock(table); err != nil {
		return query.ErrorToResponse(err)
	}
	return query.NewResponse(
		http.StatusOK,
		fmt.Sprintf("Unlocked table %s", table),
		nil,
	)
}
