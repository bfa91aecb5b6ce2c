package conn

import (
	"context"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/tobsdb/pagedb/internal/builder"
	"github.com/tobsdb/pagedb/internal/query"
)

// Administrative directives are handled by the connection, not the query
// parser. UNLOCK TABLE <table> recovers a table left locked by a crashed
// writer without deleting rows.
const (
	CLEAR_DB     = "CLEAR DB"
	UNLOCK_TABLE = "UNLOCK TABLE"
)

type WsRequest struct {
	Query string `json:"query"`
	ReqId int    `json:"req_id"` // echoed back in the response
}

func IsClearDirective(text string) bool {
	return strings.TrimSuffix(strings.TrimSpace(text), ";") == CLEAR_DB
}

// UnlockDirectiveTable returns the table named by an UNLOCK TABLE directive.
func UnlockDirectiveTable(text string) (string, bool) {
	fields := strings.Fields(strings.TrimSuffix(strings.TrimSpace(text), ";"))
	if len(fields) != 3 || fields[0]+" "+fields[1] != UNLOCK_TABLE {
		return "", false
	}
	return fields[2], true
}

// Dispatch runs one statement or administrative directive.
func Dispatch(ctx context.Context, db *builder.PageDB, text string) query.Response {
	if IsClearDirective(text) {
		return db.ClearHandler(ctx)
	}
	if table, ok := UnlockDirectiveTable(text); ok {
		return db.ResetLockHandler(table)
	}
	return db.Execute(ctx, text)
}

// DispatchRequest decodes a JSON WsRequest and dispatches its query.
func DispatchRequest(ctx context.Context, db *builder.PageDB, raw []byte) query.Response {
	var req WsRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return query.NewErrorResponse(http.StatusBadRequest, "Invalid request: "+err.Error())
	}

	res := Dispatch(ctx, db, req.Query)
	res.ReqId = req.ReqId
	return res
}
