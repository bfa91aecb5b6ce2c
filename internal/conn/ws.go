package conn

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/tobsdb/pagedb/internal/builder"
	"github.com/tobsdb/pagedb/pkg"
)

var Upgrader = websocket.Upgrader{
	WriteBufferSize: 1024 * 10,
	ReadBufferSize:  1024 * 10,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// NewHandler serves /health and upgrades every other path to a websocket
// speaking WsRequest/query.Response JSON messages.
func NewHandler(ctx context.Context, db *builder.PageDB) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		HandleWsConnection(ctx, db, w, r)
	})
	return mux
}

func HandleWsConnection(ctx context.Context, db *builder.PageDB, w http.ResponseWriter, r *http.Request) {
	conn, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		pkg.ErrorLog("upgrade failed:", err)
		return
	}
	defer conn.Close()

	id := uuid.NewString()
	pkg.InfoLog("connection", id, "opened from", r.RemoteAddr)
	defer pkg.InfoLog("connection", id, "closed")

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				pkg.ErrorLog("connection", id, "read error:", err)
			}
			return
		}

		res := DispatchRequest(ctx, db, message)
		pkg.DebugLog("connection", id, res.Status, res.Message)
		if err := conn.WriteMessage(websocket.TextMessage, res.Marshal()); err != nil {
			pkg.ErrorLog("connection", id, "writing response:", err)
			return
		}
	}
}
