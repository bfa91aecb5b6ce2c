package conn

import (
	"context"
	"errors"
	"io"
	"net"

	"github.com/tobsdb/pagedb/internal/builder"
	"github.com/tobsdb/pagedb/pkg"
)

// HandleConnection serves one TCP client: every frame is a statement and
// every statement gets one framed JSON response.
func HandleConnection(ctx context.Context, db *builder.PageDB, conn net.Conn) {
	c := NewConnCtx(conn)
	defer conn.Close()
	pkg.InfoLog("connection", c.Id, "opened from", conn.RemoteAddr())
	defer pkg.InfoLog("connection", c.Id, "closed")

	for {
		buf, err := c.Read()
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				pkg.ErrorLog("connection", c.Id, "read error:", err)
			}
			return
		}

		res := Dispatch(ctx, db, string(buf))
		pkg.DebugLog("connection", c.Id, res.Status, res.Message)
		if _, err := c.WriteResponse(res); err != nil {
			pkg.ErrorLog("connection", c.Id, "writing response:", err)
			return
		}
	}
}

// ServeTCP accepts framed connections on {l} until ctx is done.
func ServeTCP(ctx context.Context, db *builder.PageDB, l net.Listener) error {
	go func() {
		<-ctx.Done()
		l.Close()
	}()

	for {
		conn, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		go HandleConnection(ctx, db, conn)
	}
}
