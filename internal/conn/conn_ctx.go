package conn

import (
	"net"

	"github.com/google/uuid"

	"github.com/tobsdb/pagedb/internal/query"
	"github.com/tobsdb/pagedb/pkg"
)

// ConnCtx is one framed TCP connection.
type ConnCtx struct {
	Id   string
	conn net.Conn
}

func NewConnCtx(c net.Conn) *ConnCtx {
	return &ConnCtx{Id: uuid.NewString(), conn: c}
}

func (ctx *ConnCtx) Read() ([]byte, error) { return pkg.ConnReadBytes(ctx.conn) }

func (ctx *ConnCtx) Write(buf []byte) (int, error) { return pkg.ConnWriteBytes(ctx.conn, buf) }

func (ctx *ConnCtx) WriteResponse(r query.Response) (int, error) { return ctx.Write(r.Marshal()) }
