package conn

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tobsdb/pagedb/internal/builder"
	"github.com/tobsdb/pagedb/pkg"
)

type ListenOptions struct {
	Port int
	// framed TCP listener; zero disables it
	TCPPort int
}

// Listen serves the websocket (and optionally the TCP) protocol until the
// process receives SIGINT or SIGTERM.
func Listen(db *builder.PageDB, opts ListenOptions) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Port),
		Handler:      NewHandler(ctx, db),
		ReadTimeout:  0,
		WriteTimeout: 0,
	}

	go func() {
		err := s.ListenAndServe()
		if err != http.ErrServerClosed {
			pkg.FatalLog(err)
		}
	}()
	pkg.InfoLog("PageDB listening on port", opts.Port)

	if opts.TCPPort != 0 {
		l, err := net.Listen("tcp", fmt.Sprintf(":%d", opts.TCPPort))
		if err != nil {
			pkg.FatalLog(err)
		}
		go func() {
			if err := ServeTCP(ctx, db, l); err != nil {
				pkg.ErrorLog("tcp server stopped:", err)
			}
		}()
		pkg.InfoLog("PageDB accepting TCP connections on port", opts.TCPPort)
	}

	<-ctx.Done()
	pkg.DebugLog("Shutting down...")
	s.Shutdown(context.Background())
}
