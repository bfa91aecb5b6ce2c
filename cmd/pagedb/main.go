package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/tobsdb/pagedb/internal/builder"
	"github.com/tobsdb/pagedb/internal/conn"
	"github.com/tobsdb/pagedb/internal/schema"
	"github.com/tobsdb/pagedb/pkg"
)

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func main() {
	cwd, _ := os.Getwd()

	schema_path := flag.String("schema", envOr("PAGEDB_SCHEMA", "schema.json"), "path to the schema file")
	root := flag.String("root", envOr("PAGEDB_ROOT", cwd), "directory holding the database")
	port := flag.Int("port", 7085, "websocket listening port")
	tcp_port := flag.Int("tcp-port", 0, "framed TCP listening port (0 disables it)")
	repl := flag.Bool("repl", false, "read statements from stdin instead of listening")
	log_level := flag.String("log", "info", "log level: none, error, info or debug")
	verbose := flag.Bool("v", false, "show debug logs")
	cache_size := flag.Int64("statement-cache", builder.DEFAULT_STATEMENT_CACHE_SIZE,
		"parsed statements kept in memory (negative disables the cache)")

	flag.Parse()

	level, err := pkg.ParseLogLevel(*log_level)
	if err != nil {
		pkg.FatalLog(err)
	}
	if *verbose {
		level = pkg.LogLevelDebug
	}
	pkg.SetLogLevel(level)
	if *repl && pkg.GetLogLevel() >= pkg.LogLevelInfo {
		// stdout carries query results in the REPL
		pkg.SetLogOutput(os.Stderr, os.Stderr)
	}

	s, err := schema.Load(*schema_path)
	if err != nil {
		pkg.FatalLog("failed to load schema;", err)
	}

	db, err := builder.NewPageDB(*root, s, builder.Options{StatementCacheSize: *cache_size})
	if err != nil {
		pkg.FatalLog(err)
	}
	defer db.Close()

	if *repl {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := conn.ServeLines(ctx, db, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
			pkg.ErrorLog(err)
		}
		return
	}

	conn.Listen(db, conn.ListenOptions{Port: *port, TCPPort: *tcp_port})
}
