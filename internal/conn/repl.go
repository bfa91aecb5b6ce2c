package conn

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/tobsdb/pagedb/internal/builder"
	"github.com/tobsdb/pagedb/pkg"
)

// ServeLines reads one statement per line from {r} and writes the result to
// {w}: selected rows comma joined, one per line, or "ERROR: <message>".
// Blank lines are ignored. It returns when {r} is exhausted or ctx is done.
func ServeLines(ctx context.Context, db *builder.PageDB, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), pkg.MaxFrameSize)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		res := Dispatch(ctx, db, line)
		var err error
		switch {
		case res.IsError():
			_, err = fmt.Fprintf(w, "ERROR: %s\n", res.Message)
		case res.HasRows():
			for _, row := range res.Data {
				if _, err = fmt.Fprintln(w, strings.Join(row, ",")); err != nil {
					break
				}
			}
		default:
			_, err = fmt.Fprintln(w, res.Message)
		}
		if err != nil {
			return err
		}
	}
	return scanner.Err()
}
