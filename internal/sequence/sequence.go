// Package sequence assigns primary keys from a per-table counter persisted as
// plain decimal text in "<table>_pk_sequence".
package sequence

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/tobsdb/pagedb/internal/paging"
	"github.com/tobsdb/pagedb/pkg"
)

var ERR_CORRUPT_SEQUENCE = errors.New("corrupt pk sequence")

type Sequencer struct {
	pm *paging.Pager
}

func NewSequencer(pm *paging.Pager) *Sequencer {
	return &Sequencer{pm: pm}
}

// Current returns the last assigned key, 0 when the counter file is absent.
func (s *Sequencer) Current(table string) (int64, error) {
	path := s.pm.SequencePath(table)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s holds %q", ERR_CORRUPT_SEQUENCE, path, text)
	}
	return n, nil
}

// NextPK increments and persists the counter and returns the new value.
// It must run inside the table's critical section together with the row
// write that uses the key, otherwise two writers can read the same value.
func (s *Sequencer) NextPK(table string) (int64, error) {
	current, err := s.Current(table)
	if err != nil {
		return 0, err
	}

	next := current + 1
	err = pkg.WriteFileAtomic(s.pm.SequencePath(table), []byte(strconv.FormatInt(next, 10)), 0644)
	if err != nil {
		return 0, fmt.Errorf("persisting pk sequence for %s: %w", table, err)
	}
	return next, nil
}
