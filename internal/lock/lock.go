// Package lock guards table mutation.
//
// Two layers are involved. The persisted flag "<table>_lock" ("0" or "1")
// is advisory: readers check it and fail fast when a writer is active. Real
// mutual exclusion comes from an in-process mutex keyed by table name plus an
// flock(2) on the table directory, which also serializes writers living in
// other processes that share the database root.
package lock

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/tobsdb/pagedb/internal/paging"
	"github.com/tobsdb/pagedb/pkg"
)

var (
	ERR_TABLE_LOCKED = errors.New("table is locked")
	ERR_CORRUPT_FLAG = errors.New("corrupt lock flag")
)

const (
	flag_unlocked = "0"
	flag_locked   = "1"
)

type Coordinator struct {
	pm *paging.Pager
	mu *pkg.KeyedMutex
}

func NewCoordinator(pm *paging.Pager) *Coordinator {
	return &Coordinator{pm: pm, mu: pkg.NewKeyedMutex()}
}

// IsLocked reads the persisted flag. An absent flag means unlocked.
func (c *Coordinator) IsLocked(table string) (bool, error) {
	path := c.pm.LockPath(table)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	switch strings.TrimSpace(string(data)) {
	case flag_unlocked, "":
		return false, nil
	case flag_locked:
		return true, nil
	}
	return false, fmt.Errorf("%w: %s holds %q", ERR_CORRUPT_FLAG, path, data)
}

func (c *Coordinator) Lock(table string) error   { return c.setFlag(table, flag_locked) }
func (c *Coordinator) Unlock(table string) error { return c.setFlag(table, flag_unlocked) }

func (c *Coordinator) setFlag(table, value string) error {
	return pkg.WriteFileAtomic(c.pm.LockPath(table), []byte(value), 0644)
}

// Release ends a critical section started by Acquire.
type Release func() error

// Acquire enters the table's critical section and raises the flag. It waits
// for other writers holding the real lock, but a flag that is already raised
// once the real lock is held belongs to a crashed or foreign writer and is
// reported as ERR_TABLE_LOCKED without waiting.
func (c *Coordinator) Acquire(table string) (Release, error) {
	return c.acquire(table, false)
}

// AcquireForce is Acquire that overrides a raised flag. Administrative reset
// uses it to recover tables left locked by a crashed writer.
func (c *Coordinator) AcquireForce(table string) (Release, error) {
	return c.acquire(table, true)
}

func (c *Coordinator) acquire(table string, force bool) (Release, error) {
	unlock := c.mu.Lock(table)

	unflock, err := flock(c.pm.TableDir(table))
	if err != nil {
		unlock()
		return nil, fmt.Errorf("locking table %s: %w", table, err)
	}

	abort := func(err error) (Release, error) {
		unflock()
		unlock()
		return nil, err
	}

	locked, err := c.IsLocked(table)
	if err != nil && !(force && errors.Is(err, ERR_CORRUPT_FLAG)) {
		return abort(err)
	}
	if locked {
		if !force {
			return abort(fmt.Errorf("%w: %s", ERR_TABLE_LOCKED, table))
		}
		pkg.WarnLog("overriding lock flag on table", table)
	}

	if err := c.Lock(table); err != nil {
		return abort(err)
	}

	released := false
	return func() error {
		if released {
			return nil
		}
		released = true
		err := c.Unlock(table)
		if ferr := unflock(); err == nil {
			err = ferr
		}
		unlock()
		return err
	}, nil
}
