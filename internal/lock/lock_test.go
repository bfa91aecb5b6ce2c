package lock_test

import (
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/tobsdb/pagedb/internal/lock"
	"github.com/tobsdb/pagedb/internal/paging"
	"github.com/tobsdb/pagedb/internal/schema"
	"gotest.tools/assert"
)

func newTestPager(t *testing.T) *paging.Pager {
	t.Helper()
	s, err := schema.New("db", 2, map[string][]string{"a": {"x"}, "b": {"y"}})
	assert.NilError(t, err)
	pm := paging.NewPager(s.Root(t.TempDir()), s)
	assert.NilError(t, pm.EnsureInitialized())
	return pm
}

func TestFlag(t *testing.T) {
	c := NewCoordinator(newTestPager(t))

	locked, err := c.IsLocked("a")
	assert.NilError(t, err)
	assert.Assert(t, !locked)

	assert.NilError(t, c.Lock("a"))
	locked, err = c.IsLocked("a")
	assert.NilError(t, err)
	assert.Assert(t, locked)

	locked, err = c.IsLocked("b")
	assert.NilError(t, err)
	assert.Assert(t, !locked)

	assert.NilError(t, c.Unlock("a"))
	locked, err = c.IsLocked("a")
	assert.NilError(t, err)
	assert.Assert(t, !locked)
}

func TestFlagCorrupt(t *testing.T) {
	pm := newTestPager(t)
	c := NewCoordinator(pm)
	assert.NilError(t, os.WriteFile(pm.LockPath("a"), []byte("x"), 0644))

	_, err := c.IsLocked("a")
	assert.Assert(t, errors.Is(err, ERR_CORRUPT_FLAG), err)
}

func TestAcquire(t *testing.T) {
	t.Run("raises and clears the flag", func(t *testing.T) {
		c := NewCoordinator(newTestPager(t))

		release, err := c.Acquire("a")
		assert.NilError(t, err)
		locked, _ := c.IsLocked("a")
		assert.Assert(t, locked)

		assert.NilError(t, release())
		locked, _ = c.IsLocked("a")
		assert.Assert(t, !locked)

		// releasing twice is harmless
		assert.NilError(t, release())
	})

	t.Run("stale flag fails fast", func(t *testing.T) {
		c := NewCoordinator(newTestPager(t))
		assert.NilError(t, c.Lock("a"))

		_, err := c.Acquire("a")
		assert.Assert(t, errors.Is(err, ERR_TABLE_LOCKED), err)

		// the failed attempt must not keep the real lock
		assert.NilError(t, c.Unlock("a"))
		release, err := c.Acquire("a")
		assert.NilError(t, err)
		assert.NilError(t, release())
	})

	t.Run("force overrides a stale flag", func(t *testing.T) {
		c := NewCoordinator(newTestPager(t))
		assert.NilError(t, c.Lock("a"))

		release, err := c.AcquireForce("a")
		assert.NilError(t, err)
		assert.NilError(t, release())

		locked, _ := c.IsLocked("a")
		assert.Assert(t, !locked)
	})

	t.Run("serializes writers", func(t *testing.T) {
		c := NewCoordinator(newTestPager(t))
		var inside, overlaps atomic.Int32
		wg := sync.WaitGroup{}

		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				release, err := c.Acquire("a")
				assert.Check(t, err)
				if err != nil {
					return
				}
				if inside.Add(1) > 1 {
					overlaps.Add(1)
				}
				time.Sleep(time.Millisecond)
				inside.Add(-1)
				assert.Check(t, release())
			}()
		}
		wg.Wait()

		assert.Equal(t, overlaps.Load(), int32(0))
	})

	t.Run("serializes coordinators sharing a root", func(t *testing.T) {
		pm := newTestPager(t)
		first := NewCoordinator(pm)
		second := NewCoordinator(pm)

		release, err := first.Acquire("a")
		assert.NilError(t, err)

		acquired := make(chan Release)
		go func() {
			r, err := second.Acquire("a")
			assert.Check(t, err)
			acquired <- r
		}()

		assert.NilError(t, release())
		r := <-acquired
		assert.Assert(t, r != nil)
		assert.NilError(t, r())
	})
}
