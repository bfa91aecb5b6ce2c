package pkg

import "sync"

type HasLocker interface{ GetLocker() *sync.RWMutex }

func LockWrap(i HasLocker, f func()) {
	i.GetLocker().Lock()
	defer i.GetLocker().Unlock()
	f()
}

func RLockWrap(i HasLocker, f func()) {
	i.GetLocker().RLock()
	defer i.GetLocker().RUnlock()
	f()
}

// KeyedMutex hands out one mutex per key. Entries are reference counted and
// dropped once nobody holds or waits on them.
type KeyedMutex struct {
	locker sync.RWMutex
	locks  Map[string, *keyedEntry]
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: Map[string, *keyedEntry]{}}
}

func (k *KeyedMutex) GetLocker() *sync.RWMutex { return &k.locker }

// Lock blocks until key is free and returns the matching unlock func.
func (k *KeyedMutex) Lock(key string) (unlock func()) {
	var e *keyedEntry
	LockWrap(k, func() {
		e = k.locks.Get(key)
		if e == nil {
			e = &keyedEntry{}
			k.locks.Set(key, e)
		}
		e.refs++
	})

	e.mu.Lock()
	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()
			LockWrap(k, func() {
				e.refs--
				if e.refs == 0 {
					k.locks.Delete(key)
				}
			})
		})
	}
}

// Held reports how many keys currently have holders or waiters.
func (k *KeyedMutex) Held() (n int) {
	RLockWrap(k, func() { n = len(k.locks) })
	return
}
