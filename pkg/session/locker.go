package session

import "sync"

// Locker serializes load-mutate-save cycles per session id. An id holds an
// entry only while some caller owns or waits for its lock, so ids that are
// never seen again leave nothing behind. The zero value is ready to use.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*idLock
}

type idLock struct {
	mu   sync.Mutex
	refs int
}

// Lock blocks until the caller owns id and returns the matching unlock.
func (l *Locker) Lock(id string) (unlock func()) {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*idLock)
	}
	k, ok := l.locks[id]
	if !ok {
		k = &idLock{}
		l.locks[id] = k
	}
	k.refs++
	l.mu.Unlock()

	k.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			k.mu.Unlock()

			l.mu.Lock()
			k.refs--
			if k.refs == 0 {
				delete(l.locks, id)
			}
			l.mu.Unlock()
		})
	}
}

// Len returns the number of ids currently held or awaited.
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
