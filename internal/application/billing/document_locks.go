package billing

import "sync"

// documentLocks serializa las mutaciones de un mismo documento dentro del proceso
// (BILLING_SERIALIZE_WRITES). No coordina entre réplicas.
type documentLocks struct {
	mu    sync.Mutex
	locks map[string]*documentLock
}

type documentLock struct {
	mu   sync.Mutex
	refs int
}

func newDocumentLocks() *documentLocks {
	return &documentLocks{locks: make(map[string]*documentLock)}
}

// lock bloquea el documento y devuelve la función de liberación.
// Un receptor nil no serializa nada.
func (l *documentLocks) lock(id string) func() {
	if l == nil {
		return func() {}
	}
	l.mu.Lock()
	dl, ok := l.locks[id]
	if !ok {
		dl = &documentLock{}
		l.locks[id] = dl
	}
	dl.refs++
	l.mu.Unlock()

	dl.mu.Lock()
	return func() {
		dl.mu.Unlock()
		l.mu.Lock()
		dl.refs--
		if dl.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
