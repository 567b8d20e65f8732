package state

import "sync"

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]UserProgress

	locksMu sync.Mutex
	locks   map[int64]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

// NewMemoryStore constructs an in-memory Store.
func NewMemoryStore() Store {
	return &memoryStore{
		sessions: make(map[int64]UserProgress),
		locks:    make(map[int64]*userLock),
	}
}

// Get returns the progress for a user if it exists, otherwise a fresh record.
func (m *memoryStore) Get(userID int64) UserProgress {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[userID]
}

// Put replaces the progress for a user, creating the record if necessary.
func (m *memoryStore) Put(userID int64, p UserProgress) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = p
}

// Len returns the number of users with a stored record.
func (m *memoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Lock acquires the per-user mutex. Entries are reference counted and
// dropped once no goroutine holds or waits for them.
func (m *memoryStore) Lock(userID int64) func() {
	m.locksMu.Lock()
	l, ok := m.locks[userID]
	if !ok {
		l = &userLock{}
		m.locks[userID] = l
	}
	l.refs++
	m.locksMu.Unlock()

	l.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Unlock()
			m.locksMu.Lock()
			l.refs--
			if l.refs == 0 {
				delete(m.locks, userID)
			}
			m.locksMu.Unlock()
		})
	}
}
