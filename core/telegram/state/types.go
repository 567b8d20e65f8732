package state

// UserProgress is the per-user record: guide position and the last main menu message.
type UserProgress struct {
	// GuideStep is the 0-based index of the current guide step.
	GuideStep int
	// LastMenuMessageID references the most recent main menu message; 0 means none.
	LastMenuMessageID int
}

// HasMenu reports whether a main menu message was recorded.
func (p UserProgress) HasMenu() bool {
	return p.LastMenuMessageID != 0
}

// Store owns user progress records keyed by Telegram user id.
// Get never fails: unknown users receive a zero UserProgress.
type Store interface {
	Get(userID int64) UserProgress
	Put(userID int64, p UserProgress)
	// Lock serializes work for a single user and returns the unlock func.
	Lock(userID int64) (unlock func())
	Len() int
}

// Accessor binds a Store to one user so callers never juggle user ids.
type Accessor struct {
	store  Store
	userID int64
}

// For returns an accessor scoped to userID.
func For(store Store, userID int64) Accessor {
	return Accessor{store: store, userID: userID}
}

// UserID returns the bound user id.
func (a Accessor) UserID() int64 {
	return a.userID
}

// Get returns the user's progress, defaulting to a fresh record.
func (a Accessor) Get() UserProgress {
	if a.store == nil {
		return UserProgress{}
	}
	return a.store.Get(a.userID)
}

// Put stores the user's progress.
func (a Accessor) Put(p UserProgress) {
	if a.store == nil {
		return
	}
	a.store.Put(a.userID, p)
}

// Update applies fn to the current record and stores the result.
func (a Accessor) Update(fn func(*UserProgress)) UserProgress {
	p := a.Get()
	fn(&p)
	a.Put(p)
	return p
}
