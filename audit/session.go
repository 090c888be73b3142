package audit

import (
	"sync"
	"time"
)

// SessionTracker owns the process-wide UserSession.
type SessionTracker struct {
	mu      sync.RWMutex
	session UserSession
}

// NewSessionTracker starts a session at the clock's current instant.
func NewSessionTracker(clock Clock) *SessionTracker {
	if clock == nil {
		clock = SystemClock()
	}
	now := clock.Now()
	return &SessionTracker{
		session: UserSession{
			StartTime:    now,
			LastActivity: now,
		},
	}
}

// Snapshot returns a copy of the current session.
func (t *SessionTracker) Snapshot() UserSession {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.session.clone()
}

// UpdateSession merges the non-nil fields of u into the session. Values are
// not validated.
func (t *SessionTracker) UpdateSession(u SessionUpdate) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if u.StartTime != nil {
		t.session.StartTime = *u.StartTime
	}
	if u.LoginAttempts != nil {
		t.session.LoginAttempts = *u.LoginAttempts
	}
	if u.LastActivity != nil {
		t.session.LastActivity = *u.LastActivity
	}
	if u.InactivityTime != nil {
		t.session.InactivityTime = *u.InactivityTime
	}
	if u.IPAddress != nil {
		t.session.IPAddress = *u.IPAddress
	}
	if u.Geolocation != nil {
		g := *u.Geolocation
		t.session.Geolocation = &g
	}
	if u.UserName != nil {
		t.session.UserName = *u.UserName
	}
	if u.UserID != nil {
		t.session.UserID = *u.UserID
	}
}

// UpdateGeolocation replaces the session geolocation. City and country are
// set to the LocationCaptured placeholder; no reverse geocoding happens here.
func (t *SessionTracker) UpdateGeolocation(c Coordinates) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.session.Geolocation = &Geolocation{
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
		City:      LocationCaptured,
		Country:   LocationCaptured,
	}
}

// UpdateIPAddress records the resolved address, or NotAvailable when the
// resolution failed.
func (t *SessionTracker) UpdateIPAddress(ip string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.session.IPAddress = ip
}

// snapshotAndTouch copies the session and then moves LastActivity to now.
func (t *SessionTracker) snapshotAndTouch(now time.Time) UserSession {
	t.mu.Lock()
	defer t.mu.Unlock()
	snap := t.session.clone()
	t.session.LastActivity = now
	return snap
}

func (t *SessionTracker) lastActivity() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.session.LastActivity
}

func (t *SessionTracker) markActivity(now time.Time, idle time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.session.LastActivity = now
	t.session.InactivityTime = idle
}
