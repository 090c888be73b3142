package audit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// InactivityThreshold is the idle time after which an activity signal
// produces an inactivity entry.
const InactivityThreshold = 5 * time.Minute

// Action and module written on inactivity entries.
const (
	ActionInactivity = "Inactivity Detected"
	ModuleSystem     = "System"
)

// Signal is a raw user input kind.
type Signal string

const (
	SignalPointerDown Signal = "pointerdown"
	SignalMouseDown   Signal = "mousedown"
	SignalKeyDown     Signal = "keydown"
	SignalScroll      Signal = "scroll"
	SignalTouchStart  Signal = "touchstart"
)

var ErrUnknownSignal = errors.New("unknown activity signal")

// ParseSignal validates a signal name, case-insensitively.
func ParseSignal(name string) (Signal, error) {
	s := Signal(strings.ToLower(strings.TrimSpace(name)))
	switch s {
	case SignalPointerDown, SignalMouseDown, SignalKeyDown, SignalScroll, SignalTouchStart:
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSignal, name)
}

// ActivityMonitor turns input signals into session activity updates. Every
// signal is processed; there is no debouncing.
type ActivityMonitor struct {
	store *Store
}

// NewActivityMonitor creates the monitor. Create one per session.
func NewActivityMonitor(store *Store) *ActivityMonitor {
	return &ActivityMonitor{store: store}
}

// Observe handles one input signal. It returns the inactivity entry when the
// signal ended an idle period of at least InactivityThreshold.
func (m *ActivityMonitor) Observe(ctx context.Context, sig Signal) (*SystemLog, error) {
	if _, err := ParseSignal(string(sig)); err != nil {
		return nil, err
	}
	return m.store.refreshActivity(ctx), nil
}

// refreshActivity measures the time since the previous activity, writes an
// inactivity entry first when the threshold was reached, then records the
// new activity instant and idle duration. The whole sequence holds s.mu so
// concurrent signals and AddLog calls cannot interleave with it.
func (s *Store) refreshActivity(ctx context.Context) *SystemLog {
	s.mu.Lock()
	now := s.clock.Now()
	prev := s.tracker.lastActivity()
	idle := now.Sub(prev)
	if idle < 0 {
		idle = 0
	}

	var logged *SystemLog
	if idle >= InactivityThreshold {
		entry := s.appendLocked(ctx, inactivityEntry(ctx, s.tracker.Snapshot(), idle), now)
		logged = &entry
	}
	s.tracker.markActivity(now, idle)
	s.mu.Unlock()

	if logged == nil {
		return nil
	}
	s.dispatch(*logged)
	out := logged.clone()
	return &out
}

func inactivityEntry(ctx context.Context, session UserSession, idle time.Duration) LogEntry {
	client := ClientFromContext(ctx)
	name, id := actorOf(session)
	return LogEntry{
		UserName:    name,
		UserID:      id,
		AccessLevel: AccessSystem,
		Action:      ActionInactivity,
		Details:     fmt.Sprintf("User inactive for %d minutes", int64(idle/time.Minute)),
		Origin: Origin{
			Module:  ModuleSystem,
			Device:  client.Device,
			Browser: client.Browser,
		},
		Result: ResultSuccess,
	}
}

// actorOf returns the session user, falling back to the system actor.
func actorOf(session UserSession) (name, id string) {
	name, id = session.UserName, session.UserID
	if name == "" {
		name = SystemUserName
	}
	if id == "" {
		id = SystemUserID
	}
	return name, id
}
