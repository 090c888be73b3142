package audit

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock for simulating idle periods.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// sequentialIDs returns an id generator producing log-1, log-2, ...
func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("log-%d", n)
	}
}

var testNetwork = NetworkInfo{Type: "4g", Speed: "10 Mbps", Latency: 50}

// setupTestTrail builds a trail on a fake clock with a fixed network probe.
func setupTestTrail(t *testing.T) (*Trail, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	trail := NewTrail(Options{
		Clock: clock,
		Probe: StaticProbe(testNetwork),
		NewID: sequentialIDs(),
	})
	t.Cleanup(trail.Close)
	return trail, clock
}

// adminEntry is a typical business action entry.
func adminEntry(action string) LogEntry {
	return LogEntry{
		UserName:    "Admin",
		UserID:      "admin-001",
		AccessLevel: AccessAdmin,
		Action:      action,
		Details:     "Client Maria registered",
		Origin: Origin{
			Module:  "Clients",
			Device:  "Windows 10 (desktop)",
			Browser: "Chrome 120.0",
		},
		Result: ResultSuccess,
	}
}
