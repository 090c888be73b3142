package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewSessionTracker_StartsNow(t *testing.T) {
	clock := newFakeClock()
	tracker := NewSessionTracker(clock)

	s := tracker.Snapshot()
	assert.Equal(t, clock.Now(), s.StartTime)
	assert.Equal(t, clock.Now(), s.LastActivity)
	assert.Zero(t, s.LoginAttempts)
	assert.Zero(t, s.InactivityTime)
	assert.Empty(t, s.IPAddress)
	assert.Nil(t, s.Geolocation)
}

func TestUpdateSession_MergesOnlyGivenFields(t *testing.T) {
	tracker := NewSessionTracker(newFakeClock())
	before := tracker.Snapshot()

	attempts := 1
	name := "Admin"
	tracker.UpdateSession(SessionUpdate{LoginAttempts: &attempts, UserName: &name})

	after := tracker.Snapshot()
	assert.Equal(t, 1, after.LoginAttempts)
	assert.Equal(t, "Admin", after.UserName)
	assert.Equal(t, before.StartTime, after.StartTime)
	assert.Equal(t, before.LastActivity, after.LastActivity)
	assert.Empty(t, after.UserID)
}

func TestUpdateSession_AllFields(t *testing.T) {
	tracker := NewSessionTracker(newFakeClock())
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	last := start.Add(time.Hour)
	idle := 3 * time.Second
	ip := "203.0.113.7"
	id := "admin-001"

	tracker.UpdateSession(SessionUpdate{
		StartTime:      &start,
		LastActivity:   &last,
		InactivityTime: &idle,
		IPAddress:      &ip,
		Geolocation:    &Geolocation{Latitude: 1, Longitude: 2},
		UserID:         &id,
	})

	s := tracker.Snapshot()
	assert.Equal(t, start, s.StartTime)
	assert.Equal(t, last, s.LastActivity)
	assert.Equal(t, idle, s.InactivityTime)
	assert.Equal(t, ip, s.IPAddress)
	assert.Equal(t, &Geolocation{Latitude: 1, Longitude: 2}, s.Geolocation)
	assert.Equal(t, id, s.UserID)
}

func TestUpdateGeolocation_WritesPlaceholder(t *testing.T) {
	tracker := NewSessionTracker(newFakeClock())

	tracker.UpdateGeolocation(Coordinates{Latitude: -21.1767, Longitude: -47.8208})

	g := tracker.Snapshot().Geolocation
	if assert.NotNil(t, g) {
		assert.Equal(t, -21.1767, g.Latitude)
		assert.Equal(t, -47.8208, g.Longitude)
		assert.Equal(t, LocationCaptured, g.City)
		assert.Equal(t, LocationCaptured, g.Country)
		assert.Empty(t, g.State)
	}

	// A newer fix replaces the previous one.
	tracker.UpdateGeolocation(Coordinates{Latitude: 10, Longitude: 20})
	g = tracker.Snapshot().Geolocation
	assert.Equal(t, 10.0, g.Latitude)
	assert.Equal(t, 20.0, g.Longitude)
}

func TestUpdateIPAddress(t *testing.T) {
	tracker := NewSessionTracker(newFakeClock())
	tracker.UpdateIPAddress(NotAvailable)
	assert.Equal(t, NotAvailable, tracker.Snapshot().IPAddress)
}

func TestSnapshot_IsIndependentCopy(t *testing.T) {
	tracker := NewSessionTracker(newFakeClock())
	tracker.UpdateGeolocation(Coordinates{Latitude: 1, Longitude: 1})

	snap := tracker.Snapshot()
	snap.Geolocation.Latitude = 99
	snap.LoginAttempts = 42

	again := tracker.Snapshot()
	assert.Equal(t, 1.0, again.Geolocation.Latitude)
	assert.Zero(t, again.LoginAttempts)
}
