// Package audit records the system log of user and business actions together
// with the session state, network quality and location known at the moment
// each entry is written.
package audit

import (
	"encoding/json"
	"time"
)

// NotAvailable is written where a value could not be obtained.
const NotAvailable = "not available"

// Placeholder written into geolocation city/country. Coordinates are never
// reverse geocoded.
const LocationCaptured = "Location captured"

// Actor fallbacks used when the session does not know who is acting.
const (
	SystemUserName = "System"
	SystemUserID   = "system"
)

type AccessLevel string

const (
	AccessAdmin  AccessLevel = "admin"
	AccessUser   AccessLevel = "user"
	AccessGuest  AccessLevel = "guest"
	AccessSystem AccessLevel = "system"
)

type Result string

const (
	ResultSuccess Result = "success"
	ResultError   Result = "error"
)

type InteractionType string

const (
	InteractionClick         InteractionType = "click"
	InteractionNavigation    InteractionType = "navigation"
	InteractionConfiguration InteractionType = "configuration"
	InteractionSystem        InteractionType = "system"
)

// Geolocation is the last position reported for the session.
type Geolocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city,omitempty"`
	State     string  `json:"state,omitempty"`
	Country   string  `json:"country,omitempty"`
}

// NetworkInfo describes the client connection when an entry was written.
type NetworkInfo struct {
	Type    string `json:"type"`
	Speed   string `json:"speed"`
	Latency int    `json:"latency"`
}

// UnavailableNetwork is reported when no connection signal exists.
var UnavailableNetwork = NetworkInfo{Type: NotAvailable, Speed: NotAvailable, Latency: 0}

// Origin tells where an entry came from.
type Origin struct {
	Module      string       `json:"module"`
	Device      string       `json:"device"`
	Browser     string       `json:"browser"`
	Network     NetworkInfo  `json:"network"`
	IPAddress   string       `json:"ipAddress,omitempty"`
	Geolocation *Geolocation `json:"geolocation,omitempty"`
}

// ElementInfo identifies the UI element behind an interaction entry.
type ElementInfo struct {
	ID        string `json:"id,omitempty"`
	ClassName string `json:"className,omitempty"`
	Text      string `json:"text,omitempty"`
	Type      string `json:"type,omitempty"`
}

// UserSession is the state of the single process-wide session.
//
// An empty IPAddress means the address has not been resolved yet; a failed
// resolution is recorded as NotAvailable. A nil Geolocation means no fix has
// been received.
type UserSession struct {
	StartTime      time.Time     `json:"startTime"`
	LoginAttempts  int           `json:"loginAttempts"`
	LastActivity   time.Time     `json:"lastActivity"`
	InactivityTime time.Duration `json:"-"`
	IPAddress      string        `json:"ipAddress,omitempty"`
	Geolocation    *Geolocation  `json:"geolocation,omitempty"`
	UserName       string        `json:"userName,omitempty"`
	UserID         string        `json:"userId,omitempty"`
}

// MarshalJSON writes InactivityTime as whole milliseconds.
func (s UserSession) MarshalJSON() ([]byte, error) {
	type plain UserSession
	return json.Marshal(struct {
		plain
		InactivityTimeMs int64 `json:"inactivityTimeMs"`
	}{
		plain:            plain(s),
		InactivityTimeMs: s.InactivityTime.Milliseconds(),
	})
}

// clone returns a copy that shares no memory with s.
func (s UserSession) clone() UserSession {
	if s.Geolocation != nil {
		g := *s.Geolocation
		s.Geolocation = &g
	}
	return s
}

// SessionUpdate holds the fields to merge into the session. Nil fields are
// left untouched.
type SessionUpdate struct {
	StartTime      *time.Time
	LoginAttempts  *int
	LastActivity   *time.Time
	InactivityTime *time.Duration
	IPAddress      *string
	Geolocation    *Geolocation
	UserName       *string
	UserID         *string
}

// Coordinates is a position fix from the geolocation provider.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LogEntry is what callers hand to Store.AddLog. The store adds the id,
// timestamp and session snapshot.
type LogEntry struct {
	UserName        string
	UserID          string
	AccessLevel     AccessLevel
	Action          string
	Details         string
	Origin          Origin
	Result          Result
	InteractionType InteractionType
	ElementInfo     *ElementInfo
}

// SystemLog is a stored audit entry. Values handed out by the store are
// copies; changing them does not affect the store.
type SystemLog struct {
	ID              string          `json:"id"`
	Timestamp       time.Time       `json:"timestamp"`
	UserName        string          `json:"userName"`
	UserID          string          `json:"userId"`
	AccessLevel     AccessLevel     `json:"accessLevel"`
	Action          string          `json:"action"`
	Details         string          `json:"details"`
	Origin          Origin          `json:"origin"`
	Session         UserSession     `json:"session"`
	Result          Result          `json:"result"`
	InteractionType InteractionType `json:"interactionType,omitempty"`
	ElementInfo     *ElementInfo    `json:"elementInfo,omitempty"`
}

func (l SystemLog) clone() SystemLog {
	l.Session = l.Session.clone()
	if l.Origin.Geolocation != nil {
		g := *l.Origin.Geolocation
		l.Origin.Geolocation = &g
	}
	if l.ElementInfo != nil {
		e := *l.ElementInfo
		l.ElementInfo = &e
	}
	return l
}

// SessionDuration is the time between session start and the entry.
func (l SystemLog) SessionDuration() time.Duration {
	d := l.Timestamp.Sub(l.Session.StartTime)
	if d < 0 {
		return 0
	}
	return d
}
