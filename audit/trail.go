package audit

// Trail bundles the session, the log store and the two input listeners of
// one process. The host creates it once at startup and closes it on exit.
type Trail struct {
	Session      *SessionTracker
	Logs         *Store
	Activity     *ActivityMonitor
	Interactions *InteractionTracker
}

// NewTrail starts a session and wires the components around it.
func NewTrail(opts Options) *Trail {
	session := NewSessionTracker(opts.Clock)
	logs := NewStore(session, opts)
	return &Trail{
		Session:      session,
		Logs:         logs,
		Activity:     NewActivityMonitor(logs),
		Interactions: NewInteractionTracker(logs),
	}
}

// Close flushes pending sink writes.
func (t *Trail) Close() {
	t.Logs.Close()
}
