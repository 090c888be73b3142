package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options configures a Store. Zero values select the process clock, the
// client-hints probe, unbounded retention and random UUIDs.
type Options struct {
	Clock    Clock
	Probe    NetworkProbe
	Capacity int
	NewID    func() string
	Logger   *zap.Logger
	Sinks    []Sink
	// QueueSize bounds the entries waiting for the sinks. Defaults to 256.
	QueueSize int
}

// Store is the append-only system log, read newest first.
//
// Every write is one critical section: probe the network, snapshot the
// session, stamp id and time, append. Later session changes never reach
// entries already stored.
type Store struct {
	mu      sync.Mutex
	tracker *SessionTracker
	clock   Clock
	probe   NetworkProbe
	newID   func() string
	logs    ring
	logger  *zap.Logger
	disp    *dispatcher
}

// NewStore creates a store reading session state from tracker.
func NewStore(tracker *SessionTracker, opts Options) *Store {
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	if opts.Probe == nil {
		opts.Probe = ClientHintsProbe{}
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.New().String() }
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	s := &Store{
		tracker: tracker,
		clock:   opts.Clock,
		probe:   opts.Probe,
		newID:   opts.NewID,
		logs:    ring{limit: opts.Capacity},
		logger:  opts.Logger,
	}
	if len(opts.Sinks) > 0 {
		s.disp = newDispatcher(opts.Sinks, opts.QueueSize, opts.Logger)
	}
	return s
}

// Session returns the tracker the store snapshots.
func (s *Store) Session() *SessionTracker { return s.tracker }

// AddLog stamps e with an id, the current time and a copy of the session,
// replaces its network, IP and geolocation with live values, and stores it.
// Writing an entry counts as activity: the session's LastActivity moves to
// the entry timestamp. AddLog never fails.
func (s *Store) AddLog(ctx context.Context, e LogEntry) SystemLog {
	s.mu.Lock()
	entry := s.appendLocked(ctx, e, s.clock.Now())
	s.mu.Unlock()

	s.dispatch(entry)
	return entry.clone()
}

// appendLocked builds and stores the entry. Caller must hold s.mu.
func (s *Store) appendLocked(ctx context.Context, e LogEntry, now time.Time) SystemLog {
	network := s.probe.Network(ctx)
	snap := s.tracker.snapshotAndTouch(now)

	origin := e.Origin
	origin.Network = network
	origin.IPAddress = snap.IPAddress
	origin.Geolocation = nil
	if snap.Geolocation != nil {
		g := *snap.Geolocation
		origin.Geolocation = &g
	}

	entry := SystemLog{
		ID:              s.newID(),
		Timestamp:       now,
		UserName:        e.UserName,
		UserID:          e.UserID,
		AccessLevel:     e.AccessLevel,
		Action:          e.Action,
		Details:         e.Details,
		Origin:          origin,
		Session:         snap,
		Result:          e.Result,
		InteractionType: e.InteractionType,
	}
	if e.ElementInfo != nil {
		info := *e.ElementInfo
		entry.ElementInfo = &info
	}

	s.logs.push(entry)
	return entry
}

func (s *Store) dispatch(entry SystemLog) {
	if s.disp != nil {
		s.disp.enqueue(entry.clone())
	}
}

// Logs returns every stored entry, newest first.
func (s *Store) Logs() []SystemLog {
	return s.List(0, 0)
}

// List returns up to limit entries newest first, skipping offset entries.
// A limit <= 0 means no limit.
func (s *Store) List(offset, limit int) []SystemLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.logs.len()
	if offset < 0 {
		offset = 0
	}
	if offset >= n {
		return []SystemLog{}
	}
	count := n - offset
	if limit > 0 && limit < count {
		count = limit
	}
	out := make([]SystemLog, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, s.logs.newest(offset+i).clone())
	}
	return out
}

// Len reports the number of stored entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logs.len()
}

// PruneBefore drops entries stamped before cutoff and reports how many were
// dropped.
func (s *Store) PruneBefore(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logs.dropWhile(func(l SystemLog) bool { return l.Timestamp.Before(cutoff) })
}

// Now reads the store clock.
func (s *Store) Now() time.Time { return s.clock.Now() }

// Close waits for queued sink writes to finish.
func (s *Store) Close() {
	if s.disp != nil {
		s.disp.close()
	}
}

// ring keeps entries oldest first. With a positive limit the oldest entry is
// overwritten once the limit is reached. While n < limit, start is 0.
type ring struct {
	buf   []SystemLog
	start int
	limit int
}

func (r *ring) len() int { return len(r.buf) }

func (r *ring) push(l SystemLog) {
	if r.limit <= 0 || len(r.buf) < r.limit {
		r.buf = append(r.buf, l)
		return
	}
	r.buf[r.start] = l
	r.start = (r.start + 1) % len(r.buf)
}

// oldest returns the i-th entry counting from the oldest.
func (r *ring) oldest(i int) SystemLog {
	return r.buf[(r.start+i)%len(r.buf)]
}

// newest returns the i-th entry counting from the newest.
func (r *ring) newest(i int) SystemLog {
	return r.oldest(len(r.buf) - 1 - i)
}

func (r *ring) dropWhile(drop func(SystemLog) bool) int {
	n := len(r.buf)
	k := 0
	for k < n && drop(r.oldest(k)) {
		k++
	}
	if k == 0 {
		return 0
	}
	kept := make([]SystemLog, 0, n-k)
	for i := k; i < n; i++ {
		kept = append(kept, r.oldest(i))
	}
	r.buf = kept
	r.start = 0
	return k
}
