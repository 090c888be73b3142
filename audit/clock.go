package audit

import "time"

// Clock supplies the current instant. Durations are computed with
// time.Time.Sub, which uses the monotonic reading when both values carry one.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the process clock.
func SystemClock() Clock { return systemClock{} }
