package audit

import (
	"context"
	"fmt"
	"strings"
)

// ModuleUserInterface is the origin module of interaction entries.
const ModuleUserInterface = "User Interface"

// ClickTarget describes the element a click landed on.
type ClickTarget struct {
	TagName   string `json:"tagName"`
	ID        string `json:"id"`
	ClassName string `json:"className"`
	Text      string `json:"text"`
	Type      string `json:"type"`
}

// InteractionTracker writes one entry per UI interaction. It does not
// throttle; bound the callers instead.
type InteractionTracker struct {
	store *Store
}

func NewInteractionTracker(store *Store) *InteractionTracker {
	return &InteractionTracker{store: store}
}

// Click records a click on target.
func (t *InteractionTracker) Click(ctx context.Context, target ClickTarget) SystemLog {
	return t.Track(ctx, target, InteractionClick)
}

// Track records an interaction of the given kind on target.
func (t *InteractionTracker) Track(ctx context.Context, target ClickTarget, kind InteractionType) SystemLog {
	name, id := actorOf(t.store.Session().Snapshot())
	client := ClientFromContext(ctx)
	tag := strings.ToLower(strings.TrimSpace(target.TagName))
	if tag == "" {
		tag = "unknown"
	}

	return t.store.AddLog(ctx, LogEntry{
		UserName:    name,
		UserID:      id,
		AccessLevel: AccessSystem,
		Action:      fmt.Sprintf("User Interaction - %s", kind),
		Details:     fmt.Sprintf("Interaction with element: %s", tag),
		Origin: Origin{
			Module:  ModuleUserInterface,
			Device:  client.Device,
			Browser: client.Browser,
		},
		Result:          ResultSuccess,
		InteractionType: kind,
		ElementInfo: &ElementInfo{
			ID:        target.ID,
			ClassName: target.ClassName,
			Text:      strings.TrimSpace(target.Text),
			Type:      target.Type,
		},
	})
}
