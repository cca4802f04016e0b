// Package live reconciles the change feed with the rendered scene.
package live

import (
	"fmt"
	"strings"
	"time"
)

// Action is the kind of change reported for a path.
type Action string

const (
	Added   Action = "added"
	Updated Action = "updated"
	Deleted Action = "deleted"
)

// ParseAction accepts the feed's action names.
func ParseAction(s string) (Action, error) {
	switch Action(strings.ToLower(strings.TrimSpace(s))) {
	case Added, "create", "created":
		return Added, nil
	case Updated, "update", "modified":
		return Updated, nil
	case Deleted, "delete", "removed":
		return Deleted, nil
	}
	return "", fmt.Errorf("live: unknown action %q", s)
}

// Event is one change notification. Delivery is at least once with no
// ordering across paths; per path, timestamps are assumed monotonic.
type Event struct {
	Path      string    `json:"file_path"`
	Action    Action    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// Describe renders the event for logs and the activity panel.
func (e Event) Describe() string {
	return fmt.Sprintf(`action:%q path:%q at:%s`, e.Action, e.Path, e.Timestamp.Format(time.RFC3339))
}
