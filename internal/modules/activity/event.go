// Package activity carries change notifications from the storefront stores to
// whatever renders them.
package activity

import (
	"strings"
	"time"
)

// Topics emitted by the stores.
const (
	TopicCatalogChanged    = "catalog.changed"
	TopicCartChanged       = "cart.changed"
	TopicSettingsChanged   = "settings.changed"
	TopicCheckoutCompleted = "checkout.completed"
)

// Event describes one committed change.
type Event struct {
	Topic      string         `json:"topic"`
	Verb       string         `json:"verb"`
	ObjectID   string         `json:"object_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// NormalizeEvent trims identifiers, clones metadata and stamps OccurredAt when missing.
func NormalizeEvent(event Event) Event {
	normalized := event
	normalized.Topic = strings.TrimSpace(event.Topic)
	normalized.Verb = strings.TrimSpace(event.Verb)
	normalized.ObjectID = strings.TrimSpace(event.ObjectID)
	normalized.Metadata = cloneMap(event.Metadata)
	if normalized.OccurredAt.IsZero() {
		normalized.OccurredAt = time.Now()
	}
	return normalized
}

func cloneMap(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]any, len(src))
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
