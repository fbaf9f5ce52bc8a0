package events

import (
	"context"

	"github.com/crewline/pulse/internal/model"
)

// Event topic constants
const (
	TopicAlertCreated      = "pulse.alert.created"
	TopicSuggestionCreated = "pulse.suggestion.created"
	TopicRunCompleted      = "pulse.run.completed"
)

// Event types

type AlertCreated struct {
	ProjectID    string        `json:"project_id"`
	Finding      model.Finding `json:"finding"`
	AlertKey     string        `json:"alert_key"`
	RecipientIDs []string      `json:"recipient_ids"`
}

type SuggestionCreated struct {
	Suggestion *model.Suggestion `json:"suggestion"`
	AlertKey   string            `json:"alert_key"`
}

type RunCompleted struct {
	Kind     string `json:"kind"` // "bottlenecks" or "suggestions"
	Analyzed int    `json:"analyzed"`
	Created  int    `json:"created"`
	Aborted  bool   `json:"aborted,omitempty"`
}

// Publisher publishes events to a message bus.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
