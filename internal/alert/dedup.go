// Package alert decides whether a finding or suggestion may be emitted
// and turns approved ones into notifications. Each logical alert fires
// at most once per dedup window.
package alert

import (
	"time"

	"github.com/crewline/pulse/internal/model"
)

// Dedup windows: the trailing interval within which an equivalent alert
// must not be re-issued.
const (
	BottleneckWindow = 24 * time.Hour
	SuggestionWindow = 7 * 24 * time.Hour
)

// generalEntity is the composite-key fallback when a finding concerns no
// specific entity.
const generalEntity = "general"

// Key builds the composite alert key from a type tag and the concerned
// entity ID.
func Key(alertType, entityID string) string {
	if entityID == "" {
		entityID = generalEntity
	}
	return alertType + ":" + entityID
}

// FindingKey returns the composite key for a bottleneck finding: the
// task it concerns, the assignee for per-assignee findings, or the
// general token for project-level findings.
func FindingKey(f model.Finding) string {
	entity := f.TaskID
	if entity == "" {
		entity = f.AssigneeID
	}
	return Key(f.Type.String(), entity)
}

// SuggestionKey returns the composite key for a match suggestion.
func SuggestionKey(s *model.Suggestion) string {
	return Key("suggestion", s.CandidateID)
}

// Suppressed reports whether an alert with the given composite key was
// already issued within the window ending at now. Records outside the
// window never suppress, regardless of key.
func Suppressed(records []*model.AlertRecord, key string, now time.Time, window time.Duration) bool {
	cutoff := now.Add(-window)
	for _, r := range records {
		if r.AlertKey == key && r.CreatedAt.After(cutoff) {
			return true
		}
	}
	return false
}
