package model

import (
	"encoding/json"
	"time"
)

// AlertConfig holds per-project bottleneck thresholds and notify flags.
// A missing stored config is not an error; DefaultAlertConfig is
// substituted.
type AlertConfig struct {
	ProjectID string `json:"project_id,omitempty"`

	OverdueWarningDays  int `json:"overdue_warning_days"`
	OverdueCriticalDays int `json:"overdue_critical_days"`

	OverloadWarning  int `json:"overload_warning"`
	OverloadCritical int `json:"overload_critical"`

	BlockedWarningHours  int `json:"blocked_warning_hours"`
	BlockedCriticalHours int `json:"blocked_critical_hours"`

	// ChainWarningLength is the warning threshold for dependency chain
	// depth; critical fires at ChainWarningLength+2.
	ChainWarningLength int `json:"chain_warning_length"`

	// StaleDays is the warning threshold; critical fires at double.
	StaleDays int `json:"stale_days"`

	VelocityMinCompleted int `json:"velocity_min_completed"`

	NotifyWarning  bool `json:"notify_warning"`
	NotifyCritical bool `json:"notify_critical"`
	NotifyAssignee bool `json:"notify_assignee"`
}

// DefaultAlertConfig returns the documented default thresholds. It is
// constructed once per use and passed by value.
func DefaultAlertConfig() AlertConfig {
	return AlertConfig{
		OverdueWarningDays:   1,
		OverdueCriticalDays:  3,
		OverloadWarning:      5,
		OverloadCritical:     8,
		BlockedWarningHours:  24,
		BlockedCriticalHours: 72,
		ChainWarningLength:   3,
		StaleDays:            7,
		VelocityMinCompleted: 1,
		NotifyWarning:        true,
		NotifyCritical:       true,
		NotifyAssignee:       true,
	}
}

// NotifyFor reports whether findings of the given severity should
// proceed to deduplication and emission.
func (c AlertConfig) NotifyFor(s Severity) bool {
	switch s {
	case SeverityWarning:
		return c.NotifyWarning
	case SeverityCritical:
		return c.NotifyCritical
	}
	return false
}

// SubjectKind distinguishes what an alert record is scoped to.
type SubjectKind string

const (
	SubjectProject SubjectKind = "project"
	SubjectProfile SubjectKind = "profile"
)

// AlertRecord is a previously issued notification's dedup key and
// issuance timestamp. Append-only, never mutated.
type AlertRecord struct {
	SubjectKind SubjectKind `json:"subject_kind"`
	SubjectID   string      `json:"subject_id"`
	AlertKey    string      `json:"alert_key"`
	CreatedAt   time.Time   `json:"created_at"`
}

// NotificationPriority is the delivery priority tier.
type NotificationPriority string

const (
	PriorityNormal NotificationPriority = "normal"
	PriorityHigh   NotificationPriority = "high"
)

// Notification is an outbound message to a single recipient. Meta
// carries the alert's type/severity/entity references for later dedup
// lookups.
type Notification struct {
	ID          string               `json:"id"`
	RecipientID string               `json:"recipient_id"`
	Category    string               `json:"category"`
	Title       string               `json:"title"`
	Body        string               `json:"body,omitempty"`
	Priority    NotificationPriority `json:"priority"`
	Meta        json.RawMessage      `json:"meta,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}
