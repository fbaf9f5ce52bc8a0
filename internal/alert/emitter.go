package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/crewline/pulse/internal/events"
	"github.com/crewline/pulse/internal/idgen"
	"github.com/crewline/pulse/internal/model"
	"github.com/crewline/pulse/internal/store"
)

// Emitter resolves recipients for approved findings and suggestions and
// writes one notification per recipient. It retains no state between
// invocations; all side effects go to the external store and the event
// bus.
type Emitter struct {
	store     store.Store
	publisher events.Publisher
	logger    *slog.Logger
}

// NewEmitter returns an Emitter backed by the given store and publisher.
func NewEmitter(s store.Store, p events.Publisher, logger *slog.Logger) *Emitter {
	return &Emitter{store: s, publisher: p, logger: logger}
}

// notificationMeta is the metadata payload carried by every emitted
// notification for later dedup lookups.
type notificationMeta struct {
	AlertType  string `json:"alert_type"`
	Severity   string `json:"severity,omitempty"`
	AlertKey   string `json:"alert_key"`
	ProjectID  string `json:"project_id,omitempty"`
	TaskID     string `json:"task_id,omitempty"`
	AssigneeID string `json:"assignee_id,omitempty"`
	SubjectID  string `json:"subject_id,omitempty"`
	Score      int    `json:"score,omitempty"`
}

// EmitFinding claims the finding's dedup slot and, on success, notifies
// the project owner plus (per config) the affected assignee. It returns
// the number of notifications written; zero with a nil error means the
// alert was suppressed by a concurrent or earlier run.
func (e *Emitter) EmitFinding(ctx context.Context, project *model.Project, f model.Finding, cfg model.AlertConfig, now time.Time) (int, error) {
	key := FindingKey(f)

	inserted, err := e.store.InsertAlertRecord(ctx, &model.AlertRecord{
		SubjectKind: model.SubjectProject,
		SubjectID:   project.ID,
		AlertKey:    key,
		CreatedAt:   now,
	}, now.Truncate(BottleneckWindow))
	if err != nil {
		return 0, fmt.Errorf("insert alert record: %w", err)
	}
	if !inserted {
		return 0, nil
	}

	recipients := []string{project.OwnerID}
	if cfg.NotifyAssignee && f.AssigneeID != "" && f.AssigneeID != project.OwnerID {
		recipients = append(recipients, f.AssigneeID)
	}

	meta, err := json.Marshal(notificationMeta{
		AlertType:  f.Type.String(),
		Severity:   f.Severity.String(),
		AlertKey:   key,
		ProjectID:  project.ID,
		TaskID:     f.TaskID,
		AssigneeID: f.AssigneeID,
	})
	if err != nil {
		return 0, fmt.Errorf("marshal notification meta: %w", err)
	}

	priority := model.PriorityNormal
	if f.Severity == model.SeverityCritical {
		priority = model.PriorityHigh
	}

	notified := make([]string, 0, len(recipients))
	for _, recipient := range recipients {
		id, err := idgen.Notification()
		if err != nil {
			return len(notified), err
		}
		n := &model.Notification{
			ID:          id,
			RecipientID: recipient,
			Category:    "project_alert",
			Title:       f.Title,
			Body:        fmt.Sprintf("Bottleneck detected in %s: %s", project.Name, f.Title),
			Priority:    priority,
			Meta:        meta,
			CreatedAt:   now,
		}
		if err := e.store.CreateNotification(ctx, n); err != nil {
			// The alert record is already claimed; losing one recipient
			// write must not abort the rest of the pass.
			e.logger.Warn("failed to write notification", "recipient", recipient, "alert_key", key, "error", err)
			continue
		}
		notified = append(notified, recipient)
	}

	// The event reports who was actually notified; if every write
	// failed there is nothing to announce.
	if len(notified) > 0 {
		e.publish(ctx, events.TopicAlertCreated, events.AlertCreated{
			ProjectID:    project.ID,
			Finding:      f,
			AlertKey:     key,
			RecipientIDs: notified,
		})
	}

	return len(notified), nil
}

// EmitSuggestion claims the suggestion's dedup slot and notifies the
// subject profile. Returns the number of notifications written (0 or 1).
func (e *Emitter) EmitSuggestion(ctx context.Context, s *model.Suggestion, now time.Time) (int, error) {
	key := SuggestionKey(s)

	inserted, err := e.store.InsertAlertRecord(ctx, &model.AlertRecord{
		SubjectKind: model.SubjectProfile,
		SubjectID:   s.SubjectID,
		AlertKey:    key,
		CreatedAt:   now,
	}, now.Truncate(SuggestionWindow))
	if err != nil {
		return 0, fmt.Errorf("insert alert record: %w", err)
	}
	if !inserted {
		return 0, nil
	}

	meta, err := json.Marshal(notificationMeta{
		AlertType: "suggestion",
		AlertKey:  key,
		SubjectID: s.SubjectID,
		Score:     s.Score,
	})
	if err != nil {
		return 0, fmt.Errorf("marshal notification meta: %w", err)
	}

	id, err := idgen.Notification()
	if err != nil {
		return 0, err
	}

	body := "You might want to connect."
	if len(s.Reasons) > 0 {
		body = fmt.Sprintf("You might want to connect: %s.", s.Reasons[0])
	}
	n := &model.Notification{
		ID:          id,
		RecipientID: s.SubjectID,
		Category:    "match_suggestion",
		Title:       "New connection suggestion",
		Body:        body,
		Priority:    model.PriorityNormal,
		Meta:        meta,
		CreatedAt:   now,
	}
	if err := e.store.CreateNotification(ctx, n); err != nil {
		return 0, fmt.Errorf("create notification: %w", err)
	}

	e.publish(ctx, events.TopicSuggestionCreated, events.SuggestionCreated{
		Suggestion: s,
		AlertKey:   key,
	})

	return 1, nil
}

// publish sends an event to the bus; failures are logged but do not
// block the caller.
func (e *Emitter) publish(ctx context.Context, topic string, event any) {
	if err := e.publisher.Publish(ctx, topic, event); err != nil {
		e.logger.Warn("failed to publish event", "topic", topic, "error", err)
	}
}
