// Package export periodically writes a JSONL digest of recent alert
// activity to external destinations (S3-compatible storage, a git repo).
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/crewline/pulse/internal/model"
	"github.com/crewline/pulse/internal/store"
)

// digestWindow is how far back the digest reaches for alert records.
const digestWindow = 7 * 24 * time.Hour

// notificationsPerRecipient caps the notifications included per project
// owner.
const notificationsPerRecipient = 100

// header is the first JSONL record of every digest.
type header struct {
	Version           string    `json:"version"`
	Type              string    `json:"type"`
	Timestamp         time.Time `json:"timestamp"`
	AlertRecordCount  int       `json:"alert_record_count"`
	NotificationCount int       `json:"notification_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Digest is one assembled export payload plus the counts it carries;
// destinations use the timestamp and counts for naming and commit
// messages.
type Digest struct {
	Timestamp         time.Time
	AlertRecordCount  int
	NotificationCount int
	Data              []byte
}

// BuildDigest assembles the trailing week's alert records plus each
// project owner's recent notifications into a JSONL payload. Output
// order is deterministic for identical store contents.
func BuildDigest(ctx context.Context, s store.Store, now time.Time) (*Digest, error) {
	since := now.Add(-digestWindow)

	var records []*model.AlertRecord

	projects, err := s.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	for _, p := range projects {
		recs, err := s.ListAlertRecords(ctx, model.SubjectProject, p.ID, since)
		if err != nil {
			return nil, fmt.Errorf("list alert records for project %s: %w", p.ID, err)
		}
		records = append(records, recs...)
	}

	profiles, err := s.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	for _, p := range profiles {
		recs, err := s.ListAlertRecords(ctx, model.SubjectProfile, p.ID, since)
		if err != nil {
			return nil, fmt.Errorf("list alert records for profile %s: %w", p.ID, err)
		}
		records = append(records, recs...)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].SubjectID != records[j].SubjectID {
			return records[i].SubjectID < records[j].SubjectID
		}
		return records[i].AlertKey < records[j].AlertKey
	})

	// One notification feed per distinct project owner.
	var notifications []*model.Notification
	seen := make(map[string]struct{})
	for _, p := range projects {
		if p.OwnerID == "" {
			continue
		}
		if _, dup := seen[p.OwnerID]; dup {
			continue
		}
		seen[p.OwnerID] = struct{}{}
		ns, err := s.ListNotifications(ctx, p.OwnerID, notificationsPerRecipient)
		if err != nil {
			return nil, fmt.Errorf("list notifications for %s: %w", p.OwnerID, err)
		}
		notifications = append(notifications, ns...)
	}
	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].ID < notifications[j].ID
	})

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:           "1",
		Type:              "header",
		Timestamp:         now,
		AlertRecordCount:  len(records),
		NotificationCount: len(notifications),
	}); err != nil {
		return nil, fmt.Errorf("encode header: %w", err)
	}

	for _, r := range records {
		if err := enc.Encode(record{Type: "alert_record", Data: r}); err != nil {
			return nil, fmt.Errorf("encode alert record %s: %w", r.AlertKey, err)
		}
	}

	for _, n := range notifications {
		if err := enc.Encode(record{Type: "notification", Data: n}); err != nil {
			return nil, fmt.Errorf("encode notification %s: %w", n.ID, err)
		}
	}

	return &Digest{
		Timestamp:         now,
		AlertRecordCount:  len(records),
		NotificationCount: len(notifications),
		Data:              buf.Bytes(),
	}, nil
}
