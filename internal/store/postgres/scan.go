package postgres

import (
	"database/sql"
	"encoding/json"

	"github.com/lib/pq"

	"github.com/crewline/pulse/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanProject scans a single row into a model.Project.
func scanProject(row scannable) (*model.Project, error) {
	var p model.Project
	if err := row.Scan(&p.ID, &p.Name, &p.OwnerID, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanProjects(rows *sql.Rows) ([]*model.Project, error) {
	var out []*model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// scanTask scans a single row into a model.Task. DependsOn is filled in
// separately from the task_deps table.
func scanTask(row scannable) (*model.Task, error) {
	var t model.Task
	var (
		assignee    sql.NullString
		dueAt       sql.NullTime
		completedAt sql.NullTime
	)
	err := row.Scan(
		&t.ID,
		&t.ProjectID,
		&t.Title,
		&t.Status,
		&assignee,
		&dueAt,
		&completedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.AssigneeID = assignee.String
	if dueAt.Valid {
		d := dueAt.Time
		t.DueAt = &d
	}
	if completedAt.Valid {
		c := completedAt.Time
		t.CompletedAt = &c
	}
	return &t, nil
}

func scanTasks(rows *sql.Rows) ([]*model.Task, error) {
	var out []*model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// scanProfile scans a single row into a model.Profile.
func scanProfile(row scannable) (*model.Profile, error) {
	var p model.Profile
	var (
		region   sql.NullString
		rankTier sql.NullString
	)
	err := row.Scan(
		&p.ID,
		&p.DisplayName,
		&region,
		&rankTier,
		pq.Array(&p.Skills),
		pq.Array(&p.Values),
		pq.Array(&p.Practices),
		pq.Array(&p.Intentions),
		&p.CreatedAt,
		&p.LastSeenAt,
	)
	if err != nil {
		return nil, err
	}
	p.Region = region.String
	p.RankTier = model.RankTier(rankTier.String)
	return &p, nil
}

func scanProfiles(rows *sql.Rows) ([]*model.Profile, error) {
	var out []*model.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// scanAlertConfig scans a single row into a model.AlertConfig.
func scanAlertConfig(row scannable) (*model.AlertConfig, error) {
	var c model.AlertConfig
	err := row.Scan(
		&c.ProjectID,
		&c.OverdueWarningDays,
		&c.OverdueCriticalDays,
		&c.OverloadWarning,
		&c.OverloadCritical,
		&c.BlockedWarningHours,
		&c.BlockedCriticalHours,
		&c.ChainWarningLength,
		&c.StaleDays,
		&c.VelocityMinCompleted,
		&c.NotifyWarning,
		&c.NotifyCritical,
		&c.NotifyAssignee,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// scanNotification scans a single row into a model.Notification.
func scanNotification(row scannable) (*model.Notification, error) {
	var n model.Notification
	var (
		body sql.NullString
		meta []byte
	)
	err := row.Scan(
		&n.ID,
		&n.RecipientID,
		&n.Category,
		&n.Title,
		&body,
		&n.Priority,
		&meta,
		&n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	n.Body = body.String
	if len(meta) > 0 {
		n.Meta = json.RawMessage(meta)
	}
	return &n, nil
}

func scanNotifications(rows *sql.Rows) ([]*model.Notification, error) {
	var out []*model.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// nullString converts a string to sql.NullString; empty string is null.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// jsonbBytes converts json.RawMessage to a []byte suitable for JSONB columns.
func jsonbBytes(m json.RawMessage) []byte {
	if len(m) == 0 {
		return nil
	}
	return []byte(m)
}
