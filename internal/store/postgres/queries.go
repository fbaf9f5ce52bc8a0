package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/crewline/pulse/internal/model"
	"github.com/crewline/pulse/internal/store"
)

// Column lists used for SELECT statements.
const (
	projectColumns = `id, name, owner_id, created_at`
	taskColumns    = `id, project_id, title, status, assignee_id, due_at, completed_at, created_at, updated_at`
	profileColumns = `id, display_name, region, rank_tier, skills, core_values, practices, intentions, created_at, last_seen_at`
)

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryListProjects(ctx context.Context, db executor) ([]*model.Project, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY created_at LIMIT `+limit(store.MaxProjects))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProjects(rows)
}

func queryGetProject(ctx context.Context, db executor, id string) (*model.Project, error) {
	row := db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	return scanProject(row)
}

func queryListTasks(ctx context.Context, db executor, projectID string) ([]*model.Task, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE project_id = $1 ORDER BY created_at LIMIT `+limit(store.MaxTasks),
		projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return tasks, nil
	}

	deps, err := queryTaskDeps(ctx, db, projectID)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		t.DependsOn = deps[t.ID]
	}
	return tasks, nil
}

// queryTaskDeps returns the prerequisite lists for every task of a
// project, keyed by task ID.
func queryTaskDeps(ctx context.Context, db executor, projectID string) (map[string][]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT d.task_id, d.depends_on_id
		FROM task_deps d
		JOIN tasks t ON t.id = d.task_id
		WHERE t.project_id = $1
		ORDER BY d.task_id, d.depends_on_id`,
		projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deps := make(map[string][]string)
	for rows.Next() {
		var taskID, dependsOnID string
		if err := rows.Scan(&taskID, &dependsOnID); err != nil {
			return nil, err
		}
		deps[taskID] = append(deps[taskID], dependsOnID)
	}
	return deps, rows.Err()
}

func queryGetProfile(ctx context.Context, db executor, id string) (*model.Profile, error) {
	row := db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	return scanProfile(row)
}

func queryListProfiles(ctx context.Context, db executor) ([]*model.Profile, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+profileColumns+` FROM profiles ORDER BY created_at LIMIT `+limit(store.MaxProfiles))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProfiles(rows)
}

func queryListFriendships(ctx context.Context, db executor) ([]*model.Friendship, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT a_id, b_id, status, created_at FROM friendships LIMIT `+limit(store.MaxRelationships))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Friendship
	for rows.Next() {
		var f model.Friendship
		if err := rows.Scan(&f.AID, &f.BID, &f.Status, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}

func queryListFollows(ctx context.Context, db executor) ([]*model.Follow, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT follower_id, followee_id, created_at FROM follows LIMIT `+limit(store.MaxRelationships))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Follow
	for rows.Next() {
		var f model.Follow
		if err := rows.Scan(&f.FollowerID, &f.FolloweeID, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}

func queryListMeetings(ctx context.Context, db executor) ([]*model.Meeting, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT a_id, b_id, status, created_at FROM meetings LIMIT `+limit(store.MaxRelationships))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Meeting
	for rows.Next() {
		var m model.Meeting
		if err := rows.Scan(&m.AID, &m.BID, &m.Status, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func queryListMessages(ctx context.Context, db executor) ([]*model.Message, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT sender_id, recipient_id, created_at FROM messages LIMIT `+limit(store.MaxRelationships))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.SenderID, &m.RecipientID, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func queryListCircleMembers(ctx context.Context, db executor) ([]*model.CircleMember, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT profile_id, circle_id, joined_at FROM circle_members LIMIT `+limit(store.MaxRelationships))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.CircleMember
	for rows.Next() {
		var c model.CircleMember
		if err := rows.Scan(&c.ProfileID, &c.CircleID, &c.JoinedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func queryListMissionMembers(ctx context.Context, db executor) ([]*model.MissionMember, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT profile_id, mission_id, joined_at FROM mission_members LIMIT `+limit(store.MaxRelationships))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.MissionMember
	for rows.Next() {
		var m model.MissionMember
		if err := rows.Scan(&m.ProfileID, &m.MissionID, &m.JoinedAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func queryGetAlertConfig(ctx context.Context, db executor, projectID string) (*model.AlertConfig, error) {
	row := db.QueryRowContext(ctx, `
		SELECT project_id, overdue_warning_days, overdue_critical_days,
			overload_warning, overload_critical,
			blocked_warning_hours, blocked_critical_hours,
			chain_warning_length, stale_days, velocity_min_completed,
			notify_warning, notify_critical, notify_assignee
		FROM alert_configs WHERE project_id = $1`,
		projectID)

	cfg, err := scanAlertConfig(row)
	if errors.Is(err, sql.ErrNoRows) {
		// Absent config is not an error; callers substitute the default.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func queryListAlertRecords(ctx context.Context, db executor, kind model.SubjectKind, subjectID string, since time.Time) ([]*model.AlertRecord, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT subject_kind, subject_id, alert_key, created_at
		FROM alert_records
		WHERE subject_kind = $1 AND subject_id = $2 AND created_at > $3
		ORDER BY created_at DESC LIMIT `+limit(store.MaxAlertRecords),
		string(kind), subjectID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.AlertRecord
	for rows.Next() {
		var r model.AlertRecord
		if err := rows.Scan(&r.SubjectKind, &r.SubjectID, &r.AlertKey, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

// queryInsertAlertRecord claims the (kind, subject, key, bucket) slot.
// ON CONFLICT DO NOTHING makes concurrent runs race safely: exactly one
// insert wins and the rest observe zero rows affected.
func queryInsertAlertRecord(ctx context.Context, db executor, rec *model.AlertRecord, bucket time.Time) (bool, error) {
	res, err := db.ExecContext(ctx, `
		INSERT INTO alert_records (subject_kind, subject_id, alert_key, bucket, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT DO NOTHING`,
		string(rec.SubjectKind), rec.SubjectID, rec.AlertKey, bucket, rec.CreatedAt)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func queryCreateNotification(ctx context.Context, db executor, n *model.Notification) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO notifications (id, recipient_id, category, title, body, priority, meta, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		n.ID,
		n.RecipientID,
		n.Category,
		n.Title,
		nullString(n.Body),
		string(n.Priority),
		jsonbBytes(n.Meta),
		n.CreatedAt,
	)
	return err
}

func queryListNotifications(ctx context.Context, db executor, recipientID string, max int) ([]*model.Notification, error) {
	if max <= 0 || max > store.MaxAlertRecords {
		max = store.MaxAlertRecords
	}
	rows, err := db.QueryContext(ctx, `
		SELECT id, recipient_id, category, title, body, priority, meta, created_at
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC LIMIT `+limit(max),
		recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNotifications(rows)
}

// limit renders a page-size cap for interpolation into a query. Only
// trusted compile-time constants reach it.
func limit(n int) string {
	return fmt.Sprintf("%d", n)
}
