// Package store defines the persistence interface for the analysis
// engine. All list reads are bounded-page fetches: each returns at most
// a fixed maximum number of records, and exceeding that bound silently
// truncates the analysis rather than paging further.
package store

import (
	"context"
	"time"

	"github.com/crewline/pulse/internal/model"
)

// Page size caps per entity type.
const (
	MaxProjects      = 200
	MaxTasks         = 1000
	MaxProfiles      = 500
	MaxRelationships = 5000
	MaxAlertRecords  = 1000
)

// Store is the read/write interface over the external record store. The
// engine reads platform records and appends notifications and alert
// records; nothing else is mutated.
type Store interface {
	// Projects and tasks
	ListProjects(ctx context.Context) ([]*model.Project, error)
	GetProject(ctx context.Context, id string) (*model.Project, error)
	ListTasks(ctx context.Context, projectID string) ([]*model.Task, error)

	// Profiles
	GetProfile(ctx context.Context, id string) (*model.Profile, error)
	ListProfiles(ctx context.Context) ([]*model.Profile, error)

	// Relationship records
	ListFriendships(ctx context.Context) ([]*model.Friendship, error)
	ListFollows(ctx context.Context) ([]*model.Follow, error)
	ListMeetings(ctx context.Context) ([]*model.Meeting, error)
	ListMessages(ctx context.Context) ([]*model.Message, error)
	ListCircleMembers(ctx context.Context) ([]*model.CircleMember, error)
	ListMissionMembers(ctx context.Context) ([]*model.MissionMember, error)

	// Alert configuration. Returns (nil, nil) when no config is stored
	// for the project; callers substitute model.DefaultAlertConfig.
	GetAlertConfig(ctx context.Context, projectID string) (*model.AlertConfig, error)

	// Alert records (append-only)
	ListAlertRecords(ctx context.Context, kind model.SubjectKind, subjectID string, since time.Time) ([]*model.AlertRecord, error)
	// InsertAlertRecord atomically inserts the record unless one with
	// the same (kind, subject, key, time bucket) already exists. It
	// reports whether the insert won; false means a concurrent or
	// earlier run already claimed the key for this window.
	InsertAlertRecord(ctx context.Context, rec *model.AlertRecord, bucket time.Time) (bool, error)

	// Notifications
	CreateNotification(ctx context.Context, n *model.Notification) error
	ListNotifications(ctx context.Context, recipientID string, limit int) ([]*model.Notification, error)

	// Lifecycle
	Close() error
}
