package export

import (
	"context"
	"fmt"
	"time"

	"github.com/crewline/pulse/internal/model"
)

// mockStore is an in-memory store seeded by each test with platform
// records. Alert records and notifications accumulate across the run.
type mockStore struct {
	projects []*model.Project
	tasks    map[string][]*model.Task // keyed by project ID
	configs  map[string]*model.AlertConfig

	profiles    []*model.Profile
	friendships []*model.Friendship
	follows     []*model.Follow
	meetings    []*model.Meeting
	messages    []*model.Message
	circles     []*model.CircleMember
	missions    []*model.MissionMember

	records       map[string]*model.AlertRecord
	notifications []*model.Notification
}

func newMockStore() *mockStore {
	return &mockStore{
		tasks:   make(map[string][]*model.Task),
		configs: make(map[string]*model.AlertConfig),
		records: make(map[string]*model.AlertRecord),
	}
}

func (m *mockStore) ListProjects(context.Context) ([]*model.Project, error) {
	return m.projects, nil
}

func (m *mockStore) GetProject(_ context.Context, id string) (*model.Project, error) {
	for _, p := range m.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("project %s not found", id)
}

func (m *mockStore) ListTasks(_ context.Context, projectID string) ([]*model.Task, error) {
	return m.tasks[projectID], nil
}

func (m *mockStore) GetProfile(_ context.Context, id string) (*model.Profile, error) {
	for _, p := range m.profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("profile %s not found", id)
}

func (m *mockStore) ListProfiles(context.Context) ([]*model.Profile, error) {
	return m.profiles, nil
}

func (m *mockStore) ListFriendships(context.Context) ([]*model.Friendship, error) {
	return m.friendships, nil
}

func (m *mockStore) ListFollows(context.Context) ([]*model.Follow, error) {
	return m.follows, nil
}

func (m *mockStore) ListMeetings(context.Context) ([]*model.Meeting, error) {
	return m.meetings, nil
}

func (m *mockStore) ListMessages(context.Context) ([]*model.Message, error) {
	return m.messages, nil
}

func (m *mockStore) ListCircleMembers(context.Context) ([]*model.CircleMember, error) {
	return m.circles, nil
}

func (m *mockStore) ListMissionMembers(context.Context) ([]*model.MissionMember, error) {
	return m.missions, nil
}

func (m *mockStore) GetAlertConfig(_ context.Context, projectID string) (*model.AlertConfig, error) {
	return m.configs[projectID], nil
}

func (m *mockStore) ListAlertRecords(_ context.Context, kind model.SubjectKind, subjectID string, since time.Time) ([]*model.AlertRecord, error) {
	var out []*model.AlertRecord
	for _, r := range m.records {
		if r.SubjectKind == kind && r.SubjectID == subjectID && r.CreatedAt.After(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockStore) InsertAlertRecord(_ context.Context, rec *model.AlertRecord, bucket time.Time) (bool, error) {
	k := string(rec.SubjectKind) + "/" + rec.SubjectID + "/" + rec.AlertKey + "/" + bucket.UTC().Format(time.RFC3339)
	if _, exists := m.records[k]; exists {
		return false, nil
	}
	m.records[k] = rec
	return true, nil
}

func (m *mockStore) CreateNotification(_ context.Context, n *model.Notification) error {
	m.notifications = append(m.notifications, n)
	return nil
}

func (m *mockStore) ListNotifications(_ context.Context, recipientID string, limit int) ([]*model.Notification, error) {
	var out []*model.Notification
	for _, n := range m.notifications {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockStore) Close() error { return nil }
