package alert

import (
	"context"
	"errors"
	"time"

	"github.com/crewline/pulse/internal/model"
)

// mockStore is a minimal in-memory store for emitter tests. Only the
// alert-record and notification methods carry behavior.
type mockStore struct {
	records       map[string]*model.AlertRecord // keyed by kind/subject/key/bucket
	notifications []*model.Notification

	failNotifications bool
	failRecipients    map[string]struct{}
}

func newMockStore() *mockStore {
	return &mockStore{records: make(map[string]*model.AlertRecord)}
}

func (m *mockStore) ListProjects(context.Context) ([]*model.Project, error) { return nil, nil }

func (m *mockStore) GetProject(context.Context, string) (*model.Project, error) { return nil, nil }

func (m *mockStore) ListTasks(context.Context, string) ([]*model.Task, error) { return nil, nil }

func (m *mockStore) GetProfile(context.Context, string) (*model.Profile, error) { return nil, nil }

func (m *mockStore) ListProfiles(context.Context) ([]*model.Profile, error) { return nil, nil }

func (m *mockStore) ListFriendships(context.Context) ([]*model.Friendship, error) { return nil, nil }

func (m *mockStore) ListFollows(context.Context) ([]*model.Follow, error) { return nil, nil }

func (m *mockStore) ListMeetings(context.Context) ([]*model.Meeting, error) { return nil, nil }

func (m *mockStore) ListMessages(context.Context) ([]*model.Message, error) { return nil, nil }

func (m *mockStore) ListCircleMembers(context.Context) ([]*model.CircleMember, error) {
	return nil, nil
}

func (m *mockStore) ListMissionMembers(context.Context) ([]*model.MissionMember, error) {
	return nil, nil
}

func (m *mockStore) GetAlertConfig(context.Context, string) (*model.AlertConfig, error) {
	return nil, nil
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
	if m.failNotifications {
		return errors.New("notification store unavailable")
	}
	if _, fail := m.failRecipients[n.RecipientID]; fail {
		return errors.New("notification store unavailable")
	}
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
