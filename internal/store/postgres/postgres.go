// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/crewline/pulse/internal/model"
	"github.com/crewline/pulse/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) ListProjects(ctx context.Context) ([]*model.Project, error) {
	return queryListProjects(ctx, s.db)
}

func (s *PostgresStore) GetProject(ctx context.Context, id string) (*model.Project, error) {
	return queryGetProject(ctx, s.db, id)
}

func (s *PostgresStore) ListTasks(ctx context.Context, projectID string) ([]*model.Task, error) {
	return queryListTasks(ctx, s.db, projectID)
}

func (s *PostgresStore) GetProfile(ctx context.Context, id string) (*model.Profile, error) {
	return queryGetProfile(ctx, s.db, id)
}

func (s *PostgresStore) ListProfiles(ctx context.Context) ([]*model.Profile, error) {
	return queryListProfiles(ctx, s.db)
}

func (s *PostgresStore) ListFriendships(ctx context.Context) ([]*model.Friendship, error) {
	return queryListFriendships(ctx, s.db)
}

func (s *PostgresStore) ListFollows(ctx context.Context) ([]*model.Follow, error) {
	return queryListFollows(ctx, s.db)
}

func (s *PostgresStore) ListMeetings(ctx context.Context) ([]*model.Meeting, error) {
	return queryListMeetings(ctx, s.db)
}

func (s *PostgresStore) ListMessages(ctx context.Context) ([]*model.Message, error) {
	return queryListMessages(ctx, s.db)
}

func (s *PostgresStore) ListCircleMembers(ctx context.Context) ([]*model.CircleMember, error) {
	return queryListCircleMembers(ctx, s.db)
}

func (s *PostgresStore) ListMissionMembers(ctx context.Context) ([]*model.MissionMember, error) {
	return queryListMissionMembers(ctx, s.db)
}

func (s *PostgresStore) GetAlertConfig(ctx context.Context, projectID string) (*model.AlertConfig, error) {
	return queryGetAlertConfig(ctx, s.db, projectID)
}

func (s *PostgresStore) ListAlertRecords(ctx context.Context, kind model.SubjectKind, subjectID string, since time.Time) ([]*model.AlertRecord, error) {
	return queryListAlertRecords(ctx, s.db, kind, subjectID, since)
}

func (s *PostgresStore) InsertAlertRecord(ctx context.Context, rec *model.AlertRecord, bucket time.Time) (bool, error) {
	return queryInsertAlertRecord(ctx, s.db, rec, bucket)
}

func (s *PostgresStore) CreateNotification(ctx context.Context, n *model.Notification) error {
	return queryCreateNotification(ctx, s.db, n)
}

func (s *PostgresStore) ListNotifications(ctx context.Context, recipientID string, limit int) ([]*model.Notification, error) {
	return queryListNotifications(ctx, s.db, recipientID, limit)
}
