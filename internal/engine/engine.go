// Package engine orchestrates the analysis passes: it loads platform
// records, runs the detectors and the scorer, and hands approved results
// to the emitter. Each pass runs under a wall-clock budget; hitting the
// budget is a recoverable condition and partial work stands.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/crewline/pulse/internal/alert"
	"github.com/crewline/pulse/internal/detect"
	"github.com/crewline/pulse/internal/events"
	"github.com/crewline/pulse/internal/model"
	"github.com/crewline/pulse/internal/score"
	"github.com/crewline/pulse/internal/social"
	"github.com/crewline/pulse/internal/store"
)

// DefaultBudget caps the wall-clock time of one pass when the caller
// does not configure one.
const DefaultBudget = 2 * time.Minute

// Params carries the tunable knobs for an Engine. Zero fields fall back
// to the compiled defaults.
type Params struct {
	// Defaults is the alert configuration used for projects without a
	// stored one.
	Defaults model.AlertConfig

	// Weights, MinScore, and MaxResults configure the suggestion scorer.
	Weights    score.Weights
	MinScore   int
	MaxResults int

	// Budget is the wall-clock limit for one pass.
	Budget time.Duration
}

// Engine runs the two analysis passes. It holds no per-run state and is
// safe for concurrent use.
type Engine struct {
	store     store.Store
	emitter   *alert.Emitter
	publisher events.Publisher
	logger    *slog.Logger

	defaults   model.AlertConfig
	weights    score.Weights
	minScore   int
	maxResults int
	budget     time.Duration

	now func() time.Time
}

// New returns an Engine over the given store, emitter, and publisher.
func New(s store.Store, em *alert.Emitter, pub events.Publisher, p Params, logger *slog.Logger) *Engine {
	e := &Engine{
		store:      s,
		emitter:    em,
		publisher:  pub,
		logger:     logger,
		defaults:   p.Defaults,
		weights:    p.Weights,
		minScore:   p.MinScore,
		maxResults: p.MaxResults,
		budget:     p.Budget,
		now:        time.Now,
	}
	if e.defaults == (model.AlertConfig{}) {
		e.defaults = model.DefaultAlertConfig()
	}
	if e.weights == (score.Weights{}) {
		e.weights = score.DefaultWeights()
	}
	if e.minScore <= 0 {
		e.minScore = score.DefaultMinScore
	}
	if e.maxResults <= 0 {
		e.maxResults = score.DefaultMaxResults
	}
	if e.budget <= 0 {
		e.budget = DefaultBudget
	}
	return e
}

// ProjectDetail is one project's share of a bottleneck pass.
type ProjectDetail struct {
	ProjectID     string `json:"project_id"`
	Findings      int    `json:"findings"`
	AlertsCreated int    `json:"alerts_created"`
}

// BottleneckSummary reports one bottleneck pass.
type BottleneckSummary struct {
	ProjectsAnalyzed int             `json:"projects_analyzed"`
	AlertsCreated    int             `json:"alerts_created"`
	Aborted          bool            `json:"aborted,omitempty"`
	Details          []ProjectDetail `json:"details,omitempty"`
}

// ProfileDetail is one subject profile's share of a suggestion pass.
type ProfileDetail struct {
	ProfileID          string `json:"profile_id"`
	Suggestions        int    `json:"suggestions"`
	SuggestionsCreated int    `json:"suggestions_created"`
}

// SuggestionSummary reports one suggestion pass.
type SuggestionSummary struct {
	ProfilesAnalyzed   int             `json:"profiles_analyzed"`
	SuggestionsCreated int             `json:"suggestions_created"`
	Aborted            bool            `json:"aborted,omitempty"`
	Details            []ProfileDetail `json:"details,omitempty"`
}

// RunBottlenecks analyzes every project (or the one named by projectID)
// for delivery bottlenecks and emits deduplicated alerts. A pass that
// exhausts its budget returns the partial summary with Aborted set, not
// an error.
func (e *Engine) RunBottlenecks(ctx context.Context, projectID string) (*BottleneckSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, e.budget)
	defer cancel()
	now := e.now().UTC()

	projects, err := e.resolveProjects(ctx, projectID)
	if err != nil {
		return nil, err
	}

	summary := &BottleneckSummary{}
	for _, project := range projects {
		if ctx.Err() != nil {
			summary.Aborted = true
			e.logger.Warn("bottleneck pass ran out of budget", "analyzed", summary.ProjectsAnalyzed, "remaining", len(projects)-summary.ProjectsAnalyzed)
			break
		}
		detail, err := e.analyzeProject(ctx, project, now)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				summary.Aborted = true
				e.logger.Warn("bottleneck pass ran out of budget", "project_id", project.ID)
				break
			}
			// One broken project must not starve the rest of the pass.
			e.logger.Error("project analysis failed", "project_id", project.ID, "error", err)
			continue
		}
		summary.ProjectsAnalyzed++
		summary.AlertsCreated += detail.AlertsCreated
		summary.Details = append(summary.Details, detail)
	}

	e.publishRun(ctx, "bottlenecks", summary.ProjectsAnalyzed, summary.AlertsCreated, summary.Aborted)
	return summary, nil
}

func (e *Engine) resolveProjects(ctx context.Context, projectID string) ([]*model.Project, error) {
	if projectID == "" {
		projects, err := e.store.ListProjects(ctx)
		if err != nil {
			return nil, fmt.Errorf("list projects: %w", err)
		}
		return projects, nil
	}
	project, err := e.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("get project %s: %w", projectID, err)
	}
	return []*model.Project{project}, nil
}

// analyzeProject runs the detector rules over one project and emits the
// surviving findings.
func (e *Engine) analyzeProject(ctx context.Context, project *model.Project, now time.Time) (ProjectDetail, error) {
	detail := ProjectDetail{ProjectID: project.ID}

	cfg, err := e.store.GetAlertConfig(ctx, project.ID)
	if err != nil {
		return detail, fmt.Errorf("get alert config: %w", err)
	}
	effective := e.defaults
	if cfg != nil {
		effective = *cfg
	}

	tasks, err := e.store.ListTasks(ctx, project.ID)
	if err != nil {
		return detail, fmt.Errorf("list tasks: %w", err)
	}

	findings := detect.FilterNotifiable(detect.Detect(tasks, effective, now), effective)
	detail.Findings = len(findings)
	if len(findings) == 0 {
		return detail, nil
	}

	records, err := e.store.ListAlertRecords(ctx, model.SubjectProject, project.ID, now.Add(-alert.BottleneckWindow))
	if err != nil {
		return detail, fmt.Errorf("list alert records: %w", err)
	}

	for _, f := range findings {
		if alert.Suppressed(records, alert.FindingKey(f), now, alert.BottleneckWindow) {
			continue
		}
		n, err := e.emitter.EmitFinding(ctx, project, f, effective, now)
		if err != nil {
			return detail, fmt.Errorf("emit finding %s: %w", alert.FindingKey(f), err)
		}
		if n > 0 {
			detail.AlertsCreated++
		}
	}
	return detail, nil
}

// RunSuggestions scores every profile (or the one named by profileID)
// against all candidates and emits deduplicated match suggestions. The
// limit caps suggestions per subject; zero keeps the configured cap.
func (e *Engine) RunSuggestions(ctx context.Context, profileID string, limit int) (*SuggestionSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, e.budget)
	defer cancel()
	now := e.now().UTC()

	graph, err := e.buildGraph(ctx)
	if err != nil {
		return nil, err
	}

	candidates, err := e.store.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	subjects := candidates
	if profileID != "" {
		subject, err := e.store.GetProfile(ctx, profileID)
		if err != nil {
			return nil, fmt.Errorf("get profile %s: %w", profileID, err)
		}
		subjects = []*model.Profile{subject}
	}

	scorer := &score.Scorer{
		Graph:      graph,
		Weights:    e.weights,
		MinScore:   e.minScore,
		MaxResults: e.maxResults,
	}
	if limit > 0 {
		scorer.MaxResults = limit
	}

	summary := &SuggestionSummary{}
	for _, subject := range subjects {
		if ctx.Err() != nil {
			summary.Aborted = true
			e.logger.Warn("suggestion pass ran out of budget", "analyzed", summary.ProfilesAnalyzed, "remaining", len(subjects)-summary.ProfilesAnalyzed)
			break
		}
		detail, err := e.suggestFor(ctx, scorer, subject, candidates, now)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				summary.Aborted = true
				e.logger.Warn("suggestion pass ran out of budget", "profile_id", subject.ID)
				break
			}
			e.logger.Error("profile analysis failed", "profile_id", subject.ID, "error", err)
			continue
		}
		summary.ProfilesAnalyzed++
		summary.SuggestionsCreated += detail.SuggestionsCreated
		summary.Details = append(summary.Details, detail)
	}

	e.publishRun(ctx, "suggestions", summary.ProfilesAnalyzed, summary.SuggestionsCreated, summary.Aborted)
	return summary, nil
}

func (e *Engine) buildGraph(ctx context.Context) (*social.Graph, error) {
	friendships, err := e.store.ListFriendships(ctx)
	if err != nil {
		return nil, fmt.Errorf("list friendships: %w", err)
	}
	follows, err := e.store.ListFollows(ctx)
	if err != nil {
		return nil, fmt.Errorf("list follows: %w", err)
	}
	meetings, err := e.store.ListMeetings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	messages, err := e.store.ListMessages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	circles, err := e.store.ListCircleMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list circle members: %w", err)
	}
	missions, err := e.store.ListMissionMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list mission members: %w", err)
	}
	return social.BuildGraph(friendships, follows, meetings, messages, circles, missions), nil
}

func (e *Engine) suggestFor(ctx context.Context, scorer *score.Scorer, subject *model.Profile, candidates []*model.Profile, now time.Time) (ProfileDetail, error) {
	detail := ProfileDetail{ProfileID: subject.ID}

	suggestions := scorer.Rank(subject, candidates)
	detail.Suggestions = len(suggestions)
	if len(suggestions) == 0 {
		return detail, nil
	}

	records, err := e.store.ListAlertRecords(ctx, model.SubjectProfile, subject.ID, now.Add(-alert.SuggestionWindow))
	if err != nil {
		return detail, fmt.Errorf("list alert records: %w", err)
	}

	for _, s := range suggestions {
		if alert.Suppressed(records, alert.SuggestionKey(s), now, alert.SuggestionWindow) {
			continue
		}
		n, err := e.emitter.EmitSuggestion(ctx, s, now)
		if err != nil {
			return detail, fmt.Errorf("emit suggestion %s: %w", alert.SuggestionKey(s), err)
		}
		detail.SuggestionsCreated += n
	}
	return detail, nil
}

// publishRun emits the run summary event; failures are logged only.
func (e *Engine) publishRun(ctx context.Context, kind string, analyzed, created int, aborted bool) {
	err := e.publisher.Publish(context.WithoutCancel(ctx), events.TopicRunCompleted, events.RunCompleted{
		Kind:     kind,
		Analyzed: analyzed,
		Created:  created,
		Aborted:  aborted,
	})
	if err != nil {
		e.logger.Warn("failed to publish run summary", "kind", kind, "error", err)
	}
}
