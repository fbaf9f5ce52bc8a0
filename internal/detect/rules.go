package detect

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/crewline/pulse/internal/model"
)

// A rule is a pure check from (tasks, config, now) to findings.
type rule func(tasks []*model.Task, cfg model.AlertConfig, now time.Time) []model.Finding

// checkOverdue flags incomplete tasks whose due date is in the past.
// Tasks without a due date are skipped; an unknown due date is never
// treated as zero or infinitely overdue.
func checkOverdue(tasks []*model.Task, cfg model.AlertConfig, now time.Time) []model.Finding {
	var out []model.Finding
	for _, t := range tasks {
		if t.IsComplete() || t.DueAt == nil || !t.DueAt.Before(now) {
			continue
		}
		// Round up: any past-due task is at least one day overdue.
		days := int(math.Ceil(now.Sub(*t.DueAt).Hours() / 24))
		sev := model.SeverityWarning
		if days >= cfg.OverdueCriticalDays {
			sev = model.SeverityCritical
		} else if days < cfg.OverdueWarningDays {
			continue
		}
		out = append(out, model.Finding{
			Type:       model.FindingOverdue,
			Severity:   sev,
			Title:      fmt.Sprintf("%q is %s overdue", t.Title, pluralDays(days)),
			TaskID:     t.ID,
			AssigneeID: t.AssigneeID,
		})
	}
	return out
}

// checkOverload flags assignees carrying too many in-progress tasks.
func checkOverload(tasks []*model.Task, cfg model.AlertConfig, now time.Time) []model.Finding {
	counts := make(map[string]int)
	for _, t := range tasks {
		if t.Status == model.StatusInProgress && t.AssigneeID != "" {
			counts[t.AssigneeID]++
		}
	}

	assignees := make([]string, 0, len(counts))
	for id := range counts {
		assignees = append(assignees, id)
	}
	sort.Strings(assignees)

	var out []model.Finding
	for _, id := range assignees {
		n := counts[id]
		var sev model.Severity
		switch {
		case n >= cfg.OverloadCritical:
			sev = model.SeverityCritical
		case n >= cfg.OverloadWarning:
			sev = model.SeverityWarning
		default:
			continue
		}
		out = append(out, model.Finding{
			Type:       model.FindingOverload,
			Severity:   sev,
			Title:      fmt.Sprintf("assignee has %d tasks in progress", n),
			AssigneeID: id,
		})
	}
	return out
}

// checkBlocked flags tasks stuck in the blocked state.
func checkBlocked(tasks []*model.Task, cfg model.AlertConfig, now time.Time) []model.Finding {
	var out []model.Finding
	for _, t := range tasks {
		if t.Status != model.StatusBlocked || t.UpdatedAt.IsZero() {
			continue
		}
		hours := int(now.Sub(t.UpdatedAt).Hours())
		var sev model.Severity
		switch {
		case hours >= cfg.BlockedCriticalHours:
			sev = model.SeverityCritical
		case hours >= cfg.BlockedWarningHours:
			sev = model.SeverityWarning
		default:
			continue
		}
		out = append(out, model.Finding{
			Type:       model.FindingBlocked,
			Severity:   sev,
			Title:      fmt.Sprintf("%q has been blocked for %d hours", t.Title, hours),
			TaskID:     t.ID,
			AssigneeID: t.AssigneeID,
		})
	}
	return out
}

// checkChains flags incomplete tasks sitting atop deep prerequisite
// chains. Warning at the configured length, critical two beyond it.
func checkChains(tasks []*model.Task, cfg model.AlertConfig, now time.Time) []model.Finding {
	byID := make(map[string]*model.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	memo := make(map[string]int, len(tasks))
	var out []model.Finding
	for _, t := range tasks {
		if t.IsComplete() {
			continue
		}
		length := longestChain(byID, t.ID, memo)
		if length < cfg.ChainWarningLength {
			continue
		}
		sev := model.SeverityWarning
		if length >= cfg.ChainWarningLength+2 {
			sev = model.SeverityCritical
		}
		out = append(out, model.Finding{
			Type:       model.FindingChain,
			Severity:   sev,
			Title:      fmt.Sprintf("%q depends on a chain of %d tasks", t.Title, length),
			TaskID:     t.ID,
			AssigneeID: t.AssigneeID,
		})
	}
	return out
}

// checkStale flags in-flight tasks that have not been touched recently.
func checkStale(tasks []*model.Task, cfg model.AlertConfig, now time.Time) []model.Finding {
	var out []model.Finding
	for _, t := range tasks {
		if t.Status != model.StatusInProgress && t.Status != model.StatusBlocked {
			continue
		}
		if t.UpdatedAt.IsZero() {
			continue
		}
		days := int(now.Sub(t.UpdatedAt).Hours() / 24)
		if days < cfg.StaleDays {
			continue
		}
		sev := model.SeverityWarning
		if days >= 2*cfg.StaleDays {
			sev = model.SeverityCritical
		}
		out = append(out, model.Finding{
			Type:       model.FindingStale,
			Severity:   sev,
			Title:      fmt.Sprintf("%q has not been updated in %s", t.Title, pluralDays(days)),
			TaskID:     t.ID,
			AssigneeID: t.AssigneeID,
		})
	}
	return out
}

// velocityMinTasks is the minimum project size before the low-velocity
// check applies; tiny projects produce too much noise.
const velocityMinTasks = 5

// checkVelocity emits one project-level finding when too few tasks were
// completed in the trailing week.
func checkVelocity(tasks []*model.Task, cfg model.AlertConfig, now time.Time) []model.Finding {
	if len(tasks) < velocityMinTasks {
		return nil
	}
	cutoff := now.AddDate(0, 0, -7)
	completed := 0
	for _, t := range tasks {
		if t.CompletedAt != nil && t.CompletedAt.After(cutoff) {
			completed++
		}
	}
	if completed >= cfg.VelocityMinCompleted {
		return nil
	}
	sev := model.SeverityWarning
	title := fmt.Sprintf("only %d tasks completed in the last 7 days", completed)
	if completed == 0 {
		sev = model.SeverityCritical
		title = "no tasks completed in the last 7 days"
	}
	return []model.Finding{{
		Type:     model.FindingVelocity,
		Severity: sev,
		Title:    title,
	}}
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
