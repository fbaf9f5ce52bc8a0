// Package detect runs the bottleneck rule checks over one project's
// task list. Each rule is a pure function; the detector only
// concatenates and filters their findings.
package detect

import (
	"time"

	"github.com/crewline/pulse/internal/model"
)

// rules are run in a fixed order so output is deterministic.
var rules = []rule{
	checkOverdue,
	checkOverload,
	checkBlocked,
	checkChains,
	checkStale,
	checkVelocity,
}

// Detect runs all bottleneck checks over the tasks of one project and
// returns the concatenated findings. Inputs are never mutated.
func Detect(tasks []*model.Task, cfg model.AlertConfig, now time.Time) []model.Finding {
	var out []model.Finding
	for _, r := range rules {
		out = append(out, r(tasks, cfg, now)...)
	}
	return out
}

// FilterNotifiable drops findings whose severity tier is disabled in the
// configuration's notify flags.
func FilterNotifiable(findings []model.Finding, cfg model.AlertConfig) []model.Finding {
	out := findings[:0:0]
	for _, f := range findings {
		if cfg.NotifyFor(f.Severity) {
			out = append(out, f)
		}
	}
	return out
}
