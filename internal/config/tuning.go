package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/crewline/pulse/internal/model"
	"github.com/crewline/pulse/internal/score"
)

// Tuning holds optional overrides for scorer weights and detector
// defaults, loaded from a TOML file. Zero values mean "keep the
// compiled default".
type Tuning struct {
	Scoring struct {
		MinScore   int           `toml:"min_score"`
		MaxResults int           `toml:"max_results"`
		Weights    score.Weights `toml:"weights"`
	} `toml:"scoring"`

	Thresholds struct {
		OverdueWarningDays   int `toml:"overdue_warning_days"`
		OverdueCriticalDays  int `toml:"overdue_critical_days"`
		OverloadWarning      int `toml:"overload_warning"`
		OverloadCritical     int `toml:"overload_critical"`
		BlockedWarningHours  int `toml:"blocked_warning_hours"`
		BlockedCriticalHours int `toml:"blocked_critical_hours"`
		ChainWarningLength   int `toml:"chain_warning_length"`
		StaleDays            int `toml:"stale_days"`
		VelocityMinCompleted int `toml:"velocity_min_completed"`
	} `toml:"thresholds"`
}

// LoadTuning reads the tuning file at path. A missing file is not an
// error: the zero Tuning (all compiled defaults) is returned.
func LoadTuning(path string) (*Tuning, error) {
	var t Tuning
	if path == "" {
		return &t, nil
	}
	if _, err := toml.DecodeFile(path, &t); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &t, nil
		}
		return nil, fmt.Errorf("parse tuning file %s: %w", path, err)
	}
	return &t, nil
}

// MergedWeights merges the tuning overrides over the default weight table.
func (t *Tuning) MergedWeights() score.Weights {
	w := score.DefaultWeights()
	o := t.Scoring.Weights
	mergeInt(&w.MutualFriend, o.MutualFriend)
	mergeInt(&w.SharedCircle, o.SharedCircle)
	mergeInt(&w.SharedMission, o.SharedMission)
	mergeInt(&w.SharedSkill, o.SharedSkill)
	mergeInt(&w.SharedValue, o.SharedValue)
	mergeInt(&w.SharedPractice, o.SharedPractice)
	mergeInt(&w.SameRegion, o.SameRegion)
	mergeInt(&w.FollowsMe, o.FollowsMe)
	mergeInt(&w.IFollow, o.IFollow)
	mergeInt(&w.PriorInteraction, o.PriorInteraction)
	mergeInt(&w.SameRankTier, o.SameRankTier)
	return w
}

// MinScore returns the configured minimum score or the compiled default.
func (t *Tuning) MinScore() int {
	if t.Scoring.MinScore > 0 {
		return t.Scoring.MinScore
	}
	return score.DefaultMinScore
}

// MaxResults returns the configured result cap or the compiled default.
func (t *Tuning) MaxResults() int {
	if t.Scoring.MaxResults > 0 {
		return t.Scoring.MaxResults
	}
	return score.DefaultMaxResults
}

// MergedAlertConfig merges the tuning threshold overrides over the
// documented default alert configuration.
func (t *Tuning) MergedAlertConfig() model.AlertConfig {
	cfg := model.DefaultAlertConfig()
	o := t.Thresholds
	mergeInt(&cfg.OverdueWarningDays, o.OverdueWarningDays)
	mergeInt(&cfg.OverdueCriticalDays, o.OverdueCriticalDays)
	mergeInt(&cfg.OverloadWarning, o.OverloadWarning)
	mergeInt(&cfg.OverloadCritical, o.OverloadCritical)
	mergeInt(&cfg.BlockedWarningHours, o.BlockedWarningHours)
	mergeInt(&cfg.BlockedCriticalHours, o.BlockedCriticalHours)
	mergeInt(&cfg.ChainWarningLength, o.ChainWarningLength)
	mergeInt(&cfg.StaleDays, o.StaleDays)
	mergeInt(&cfg.VelocityMinCompleted, o.VelocityMinCompleted)
	return cfg
}

func mergeInt(dst *int, override int) {
	if override > 0 {
		*dst = override
	}
}
