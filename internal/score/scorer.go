// Package score ranks potential social matches between profiles using a
// weighted multi-signal table over prebuilt relationship graphs.
package score

import (
	"fmt"
	"sort"

	"github.com/crewline/pulse/internal/model"
	"github.com/crewline/pulse/internal/social"
)

// Scorer computes weighted compatibility scores. It holds no mutable
// state; the same scorer may be reused across subjects.
type Scorer struct {
	Graph      *social.Graph
	Weights    Weights
	MinScore   int
	MaxResults int
}

// NewScorer returns a scorer over the given graph using default weights
// and thresholds.
func NewScorer(g *social.Graph) *Scorer {
	return &Scorer{
		Graph:      g,
		Weights:    DefaultWeights(),
		MinScore:   DefaultMinScore,
		MaxResults: DefaultMaxResults,
	}
}

// contribution is one signal's share of the total score.
type contribution struct {
	points int
	reason string
}

// Score computes the weighted compatibility of candidate for subject and
// returns the total plus human-readable reasons sorted by descending
// contribution. Inputs are never mutated; results are deterministic.
func (s *Scorer) Score(subject, candidate *model.Profile) (int, []string) {
	g := s.Graph
	w := s.Weights

	var contribs []contribution
	add := func(points int, reason string) {
		if points > 0 {
			contribs = append(contribs, contribution{points: points, reason: reason})
		}
	}

	if n := g.MutualFriends(subject.ID, candidate.ID); n > 0 {
		add(n*w.MutualFriend, plural(n, "mutual friend"))
	}
	if n := g.SharedCircles(subject.ID, candidate.ID); n > 0 {
		add(n*w.SharedCircle, plural(n, "shared circle"))
	}
	if n := g.SharedMissions(subject.ID, candidate.ID); n > 0 {
		add(n*w.SharedMission, plural(n, "shared mission"))
	}
	if n := sharedCount(subject.Skills, candidate.Skills); n > 0 {
		add(n*w.SharedSkill, plural(n, "shared skill"))
	}
	if n := sharedCount(subject.Values, candidate.Values); n > 0 {
		add(n*w.SharedValue, plural(n, "shared value"))
	}
	if n := sharedCount(subject.Practices, candidate.Practices); n > 0 {
		add(n*w.SharedPractice, plural(n, "shared practice"))
	}
	if subject.Region != "" && subject.Region == candidate.Region {
		add(w.SameRegion, "same region")
	}
	if g.FollowsUser(candidate.ID, subject.ID) {
		add(w.FollowsMe, "follows you")
	}
	if g.FollowsUser(subject.ID, candidate.ID) {
		add(w.IFollow, "you follow them")
	}
	if g.HaveInteracted(subject.ID, candidate.ID) {
		add(w.PriorInteraction, "you have interacted before")
	}
	if subject.RankTier != "" && subject.RankTier == candidate.RankTier {
		add(w.SameRankTier, "same rank tier")
	}

	sort.SliceStable(contribs, func(i, j int) bool {
		return contribs[i].points > contribs[j].points
	})

	total := 0
	reasons := make([]string, 0, len(contribs))
	for _, c := range contribs {
		total += c.points
		reasons = append(reasons, c.reason)
	}
	return total, reasons
}

// Rank scores every candidate against the subject and returns retained
// suggestions sorted descending by score. Self and existing friends are
// skipped before scoring. A candidate is retained only when its score
// meets MinScore and at least one reason was generated. Ties keep the
// candidates' input order; results are truncated to MaxResults.
func (s *Scorer) Rank(subject *model.Profile, candidates []*model.Profile) []*model.Suggestion {
	var out []*model.Suggestion
	for _, cand := range candidates {
		if cand.ID == subject.ID {
			continue
		}
		if s.Graph.AreFriends(subject.ID, cand.ID) {
			continue
		}
		total, reasons := s.Score(subject, cand)
		if total < s.MinScore || len(reasons) == 0 {
			continue
		}
		out = append(out, &model.Suggestion{
			SubjectID:   subject.ID,
			CandidateID: cand.ID,
			Score:       total,
			Reasons:     reasons,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if s.MaxResults > 0 && len(out) > s.MaxResults {
		out = out[:s.MaxResults]
	}
	return out
}

// sharedCount counts values present in both lists. Duplicates within one
// list are counted once.
func sharedCount(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	n := 0
	seen := make(map[string]struct{}, len(b))
	for _, v := range b {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		if _, ok := set[v]; ok {
			n++
		}
	}
	return n
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
