// Package social builds in-memory relationship graphs from flat record
// lists. All maps are keyed by profile ID; values are sets of related
// profile, circle, or mission IDs.
package social

import "github.com/crewline/pulse/internal/model"

// Set is a string set.
type Set map[string]struct{}

// Has reports whether id is in the set.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s Set) add(id string) {
	s[id] = struct{}{}
}

// Graph holds the derived adjacency and membership maps for one
// analysis pass. It is built once and read concurrently-safely after
// that (no mutation post-build).
type Graph struct {
	// Friends and Interacted are symmetric: an edge (a,b) implies (b,a).
	Friends    map[string]Set
	Interacted map[string]Set

	// Follows maps follower -> set of followees; Followers is the
	// reverse index.
	Follows   map[string]Set
	Followers map[string]Set

	Circles  map[string]Set
	Missions map[string]Set
}

// BuildGraph derives a Graph from flat relationship records in a single
// pass per input list. Records with a missing side are skipped.
func BuildGraph(
	friendships []*model.Friendship,
	follows []*model.Follow,
	meetings []*model.Meeting,
	messages []*model.Message,
	circles []*model.CircleMember,
	missions []*model.MissionMember,
) *Graph {
	g := &Graph{
		Friends:    make(map[string]Set),
		Interacted: make(map[string]Set),
		Follows:    make(map[string]Set),
		Followers:  make(map[string]Set),
		Circles:    make(map[string]Set),
		Missions:   make(map[string]Set),
	}

	for _, f := range friendships {
		if f.Status != model.FriendshipAccepted {
			continue
		}
		addSymmetric(g.Friends, f.AID, f.BID)
	}

	for _, f := range follows {
		if f.FollowerID == "" || f.FolloweeID == "" {
			continue
		}
		addDirected(g.Follows, f.FollowerID, f.FolloweeID)
		addDirected(g.Followers, f.FolloweeID, f.FollowerID)
	}

	for _, m := range meetings {
		if m.Status != model.MeetingCompleted {
			continue
		}
		addSymmetric(g.Interacted, m.AID, m.BID)
	}

	for _, m := range messages {
		addSymmetric(g.Interacted, m.SenderID, m.RecipientID)
	}

	for _, c := range circles {
		if c.ProfileID == "" || c.CircleID == "" {
			continue
		}
		addDirected(g.Circles, c.ProfileID, c.CircleID)
	}

	for _, m := range missions {
		if m.ProfileID == "" || m.MissionID == "" {
			continue
		}
		addDirected(g.Missions, m.ProfileID, m.MissionID)
	}

	return g
}

func addDirected(m map[string]Set, from, to string) {
	s, ok := m[from]
	if !ok {
		s = make(Set)
		m[from] = s
	}
	s.add(to)
}

func addSymmetric(m map[string]Set, a, b string) {
	if a == "" || b == "" {
		return
	}
	addDirected(m, a, b)
	addDirected(m, b, a)
}

// MutualFriends returns the number of profiles that are friends with
// both a and b.
func (g *Graph) MutualFriends(a, b string) int {
	return intersectCount(g.Friends[a], g.Friends[b])
}

// SharedCircles returns the number of circles both a and b belong to.
func (g *Graph) SharedCircles(a, b string) int {
	return intersectCount(g.Circles[a], g.Circles[b])
}

// SharedMissions returns the number of missions both a and b participate in.
func (g *Graph) SharedMissions(a, b string) int {
	return intersectCount(g.Missions[a], g.Missions[b])
}

// AreFriends reports whether a and b share an accepted friendship.
func (g *Graph) AreFriends(a, b string) bool {
	return g.Friends[a].Has(b)
}

// FollowsUser reports whether follower follows followee.
func (g *Graph) FollowsUser(follower, followee string) bool {
	return g.Follows[follower].Has(followee)
}

// HaveInteracted reports whether a and b have a completed meeting or a
// direct message between them.
func (g *Graph) HaveInteracted(a, b string) bool {
	return g.Interacted[a].Has(b)
}

// intersectCount iterates the smaller set.
func intersectCount(a, b Set) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for id := range a {
		if b.Has(id) {
			n++
		}
	}
	return n
}
