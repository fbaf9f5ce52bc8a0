package score

import (
	"reflect"
	"testing"

	"github.com/crewline/pulse/internal/model"
	"github.com/crewline/pulse/internal/social"
)

func graphWith(friendships []*model.Friendship, follows []*model.Follow, circles []*model.CircleMember) *social.Graph {
	return social.BuildGraph(friendships, follows, nil, nil, circles, nil)
}

func TestScore_MutualFriendsAndCircle(t *testing.T) {
	// alice and bob share 2 mutual friends and 1 circle:
	// 2*25 + 1*15 = 65.
	g := graphWith(
		[]*model.Friendship{
			{AID: "alice", BID: "x", Status: model.FriendshipAccepted},
			{AID: "bob", BID: "x", Status: model.FriendshipAccepted},
			{AID: "alice", BID: "y", Status: model.FriendshipAccepted},
			{AID: "bob", BID: "y", Status: model.FriendshipAccepted},
		},
		nil,
		[]*model.CircleMember{
			{ProfileID: "alice", CircleID: "c1"},
			{ProfileID: "bob", CircleID: "c1"},
		},
	)
	s := NewScorer(g)

	alice := &model.Profile{ID: "alice"}
	bob := &model.Profile{ID: "bob"}

	total, reasons := s.Score(alice, bob)
	if total != 65 {
		t.Errorf("Score = %d, want 65", total)
	}
	want := []string{"2 mutual friends", "1 shared circle"}
	if !reflect.DeepEqual(reasons, want) {
		t.Errorf("reasons = %v, want %v", reasons, want)
	}

	// Symmetric signals score identically in the other direction.
	reverse, _ := s.Score(bob, alice)
	if reverse != total {
		t.Errorf("reverse Score = %d, want %d", reverse, total)
	}
}

func TestScore_FollowIsDirectional(t *testing.T) {
	g := graphWith(nil, []*model.Follow{
		{FollowerID: "bob", FolloweeID: "alice"},
	}, nil)
	s := NewScorer(g)

	alice := &model.Profile{ID: "alice"}
	bob := &model.Profile{ID: "bob"}

	// From alice's side bob follows her: weight 18.
	got, reasons := s.Score(alice, bob)
	if got != 18 || len(reasons) != 1 || reasons[0] != "follows you" {
		t.Errorf("Score(alice, bob) = %d %v, want 18 [follows you]", got, reasons)
	}

	// From bob's side he follows alice: weight 6.
	got, reasons = s.Score(bob, alice)
	if got != 6 || len(reasons) != 1 || reasons[0] != "you follow them" {
		t.Errorf("Score(bob, alice) = %d %v, want 6 [you follow them]", got, reasons)
	}
}

func TestScore_ReasonsOrderedByContribution(t *testing.T) {
	g := graphWith(
		[]*model.Friendship{
			{AID: "alice", BID: "x", Status: model.FriendshipAccepted},
			{AID: "bob", BID: "x", Status: model.FriendshipAccepted},
		},
		[]*model.Follow{{FollowerID: "bob", FolloweeID: "alice"}},
		nil,
	)
	s := NewScorer(g)

	alice := &model.Profile{ID: "alice", Region: "pacific"}
	bob := &model.Profile{ID: "bob", Region: "pacific"}

	// mutual friend 25 > follows me 18 > same region 12.
	_, reasons := s.Score(alice, bob)
	want := []string{"1 mutual friend", "follows you", "same region"}
	if !reflect.DeepEqual(reasons, want) {
		t.Errorf("reasons = %v, want %v", reasons, want)
	}
}

func TestRank_ThresholdAndExclusions(t *testing.T) {
	g := graphWith(
		[]*model.Friendship{
			{AID: "alice", BID: "friend", Status: model.FriendshipAccepted},
			{AID: "alice", BID: "x", Status: model.FriendshipAccepted},
			{AID: "strong", BID: "x", Status: model.FriendshipAccepted},
		},
		nil, nil,
	)
	s := NewScorer(g)

	alice := &model.Profile{ID: "alice", Skills: []string{"go"}}
	candidates := []*model.Profile{
		alice, // self: skipped
		{ID: "friend", Skills: []string{"go"}}, // already friends: skipped
		{ID: "weak", Skills: []string{"go"}},   // 1 shared skill = 8 < 15: dropped
		{ID: "strong"},                         // 1 mutual friend = 25: retained
		{ID: "stranger"},                       // no signals: dropped
	}

	got := s.Rank(alice, candidates)
	if len(got) != 1 {
		t.Fatalf("Rank returned %d suggestions, want 1: %+v", len(got), got)
	}
	if got[0].CandidateID != "strong" || got[0].Score != 25 {
		t.Errorf("Rank[0] = %s/%d, want strong/25", got[0].CandidateID, got[0].Score)
	}
}

func TestRank_StableOrderAndTruncation(t *testing.T) {
	g := graphWith(nil, nil, []*model.CircleMember{
		{ProfileID: "alice", CircleID: "c1"},
		{ProfileID: "b1", CircleID: "c1"},
		{ProfileID: "b2", CircleID: "c1"},
		{ProfileID: "b3", CircleID: "c1"},
	})
	s := NewScorer(g)
	s.MaxResults = 2

	alice := &model.Profile{ID: "alice"}
	candidates := []*model.Profile{{ID: "b1"}, {ID: "b2"}, {ID: "b3"}}

	got := s.Rank(alice, candidates)
	if len(got) != 2 {
		t.Fatalf("Rank returned %d suggestions, want 2", len(got))
	}
	// All three tie at 15; stable sort keeps input order, then truncates.
	if got[0].CandidateID != "b1" || got[1].CandidateID != "b2" {
		t.Errorf("tie-break order = %s, %s; want b1, b2", got[0].CandidateID, got[1].CandidateID)
	}
}

func TestSharedCount_Duplicates(t *testing.T) {
	if got := sharedCount([]string{"go", "go", "sql"}, []string{"go", "go"}); got != 1 {
		t.Errorf("sharedCount = %d, want 1", got)
	}
	if got := sharedCount(nil, []string{"go"}); got != 0 {
		t.Errorf("sharedCount(nil, ...) = %d, want 0", got)
	}
}
