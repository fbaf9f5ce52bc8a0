package score

// Weights is the integer weight table for match signals. Count signals
// (mutual friends, shared circles, ...) multiply the weight by the
// count; boolean signals contribute the weight once.
type Weights struct {
	MutualFriend     int `toml:"mutual_friend"`
	SharedCircle     int `toml:"shared_circle"`
	SharedMission    int `toml:"shared_mission"`
	SharedSkill      int `toml:"shared_skill"`
	SharedValue      int `toml:"shared_value"`
	SharedPractice   int `toml:"shared_practice"`
	SameRegion       int `toml:"same_region"`
	FollowsMe        int `toml:"follows_me"`
	IFollow          int `toml:"i_follow"`
	PriorInteraction int `toml:"prior_interaction"`
	SameRankTier     int `toml:"same_rank_tier"`
}

// DefaultWeights returns the stock weight table.
func DefaultWeights() Weights {
	return Weights{
		MutualFriend:     25,
		SharedCircle:     15,
		SharedMission:    20,
		SharedSkill:      8,
		SharedValue:      10,
		SharedPractice:   10,
		SameRegion:       12,
		FollowsMe:        18,
		IFollow:          6,
		PriorInteraction: 9,
		SameRankTier:     5,
	}
}

// DefaultMinScore is the minimum total score for a candidate to be
// retained.
const DefaultMinScore = 15

// DefaultMaxResults caps the number of suggestions returned per subject.
const DefaultMaxResults = 10
