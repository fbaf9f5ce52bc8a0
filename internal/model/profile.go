package model

import "time"

// RankTier is the coarse progression tier of a profile.
type RankTier string

const (
	TierSeed    RankTier = "seed"
	TierSprout  RankTier = "sprout"
	TierBloom   RankTier = "bloom"
	TierCanopy  RankTier = "canopy"
	TierRedwood RankTier = "redwood"
)

// String returns the string representation of the tier.
func (r RankTier) String() string {
	return string(r)
}

// Profile is a member of the platform. Immutable for the duration of one
// analysis pass.
type Profile struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Region      string    `json:"region,omitempty"`
	RankTier    RankTier  `json:"rank_tier,omitempty"`
	Skills      []string  `json:"skills,omitempty"`
	Values      []string  `json:"values,omitempty"`
	Practices   []string  `json:"practices,omitempty"`
	Intentions  []string  `json:"intentions,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	LastSeenAt  time.Time `json:"last_seen_at"`
}
