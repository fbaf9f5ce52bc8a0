package model

import "time"

// FriendshipStatus is the lifecycle state of a friendship request.
type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
	FriendshipDeclined FriendshipStatus = "declined"
)

// Friendship is an undirected relationship between two profiles. Only
// accepted friendships produce graph edges.
type Friendship struct {
	AID       string           `json:"a_id"`
	BID       string           `json:"b_id"`
	Status    FriendshipStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}

// Follow is a directed relationship: follower watches followee.
type Follow struct {
	FollowerID string    `json:"follower_id"`
	FolloweeID string    `json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// MeetingStatus is the lifecycle state of a scheduled meeting.
type MeetingStatus string

const (
	MeetingScheduled MeetingStatus = "scheduled"
	MeetingCompleted MeetingStatus = "completed"
	MeetingCancelled MeetingStatus = "cancelled"
)

// Meeting records a scheduled 1:1 between two profiles. Completed
// meetings count as prior interaction.
type Meeting struct {
	AID       string        `json:"a_id"`
	BID       string        `json:"b_id"`
	Status    MeetingStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// Message is a direct message between two profiles. Any message counts
// as prior interaction.
type Message struct {
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// CircleMember links a profile to a circle.
type CircleMember struct {
	ProfileID string    `json:"profile_id"`
	CircleID  string    `json:"circle_id"`
	JoinedAt  time.Time `json:"joined_at"`
}

// MissionMember links a profile to a mission.
type MissionMember struct {
	ProfileID string    `json:"profile_id"`
	MissionID string    `json:"mission_id"`
	JoinedAt  time.Time `json:"joined_at"`
}
