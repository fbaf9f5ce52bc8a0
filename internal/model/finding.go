package model

// FindingType tags the bottleneck rule that produced a finding.
type FindingType string

const (
	FindingOverdue  FindingType = "overdue"
	FindingOverload FindingType = "overload"
	FindingBlocked  FindingType = "blocked"
	FindingChain    FindingType = "chain"
	FindingStale    FindingType = "stale"
	FindingVelocity FindingType = "velocity"
)

// String returns the string representation of the finding type.
func (t FindingType) String() string {
	return string(t)
}

// Severity is the tier assigned to a finding by comparing a measured
// quantity against two configured thresholds.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	return string(s)
}

// Finding is one detected condition awaiting possible notification.
// Ephemeral: produced for the current pass and either converted into a
// notification or dropped.
type Finding struct {
	Type       FindingType `json:"type"`
	Severity   Severity    `json:"severity"`
	Title      string      `json:"title"`
	TaskID     string      `json:"task_id,omitempty"`
	AssigneeID string      `json:"assignee_id,omitempty"`
}

// Suggestion is a ranked social-match candidate for a subject profile.
// Ephemeral like Finding.
type Suggestion struct {
	SubjectID   string   `json:"subject_id"`
	CandidateID string   `json:"candidate_id"`
	Score       int      `json:"score"`
	Reasons     []string `json:"reasons"`
}
