package models

// MetricKind is the channel counter a milestone is measured against
type MetricKind string

// Metric kind constants
const (
	MetricSubscribers MetricKind = "subscribers"
	MetricTotalViews  MetricKind = "totalViews"
)

// MilestoneDefinition is a static threshold that unlocks a notification
type MilestoneDefinition struct {
	ID        string     `json:"id"`
	Metric    MetricKind `json:"metric"`
	Threshold int64      `json:"threshold"`
	Message   string     `json:"message"`
}

// SkillLevelDefinition is one rung of the skill training ladder
type SkillLevelDefinition struct {
	Level      int     `json:"level"`
	Cost       int64   `json:"cost"`
	Multiplier float64 `json:"multiplier"`
}
