package models

import (
	"slices"
	"time"
)

// ContentType distinguishes regular uploads from music releases
type ContentType string

// Content type constants
const (
	ContentTypeStandard ContentType = "standard"
	ContentTypeRelease  ContentType = "release"
)

// IsValid checks if the content type is a known value
func (t ContentType) IsValid() bool {
	switch t {
	case ContentTypeStandard, ContentTypeRelease:
		return true
	default:
		return false
	}
}

// Quality is the production quality of an upload, 1 (poor) to 5 (masterpiece)
type Quality int

// Quality bounds
const (
	QualityMin Quality = 1
	QualityMax Quality = 5
)

// IsValid checks if the quality is within 1..5
func (q Quality) IsValid() bool {
	return q >= QualityMin && q <= QualityMax
}

// LifecycleState represents where a content item is in its upload lifecycle
type LifecycleState string

// Lifecycle state constants
const (
	StateProcessing LifecycleState = "processing" // Uploaded, not yet visible
	StateLive       LifecycleState = "live"       // Public, metrics growing
)

// CanTransitionTo checks if a transition from current state to newState is valid
func (s LifecycleState) CanTransitionTo(newState LifecycleState) bool {
	// Processing -> live happens exactly once; nothing leaves live
	return s == StateProcessing && newState == StateLive
}

// Comment is a single pre-generated viewer comment
type Comment struct {
	ID         string     `json:"id"`
	User       string     `json:"user"`
	Text       string     `json:"text"`
	TimeAgo    string     `json:"timeAgo"`
	RevealedAt *time.Time `json:"revealedAt,omitempty"`
}

// Engagement holds the noisy engagement telemetry for a content item
type Engagement struct {
	AverageViewDuration  int     `json:"averageViewDuration"` // seconds
	ClickThroughRate     float64 `json:"clickThroughRate"`    // percent
	LikesToViewsRatio    float64 `json:"likesToViewsRatio"`   // percent
	DislikesToViewsRatio float64 `json:"dislikesToViewsRatio"`
}

// Analytics is a geographic and engagement breakdown for a view count
type Analytics struct {
	CountryStats map[string]int64 `json:"countryStats"`
	CityStats    map[string]int64 `json:"cityStats"`
	Engagement   Engagement       `json:"engagement"`
}

// ContentItem represents an uploaded video or release
type ContentItem struct {
	ID                string         `json:"id"`
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	Thumbnail         string         `json:"thumbnail"`
	Type              ContentType    `json:"type"`
	Quality           Quality        `json:"quality"`
	UploadDate        string         `json:"uploadDate"`
	State             LifecycleState `json:"state"`
	InitialViews      int64          `json:"initialViews"`
	CurrentViews      int64          `json:"currentViews"`
	InitialLikes      int64          `json:"initialLikes"`
	CurrentLikes      int64          `json:"currentLikes"`
	InitialDislikes   int64          `json:"initialDislikes"`
	CurrentDislikes   int64          `json:"currentDislikes"`
	TotalComments     []Comment      `json:"totalComments"`
	DisplayedComments []Comment      `json:"displayedComments"`
	Analytics         Analytics      `json:"analytics"`
	FileName          string         `json:"fileName,omitempty"`
	FileSize          int64          `json:"fileSize,omitempty"`
}

// IsLive returns true once the item has left processing
func (c *ContentItem) IsLive() bool {
	return c.State == StateLive
}

// RemainingComments returns how many pre-generated comments are still hidden
func (c *ContentItem) RemainingComments() int {
	return len(c.TotalComments) - len(c.DisplayedComments)
}

// Clone returns a copy that can be mutated without affecting the receiver.
// TotalComments is never mutated after creation so the backing array is shared;
// DisplayedComments is clipped so appends on the copy reallocate.
func (c ContentItem) Clone() ContentItem {
	c.DisplayedComments = slices.Clip(c.DisplayedComments)
	c.Analytics = c.Analytics.Clone()
	return c
}

// Clone returns a deep copy of the analytics maps
func (a Analytics) Clone() Analytics {
	a.CountryStats = cloneStats(a.CountryStats)
	a.CityStats = cloneStats(a.CityStats)
	return a
}

func cloneStats(in map[string]int64) map[string]int64 {
	if in == nil {
		return nil
	}
	out := make(map[string]int64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
