// Package gamedata holds the static tables and seed channels of the simulation.
package gamedata

import "github.com/stwalsh4118/punsta/internal/models"

// Economy constants
const (
	StartingMoney     int64 = 20_000_000
	MaxAdBudget       int64 = 100_000_000
	AdSubscriberRatio int64 = 10 // one subscriber per this many units of budget
	BaseSkillLevel          = 1
)

// PlaceholderThumbnail is used when no item thumbnail can be copied
const PlaceholderThumbnail = "/placeholder.svg?height=180&width=320"

// DefaultHomepageLayout is the section order for new and migrated channels
var DefaultHomepageLayout = []string{"latestVideos", "popularVideos", "playlists"}

var qualityMultipliers = map[models.Quality]float64{
	1: 0.1, // Poor
	2: 0.4, // Standard
	3: 1.0, // Good
	4: 2.0, // Great
	5: 5.0, // Masterpiece
}

var typeMultipliers = map[models.ContentType]float64{
	models.ContentTypeStandard: 1.0,
	models.ContentTypeRelease:  0.5,
}

// Milestones is ordered by metric then threshold
var Milestones = []models.MilestoneDefinition{
	{ID: "subs-100", Metric: models.MetricSubscribers, Threshold: 100, Message: "100 Subscribers!"},
	{ID: "subs-1k", Metric: models.MetricSubscribers, Threshold: 1_000, Message: "1,000 Subscribers! Keep it up!"},
	{ID: "subs-10k", Metric: models.MetricSubscribers, Threshold: 10_000, Message: "10,000 Subscribers! You're growing fast!"},
	{ID: "subs-100k", Metric: models.MetricSubscribers, Threshold: 100_000, Message: "100,000 Subscribers! Almost a silver play button!"},
	{ID: "subs-1m", Metric: models.MetricSubscribers, Threshold: 1_000_000, Message: "1,000,000 Subscribers! You're a Punsta star!"},
	{ID: "views-1k", Metric: models.MetricTotalViews, Threshold: 1_000, Message: "1,000 Total Views!"},
	{ID: "views-10k", Metric: models.MetricTotalViews, Threshold: 10_000, Message: "10,000 Total Views!"},
	{ID: "views-100k", Metric: models.MetricTotalViews, Threshold: 100_000, Message: "100,000 Total Views! Your content is reaching many!"},
	{ID: "views-1m", Metric: models.MetricTotalViews, Threshold: 1_000_000, Message: "1,000,000 Total Views! Incredible reach!"},
	{ID: "views-10m", Metric: models.MetricTotalViews, Threshold: 10_000_000, Message: "10,000,000 Total Views! Massive success!"},
}

// SkillLevels is ordered by level
var SkillLevels = []models.SkillLevelDefinition{
	{Level: 1, Cost: 0, Multiplier: 1.0},
	{Level: 2, Cost: 5_000, Multiplier: 1.1},
	{Level: 3, Cost: 25_000, Multiplier: 1.25},
	{Level: 4, Cost: 100_000, Multiplier: 1.5},
	{Level: 5, Cost: 500_000, Multiplier: 2.0},
}

// QualityMultiplier returns the growth multiplier for a quality, 1.0 if unknown
func QualityMultiplier(q models.Quality) float64 {
	if m, ok := qualityMultipliers[q]; ok {
		return m
	}
	return 1.0
}

// TypeMultiplier returns the growth multiplier for a content type, 1.0 if unknown
func TypeMultiplier(t models.ContentType) float64 {
	if m, ok := typeMultipliers[t]; ok {
		return m
	}
	return 1.0
}

// SkillMultiplier returns the multiplier for a skill level, 1.0 if unknown
func SkillMultiplier(level int) float64 {
	if def, ok := SkillLevel(level); ok {
		return def.Multiplier
	}
	return 1.0
}

// SkillLevel looks up a skill level definition
func SkillLevel(level int) (models.SkillLevelDefinition, bool) {
	for _, def := range SkillLevels {
		if def.Level == level {
			return def, true
		}
	}
	return models.SkillLevelDefinition{}, false
}

// NextSkillLevel returns the definition directly above level, if any
func NextSkillLevel(level int) (models.SkillLevelDefinition, bool) {
	return SkillLevel(level + 1)
}
