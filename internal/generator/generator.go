// Package generator produces synthetic comment pools and analytics for content items.
package generator

import (
	"math"

	"github.com/google/uuid"
	"github.com/stwalsh4118/punsta/internal/models"
	"github.com/stwalsh4118/punsta/internal/random"
)

// PendingTimeAgo is the placeholder shown until a comment is revealed
const PendingTimeAgo = "just now"

const (
	// ViralThreshold is the view count above which view durations run longer
	ViralThreshold = 100_000

	viralDurationSpan  = 600
	normalDurationSpan = 180
	minViewDuration    = 60
)

// allocation tunes one geographic dimension
type allocation struct {
	keys      []string
	divisor   int64 // random share is drawn from [0, remaining/divisor)
	minCap    int64 // guaranteed share per key is min(remaining/len/2, minCap)
	chunkSpan int   // leftover is handed out in chunks of [1, chunkSpan]
}

var (
	countryAllocation = allocation{keys: countries, divisor: 5, minCap: 50, chunkSpan: 100}
	cityAllocation    = allocation{keys: cities, divisor: 7, minCap: 30, chunkSpan: 50}
)

// Generator draws comments and analytics from an injected random source
type Generator struct {
	rng random.Source
}

// New creates a generator backed by rng
func New(rng random.Source) *Generator {
	return &Generator{rng: rng}
}

// GenerateComments returns exactly count comments in reveal order
func (g *Generator) GenerateComments(count int) []models.Comment {
	if count <= 0 {
		return []models.Comment{}
	}
	comments := make([]models.Comment, count)
	for i := range comments {
		comments[i] = models.Comment{
			ID:      uuid.NewString(),
			User:    random.Pick(g.rng, commentUsers),
			Text:    random.Pick(g.rng, commentPhrases),
			TimeAgo: PendingTimeAgo,
		}
	}
	return comments
}

// GenerateAnalytics returns a breakdown whose country and city values each sum to views
func (g *Generator) GenerateAnalytics(views int64) models.Analytics {
	if views < 0 {
		views = 0
	}

	durationSpan := normalDurationSpan
	if views > ViralThreshold {
		durationSpan = viralDurationSpan
	}

	return models.Analytics{
		CountryStats: g.allocate(views, countryAllocation),
		CityStats:    g.allocate(views, cityAllocation),
		Engagement: models.Engagement{
			AverageViewDuration:  g.rng.IntN(durationSpan) + minViewDuration,
			ClickThroughRate:     round2(random.Uniform(g.rng, 4, 7)),
			LikesToViewsRatio:    round2(random.Uniform(g.rng, 8, 16)),
			DislikesToViewsRatio: round2(random.Uniform(g.rng, 0.2, 1.7)),
		},
	}
}

// allocate splits total across the dimension's keys with no loss or overcount
func (g *Generator) allocate(total int64, a allocation) map[string]int64 {
	stats := make(map[string]int64, len(a.keys))
	remaining := total
	n := int64(len(a.keys))

	// Proportional pass
	for _, key := range a.keys {
		guaranteed := min(remaining/n/2, a.minCap)
		share := random.Int64N(g.rng, remaining/a.divisor) + guaranteed
		share = min(share, remaining)
		stats[key] = share
		remaining -= share
	}

	// Remainder pass
	for remaining > 0 {
		key := random.Pick(g.rng, a.keys)
		add := min(remaining, int64(g.rng.IntN(a.chunkSpan)+1))
		stats[key] += add
		remaining -= add
	}

	return stats
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
