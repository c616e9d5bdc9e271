package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/punsta/internal/random"
)

func sum(stats map[string]int64) int64 {
	var total int64
	for _, v := range stats {
		total += v
	}
	return total
}

func TestGenerateComments_ExactCount(t *testing.T) {
	gen := New(random.New(1))

	for _, count := range []int{0, 1, 10, 250} {
		comments := gen.GenerateComments(count)
		require.Len(t, comments, count)

		seen := make(map[string]bool, count)
		for _, c := range comments {
			assert.NotEmpty(t, c.ID)
			assert.Contains(t, commentUsers, c.User)
			assert.Contains(t, commentPhrases, c.Text)
			assert.Equal(t, PendingTimeAgo, c.TimeAgo)
			assert.Nil(t, c.RevealedAt)
			assert.False(t, seen[c.ID], "comment IDs must be unique")
			seen[c.ID] = true
		}
	}
}

func TestGenerateComments_NegativeCount(t *testing.T) {
	gen := New(random.New(1))

	comments := gen.GenerateComments(-3)

	assert.NotNil(t, comments)
	assert.Empty(t, comments)
}

func TestGenerateAnalytics_SumsToViews(t *testing.T) {
	gen := New(random.New(99))

	viewCounts := []int64{0, 1, 7, 19, 100, 999, 1000, 12_345, 100_000, 100_001, 5_000_000, 100_000_000}
	for _, views := range viewCounts {
		for i := 0; i < 20; i++ {
			a := gen.GenerateAnalytics(views)

			assert.Equal(t, views, sum(a.CountryStats), "country stats for %d views", views)
			assert.Equal(t, views, sum(a.CityStats), "city stats for %d views", views)
			assert.Len(t, a.CountryStats, len(countries))
			assert.Len(t, a.CityStats, len(cities))

			for _, v := range a.CountryStats {
				assert.GreaterOrEqual(t, v, int64(0))
			}
			for _, v := range a.CityStats {
				assert.GreaterOrEqual(t, v, int64(0))
			}
		}
	}
}

func TestGenerateAnalytics_ExtremeDraws(t *testing.T) {
	// Always-max and always-min draws must still account for every view
	for _, src := range []random.Source{random.Fixed(0), random.Fixed(0.999999)} {
		gen := New(src)
		for _, views := range []int64{0, 3, 1000, 77_777} {
			a := gen.GenerateAnalytics(views)
			assert.Equal(t, views, sum(a.CountryStats))
			assert.Equal(t, views, sum(a.CityStats))
		}
	}
}

func TestGenerateAnalytics_NegativeViews(t *testing.T) {
	gen := New(random.New(5))

	a := gen.GenerateAnalytics(-10)

	assert.Equal(t, int64(0), sum(a.CountryStats))
	assert.Equal(t, int64(0), sum(a.CityStats))
}

func TestGenerateAnalytics_EngagementBands(t *testing.T) {
	gen := New(random.New(11))

	for i := 0; i < 500; i++ {
		small := gen.GenerateAnalytics(1000).Engagement
		assert.GreaterOrEqual(t, small.AverageViewDuration, 60)
		assert.Less(t, small.AverageViewDuration, 240)

		viral := gen.GenerateAnalytics(ViralThreshold + 1).Engagement
		assert.GreaterOrEqual(t, viral.AverageViewDuration, 60)
		assert.Less(t, viral.AverageViewDuration, 660)

		assert.GreaterOrEqual(t, small.ClickThroughRate, 4.0)
		assert.LessOrEqual(t, small.ClickThroughRate, 7.0)
		assert.GreaterOrEqual(t, small.LikesToViewsRatio, 8.0)
		assert.LessOrEqual(t, small.LikesToViewsRatio, 16.0)
		assert.GreaterOrEqual(t, small.DislikesToViewsRatio, 0.2)
		assert.LessOrEqual(t, small.DislikesToViewsRatio, 1.7)
	}
}

func TestDimensionKeysAreCopies(t *testing.T) {
	keys := Countries()
	keys[0] = "Atlantis"

	assert.Equal(t, "USA", Countries()[0])
	assert.Len(t, Cities(), 15)
}
