package engine

import (
	"math"
	"time"

	"github.com/stwalsh4118/punsta/internal/gamedata"
	"github.com/stwalsh4118/punsta/internal/generator"
	"github.com/stwalsh4118/punsta/internal/models"
	"github.com/stwalsh4118/punsta/internal/random"
)

// GrowthPhase is where an item's metrics process currently is
type GrowthPhase int

// Growth phases
const (
	PhaseIdle      GrowthPhase = iota // Attached, targets not yet rolled
	PhaseGrowing                      // Closing the gap to the rolled targets
	PhaseTrickling                    // Targets reached, residual noise only
)

func (p GrowthPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseGrowing:
		return "growing"
	case PhaseTrickling:
		return "trickling"
	default:
		return "unknown"
	}
}

const (
	growthRatioScale  = 1000
	growthBaseStep    = 10
	growthGapFraction = 0.05
	maxGrowthPerTick  = 500

	trickleViewsSpan = 5
	pullMin          = 0.01
	pullMax          = 0.06
)

// Target bands as multiples of the initial metric
var (
	viewsTargetBand    = [2]float64{5, 10}
	likesTargetBand    = [2]float64{2, 5}
	dislikesTargetBand = [2]float64{1, 3}
)

// metricGap tracks one metric's rolled target and how much of it is still owed
type metricGap struct {
	target    int64
	remaining int64
}

func newMetricGap(initial, current int64, band [2]float64, multiplier float64, src random.Source) metricGap {
	target := int64(math.Floor(float64(initial) * random.Uniform(src, band[0], band[1]) * multiplier))
	return metricGap{target: target, remaining: max(0, target-current)}
}

// advance returns the increment for this tick and shrinks the gap by it
func (m *metricGap) advance() int64 {
	if m.remaining <= 0 || m.target <= 0 {
		m.remaining = 0
		return 0
	}
	ratio := float64(m.remaining) / float64(m.target)
	inc := min(
		int64(math.Ceil(ratio*growthRatioScale+growthBaseStep)),
		max(1, int64(math.Floor(float64(m.remaining)*growthGapFraction))),
		maxGrowthPerTick,
	)
	inc = min(inc, m.remaining)
	m.remaining -= inc
	return inc
}

// growthProcess is the per-item growth state machine. It is not persisted; targets
// are re-rolled whenever a process is attached.
type growthProcess struct {
	phase    GrowthPhase
	views    metricGap
	likes    metricGap
	dislikes metricGap
}

func (g *growthProcess) begin(item *models.ContentItem, src random.Source) {
	multiplier := gamedata.QualityMultiplier(item.Quality) * gamedata.TypeMultiplier(item.Type)
	g.views = newMetricGap(item.InitialViews, item.CurrentViews, viewsTargetBand, multiplier, src)
	g.likes = newMetricGap(item.InitialLikes, item.CurrentLikes, likesTargetBand, multiplier, src)
	g.dislikes = newMetricGap(item.InitialDislikes, item.CurrentDislikes, dislikesTargetBand, multiplier, src)
	g.phase = PhaseGrowing
}

func (g *growthProcess) done() bool {
	return g.views.remaining <= 0 && g.likes.remaining <= 0 && g.dislikes.remaining <= 0
}

// step advances item by one growth tick. Metrics never drop below their current or
// initial values.
func (g *growthProcess) step(item *models.ContentItem, src random.Source, gen *generator.Generator) {
	if g.phase == PhaseIdle {
		g.begin(item, src)
	}

	if g.phase == PhaseGrowing && g.done() {
		g.phase = PhaseTrickling
	}

	switch g.phase {
	case PhaseGrowing:
		item.CurrentViews += g.views.advance()
		item.CurrentLikes += g.likes.advance()
		item.CurrentDislikes += g.dislikes.advance()
		if g.done() {
			g.phase = PhaseTrickling
		}
	case PhaseTrickling:
		item.CurrentViews += int64(src.IntN(trickleViewsSpan))
		engagement := item.Analytics.Engagement
		item.CurrentLikes = pullToward(item.CurrentLikes, float64(item.CurrentViews)*engagement.LikesToViewsRatio/100, src)
		item.CurrentDislikes = pullToward(item.CurrentDislikes, float64(item.CurrentViews)*engagement.DislikesToViewsRatio/100, src)
	}

	item.CurrentViews = max(item.CurrentViews, item.InitialViews)
	item.CurrentLikes = max(item.CurrentLikes, item.InitialLikes)
	item.CurrentDislikes = max(item.CurrentDislikes, item.InitialDislikes)
	item.Analytics = gen.GenerateAnalytics(item.CurrentViews)
}

// pullToward moves current a random fraction of the way to expected, upward only
func pullToward(current int64, expected float64, src random.Source) int64 {
	delta := int64(math.Floor((expected - float64(current)) * random.Uniform(src, pullMin, pullMax)))
	if delta <= 0 {
		return current
	}
	return current + delta
}

// revealNext appends the next hidden comment stamped with at, returning false once the
// pool is exhausted
func revealNext(item *models.ContentItem, at time.Time) bool {
	next := len(item.DisplayedComments)
	if next >= len(item.TotalComments) {
		return false
	}
	comment := item.TotalComments[next]
	comment.RevealedAt = &at
	item.DisplayedComments = append(item.DisplayedComments, comment)
	return true
}
