package sizing

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/nramsai/sizely/internal/measure"
)

// Recommendation is the outcome of matching measurements against a chart.
type Recommendation struct {
	Size        string             `json:"recommended_size"`
	Confidence  int                `json:"confidence"`
	Explanation string             `json:"explanation"`
	Scores      map[string]float64 `json:"all_size_scores"`
}

// Recommender scores measurements against one chart with one weight profile.
type Recommender struct {
	chart   Chart
	profile Profile
}

// NewRecommender validates the chart and builds a recommender for it.
func NewRecommender(chart Chart, profile Profile) (*Recommender, error) {
	if err := chart.Validate(); err != nil {
		return nil, err
	}
	if len(profile.Weights) == 0 {
		return nil, fmt.Errorf("profile %q has no weights", profile.Garment)
	}
	return &Recommender{chart: chart, profile: profile}, nil
}

// Recommend picks the best fitting size. Every size gets a 0-100 score and
// the highest wins; on an exact tie the size listed earlier in the chart is
// chosen, so a between-sizes result resolves to the smaller size.
func (r *Recommender) Recommend(m measure.Measurements) (*Recommendation, error) {
	if len(m) == 0 {
		return nil, fmt.Errorf("no measurements to score")
	}

	scores := make(map[string]float64, len(r.chart.Sizes))
	best := ""
	bestScore := math.Inf(-1)
	for _, size := range r.chart.Sizes {
		score := r.fitScore(m, size.Ranges)
		scores[size.Label] = score
		if score > bestScore {
			best = size.Label
			bestScore = score
		}
	}

	// Round, not truncate: centered measurements score a hair under 100 in
	// float arithmetic and must still report full confidence.
	confidence := int(math.Round(bestScore))
	if confidence > 100 {
		confidence = 100
	}
	if confidence < 0 {
		confidence = 0
	}

	return &Recommendation{
		Size:        best,
		Confidence:  confidence,
		Explanation: r.explain(m, best, bestScore),
		Scores:      scores,
	}, nil
}

// fitScore rates how well measurements match one size's ranges.
//
// Inside a range the score peaks at 100 in the center and falls linearly to
// 0 at the edges; outside it loses 10 points per centimeter of distance.
// The per-measurement scores combine as a weighted average over the
// profile's full weight mass, so a missing weighted measurement drags the
// score down rather than being silently ignored.
func (r *Recommender) fitScore(m measure.Measurements, ranges map[measure.Name]measure.Range) float64 {
	var weightedSum, totalWeight float64
	for name, weight := range r.profile.Weights {
		if weight <= 0 {
			continue
		}
		totalWeight += weight

		value, ok := m[name]
		if !ok {
			continue
		}
		rng, ok := ranges[name]
		if !ok {
			continue
		}

		var score float64
		if rng.Contains(value) {
			center := (rng.Low + rng.High) / 2
			halfWidth := (rng.High - rng.Low) / 2
			score = 100 * (1 - math.Abs(value-center)/halfWidth)
		} else {
			distance := rng.Low - value
			if value > rng.High {
				distance = value - rng.High
			}
			score = math.Max(0, 100-distance*10)
		}
		weightedSum += score * weight
	}

	if totalWeight == 0 {
		return 0
	}
	return weightedSum / totalWeight
}

func (r *Recommender) explain(m measure.Measurements, label string, score float64) string {
	var ranges map[measure.Name]measure.Range
	for _, size := range r.chart.Sizes {
		if size.Label == label {
			ranges = size.Ranges
			break
		}
	}

	var snug, loose []string
	for name, rng := range ranges {
		value, ok := m[name]
		if !ok {
			continue
		}
		if value > rng.High {
			snug = append(snug, string(name))
		} else if value < rng.Low {
			loose = append(loose, string(name))
		}
	}
	sort.Strings(snug)
	sort.Strings(loose)

	var b strings.Builder
	switch {
	case score >= 90:
		fmt.Fprintf(&b, "%s size %s. Excellent fit across your key measurements.", r.profile.Garment, label)
	case score >= 75:
		fmt.Fprintf(&b, "%s size %s. Good fit for your measurements.", r.profile.Garment, label)
	case score >= 60:
		fmt.Fprintf(&b, "%s size %s recommended, but fit may vary by brand.", r.profile.Garment, label)
	default:
		fmt.Fprintf(&b, "%s size %s is the closest match. Consider trying adjacent sizes.", r.profile.Garment, label)
	}

	if chest, ok := m[measure.Chest]; ok {
		if shoulder, ok := m[measure.Shoulder]; ok && score >= 75 {
			fmt.Fprintf(&b, " Based on chest %.1f cm and shoulders %.1f cm.", chest, shoulder)
		}
	}
	if len(snug) > 0 {
		fmt.Fprintf(&b, " May be slightly snug in %s.", strings.Join(snug, ", "))
	}
	if len(loose) > 0 {
		fmt.Fprintf(&b, " May be slightly loose in %s.", strings.Join(loose, ", "))
	}

	return b.String()
}
