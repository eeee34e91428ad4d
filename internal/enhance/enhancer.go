// Package enhance refines geometric measurements with an AI vision model.
// Enhancement is strictly additive: the pipeline works without it and every
// failure degrades to the geometric baseline.
package enhance

import (
	"context"
	"errors"
	"math"

	"github.com/nramsai/sizely/internal/measure"
)

// ErrUnavailable is returned when no enhancement backend is configured or
// the backend cannot be reached. Callers fall back to the baseline.
var ErrUnavailable = errors.New("enhancement unavailable")

// Refinement is the model's adjustment to a geometric baseline.
type Refinement struct {
	// Measurements holds the refined values. Every baseline key is present.
	Measurements measure.Measurements

	// ConfidenceDelta adjusts the recommendation confidence, within [-20, 20].
	ConfidenceDelta int

	// BodyType is the model's visual read of the build, informational only.
	BodyType string

	// Reason explains any adjustments the model made.
	Reason string
}

// Enhancer refines a measurement baseline using the original photo.
type Enhancer interface {
	Refine(ctx context.Context, image []byte, baseline measure.Measurements) (*Refinement, error)
}

// Noop is the disabled enhancer. Refine always reports ErrUnavailable.
type Noop struct{}

func (Noop) Refine(context.Context, []byte, measure.Measurements) (*Refinement, error) {
	return nil, ErrUnavailable
}

// maxConfidenceDelta bounds how much the model may move the confidence in
// either direction.
const maxConfidenceDelta = 20

// sanitize guards the baseline against a hallucinating model: proposals
// deviating more than maxDeviationCM from the geometric value are discarded
// in favor of the baseline, and the confidence delta is clamped.
func sanitize(baseline measure.Measurements, proposed map[string]float64, maxDeviationCM float64, delta float64) (measure.Measurements, int) {
	out := baseline.Clone()
	for name, base := range baseline {
		v, ok := proposed[string(name)]
		if !ok {
			continue
		}
		if math.Abs(v-base) > maxDeviationCM {
			continue
		}
		out[name] = math.Round(v*10) / 10
	}

	d := int(math.Round(delta))
	if d > maxConfidenceDelta {
		d = maxConfidenceDelta
	}
	if d < -maxConfidenceDelta {
		d = -maxConfidenceDelta
	}
	return out, d
}
