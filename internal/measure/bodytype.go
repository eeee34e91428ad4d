package measure

import "github.com/nramsai/sizely/internal/detector"

// BodyType is a coarse categorical descriptor of build, used to select
// multiplier variants in the estimator.
type BodyType string

const (
	BodyTypeSlim     BodyType = "slim"
	BodyTypeAthletic BodyType = "athletic"
	BodyTypeAverage  BodyType = "average"
	BodyTypeStocky   BodyType = "stocky"
)

// ClassifierConfig holds the shoulder-to-hip ratio cutoffs for body-type
// classification. The bands are ordinal over the ratio and empirically tuned.
type ClassifierConfig struct {
	// StockyBelow: hips clearly wider than shoulders.
	StockyBelow float64
	// SlimBelow: shoulders barely wider than hips, narrow frame.
	SlimBelow float64
	// AthleticAbove: shoulders clearly broader than hips.
	AthleticAbove float64
}

// DefaultClassifierConfig returns the standard classification cutoffs.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		StockyBelow:   0.95,
		SlimBelow:     1.05,
		AthleticAbove: 1.35,
	}
}

// Classify assigns a body type from the shoulder-to-hip pixel width ratio.
// It is a total function: ambiguous or degenerate input maps to
// BodyTypeAverage, never to "no category".
func Classify(kps *detector.KeypointSet, config ClassifierConfig) BodyType {
	shoulderW := kps.ShoulderWidth()
	hipW := kps.HipWidth()
	if hipW <= 0 || shoulderW <= 0 {
		return BodyTypeAverage
	}

	ratio := shoulderW / hipW
	switch {
	case ratio < config.StockyBelow:
		return BodyTypeStocky
	case ratio < config.SlimBelow:
		return BodyTypeSlim
	case ratio >= config.AthleticAbove:
		return BodyTypeAthletic
	default:
		return BodyTypeAverage
	}
}
