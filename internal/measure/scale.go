package measure

import (
	"fmt"
	"math"

	"github.com/nramsai/sizely/internal/detector"
)

// User height bounds and the default assumed when no height is supplied.
const (
	DefaultHeightCM = 170
	MinHeightCM     = 100
	MaxHeightCM     = 250
)

// CalibratorConfig holds the anatomical ratios and blend weights used for
// pixel-to-centimeter calibration. The ratios are calibration defaults, not
// physical law.
type CalibratorConfig struct {
	// MinVisibility is the landmark visibility threshold below which a
	// reference pair is considered unusable.
	MinVisibility float64

	// HeadToAnkleRatio is the nose-to-ankle share of total standing height.
	HeadToAnkleRatio float64

	// InseamRatio is the hip-to-ankle share of total standing height.
	InseamRatio float64

	// NoseAnkleWeight and HipAnkleWeight blend the two independent scale
	// estimates. Blending reduces the variance a single pose-sensitive
	// reference pair would carry.
	NoseAnkleWeight float64
	HipAnkleWeight  float64
}

// DefaultCalibratorConfig returns the standard calibration constants.
func DefaultCalibratorConfig() CalibratorConfig {
	return CalibratorConfig{
		MinVisibility:    0.5,
		HeadToAnkleRatio: 0.92,
		InseamRatio:      0.45,
		NoseAnkleWeight:  0.7,
		HipAnkleWeight:   0.3,
	}
}

// Calibrator converts pixel distances to centimeters using body proportion
// ratios and an optional user-supplied height.
type Calibrator struct {
	config CalibratorConfig
}

// NewCalibrator creates a Calibrator with the given configuration.
func NewCalibrator(config CalibratorConfig) *Calibrator {
	return &Calibrator{config: config}
}

// Calibrate derives the scale factor (pixels per centimeter) for a keypoint
// set. userHeightCM of 0 means unknown; out-of-bounds heights are clamped to
// [MinHeightCM, MaxHeightCM].
//
// Two independent estimates are blended:
//  1. nose-to-ankle vertical span over the head-to-ankle height share
//  2. hip-to-ankle vertical span over the inseam height share
//
// Both reference pairs must be visible, otherwise ErrInsufficientKeypoints
// is returned. A calibrator never guesses: a silently wrong scale corrupts
// every downstream measurement.
func (c *Calibrator) Calibrate(kps *detector.KeypointSet, userHeightCM float64) (float64, error) {
	height := userHeightCM
	if height == 0 {
		height = DefaultHeightCM
	}
	if height < MinHeightCM {
		height = MinHeightCM
	}
	if height > MaxHeightCM {
		height = MaxHeightCM
	}

	minVis := c.config.MinVisibility
	if !kps.AllVisible(minVis, detector.Nose, detector.LeftAnkle, detector.RightAnkle) {
		return 0, fmt.Errorf("%w: nose or ankles below visibility %.2f", ErrInsufficientKeypoints, minVis)
	}
	if !kps.AllVisible(minVis, detector.LeftHip, detector.RightHip) {
		return 0, fmt.Errorf("%w: hips below visibility %.2f", ErrInsufficientKeypoints, minVis)
	}

	ankleY := kps.MidY(detector.LeftAnkle, detector.RightAnkle)
	noseY := kps.Points[detector.Nose].Y
	hipY := kps.MidY(detector.LeftHip, detector.RightHip)

	noseToAnklePx := math.Abs(ankleY - noseY)
	hipToAnklePx := math.Abs(ankleY - hipY)
	if noseToAnklePx == 0 || hipToAnklePx == 0 {
		return 0, fmt.Errorf("%w: degenerate reference span", ErrInsufficientKeypoints)
	}

	scaleA := noseToAnklePx / (height * c.config.HeadToAnkleRatio)
	scaleB := hipToAnklePx / (height * c.config.InseamRatio)

	scale := c.config.NoseAnkleWeight*scaleA + c.config.HipAnkleWeight*scaleB
	if scale <= 0 || math.IsInf(scale, 0) || math.IsNaN(scale) {
		return 0, fmt.Errorf("%w: non-positive scale", ErrInsufficientKeypoints)
	}

	return scale, nil
}
