package measure

import (
	"fmt"
	"math"

	"github.com/nramsai/sizely/internal/detector"
)

// EstimatorConfig centralizes the anthropometric constants behind the 15
// measurements: one table of multipliers and ranges, no logic. Calibrated
// against population proportion data; treat as tunable defaults.
type EstimatorConfig struct {
	// MinVisibility is the landmark visibility threshold; any required
	// landmark below it fails the whole estimate.
	MinVisibility float64

	// JointToEdge corrects MediaPipe joint-to-joint widths to the outer
	// edge-to-edge widths tailoring uses.
	JointToEdge float64

	// ChestMultipliers maps body type to the shoulder-width-to-chest-
	// circumference multiplier. ChestDefault covers unknown types.
	ChestMultipliers map[BodyType]float64
	ChestDefault     float64

	WaistMultiplier     float64
	HipsMultiplier      float64
	ArmMultiplier       float64
	InseamMultiplier    float64
	NeckMultiplier      float64
	BicepMultiplier     float64
	WristMultiplier     float64
	ThighMultiplier     float64
	CalfMultiplier      float64
	AnkleMultiplier     float64
	BackWidthMultiplier float64
	RiseMultiplier      float64

	// WaistLevelFraction places the waist line this far down the
	// shoulder-midpoint-to-hip-midpoint drop; the remainder is the rise base.
	WaistLevelFraction float64

	// Ranges are the per-measurement sane physiological bounds.
	Ranges map[Name]Range
}

// DefaultEstimatorConfig returns the standard estimation constants.
func DefaultEstimatorConfig() EstimatorConfig {
	return EstimatorConfig{
		MinVisibility: 0.5,
		JointToEdge:   1.17,
		ChestMultipliers: map[BodyType]float64{
			BodyTypeSlim:     1.95,
			BodyTypeAverage:  2.05,
			BodyTypeAthletic: 2.15,
			BodyTypeStocky:   2.25,
		},
		ChestDefault:        2.05,
		WaistMultiplier:     3.0,
		HipsMultiplier:      3.3,
		ArmMultiplier:       0.88,
		InseamMultiplier:    0.95,
		NeckMultiplier:      0.90,
		BicepMultiplier:     1.00,
		WristMultiplier:     0.62,
		ThighMultiplier:     1.5,
		CalfMultiplier:      0.90,
		AnkleMultiplier:     0.52,
		BackWidthMultiplier: 0.85,
		RiseMultiplier:      1.15,
		WaistLevelFraction:  0.75,
		Ranges:              DefaultRanges,
	}
}

// Estimator derives the 15 body measurements from keypoints, scale and body
// type. It is a pure function of its inputs: identical inputs always yield
// identical measurements.
type Estimator struct {
	config EstimatorConfig
}

// NewEstimator creates an Estimator with the given configuration.
func NewEstimator(config EstimatorConfig) *Estimator {
	return &Estimator{config: config}
}

// requiredLandmarks are the landmarks every estimate needs. The nose is only
// used by the calibrator.
var requiredLandmarks = []int{
	detector.LeftShoulder, detector.RightShoulder,
	detector.LeftElbow, detector.RightElbow,
	detector.LeftWrist, detector.RightWrist,
	detector.LeftHip, detector.RightHip,
	detector.LeftKnee, detector.RightKnee,
	detector.LeftAnkle, detector.RightAnkle,
}

// Estimate computes all 15 measurements in centimeters.
//
// Limb lengths average the left and right sides: a person not perfectly
// square to the camera shows asymmetric pixel lengths, and the average
// cancels most of that bias. Leg lengths sum the hip-knee and knee-ankle
// segments because a bent leg inflates the pure vertical span's error.
//
// Every value is clamped to its sane range; clamping produces a Warning,
// not an error. Missing required landmarks fail with
// ErrInsufficientKeypoints.
func (e *Estimator) Estimate(kps *detector.KeypointSet, scale float64, bodyType BodyType) (Measurements, []Warning, error) {
	if scale <= 0 {
		return nil, nil, fmt.Errorf("%w: non-positive scale", ErrInsufficientKeypoints)
	}
	for _, idx := range requiredLandmarks {
		if !kps.Visible(idx, e.config.MinVisibility) {
			return nil, nil, fmt.Errorf("%w: %s below visibility %.2f",
				ErrInsufficientKeypoints, detector.LandmarkName(idx), e.config.MinVisibility)
		}
	}

	// Base quantities in centimeters.
	shoulderCM := kps.ShoulderWidth() / scale
	hipCM := kps.HipWidth() / scale

	upperArmCM := e.bilateral(kps,
		[2]int{detector.LeftShoulder, detector.LeftElbow},
		[2]int{detector.RightShoulder, detector.RightElbow}) / scale
	forearmCM := e.bilateral(kps,
		[2]int{detector.LeftElbow, detector.LeftWrist},
		[2]int{detector.RightElbow, detector.RightWrist}) / scale
	armPathCM := upperArmCM + forearmCM

	thighSegCM := e.bilateral(kps,
		[2]int{detector.LeftHip, detector.LeftKnee},
		[2]int{detector.RightHip, detector.RightKnee}) / scale
	lowerLegCM := e.bilateral(kps,
		[2]int{detector.LeftKnee, detector.LeftAnkle},
		[2]int{detector.RightKnee, detector.RightAnkle}) / scale
	legPathCM := thighSegCM + lowerLegCM

	shoulderMidX, shoulderMidY := kps.Midpoint(detector.LeftShoulder, detector.RightShoulder)
	hipMidX, hipMidY := kps.Midpoint(detector.LeftHip, detector.RightHip)
	torsoCM := math.Hypot(hipMidX-shoulderMidX, hipMidY-shoulderMidY) / scale

	// Waist level sits partway down the torso; the hip-to-waist-level
	// vertical remainder is the base of the rise measurement.
	riseBaseCM := (1 - e.config.WaistLevelFraction) * (hipMidY - shoulderMidY) / scale

	chestMult, ok := e.config.ChestMultipliers[bodyType]
	if !ok {
		chestMult = e.config.ChestDefault
	}

	corrected := shoulderCM * e.config.JointToEdge

	raw := Measurements{
		Chest:       shoulderCM * chestMult,
		Waist:       hipCM * e.config.WaistMultiplier,
		Hips:        hipCM * e.config.HipsMultiplier,
		Shoulder:    shoulderCM,
		Arm:         armPathCM * e.config.ArmMultiplier,
		Inseam:      legPathCM * e.config.InseamMultiplier,
		Neck:        corrected * e.config.NeckMultiplier,
		Bicep:       upperArmCM * e.config.BicepMultiplier,
		Wrist:       forearmCM * e.config.WristMultiplier,
		Thigh:       hipCM * e.config.JointToEdge * e.config.ThighMultiplier,
		Calf:        lowerLegCM * e.config.CalfMultiplier,
		Ankle:       lowerLegCM * e.config.AnkleMultiplier,
		TorsoLength: torsoCM,
		BackWidth:   corrected * e.config.BackWidthMultiplier,
		Rise:        riseBaseCM * e.config.RiseMultiplier,
	}

	measurements := make(Measurements, len(Names))
	var warnings []Warning

	for _, name := range Names {
		value := round1(raw[name])
		if r, ok := e.config.Ranges[name]; ok && !r.Contains(value) {
			clamped := value
			if clamped < r.Low {
				clamped = r.Low
			}
			if clamped > r.High {
				clamped = r.High
			}
			warnings = append(warnings, Warning{
				Measurement: name,
				Raw:         value,
				Message: fmt.Sprintf("computed %.1f cm outside sane range [%.0f, %.0f], clamped to %.1f",
					value, r.Low, r.High, clamped),
			})
			value = clamped
		}
		measurements[name] = value
	}

	return measurements, warnings, nil
}

// bilateral returns the mean pixel length of the mirrored left/right segments.
func (e *Estimator) bilateral(kps *detector.KeypointSet, left, right [2]int) float64 {
	return (kps.Distance(left[0], left[1]) + kps.Distance(right[0], right[1])) / 2
}
