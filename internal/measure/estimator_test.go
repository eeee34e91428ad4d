package measure

import (
	"errors"
	"math"
	"testing"

	"github.com/nramsai/sizely/internal/detector"
)

func TestEstimateFittedPose(t *testing.T) {
	e := NewEstimator(DefaultEstimatorConfig())
	kps := detector.FittedPoseKeypoints()

	measurements, warnings, err := e.Estimate(kps, 5.0, BodyTypeAverage)
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings for a clean pose, got %v", warnings)
	}

	// Chest is 45 * 2.05, which lands a hair under 92.25 in float
	// arithmetic and rounds down.
	want := Measurements{
		Chest:       92.2,
		Waist:       114.0,
		Hips:        125.4,
		Shoulder:    45.0,
		Arm:         56.1,
		Inseam:      72.7,
		Neck:        47.4,
		Bicep:       31.5,
		Wrist:       20.0,
		Thigh:       66.7,
		Calf:        34.6,
		Ankle:       20.0,
		TorsoLength: 49.9,
		BackWidth:   44.8,
		Rise:        14.3,
	}
	for _, name := range Names {
		got, ok := measurements[name]
		if !ok {
			t.Errorf("missing measurement %s", name)
			continue
		}
		if math.Abs(got-want[name]) > 0.05 {
			t.Errorf("%s: got %v cm, want %v cm", name, got, want[name])
		}
	}
}

func TestEstimateAllWithinRanges(t *testing.T) {
	e := NewEstimator(DefaultEstimatorConfig())

	poses := map[string]*detector.KeypointSet{
		"fitted":   detector.FittedPoseKeypoints(),
		"standing": detector.StandingPoseKeypoints(),
	}
	c := NewCalibrator(DefaultCalibratorConfig())

	for name, kps := range poses {
		t.Run(name, func(t *testing.T) {
			scale, err := c.Calibrate(kps, 170)
			if err != nil {
				t.Fatalf("Calibrate failed: %v", err)
			}
			measurements, _, err := e.Estimate(kps, scale, Classify(kps, DefaultClassifierConfig()))
			if err != nil {
				t.Fatalf("Estimate failed: %v", err)
			}
			if len(measurements) != len(Names) {
				t.Fatalf("expected %d measurements, got %d", len(Names), len(measurements))
			}
			for _, m := range Names {
				r := DefaultRanges[m]
				if !r.Contains(measurements[m]) {
					t.Errorf("%s = %v cm outside [%v, %v]", m, measurements[m], r.Low, r.High)
				}
			}
		})
	}
}

func TestEstimateClampWarnings(t *testing.T) {
	e := NewEstimator(DefaultEstimatorConfig())
	c := NewCalibrator(DefaultCalibratorConfig())
	kps := detector.StandingPoseKeypoints()

	scale, err := c.Calibrate(kps, 170)
	if err != nil {
		t.Fatalf("Calibrate failed: %v", err)
	}
	measurements, warnings, err := e.Estimate(kps, scale, BodyTypeAverage)
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}

	// This narrow pose computes chest and arm below their sane ranges.
	clamped := map[Name]bool{}
	for _, w := range warnings {
		clamped[w.Measurement] = true
		r := DefaultRanges[w.Measurement]
		if r.Contains(w.Raw) {
			t.Errorf("warning for %s carries in-range raw value %v", w.Measurement, w.Raw)
		}
	}
	if !clamped[Chest] || !clamped[Arm] {
		t.Errorf("expected chest and arm clamp warnings, got %v", warnings)
	}
	if measurements[Chest] != DefaultRanges[Chest].Low {
		t.Errorf("chest should clamp to %v, got %v", DefaultRanges[Chest].Low, measurements[Chest])
	}
	if measurements[Arm] != DefaultRanges[Arm].Low {
		t.Errorf("arm should clamp to %v, got %v", DefaultRanges[Arm].Low, measurements[Arm])
	}
}

func TestEstimateIncreasesWithHeight(t *testing.T) {
	e := NewEstimator(DefaultEstimatorConfig())
	c := NewCalibrator(DefaultCalibratorConfig())
	kps := detector.FittedPoseKeypoints()

	prev := 0.0
	for _, h := range []float64{150, 160, 170, 180, 190} {
		scale, err := c.Calibrate(kps, h)
		if err != nil {
			t.Fatalf("Calibrate at %v cm failed: %v", h, err)
		}
		measurements, _, err := e.Estimate(kps, scale, BodyTypeAverage)
		if err != nil {
			t.Fatalf("Estimate at %v cm failed: %v", h, err)
		}
		if measurements[Chest] <= prev {
			t.Errorf("chest should strictly increase with height: %v cm gave %v, previous %v",
				h, measurements[Chest], prev)
		}
		prev = measurements[Chest]
	}
}

func TestEstimateChestVariesByBodyType(t *testing.T) {
	e := NewEstimator(DefaultEstimatorConfig())
	kps := detector.FittedPoseKeypoints()

	order := []BodyType{BodyTypeSlim, BodyTypeAverage, BodyTypeAthletic, BodyTypeStocky}
	prev := 0.0
	for _, bt := range order {
		measurements, _, err := e.Estimate(kps, 5.0, bt)
		if err != nil {
			t.Fatalf("Estimate for %s failed: %v", bt, err)
		}
		if measurements[Chest] <= prev {
			t.Errorf("chest for %s should exceed the previous body type: got %v, previous %v",
				bt, measurements[Chest], prev)
		}
		prev = measurements[Chest]
	}
}

func TestEstimateIdempotent(t *testing.T) {
	e := NewEstimator(DefaultEstimatorConfig())
	kps := detector.FittedPoseKeypoints()

	first, _, err := e.Estimate(kps, 5.0, BodyTypeAverage)
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	second, _, err := e.Estimate(kps, 5.0, BodyTypeAverage)
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	for _, m := range Names {
		if first[m] != second[m] {
			t.Errorf("%s not reproducible: %v vs %v", m, first[m], second[m])
		}
	}
}

func TestEstimateInsufficientKeypoints(t *testing.T) {
	e := NewEstimator(DefaultEstimatorConfig())

	_, _, err := e.Estimate(detector.HiddenAnklesKeypoints(), 5.0, BodyTypeAverage)
	if !errors.Is(err, ErrInsufficientKeypoints) {
		t.Errorf("expected ErrInsufficientKeypoints, got %v", err)
	}

	_, _, err = e.Estimate(detector.FittedPoseKeypoints(), 0, BodyTypeAverage)
	if !errors.Is(err, ErrInsufficientKeypoints) {
		t.Errorf("expected ErrInsufficientKeypoints for zero scale, got %v", err)
	}
}
