// Package measure derives calibrated body measurements from detected
// keypoints: pixel-to-centimeter scale calibration, body-type classification
// and anthropometric measurement estimation.
package measure

import (
	"errors"
	"fmt"
	"math"
)

// ErrInsufficientKeypoints is returned when landmarks required for
// calibration or estimation are missing or below the visibility threshold.
// It is fatal for the whole request: measurements are interdependent and a
// partial set would be misleading.
var ErrInsufficientKeypoints = errors.New("insufficient keypoints")

// Name identifies one of the 15 body measurements.
type Name string

const (
	Chest       Name = "chest"
	Waist       Name = "waist"
	Hips        Name = "hips"
	Shoulder    Name = "shoulder"
	Arm         Name = "arm"
	Inseam      Name = "inseam"
	Neck        Name = "neck"
	Bicep       Name = "bicep"
	Wrist       Name = "wrist"
	Thigh       Name = "thigh"
	Calf        Name = "calf"
	Ankle       Name = "ankle"
	TorsoLength Name = "torso_length"
	BackWidth   Name = "back_width"
	Rise        Name = "rise"
)

// Names lists all measurements in canonical order.
var Names = []Name{
	Chest, Waist, Hips, Shoulder, Arm, Inseam,
	Neck, Bicep, Wrist, Thigh, Calf, Ankle,
	TorsoLength, BackWidth, Rise,
}

// Measurements maps measurement names to values in centimeters,
// rounded to one decimal.
type Measurements map[Name]float64

// Clone returns an independent copy of the measurement set.
func (m Measurements) Clone() Measurements {
	out := make(Measurements, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Equal reports whether both sets hold exactly the same values.
func (m Measurements) Equal(other Measurements) bool {
	if len(m) != len(other) {
		return false
	}
	for k, v := range m {
		if ov, ok := other[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Range is a closed [Low, High] interval in centimeters.
type Range struct {
	Low  float64 `json:"low" yaml:"low"`
	High float64 `json:"high" yaml:"high"`
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Low && v <= r.High
}

// DefaultRanges holds the sane physiological range for each measurement.
// Values outside these bounds indicate keypoint detection failure and are
// clamped with a warning rather than passed through.
var DefaultRanges = map[Name]Range{
	Chest:       {70, 130},
	Waist:       {55, 140},
	Hips:        {70, 150},
	Shoulder:    {32, 60},
	Arm:         {45, 75},
	Inseam:      {60, 95},
	Neck:        {30, 50},
	Bicep:       {20, 50},
	Wrist:       {10, 25},
	Thigh:       {40, 80},
	Calf:        {25, 50},
	Ankle:       {15, 30},
	TorsoLength: {35, 75},
	BackWidth:   {30, 55},
	Rise:        {8, 35},
}

// Warning records a non-fatal data-quality issue attached to a result.
type Warning struct {
	Measurement Name
	Raw         float64 // value before clamping
	Message     string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Measurement, w.Message)
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
