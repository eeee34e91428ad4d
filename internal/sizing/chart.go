// Package sizing matches body measurements against garment size charts and
// produces a recommendation with a fit score and a human-readable explanation.
package sizing

import (
	"errors"
	"fmt"

	"github.com/nramsai/sizely/internal/measure"
)

// ErrInvalidChart is returned when a size chart fails validation.
var ErrInvalidChart = errors.New("invalid size chart")

// Gender selects which built-in chart applies.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderUnisex Gender = "unisex"
)

// Size is one labeled entry of a chart with per-measurement fit ranges.
type Size struct {
	Label  string                        `json:"label" yaml:"label"`
	Ranges map[measure.Name]measure.Range `json:"ranges" yaml:"ranges"`
}

// Chart is an ordered list of sizes. Order matters: score ties resolve to
// the earlier size, so charts list sizes smallest first.
type Chart struct {
	Name  string `json:"name" yaml:"name"`
	Sizes []Size `json:"sizes" yaml:"sizes"`
}

// Validate checks structural soundness: at least one size, unique non-empty
// labels, every range non-empty with Low < High.
func (c Chart) Validate() error {
	if len(c.Sizes) == 0 {
		return fmt.Errorf("%w: no sizes", ErrInvalidChart)
	}
	seen := make(map[string]bool, len(c.Sizes))
	for _, s := range c.Sizes {
		if s.Label == "" {
			return fmt.Errorf("%w: size with empty label", ErrInvalidChart)
		}
		if seen[s.Label] {
			return fmt.Errorf("%w: duplicate size label %q", ErrInvalidChart, s.Label)
		}
		seen[s.Label] = true
		if len(s.Ranges) == 0 {
			return fmt.Errorf("%w: size %q has no measurement ranges", ErrInvalidChart, s.Label)
		}
		for name, r := range s.Ranges {
			if r.Low >= r.High {
				return fmt.Errorf("%w: size %q range %s has low %.1f >= high %.1f",
					ErrInvalidChart, s.Label, name, r.Low, r.High)
			}
		}
	}
	return nil
}

// ChartFor returns the built-in chart for a gender. Unisex uses men's sizing.
func ChartFor(gender Gender) Chart {
	if gender == GenderFemale {
		return WomensChart()
	}
	return MensChart()
}

// MensChart returns the standard men's size chart, all values in centimeters.
func MensChart() Chart {
	return Chart{
		Name: "mens-standard",
		Sizes: []Size{
			{Label: "XS", Ranges: map[measure.Name]measure.Range{
				measure.Chest: {Low: 81, High: 86}, measure.Waist: {Low: 66, High: 71},
				measure.Hips: {Low: 86, High: 91}, measure.Inseam: {Low: 76, High: 79},
				measure.Shoulder: {Low: 42, High: 44}, measure.Arm: {Low: 58, High: 60},
			}},
			{Label: "S", Ranges: map[measure.Name]measure.Range{
				measure.Chest: {Low: 86, High: 91}, measure.Waist: {Low: 71, High: 76},
				measure.Hips: {Low: 91, High: 96}, measure.Inseam: {Low: 79, High: 81},
				measure.Shoulder: {Low: 44, High: 46}, measure.Arm: {Low: 60, High: 62},
			}},
			{Label: "M", Ranges: map[measure.Name]measure.Range{
				measure.Chest: {Low: 91, High: 97}, measure.Waist: {Low: 76, High: 81},
				measure.Hips: {Low: 96, High: 102}, measure.Inseam: {Low: 81, High: 84},
				measure.Shoulder: {Low: 46, High: 48}, measure.Arm: {Low: 62, High: 64},
			}},
			{Label: "L", Ranges: map[measure.Name]measure.Range{
				measure.Chest: {Low: 97, High: 102}, measure.Waist: {Low: 81, High: 86},
				measure.Hips: {Low: 102, High: 107}, measure.Inseam: {Low: 84, High: 86},
				measure.Shoulder: {Low: 48, High: 50}, measure.Arm: {Low: 64, High: 66},
			}},
			{Label: "XL", Ranges: map[measure.Name]measure.Range{
				measure.Chest: {Low: 102, High: 107}, measure.Waist: {Low: 86, High: 91},
				measure.Hips: {Low: 107, High: 112}, measure.Inseam: {Low: 86, High: 89},
				measure.Shoulder: {Low: 50, High: 52}, measure.Arm: {Low: 66, High: 68},
			}},
			{Label: "XXL", Ranges: map[measure.Name]measure.Range{
				measure.Chest: {Low: 107, High: 114}, measure.Waist: {Low: 91, High: 99},
				measure.Hips: {Low: 112, High: 119}, measure.Inseam: {Low: 89, High: 91},
				measure.Shoulder: {Low: 52, High: 54}, measure.Arm: {Low: 68, High: 71},
			}},
		},
	}
}

// WomensChart returns the standard women's size chart, all values in
// centimeters.
func WomensChart() Chart {
	return Chart{
		Name: "womens-standard",
		Sizes: []Size{
			{Label: "XS", Ranges: map[measure.Name]measure.Range{
				measure.Chest: {Low: 76, High: 81}, measure.Waist: {Low: 58, High: 63},
				measure.Hips: {Low: 84, High: 89}, measure.Inseam: {Low: 74, High: 76},
				measure.Shoulder: {Low: 36, High: 38}, measure.Arm: {Low: 56, High: 58},
			}},
			{Label: "S", Ranges: map[measure.Name]measure.Range{
				measure.Chest: {Low: 81, High: 86}, measure.Waist: {Low: 63, High: 68},
				measure.Hips: {Low: 89, High: 94}, measure.Inseam: {Low: 76, High: 79},
				measure.Shoulder: {Low: 38, High: 40}, measure.Arm: {Low: 58, High: 60},
			}},
			{Label: "M", Ranges: map[measure.Name]measure.Range{
				measure.Chest: {Low: 86, High: 91}, measure.Waist: {Low: 68, High: 73},
				measure.Hips: {Low: 94, High: 99}, measure.Inseam: {Low: 79, High: 81},
				measure.Shoulder: {Low: 40, High: 42}, measure.Arm: {Low: 60, High: 62},
			}},
			{Label: "L", Ranges: map[measure.Name]measure.Range{
				measure.Chest: {Low: 91, High: 99}, measure.Waist: {Low: 73, High: 81},
				measure.Hips: {Low: 99, High: 107}, measure.Inseam: {Low: 81, High: 84},
				measure.Shoulder: {Low: 42, High: 44}, measure.Arm: {Low: 62, High: 64},
			}},
			{Label: "XL", Ranges: map[measure.Name]measure.Range{
				measure.Chest: {Low: 99, High: 107}, measure.Waist: {Low: 81, High: 89},
				measure.Hips: {Low: 107, High: 114}, measure.Inseam: {Low: 84, High: 86},
				measure.Shoulder: {Low: 44, High: 46}, measure.Arm: {Low: 64, High: 66},
			}},
			{Label: "XXL", Ranges: map[measure.Name]measure.Range{
				measure.Chest: {Low: 107, High: 117}, measure.Waist: {Low: 89, High: 99},
				measure.Hips: {Low: 114, High: 124}, measure.Inseam: {Low: 86, High: 89},
				measure.Shoulder: {Low: 46, High: 48}, measure.Arm: {Low: 66, High: 69},
			}},
		},
	}
}
