package sizing

import "github.com/nramsai/sizely/internal/measure"

// Weights assigns per-measurement importance during scoring. A zero or
// absent weight excludes the measurement.
type Weights map[measure.Name]float64

// Profile bundles scoring weights with the garment name used in
// explanations.
type Profile struct {
	Garment string
	Weights Weights
}

// ShirtProfile focuses on the upper body. Chest dominates, waist and below
// carry no weight at all for shirt sizing.
func ShirtProfile() Profile {
	return Profile{
		Garment: "Shirt",
		Weights: Weights{
			measure.Chest:    3.5,
			measure.Shoulder: 2.5,
			measure.Arm:      1.5,
		},
	}
}

// GeneralProfile balances the whole body and suits full outfits or unknown
// garment types.
func GeneralProfile() Profile {
	return Profile{
		Garment: "Garment",
		Weights: Weights{
			measure.Chest:    2.0,
			measure.Waist:    1.8,
			measure.Hips:     1.5,
			measure.Inseam:   1.0,
			measure.Shoulder: 1.2,
			measure.Arm:      0.8,
		},
	}
}

// TrousersProfile focuses on the lower body for pants and jeans. Only
// measurements the standard charts carry ranges for are weighted; weighting
// an unlisted one would cap the score for every size.
func TrousersProfile() Profile {
	return Profile{
		Garment: "Trousers",
		Weights: Weights{
			measure.Waist:  3.0,
			measure.Hips:   2.5,
			measure.Inseam: 2.0,
		},
	}
}

// ProfileFor maps a garment category to its scoring profile. Unknown
// categories fall back to the general profile.
func ProfileFor(category string) Profile {
	switch category {
	case "shirt", "top", "tshirt", "jacket":
		return ShirtProfile()
	case "trousers", "pants", "jeans", "shorts":
		return TrousersProfile()
	default:
		return GeneralProfile()
	}
}
