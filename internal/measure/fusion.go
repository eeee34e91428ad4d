package measure

import "fmt"

// Angle identifies the viewing angle a measurement set was estimated from.
type Angle string

const (
	AngleFront Angle = "front"
	AngleBack  Angle = "back"
	AngleSide  Angle = "side"
)

// angleWeights expresses how reliable each measurement is from each angle.
// Absent entries fall back to defaultAngleWeight.
var angleWeights = map[Angle]map[Name]float64{
	AngleFront: {
		Chest: 0.60, Waist: 0.55, Hips: 0.55, Shoulder: 0.70,
		Inseam: 0.50, Arm: 0.50, Neck: 0.60, Bicep: 0.45,
		Wrist: 0.50, Thigh: 0.45, Calf: 0.45, Ankle: 0.50,
		TorsoLength: 0.60, BackWidth: 0.20, Rise: 0.40,
	},
	AngleBack: {
		Chest: 0.30, Waist: 0.35, Hips: 0.35, Shoulder: 0.80,
		Inseam: 0.40, Arm: 0.40, Neck: 0.30, Bicep: 0.45,
		Wrist: 0.40, Thigh: 0.35, Calf: 0.40, Ankle: 0.40,
		TorsoLength: 0.50, BackWidth: 0.80, Rise: 0.40,
	},
	AngleSide: {
		Chest: 0.70, Waist: 0.60, Hips: 0.60, Shoulder: 0.40,
		Inseam: 0.70, Arm: 0.70, Neck: 0.50, Bicep: 0.60,
		Wrist: 0.50, Thigh: 0.70, Calf: 0.65, Ankle: 0.60,
		TorsoLength: 0.80, BackWidth: 0.40, Rise: 0.80,
	},
}

const defaultAngleWeight = 0.5

// Fuse reconciles per-angle measurement sets into a single set using
// weighted averaging. A single angle is returned unchanged. At least one
// angle must be present.
func Fuse(byAngle map[Angle]Measurements) (Measurements, error) {
	if len(byAngle) == 0 {
		return nil, fmt.Errorf("fuse: no measurements provided")
	}

	if len(byAngle) == 1 {
		for _, m := range byAngle {
			return m.Clone(), nil
		}
	}

	fused := make(Measurements)
	for _, name := range Names {
		var weightedSum, totalWeight float64
		for angle, m := range byAngle {
			value, ok := m[name]
			if !ok {
				continue
			}
			weight := defaultAngleWeight
			if w, ok := angleWeights[angle][name]; ok {
				weight = w
			}
			weightedSum += value * weight
			totalWeight += weight
		}
		if totalWeight > 0 {
			fused[name] = round1(weightedSum / totalWeight)
		}
	}

	return fused, nil
}

// DetectConflicts lists measurements whose values differ across angles by
// more than thresholdPercent of the smallest value. Conflicts hint at a
// badly angled or mislabeled shot.
func DetectConflicts(byAngle map[Angle]Measurements, thresholdPercent float64) []string {
	if len(byAngle) < 2 {
		return nil
	}

	var conflicts []string
	for _, name := range Names {
		minVal, maxVal := 0.0, 0.0
		count := 0
		for _, m := range byAngle {
			v, ok := m[name]
			if !ok {
				continue
			}
			if count == 0 || v < minVal {
				minVal = v
			}
			if count == 0 || v > maxVal {
				maxVal = v
			}
			count++
		}
		if count >= 2 && minVal > 0 {
			diff := (maxVal - minVal) / minVal * 100
			if diff > thresholdPercent {
				conflicts = append(conflicts, fmt.Sprintf("%s: %.1f%% spread across angles", name, diff))
			}
		}
	}

	return conflicts
}

// ConfidenceBoost returns the additive confidence bonus earned by capturing
// multiple angles, scaled by average photo quality and capped at 20.
func ConfidenceBoost(numAngles int, qualityScores []int) int {
	var base int
	switch numAngles {
	case 2:
		base = 8
	case 3:
		base = 15
	default:
		return 0
	}

	if len(qualityScores) == 0 {
		return base
	}

	sum := 0
	for _, q := range qualityScores {
		sum += q
	}
	avg := float64(sum) / float64(len(qualityScores))

	multiplier := 1.0
	switch {
	case avg >= 85:
		multiplier = 1.2
	case avg < 70:
		multiplier = 0.8
	}

	boost := int(float64(base) * multiplier)
	if boost > 20 {
		boost = 20
	}
	return boost
}
