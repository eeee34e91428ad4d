// Package quality validates photos before measurement: image-level checks
// (resolution, blur, exposure) and pose-level checks (visibility, facing,
// posture, full-body coverage), combined into a 0-100 quality score.
package quality

import (
	"errors"
	"fmt"
	"math"

	"gocv.io/x/gocv"

	"github.com/nramsai/sizely/internal/detector"
)

// ErrUnusableImage marks a photo rejected by the quality gate. The wrapped
// message is user-facing and tells the user how to retake the shot.
var ErrUnusableImage = errors.New("unusable image")

// Config holds the validation thresholds.
type Config struct {
	MinWidth  int
	MinHeight int

	// BlurThreshold is the minimum Laplacian variance; anything below is
	// considered blurry.
	BlurThreshold float64

	MinBrightness float64
	MaxBrightness float64

	// MinVisibilityRatio is the minimum share of landmarks with visibility
	// above 0.5.
	MinVisibilityRatio float64
	MinAvgVisibility   float64

	// FrontFacingThreshold and MaxTilt bound the facing and posture scores.
	FrontFacingThreshold float64
	MaxTilt              float64

	// PresenceThreshold is the visibility floor for the full-body check.
	PresenceThreshold float64
}

// DefaultConfig returns the standard validation thresholds.
func DefaultConfig() Config {
	return Config{
		MinWidth:             400,
		MinHeight:            600,
		BlurThreshold:        100,
		MinBrightness:        40,
		MaxBrightness:        220,
		MinVisibilityRatio:   0.7,
		MinAvgVisibility:     0.6,
		FrontFacingThreshold: 0.7,
		MaxTilt:              0.3,
		PresenceThreshold:    0.3,
	}
}

// ImageMetrics describes the photo itself, independent of any detected pose.
type ImageMetrics struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	BlurScore  float64 `json:"blur_score"`
	Blurry     bool    `json:"is_blurry"`
	Brightness float64 `json:"brightness"`
}

// PoseMetrics describes how well the detected pose supports measurement.
type PoseMetrics struct {
	AvgVisibility    float64  `json:"average_visibility"`
	VisibleCount     int      `json:"visible_keypoints"`
	VisibilityRatio  float64  `json:"visibility_ratio"`
	FrontFacingScore float64  `json:"front_facing_score"`
	FrontFacing      bool     `json:"is_front_facing"`
	PostureScore     float64  `json:"posture_score"`
	StandingStraight bool     `json:"is_standing_straight"`
	MissingParts     []string `json:"missing_parts,omitempty"`
}

// Validator runs the quality checks.
type Validator struct {
	config Config
}

// NewValidator creates a Validator with the given thresholds.
func NewValidator(config Config) *Validator {
	return &Validator{config: config}
}

// CheckImage decodes the photo and rejects it when it is too small, too
// blurry, too dark or overexposed. Metrics are returned even on rejection
// so callers can report them.
func (v *Validator) CheckImage(image []byte) (*ImageMetrics, error) {
	mat, err := gocv.IMDecode(image, gocv.IMReadColor)
	if err != nil || mat.Empty() {
		return nil, fmt.Errorf("%w: not a decodable image", ErrUnusableImage)
	}
	defer mat.Close()

	metrics := &ImageMetrics{Width: mat.Cols(), Height: mat.Rows()}
	if metrics.Width < v.config.MinWidth || metrics.Height < v.config.MinHeight {
		return metrics, fmt.Errorf("%w: resolution %dx%d below minimum %dx%d, upload a higher quality photo",
			ErrUnusableImage, metrics.Width, metrics.Height, v.config.MinWidth, v.config.MinHeight)
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	metrics.BlurScore = laplacianVariance(gray)
	metrics.Blurry = metrics.BlurScore < v.config.BlurThreshold
	if metrics.Blurry {
		return metrics, fmt.Errorf("%w: image is too blurry, take a clearer photo in good lighting", ErrUnusableImage)
	}

	metrics.Brightness = gray.Mean().Val1
	if metrics.Brightness < v.config.MinBrightness {
		return metrics, fmt.Errorf("%w: image is too dark, take the photo in better lighting", ErrUnusableImage)
	}
	if metrics.Brightness > v.config.MaxBrightness {
		return metrics, fmt.Errorf("%w: image is overexposed, avoid direct sunlight or flash", ErrUnusableImage)
	}

	return metrics, nil
}

func laplacianVariance(gray gocv.Mat) float64 {
	lap := gocv.NewMat()
	defer lap.Close()
	gocv.Laplacian(gray, &lap, gocv.MatTypeCV64F, 1, 1, 0, gocv.BorderDefault)

	mean := gocv.NewMat()
	defer mean.Close()
	stddev := gocv.NewMat()
	defer stddev.Close()
	gocv.MeanStdDev(lap, &mean, &stddev)

	sd := stddev.GetDoubleAt(0, 0)
	return sd * sd
}

// CheckPose rejects poses that would produce unreliable measurements.
// Checks run cheapest first and the first failure wins.
func (v *Validator) CheckPose(kps *detector.KeypointSet) (*PoseMetrics, error) {
	metrics := &PoseMetrics{}

	var sum float64
	for i := 0; i < detector.NumLandmarks; i++ {
		vis := kps.Points[i].Visibility
		sum += vis
		if vis > 0.5 {
			metrics.VisibleCount++
		}
	}
	metrics.AvgVisibility = sum / detector.NumLandmarks
	metrics.VisibilityRatio = float64(metrics.VisibleCount) / detector.NumLandmarks

	if metrics.VisibilityRatio < v.config.MinVisibilityRatio {
		return metrics, fmt.Errorf("%w: only %d/%d body parts detected, take a full-body photo",
			ErrUnusableImage, metrics.VisibleCount, detector.NumLandmarks)
	}
	if metrics.AvgVisibility < v.config.MinAvgVisibility {
		return metrics, fmt.Errorf("%w: body parts are not clearly visible, stand in a well-lit area", ErrUnusableImage)
	}

	metrics.FrontFacingScore = frontFacingScore(kps)
	metrics.FrontFacing = metrics.FrontFacingScore > v.config.FrontFacingThreshold
	if !metrics.FrontFacing {
		return metrics, fmt.Errorf("%w: face the camera directly, angled poses reduce accuracy", ErrUnusableImage)
	}

	metrics.PostureScore = postureScore(kps)
	metrics.StandingStraight = metrics.PostureScore > 1-v.config.MaxTilt
	if !metrics.StandingStraight {
		return metrics, fmt.Errorf("%w: stand straight with arms at your sides", ErrUnusableImage)
	}

	metrics.MissingParts = missingParts(kps, v.config.PresenceThreshold)
	if len(metrics.MissingParts) > 0 {
		return metrics, fmt.Errorf("%w: missing body parts (%v), frame your full body head to toe",
			ErrUnusableImage, metrics.MissingParts)
	}

	return metrics, nil
}

// frontFacingScore blends width symmetry between shoulders and hips with the
// visibility balance between the left and right side. An angled person shows
// one foreshortened width and one dim side.
func frontFacingScore(kps *detector.KeypointSet) float64 {
	shoulderW := kps.ShoulderWidth()
	hipW := kps.HipWidth()
	if shoulderW < 20 || hipW < 20 {
		return 0.3
	}

	widthRatio := math.Min(shoulderW, hipW) / math.Max(shoulderW, hipW)

	leftVis := (kps.Points[detector.LeftShoulder].Visibility + kps.Points[detector.LeftHip].Visibility) / 2
	rightVis := (kps.Points[detector.RightShoulder].Visibility + kps.Points[detector.RightHip].Visibility) / 2
	maxVis := math.Max(leftVis, rightVis)
	if maxVis == 0 {
		return 0
	}
	balance := math.Min(leftVis, rightVis) / maxVis

	return (widthRatio + balance) / 2
}

// postureScore measures shoulder and hip levelness. Shoulders below hips or
// a strong tilt both indicate leaning or sitting.
func postureScore(kps *detector.KeypointSet) float64 {
	ls := kps.Points[detector.LeftShoulder]
	rs := kps.Points[detector.RightShoulder]
	lh := kps.Points[detector.LeftHip]
	rh := kps.Points[detector.RightHip]

	if ls.Y >= lh.Y || rs.Y >= rh.Y {
		return 0.3
	}

	shoulderTilt := 1.0
	if w := math.Abs(ls.X - rs.X); w > 0 {
		shoulderTilt = math.Abs(ls.Y-rs.Y) / w
	}
	hipTilt := 1.0
	if w := math.Abs(lh.X - rh.X); w > 0 {
		hipTilt = math.Abs(lh.Y-rh.Y) / w
	}

	return math.Max(0, 1-math.Max(shoulderTilt, hipTilt))
}

// fullBodyLandmarks are the landmarks a head-to-toe photo must include.
// Arms may hang out of frame without blocking measurement entirely.
var fullBodyLandmarks = []int{
	detector.Nose,
	detector.LeftShoulder, detector.RightShoulder,
	detector.LeftHip, detector.RightHip,
	detector.LeftKnee, detector.RightKnee,
	detector.LeftAnkle, detector.RightAnkle,
}

func missingParts(kps *detector.KeypointSet, threshold float64) []string {
	var missing []string
	for _, idx := range fullBodyLandmarks {
		if kps.Points[idx].Visibility < threshold {
			missing = append(missing, detector.LandmarkName(idx))
		}
	}
	return missing
}

// Score folds image and pose metrics into a single 0-100 quality score.
// Either metrics argument may be nil when that stage did not run.
func Score(img *ImageMetrics, pose *PoseMetrics) int {
	score := 100

	if img != nil {
		if img.Blurry {
			score -= 30
		}
		if img.Brightness < 60 || img.Brightness > 200 {
			score -= 20
		}
	}

	if pose != nil {
		if pose.VisibilityRatio < 0.9 {
			score -= int((0.9 - pose.VisibilityRatio) * 100)
		}
		if pose.FrontFacingScore < 0.9 {
			score -= int((0.9 - pose.FrontFacingScore) * 50)
		}
		if pose.PostureScore < 0.9 {
			score -= int((0.9 - pose.PostureScore) * 30)
		}
		score -= len(pose.MissingParts) * 10
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
