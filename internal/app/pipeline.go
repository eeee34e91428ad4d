package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/nramsai/sizely/internal/detector"
	"github.com/nramsai/sizely/internal/enhance"
	"github.com/nramsai/sizely/internal/measure"
	"github.com/nramsai/sizely/internal/quality"
	"github.com/nramsai/sizely/internal/sizing"
	"github.com/nramsai/sizely/internal/store"
)

// Request describes one analysis run. Image is the required front view;
// BackImage and SideImage are optional extra angles that improve accuracy.
type Request struct {
	Image     []byte
	BackImage []byte
	SideImage []byte

	Gender   sizing.Gender
	Category string

	// HeightCM of 0 means unknown; the calibrator assumes a default.
	HeightCM float64

	// Chart is an inline custom chart; ChartID references a stored one.
	// Chart wins when both are set. Neither set means the built-in chart
	// for Gender.
	Chart   *sizing.Chart
	ChartID string
}

// Result is the immutable outcome of an analysis.
type Result struct {
	RequestID    string               `json:"request_id"`
	Size         string               `json:"recommended_size"`
	Confidence   int                  `json:"confidence"`
	Explanation  string               `json:"explanation"`
	Measurements measure.Measurements `json:"measurements"`
	Scores       map[string]float64   `json:"all_size_scores"`
	BodyType     measure.BodyType     `json:"body_type"`
	QualityScore int                  `json:"quality_score"`
	AIEnhanced   bool                 `json:"ai_enhanced"`
	EnhancerNote string               `json:"enhancer_note,omitempty"`
	Warnings     []string             `json:"warnings,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
}

// Analyze runs the full pipeline. Fatal conditions (unusable photo, no
// person, insufficient keypoints, invalid chart) return an error; everything
// else degrades into Result.Warnings.
func (a *App) Analyze(ctx context.Context, req Request) (*Result, error) {
	if len(req.Image) == 0 {
		return nil, fmt.Errorf("%w: no image provided", quality.ErrUnusableImage)
	}

	var warnings []string

	imgMetrics, err := a.quality.CheckImage(req.Image)
	if err != nil {
		return nil, err
	}

	kps, err := a.detect(ctx, req.Image)
	if err != nil {
		return nil, err
	}

	poseMetrics, err := a.quality.CheckPose(kps)
	if err != nil {
		return nil, err
	}
	qualityScore := quality.Score(imgMetrics, poseMetrics)

	scale, err := a.calibrator.Calibrate(kps, req.HeightCM)
	if err != nil {
		return nil, err
	}
	bodyType := measure.Classify(kps, a.classifier)

	measurements, estimateWarnings, err := a.estimator.Estimate(kps, scale, bodyType)
	if err != nil {
		return nil, err
	}
	for _, w := range estimateWarnings {
		warnings = append(warnings, w.String())
	}

	measurements, warnings, angles := a.fuseAngles(ctx, req, measurements, warnings)

	recommender, chartID, err := a.recommender(req)
	if err != nil {
		return nil, err
	}

	rec, err := recommender.Recommend(measurements)
	if err != nil {
		return nil, err
	}

	result := &Result{
		RequestID:    uuid.New().String(),
		Size:         rec.Size,
		Confidence:   rec.Confidence,
		Explanation:  rec.Explanation,
		Measurements: measurements,
		Scores:       rec.Scores,
		BodyType:     bodyType,
		QualityScore: qualityScore,
		CreatedAt:    time.Now(),
	}

	if a.enhancer != nil {
		warnings = a.enhance(ctx, req.Image, recommender, result, warnings)
	}

	// The multi-angle boost counts only angles that actually contributed to
	// the fused measurements, and lands after enhancement so a re-scored
	// recommendation cannot wipe it out.
	result.Confidence += measure.ConfidenceBoost(angles, []int{qualityScore})

	if result.Confidence > 100 {
		result.Confidence = 100
	}
	if result.Confidence < 0 {
		result.Confidence = 0
	}
	result.Warnings = warnings

	a.persist(req, chartID, result)
	return result, nil
}

// detect runs keypoint detection with a single retry. A transient miss on a
// usable photo is common enough that one more attempt pays for itself.
func (a *App) detect(ctx context.Context, image []byte) (*detector.KeypointSet, error) {
	kps, err := a.detector.Detect(ctx, image)
	if errors.Is(err, detector.ErrNoPersonDetected) {
		kps, err = a.detector.Detect(ctx, image)
	}
	return kps, err
}

// fuseAngles estimates the optional back and side views and fuses them with
// the front measurements. Extra angles are best effort: any failure logs a
// warning and keeps the front-only result. The returned count is the number
// of angles that actually contributed, which drives the confidence boost; a
// skipped view earns nothing.
func (a *App) fuseAngles(ctx context.Context, req Request, front measure.Measurements, warnings []string) (measure.Measurements, []string, int) {
	byAngle := map[measure.Angle]measure.Measurements{measure.AngleFront: front}

	for angle, image := range map[measure.Angle][]byte{
		measure.AngleBack: req.BackImage,
		measure.AngleSide: req.SideImage,
	} {
		if len(image) == 0 {
			continue
		}
		m, err := a.estimateAngle(ctx, image, req.HeightCM)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s view skipped: %v", angle, err))
			continue
		}
		byAngle[angle] = m
	}

	if len(byAngle) == 1 {
		return front, warnings, 1
	}

	fused, err := measure.Fuse(byAngle)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("fusion failed: %v", err))
		return front, warnings, 1
	}
	warnings = append(warnings, measure.DetectConflicts(byAngle, 20)...)
	return fused, warnings, len(byAngle)
}

// estimateAngle runs the measurement chain on a secondary view. Pose checks
// are skipped: a side view legitimately fails the front-facing gate.
func (a *App) estimateAngle(ctx context.Context, image []byte, heightCM float64) (measure.Measurements, error) {
	if _, err := a.quality.CheckImage(image); err != nil {
		return nil, err
	}
	kps, err := a.detect(ctx, image)
	if err != nil {
		return nil, err
	}
	scale, err := a.calibrator.Calibrate(kps, heightCM)
	if err != nil {
		return nil, err
	}
	m, _, err := a.estimator.Estimate(kps, scale, measure.Classify(kps, a.classifier))
	return m, err
}

// recommender resolves the chart (inline, stored, or built-in) and garment
// profile for the request.
func (a *App) recommender(req Request) (*sizing.Recommender, string, error) {
	chart := sizing.ChartFor(req.Gender)
	chartID := ""

	switch {
	case req.Chart != nil:
		chart = *req.Chart
	case req.ChartID != "":
		if a.store == nil {
			return nil, "", fmt.Errorf("chart %q requested but no store configured", req.ChartID)
		}
		stored, err := a.store.Charts().GetByID(req.ChartID)
		if err != nil {
			return nil, "", fmt.Errorf("chart %q: %w", req.ChartID, err)
		}
		chart = stored.Chart()
		chartID = stored.ID
	}

	r, err := sizing.NewRecommender(chart, sizing.ProfileFor(req.Category))
	if err != nil {
		return nil, "", err
	}
	return r, chartID, nil
}

// enhance refines the result with the AI model. Unavailability is a warning,
// never an error: the geometric result stands on its own.
func (a *App) enhance(ctx context.Context, image []byte, recommender *sizing.Recommender, result *Result, warnings []string) []string {
	refinement, err := a.enhancer.Refine(ctx, image, result.Measurements)
	if err != nil {
		if !errors.Is(err, enhance.ErrUnavailable) {
			log.Printf("enhancement failed: %v", err)
		}
		return append(warnings, fmt.Sprintf("ai enhancement skipped: %v", err))
	}

	if !result.Measurements.Equal(refinement.Measurements) {
		rec, err := recommender.Recommend(refinement.Measurements)
		if err != nil {
			return append(warnings, fmt.Sprintf("ai enhancement discarded: %v", err))
		}
		result.Measurements = refinement.Measurements
		result.Size = rec.Size
		result.Confidence = rec.Confidence
		result.Explanation = rec.Explanation
		result.Scores = rec.Scores
	}

	result.Confidence += refinement.ConfidenceDelta
	result.AIEnhanced = true
	result.EnhancerNote = refinement.Reason
	return warnings
}

// persist records the analysis. Storage trouble must never fail a request
// that already produced a result.
func (a *App) persist(req Request, chartID string, result *Result) {
	if a.store == nil {
		return
	}
	err := a.store.Analyses().Create(&store.Analysis{
		ID:              result.RequestID,
		Gender:          string(req.Gender),
		HeightCM:        req.HeightCM,
		BodyType:        string(result.BodyType),
		Measurements:    result.Measurements,
		RecommendedSize: result.Size,
		Confidence:      result.Confidence,
		QualityScore:    result.QualityScore,
		AIEnhanced:      result.AIEnhanced,
		ChartID:         chartID,
	})
	if err != nil {
		log.Printf("failed to persist analysis %s: %v", result.RequestID, err)
	}
}
