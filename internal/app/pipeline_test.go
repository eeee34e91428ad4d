package app

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nramsai/sizely/internal/detector"
	"github.com/nramsai/sizely/internal/enhance"
	"github.com/nramsai/sizely/internal/measure"
	"github.com/nramsai/sizely/internal/quality"
	"github.com/nramsai/sizely/internal/sizing"
	"github.com/nramsai/sizely/internal/store"
)

// passQuality accepts every photo. The real validator needs decodable image
// bytes, which the mock detector never looks at.
type passQuality struct{}

func (passQuality) CheckImage([]byte) (*quality.ImageMetrics, error) {
	return &quality.ImageMetrics{Width: 1000, Height: 1000, BlurScore: 500, Brightness: 128}, nil
}

func (passQuality) CheckPose(*detector.KeypointSet) (*quality.PoseMetrics, error) {
	return &quality.PoseMetrics{
		VisibilityRatio: 1, FrontFacingScore: 1, PostureScore: 1,
		FrontFacing: true, StandingStraight: true,
	}, nil
}

// failQuality rejects every photo.
type failQuality struct{}

func (failQuality) CheckImage([]byte) (*quality.ImageMetrics, error) {
	return nil, quality.ErrUnusableImage
}

func (failQuality) CheckPose(*detector.KeypointSet) (*quality.PoseMetrics, error) {
	return nil, quality.ErrUnusableImage
}

// stubEnhancer returns a fixed refinement or error.
type stubEnhancer struct {
	refinement *enhance.Refinement
	err        error
}

func (s *stubEnhancer) Refine(_ context.Context, _ []byte, baseline measure.Measurements) (*enhance.Refinement, error) {
	if s.err != nil {
		return nil, s.err
	}
	r := *s.refinement
	if r.Measurements == nil {
		r.Measurements = baseline.Clone()
	}
	return &r, nil
}

func newTestApp(t *testing.T, config Config) *App {
	t.Helper()
	if config.Detector == nil {
		mock := detector.NewMockDetector()
		mock.SetKeypoints(detector.FittedPoseKeypoints())
		config.Detector = mock
	}
	if config.Quality == nil {
		config.Quality = passQuality{}
	}
	return New(config)
}

func fittedRequest() Request {
	return Request{
		Image:    []byte("front"),
		Gender:   sizing.GenderMale,
		Category: "shirt",
		HeightCM: 170,
	}
}

func TestAnalyzeFittedPose(t *testing.T) {
	a := newTestApp(t, Config{})

	result, err := a.Analyze(context.Background(), fittedRequest())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if result.Size != "S" {
		t.Errorf("got size %s, want S (scores %v)", result.Size, result.Scores)
	}
	if result.Confidence != 87 {
		t.Errorf("got confidence %d, want 87", result.Confidence)
	}
	if result.BodyType != measure.BodyTypeAverage {
		t.Errorf("got body type %s, want average", result.BodyType)
	}
	if result.QualityScore != 100 {
		t.Errorf("got quality score %d, want 100", result.QualityScore)
	}
	if len(result.Measurements) != 15 {
		t.Errorf("expected 15 measurements, got %d", len(result.Measurements))
	}
	if result.Measurements[measure.Chest] != 92.2 {
		t.Errorf("chest: got %v, want 92.2", result.Measurements[measure.Chest])
	}
	if result.AIEnhanced {
		t.Error("no enhancer configured, ai_enhanced must be false")
	}
	if result.RequestID == "" {
		t.Error("request ID must be set")
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", result.Warnings)
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	a := newTestApp(t, Config{})

	first, err := a.Analyze(context.Background(), fittedRequest())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	second, err := a.Analyze(context.Background(), fittedRequest())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if first.Size != second.Size || first.Confidence != second.Confidence {
		t.Errorf("results differ: %s/%d vs %s/%d",
			first.Size, first.Confidence, second.Size, second.Confidence)
	}
	if !first.Measurements.Equal(second.Measurements) {
		t.Error("measurements are not reproducible")
	}
}

func TestAnalyzeNoImage(t *testing.T) {
	a := newTestApp(t, Config{})

	_, err := a.Analyze(context.Background(), Request{})
	if !errors.Is(err, quality.ErrUnusableImage) {
		t.Errorf("expected ErrUnusableImage, got %v", err)
	}
}

func TestAnalyzeQualityGate(t *testing.T) {
	a := newTestApp(t, Config{Quality: failQuality{}})

	_, err := a.Analyze(context.Background(), fittedRequest())
	if !errors.Is(err, quality.ErrUnusableImage) {
		t.Errorf("expected ErrUnusableImage, got %v", err)
	}
}

func TestAnalyzeRetriesDetection(t *testing.T) {
	mock := detector.NewMockDetector()
	a := newTestApp(t, Config{Detector: mock})

	_, err := a.Analyze(context.Background(), fittedRequest())
	if !errors.Is(err, detector.ErrNoPersonDetected) {
		t.Fatalf("expected ErrNoPersonDetected, got %v", err)
	}
	if mock.Calls() != 2 {
		t.Errorf("expected one retry (2 calls), got %d", mock.Calls())
	}
}

func TestAnalyzeEnhancementApplied(t *testing.T) {
	a := newTestApp(t, Config{
		Enhancer: &stubEnhancer{refinement: &enhance.Refinement{
			ConfidenceDelta: 5,
			BodyType:        "average",
			Reason:          "clothing fits closely",
		}},
	})

	result, err := a.Analyze(context.Background(), fittedRequest())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if !result.AIEnhanced {
		t.Error("ai_enhanced must be true")
	}
	if result.Confidence != 92 {
		t.Errorf("got confidence %d, want 87+5=92", result.Confidence)
	}
	if result.Size != "S" {
		t.Errorf("unchanged measurements must keep the size, got %s", result.Size)
	}
	if result.EnhancerNote != "clothing fits closely" {
		t.Errorf("got note %q", result.EnhancerNote)
	}
}

func TestAnalyzeEnhancerUnavailable(t *testing.T) {
	a := newTestApp(t, Config{Enhancer: enhance.Noop{}})

	result, err := a.Analyze(context.Background(), fittedRequest())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if result.AIEnhanced {
		t.Error("unavailable enhancer must leave ai_enhanced false")
	}
	if result.Size != "S" || result.Confidence != 87 {
		t.Errorf("geometric result must stand: %s/%d", result.Size, result.Confidence)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "enhancement skipped") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an enhancement warning, got %v", result.Warnings)
	}
}

func TestAnalyzeMultiAngle(t *testing.T) {
	a := newTestApp(t, Config{})

	req := fittedRequest()
	req.BackImage = []byte("back")

	result, err := a.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	// Identical angle estimates fuse to the same values; the second angle
	// still earns a confidence boost of int(8 * 1.2) at full quality.
	if result.Measurements[measure.Chest] != 92.2 {
		t.Errorf("chest: got %v, want 92.2", result.Measurements[measure.Chest])
	}
	if result.Confidence != 96 {
		t.Errorf("got confidence %d, want 87+9=96", result.Confidence)
	}
}

// frontOnlyQuality rejects every image except the front payload, so extra
// views fail the quality gate.
type frontOnlyQuality struct{ passQuality }

func (q frontOnlyQuality) CheckImage(image []byte) (*quality.ImageMetrics, error) {
	if string(image) != "front" {
		return nil, quality.ErrUnusableImage
	}
	return q.passQuality.CheckImage(image)
}

func TestAnalyzeMultiAngleSkipsBadView(t *testing.T) {
	a := newTestApp(t, Config{Quality: frontOnlyQuality{}})

	req := fittedRequest()
	req.BackImage = []byte("blurry-back")

	result, err := a.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	// A rejected view contributes nothing, so no multi-angle boost applies.
	if result.Confidence != 87 {
		t.Errorf("got confidence %d, want the front-only 87", result.Confidence)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "back view skipped") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a skipped-view warning, got %v", result.Warnings)
	}
}

func TestAnalyzeEnhancementKeepsAngleBoost(t *testing.T) {
	// Refined measurements sit exactly at the men's M centers, so the
	// re-scored recommendation is a clean 100.
	refined := measure.Measurements{
		measure.Chest:    94.0,
		measure.Waist:    78.5,
		measure.Hips:     99.0,
		measure.Inseam:   82.5,
		measure.Shoulder: 47.0,
		measure.Arm:      63.0,
	}
	a := newTestApp(t, Config{
		Enhancer: &stubEnhancer{refinement: &enhance.Refinement{
			Measurements:    refined,
			ConfidenceDelta: -10,
			Reason:          "loose clothing",
		}},
	})

	req := fittedRequest()
	req.BackImage = []byte("front") // same fixture, second angle

	result, err := a.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if result.Size != "M" {
		t.Errorf("got size %s, want M after refinement", result.Size)
	}
	// 100 from the re-score, -10 delta, +9 for the second angle.
	if result.Confidence != 99 {
		t.Errorf("got confidence %d, want 99", result.Confidence)
	}
}

func TestAnalyzePersistsHistory(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New failed: %v", err)
	}
	defer s.Close()

	a := newTestApp(t, Config{Store: s})

	result, err := a.Analyze(context.Background(), fittedRequest())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	saved, err := s.Analyses().GetByID(result.RequestID)
	if err != nil {
		t.Fatalf("analysis was not persisted: %v", err)
	}
	if saved.RecommendedSize != result.Size || saved.Confidence != result.Confidence {
		t.Errorf("stored %s/%d, want %s/%d",
			saved.RecommendedSize, saved.Confidence, result.Size, result.Confidence)
	}
}

func TestAnalyzeCustomChartFromStore(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New failed: %v", err)
	}
	defer s.Close()

	chart := &store.SizeChart{
		ID:     "chart-1",
		Name:   "acme",
		Gender: sizing.GenderUnisex,
		Sizes: []sizing.Size{
			{Label: "Small", Ranges: map[measure.Name]measure.Range{measure.Chest: {Low: 80, High: 100}}},
			{Label: "Large", Ranges: map[measure.Name]measure.Range{measure.Chest: {Low: 100, High: 120}}},
		},
	}
	if err := s.Charts().Create(chart); err != nil {
		t.Fatalf("chart Create failed: %v", err)
	}

	a := newTestApp(t, Config{Store: s})

	req := fittedRequest()
	req.ChartID = "chart-1"

	result, err := a.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if result.Size != "Small" {
		t.Errorf("got size %s, want Small (scores %v)", result.Size, result.Scores)
	}

	req.ChartID = "missing"
	if _, err := a.Analyze(context.Background(), req); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for an unknown chart, got %v", err)
	}
}
