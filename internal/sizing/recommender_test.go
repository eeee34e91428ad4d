package sizing

import (
	"errors"
	"strings"
	"testing"

	"github.com/nramsai/sizely/internal/measure"
)

func TestBuiltinChartsValid(t *testing.T) {
	for _, chart := range []Chart{MensChart(), WomensChart()} {
		if err := chart.Validate(); err != nil {
			t.Errorf("%s: %v", chart.Name, err)
		}
		if len(chart.Sizes) != 6 {
			t.Errorf("%s: expected 6 sizes, got %d", chart.Name, len(chart.Sizes))
		}
	}
}

func TestChartValidateErrors(t *testing.T) {
	tests := []struct {
		name  string
		chart Chart
	}{
		{"empty chart", Chart{Name: "empty"}},
		{"empty label", Chart{Sizes: []Size{
			{Label: "", Ranges: map[measure.Name]measure.Range{measure.Chest: {Low: 80, High: 90}}},
		}}},
		{"duplicate label", Chart{Sizes: []Size{
			{Label: "M", Ranges: map[measure.Name]measure.Range{measure.Chest: {Low: 80, High: 90}}},
			{Label: "M", Ranges: map[measure.Name]measure.Range{measure.Chest: {Low: 90, High: 100}}},
		}}},
		{"no ranges", Chart{Sizes: []Size{{Label: "M"}}}},
		{"inverted range", Chart{Sizes: []Size{
			{Label: "M", Ranges: map[measure.Name]measure.Range{measure.Chest: {Low: 90, High: 80}}},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.chart.Validate(); !errors.Is(err, ErrInvalidChart) {
				t.Errorf("expected ErrInvalidChart, got %v", err)
			}
		})
	}
}

func TestChartForGender(t *testing.T) {
	if got := ChartFor(GenderFemale).Name; got != "womens-standard" {
		t.Errorf("female: got %s", got)
	}
	if got := ChartFor(GenderMale).Name; got != "mens-standard" {
		t.Errorf("male: got %s", got)
	}
	if got := ChartFor(GenderUnisex).Name; got != "mens-standard" {
		t.Errorf("unisex should use men's sizing: got %s", got)
	}
}

func TestRecommendShirtSize(t *testing.T) {
	r, err := NewRecommender(MensChart(), ShirtProfile())
	if err != nil {
		t.Fatalf("NewRecommender failed: %v", err)
	}

	rec, err := r.Recommend(measure.Measurements{
		measure.Chest:    92.3,
		measure.Shoulder: 45.0,
		measure.Arm:      56.1,
	})
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}

	if rec.Size != "S" {
		t.Errorf("got size %s, want S (scores %v)", rec.Size, rec.Scores)
	}
	if rec.Confidence != 86 {
		t.Errorf("got confidence %d, want 86", rec.Confidence)
	}
	if len(rec.Scores) != 6 {
		t.Errorf("expected a score per size, got %v", rec.Scores)
	}
	if !strings.Contains(rec.Explanation, "S") || !strings.Contains(rec.Explanation, "Good fit") {
		t.Errorf("unexpected explanation: %s", rec.Explanation)
	}
	if !strings.Contains(rec.Explanation, "snug in chest") {
		t.Errorf("chest above the S range should be flagged snug: %s", rec.Explanation)
	}
	if !strings.Contains(rec.Explanation, "loose in arm") {
		t.Errorf("arm below the S range should be flagged loose: %s", rec.Explanation)
	}
}

func TestRecommendMidpointScoresPerfect(t *testing.T) {
	r, err := NewRecommender(MensChart(), GeneralProfile())
	if err != nil {
		t.Fatalf("NewRecommender failed: %v", err)
	}

	// Exact centers of every men's M range.
	rec, err := r.Recommend(measure.Measurements{
		measure.Chest:    94.0,
		measure.Waist:    78.5,
		measure.Hips:     99.0,
		measure.Inseam:   82.5,
		measure.Shoulder: 47.0,
		measure.Arm:      63.0,
	})
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if rec.Size != "M" {
		t.Errorf("got size %s, want M", rec.Size)
	}
	if rec.Confidence != 100 {
		t.Errorf("center-of-range measurements should score 100, got %d", rec.Confidence)
	}
	if !strings.Contains(rec.Explanation, "Excellent fit") {
		t.Errorf("unexpected explanation: %s", rec.Explanation)
	}
}

func TestRecommendTrousersMidpointScoresPerfect(t *testing.T) {
	r, err := NewRecommender(MensChart(), TrousersProfile())
	if err != nil {
		t.Fatalf("NewRecommender failed: %v", err)
	}

	// Exact centers of the men's M lower-body ranges. Every weighted
	// measurement must have a chart range, or a perfect fit could never
	// reach full confidence.
	rec, err := r.Recommend(measure.Measurements{
		measure.Waist:  78.5,
		measure.Hips:   99.0,
		measure.Inseam: 82.5,
	})
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if rec.Size != "M" {
		t.Errorf("got size %s, want M", rec.Size)
	}
	if rec.Confidence != 100 {
		t.Errorf("center-of-range measurements should score 100, got %d", rec.Confidence)
	}
}

func TestRecommendTieBreaksToSmallerSize(t *testing.T) {
	ranges := map[measure.Name]measure.Range{measure.Chest: {Low: 90, High: 100}}
	chart := Chart{
		Name: "tie",
		Sizes: []Size{
			{Label: "S", Ranges: ranges},
			{Label: "L", Ranges: ranges},
		},
	}
	r, err := NewRecommender(chart, ShirtProfile())
	if err != nil {
		t.Fatalf("NewRecommender failed: %v", err)
	}

	for i := 0; i < 10; i++ {
		rec, err := r.Recommend(measure.Measurements{measure.Chest: 95.0})
		if err != nil {
			t.Fatalf("Recommend failed: %v", err)
		}
		if rec.Size != "S" {
			t.Fatalf("identical scores must resolve to the earlier size, got %s", rec.Size)
		}
	}
}

func TestRecommendCustomChartOnly(t *testing.T) {
	chart := Chart{
		Name: "store-custom",
		Sizes: []Size{
			{Label: "Small", Ranges: map[measure.Name]measure.Range{measure.Chest: {Low: 80, High: 95}}},
			{Label: "Large", Ranges: map[measure.Name]measure.Range{measure.Chest: {Low: 95, High: 115}}},
		},
	}
	r, err := NewRecommender(chart, ShirtProfile())
	if err != nil {
		t.Fatalf("NewRecommender failed: %v", err)
	}

	rec, err := r.Recommend(measure.Measurements{measure.Chest: 105.0})
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if rec.Size != "Large" {
		t.Errorf("got %s, want Large", rec.Size)
	}
	if _, ok := rec.Scores["M"]; ok {
		t.Error("custom chart must not produce scores for built-in labels")
	}
}

func TestRecommendRejectsInvalidChart(t *testing.T) {
	_, err := NewRecommender(Chart{Name: "broken"}, ShirtProfile())
	if !errors.Is(err, ErrInvalidChart) {
		t.Errorf("expected ErrInvalidChart, got %v", err)
	}
}

func TestRecommendNoMeasurements(t *testing.T) {
	r, err := NewRecommender(MensChart(), ShirtProfile())
	if err != nil {
		t.Fatalf("NewRecommender failed: %v", err)
	}
	if _, err := r.Recommend(nil); err == nil {
		t.Error("expected error for empty measurements")
	}
}

func TestProfileFor(t *testing.T) {
	if got := ProfileFor("shirt").Garment; got != "Shirt" {
		t.Errorf("shirt: got %s", got)
	}
	if got := ProfileFor("jeans").Garment; got != "Trousers" {
		t.Errorf("jeans: got %s", got)
	}
	if got := ProfileFor("").Garment; got != "Garment" {
		t.Errorf("default: got %s", got)
	}
}
