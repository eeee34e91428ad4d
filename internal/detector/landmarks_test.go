package detector

import (
	"math"
	"testing"
)

func TestKeypointSet_Distance(t *testing.T) {
	kps := &KeypointSet{}
	kps.Points[LeftShoulder] = Keypoint{X: 0, Y: 0, Visibility: 1}
	kps.Points[RightShoulder] = Keypoint{X: 3, Y: 4, Visibility: 1}

	got := kps.Distance(LeftShoulder, RightShoulder)
	if math.Abs(got-5) > 1e-9 {
		t.Errorf("Distance() = %f, want 5", got)
	}
}

func TestKeypointSet_Visible(t *testing.T) {
	kps := StandingPoseKeypoints()

	if !kps.Visible(Nose, 0.5) {
		t.Error("nose should be visible at threshold 0.5")
	}

	kps.Points[Nose].Visibility = 0.2
	if kps.Visible(Nose, 0.5) {
		t.Error("nose should not be visible at threshold 0.5 with visibility 0.2")
	}

	// A zero-value keypoint is never visible.
	var empty KeypointSet
	if empty.Visible(LeftAnkle, 0.01) {
		t.Error("zero-value keypoint should not be visible")
	}
}

func TestKeypointSet_AllVisible(t *testing.T) {
	kps := HiddenAnklesKeypoints()

	if !kps.AllVisible(0.5, Nose, LeftShoulder, RightShoulder) {
		t.Error("upper body landmarks should all be visible")
	}
	if kps.AllVisible(0.5, Nose, LeftAnkle, RightAnkle) {
		t.Error("hidden ankles should fail AllVisible")
	}
}

func TestKeypointSet_Widths(t *testing.T) {
	kps := StandingPoseKeypoints()

	if got := kps.ShoulderWidth(); math.Abs(got-200) > 1e-9 {
		t.Errorf("ShoulderWidth() = %f, want 200", got)
	}
	if got := kps.HipWidth(); math.Abs(got-150) > 1e-9 {
		t.Errorf("HipWidth() = %f, want 150", got)
	}
}

func TestKeypointSet_Midpoint(t *testing.T) {
	kps := StandingPoseKeypoints()

	x, y := kps.Midpoint(LeftShoulder, RightShoulder)
	if x != 500 || y != 200 {
		t.Errorf("shoulder midpoint = (%f, %f), want (500, 200)", x, y)
	}

	if got := kps.MidY(LeftAnkle, RightAnkle); got != 1050 {
		t.Errorf("ankle MidY = %f, want 1050", got)
	}
}

func TestLandmarkName(t *testing.T) {
	tests := []struct {
		idx  int
		want string
	}{
		{Nose, "nose"},
		{LeftShoulder, "left_shoulder"},
		{RightAnkle, "right_ankle"},
		{-1, ""},
		{NumLandmarks, ""},
	}

	for _, tt := range tests {
		if got := LandmarkName(tt.idx); got != tt.want {
			t.Errorf("LandmarkName(%d) = %q, want %q", tt.idx, got, tt.want)
		}
	}
}
