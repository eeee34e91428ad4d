// Package detector provides body pose detection interfaces and types for
// measurement estimation.
package detector

import "math"

// Body landmark indices for the compact 13-point set used throughout the
// pipeline. The wire names follow MediaPipe Pose convention.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
const (
	Nose          = 0
	LeftShoulder  = 1
	RightShoulder = 2
	LeftElbow     = 3
	RightElbow    = 4
	LeftWrist     = 5
	RightWrist    = 6
	LeftHip       = 7
	RightHip      = 8
	LeftKnee      = 9
	RightKnee     = 10
	LeftAnkle     = 11
	RightAnkle    = 12
	NumLandmarks  = 13
)

// landmarkNames maps landmark indices to their wire names.
var landmarkNames = [NumLandmarks]string{
	"nose",
	"left_shoulder", "right_shoulder",
	"left_elbow", "right_elbow",
	"left_wrist", "right_wrist",
	"left_hip", "right_hip",
	"left_knee", "right_knee",
	"left_ankle", "right_ankle",
}

// LandmarkName returns the wire name for a landmark index, or "" if the index
// is out of range.
func LandmarkName(idx int) string {
	if idx < 0 || idx >= NumLandmarks {
		return ""
	}
	return landmarkNames[idx]
}

// Keypoint is a single body landmark located in source-image pixel
// coordinates, with the detector's visibility score in [0,1].
type Keypoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Visibility float64 `json:"visibility"`
}

// KeypointSet holds the 13 body keypoints of one detected person.
// Coordinates are in the pixel grid of the image they were detected in.
// Missing landmarks carry visibility zero, never a silent (0,0) position
// that downstream code would mistake for a real point.
type KeypointSet struct {
	Points [NumLandmarks]Keypoint `json:"points"`
	Width  int                    `json:"width"`
	Height int                    `json:"height"`
}

// Distance returns the Euclidean pixel distance between two landmarks.
func (k *KeypointSet) Distance(a, b int) float64 {
	dx := k.Points[a].X - k.Points[b].X
	dy := k.Points[a].Y - k.Points[b].Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Visible reports whether a landmark's visibility is at or above the given
// threshold.
func (k *KeypointSet) Visible(idx int, threshold float64) bool {
	return k.Points[idx].Visibility >= threshold
}

// AllVisible reports whether every listed landmark clears the threshold.
func (k *KeypointSet) AllVisible(threshold float64, indices ...int) bool {
	for _, idx := range indices {
		if !k.Visible(idx, threshold) {
			return false
		}
	}
	return true
}

// MidY returns the average Y coordinate of two landmarks. The shoulder, hip
// and ankle lines use left/right averages to cancel pose tilt.
func (k *KeypointSet) MidY(a, b int) float64 {
	return (k.Points[a].Y + k.Points[b].Y) / 2
}

// Midpoint returns the pixel midpoint between two landmarks.
func (k *KeypointSet) Midpoint(a, b int) (x, y float64) {
	return (k.Points[a].X + k.Points[b].X) / 2, (k.Points[a].Y + k.Points[b].Y) / 2
}

// ShoulderWidth returns the shoulder joint-to-joint pixel distance.
func (k *KeypointSet) ShoulderWidth() float64 {
	return k.Distance(LeftShoulder, RightShoulder)
}

// HipWidth returns the hip joint-to-joint pixel distance.
func (k *KeypointSet) HipWidth() float64 {
	return k.Distance(LeftHip, RightHip)
}
