package detector

import "context"

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	keypoints *KeypointSet
	err       error
	calls     int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetKeypoints sets the keypoints that will be returned by Detect.
func (m *MockDetector) SetKeypoints(kps *KeypointSet) {
	m.keypoints = kps
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	return m.calls
}

// Detect returns the pre-configured keypoints or error.
func (m *MockDetector) Detect(ctx context.Context, image []byte) (*KeypointSet, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.keypoints == nil {
		return nil, ErrNoPersonDetected
	}
	return m.keypoints, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// StandingPoseKeypoints returns a preset KeypointSet describing a symmetric,
// front-facing standing pose in a 1000x1200 image. All landmarks are well
// above the default visibility threshold.
func StandingPoseKeypoints() *KeypointSet {
	kps := &KeypointSet{Width: 1000, Height: 1200}

	kps.Points[Nose] = Keypoint{X: 500, Y: 100, Visibility: 0.99}

	kps.Points[LeftShoulder] = Keypoint{X: 400, Y: 200, Visibility: 0.95}
	kps.Points[RightShoulder] = Keypoint{X: 600, Y: 200, Visibility: 0.95}

	kps.Points[LeftElbow] = Keypoint{X: 350, Y: 350, Visibility: 0.90}
	kps.Points[RightElbow] = Keypoint{X: 650, Y: 350, Visibility: 0.90}

	kps.Points[LeftWrist] = Keypoint{X: 320, Y: 500, Visibility: 0.85}
	kps.Points[RightWrist] = Keypoint{X: 680, Y: 500, Visibility: 0.85}

	kps.Points[LeftHip] = Keypoint{X: 425, Y: 550, Visibility: 0.95}
	kps.Points[RightHip] = Keypoint{X: 575, Y: 550, Visibility: 0.95}

	kps.Points[LeftKnee] = Keypoint{X: 420, Y: 800, Visibility: 0.90}
	kps.Points[RightKnee] = Keypoint{X: 580, Y: 800, Visibility: 0.90}

	kps.Points[LeftAnkle] = Keypoint{X: 415, Y: 1050, Visibility: 0.85}
	kps.Points[RightAnkle] = Keypoint{X: 585, Y: 1050, Visibility: 0.85}

	return kps
}

// FittedPoseKeypoints returns a preset KeypointSet for a front-facing pose
// in a 1000x1000 image whose proportions match a 170 cm person exactly. Both
// calibration reference spans agree on 5.0 pixels per centimeter, so every
// derived quantity has a clean closed-form expectation.
func FittedPoseKeypoints() *KeypointSet {
	kps := &KeypointSet{Width: 1000, Height: 1000}

	kps.Points[Nose] = Keypoint{X: 500, Y: 60, Visibility: 0.99}

	kps.Points[LeftShoulder] = Keypoint{X: 387.5, Y: 210, Visibility: 0.97}
	kps.Points[RightShoulder] = Keypoint{X: 612.5, Y: 210, Visibility: 0.97}

	kps.Points[LeftElbow] = Keypoint{X: 340, Y: 360, Visibility: 0.94}
	kps.Points[RightElbow] = Keypoint{X: 660, Y: 360, Visibility: 0.94}

	kps.Points[LeftWrist] = Keypoint{X: 320, Y: 520, Visibility: 0.92}
	kps.Points[RightWrist] = Keypoint{X: 680, Y: 520, Visibility: 0.92}

	kps.Points[LeftHip] = Keypoint{X: 405, Y: 459.5, Visibility: 0.96}
	kps.Points[RightHip] = Keypoint{X: 595, Y: 459.5, Visibility: 0.96}

	kps.Points[LeftKnee] = Keypoint{X: 412.5, Y: 650, Visibility: 0.93}
	kps.Points[RightKnee] = Keypoint{X: 587.5, Y: 650, Visibility: 0.93}

	kps.Points[LeftAnkle] = Keypoint{X: 420, Y: 842, Visibility: 0.90}
	kps.Points[RightAnkle] = Keypoint{X: 580, Y: 842, Visibility: 0.90}

	return kps
}

// HiddenAnklesKeypoints returns a standing pose whose ankles fall below any
// reasonable visibility threshold, as when the feet are cropped out of frame.
func HiddenAnklesKeypoints() *KeypointSet {
	kps := StandingPoseKeypoints()
	kps.Points[LeftAnkle].Visibility = 0.1
	kps.Points[RightAnkle].Visibility = 0.1
	return kps
}
