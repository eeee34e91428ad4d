package detector

import (
	"context"
	"errors"
)

// ErrNoPersonDetected is returned when the pose model finds no usable person
// in the image. Callers surface this to the user as a retake-photo outcome.
var ErrNoPersonDetected = errors.New("no person detected")

// Detector defines the interface for body pose detection implementations.
type Detector interface {
	// Detect analyzes an encoded image (JPEG or PNG) and returns the body
	// keypoints of the detected person. Returns ErrNoPersonDetected if no
	// person is found.
	Detect(ctx context.Context, image []byte) (*KeypointSet, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for pose detection.
type Config struct {
	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// ModelComplexity selects the MediaPipe pose model variant (0-2).
	// Higher is more accurate and slower.
	ModelComplexity int
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MinConfidence:   0.5,
		ModelComplexity: 1,
	}
}
