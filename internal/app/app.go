// Package app orchestrates the measurement pipeline: photo quality gate,
// keypoint detection, calibration, estimation, size recommendation and
// optional AI enhancement.
package app

import (
	"github.com/nramsai/sizely/internal/detector"
	"github.com/nramsai/sizely/internal/enhance"
	"github.com/nramsai/sizely/internal/measure"
	"github.com/nramsai/sizely/internal/quality"
	"github.com/nramsai/sizely/internal/store"
)

// Config holds the pipeline collaborators. Detector is required; the rest
// are optional and the pipeline degrades without them.
type Config struct {
	Detector detector.Detector

	// Enhancer refines measurements with an AI model. Nil disables
	// enhancement entirely.
	Enhancer enhance.Enhancer

	// Store persists analysis history. Nil disables persistence.
	Store *store.Store

	// Quality overrides the default photo validator.
	Quality QualityChecker

	// Calibrator, Classifier and Estimator override the default
	// measurement configuration.
	Calibrator *measure.Calibrator
	Classifier *measure.ClassifierConfig
	Estimator  *measure.Estimator
}

// QualityChecker is the photo quality gate. quality.Validator is the
// production implementation.
type QualityChecker interface {
	CheckImage(image []byte) (*quality.ImageMetrics, error)
	CheckPose(kps *detector.KeypointSet) (*quality.PoseMetrics, error)
}

// App runs analyses. Safe for concurrent use: all collaborators are
// read-only after construction.
type App struct {
	detector   detector.Detector
	enhancer   enhance.Enhancer
	store      *store.Store
	quality    QualityChecker
	calibrator *measure.Calibrator
	classifier measure.ClassifierConfig
	estimator  *measure.Estimator
}

// New creates an App, filling in defaults for any nil optional collaborator.
func New(config Config) *App {
	a := &App{
		detector:   config.Detector,
		enhancer:   config.Enhancer,
		store:      config.Store,
		quality:    config.Quality,
		calibrator: config.Calibrator,
		estimator:  config.Estimator,
		classifier: measure.DefaultClassifierConfig(),
	}
	if a.quality == nil {
		a.quality = quality.NewValidator(quality.DefaultConfig())
	}
	if a.calibrator == nil {
		a.calibrator = measure.NewCalibrator(measure.DefaultCalibratorConfig())
	}
	if a.estimator == nil {
		a.estimator = measure.NewEstimator(measure.DefaultEstimatorConfig())
	}
	if config.Classifier != nil {
		a.classifier = *config.Classifier
	}
	return a
}
