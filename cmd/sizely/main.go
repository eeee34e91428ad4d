package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/nramsai/sizely/internal/app"
	"github.com/nramsai/sizely/internal/config"
	"github.com/nramsai/sizely/internal/detector"
	"github.com/nramsai/sizely/internal/enhance"
	"github.com/nramsai/sizely/internal/server"
	"github.com/nramsai/sizely/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	fmt.Println("Sizely - Body Measurement & Size Recommendation")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	det := newDetector(cfg)
	defer det.Close()

	application := app.New(app.Config{
		Detector: det,
		Enhancer: newEnhancer(cfg),
		Store:    st,
	})

	srv := server.New(server.Config{
		StaticDir: cfg.StaticDir,
		Store:     st,
		App:       application,
		Detector:  det,
	})

	if cfg.StaticDir != "" {
		fmt.Printf("Serving static files from: %s\n", cfg.StaticDir)
	}
	fmt.Printf("Starting server on %s\n", cfg.Addr)
	if err := srv.ListenAndServe(cfg.Addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// newDetector tries the MediaPipe subprocess first and falls back to the
// mock detector so the service stays usable without Python installed.
func newDetector(cfg config.Config) detector.Detector {
	det, err := detector.NewMediaPipeDetector(detector.Config{
		MinConfidence:   cfg.Detector.MinVisibility,
		ModelComplexity: cfg.Detector.ModelComplexity,
	})
	if err != nil {
		log.Printf("MediaPipe detector unavailable (%v), using mock detector", err)
		return detector.NewMockDetector()
	}
	return det
}

// newEnhancer wires the Gemini enhancer when enabled and configured.
func newEnhancer(cfg config.Config) enhance.Enhancer {
	if !cfg.Enhancer.Enabled {
		return nil
	}
	g, err := enhance.NewGemini(enhance.GeminiConfig{
		APIKey:  cfg.Enhancer.APIKey,
		Model:   cfg.Enhancer.Model,
		Timeout: time.Duration(cfg.Enhancer.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		log.Printf("Enhancer disabled: %v", err)
		return nil
	}
	return g
}
