package enhance

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/nramsai/sizely/internal/measure"
)

// GeminiConfig configures the Gemini-backed enhancer.
type GeminiConfig struct {
	APIKey string
	Model  string

	// MaxDeviationCM caps how far a refined value may move from the
	// geometric baseline before it is discarded.
	MaxDeviationCM float64

	// Timeout bounds a single enhancement round trip.
	Timeout time.Duration
}

// DefaultGeminiConfig returns the standard enhancer settings minus the key.
func DefaultGeminiConfig() GeminiConfig {
	return GeminiConfig{
		Model:          "gemini-1.5-flash",
		MaxDeviationCM: 30,
		Timeout:        15 * time.Second,
	}
}

// Gemini refines measurements with a Gemini vision model.
type Gemini struct {
	config GeminiConfig
}

// NewGemini creates the enhancer. An empty API key is a configuration error;
// use Noop when enhancement is disabled.
func NewGemini(config GeminiConfig) (*Gemini, error) {
	if strings.TrimSpace(config.APIKey) == "" {
		return nil, fmt.Errorf("%w: empty API key", ErrUnavailable)
	}
	if config.Model == "" {
		config.Model = DefaultGeminiConfig().Model
	}
	if config.MaxDeviationCM <= 0 {
		config.MaxDeviationCM = DefaultGeminiConfig().MaxDeviationCM
	}
	return &Gemini{config: config}, nil
}

const systemPrompt = `You are an expert tailoring consultant analyzing body measurements from a photo.
You receive measurements in centimeters computed from body keypoint geometry.
Refine them considering the visible body shape, loose or tight clothing,
camera angle and perspective distortion, and posture. Keep values you cannot
improve on unchanged. Respond only with JSON matching this shape:
{
  "measurements": {"<name>": <number>, ...},
  "confidence_boost": <number between -20 and 20>,
  "body_type": "<slim|athletic|average|stocky>",
  "adjustment_reason": "<brief explanation>"
}`

// refinementWire is the model's JSON response.
type refinementWire struct {
	Measurements     map[string]float64 `json:"measurements"`
	ConfidenceBoost  float64            `json:"confidence_boost"`
	BodyType         string             `json:"body_type"`
	AdjustmentReason string             `json:"adjustment_reason"`
}

// Refine sends the photo and baseline to Gemini and returns the sanitized
// refinement. Any transport or parse failure maps to ErrUnavailable so
// callers degrade uniformly.
func (g *Gemini) Refine(ctx context.Context, image []byte, baseline measure.Measurements) (*Refinement, error) {
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.config.APIKey))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.config.Model)
	model.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0.1),
		ResponseMIMEType: "application/json",
	}
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}

	baselineJSON, err := json.Marshal(baseline)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	parts := []genai.Part{
		genai.Text("Geometric baseline measurements (cm):\n" + string(baselineJSON)),
		&genai.Blob{MIMEType: "image/jpeg", Data: image},
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	text := firstText(resp)
	if text == "" {
		return nil, fmt.Errorf("%w: empty response", ErrUnavailable)
	}

	var wire refinementWire
	if err := json.Unmarshal([]byte(stripCodeFences(strings.TrimSpace(text))), &wire); err != nil {
		return nil, fmt.Errorf("%w: bad JSON: %v", ErrUnavailable, err)
	}

	refined, delta := sanitize(baseline, wire.Measurements, g.config.MaxDeviationCM, wire.ConfidenceBoost)
	return &Refinement{
		Measurements:    refined,
		ConfidenceDelta: delta,
		BodyType:        wire.BodyType,
		Reason:          wire.AdjustmentReason,
	}, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

// stripCodeFences removes a surrounding markdown code fence if the model
// ignored the JSON response mode.
func stripCodeFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func ptrFloat32(v float32) *float32 { return &v }

var _ Enhancer = (*Gemini)(nil)
var _ Enhancer = Noop{}
