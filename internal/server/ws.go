package server

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/nramsai/sizely/internal/detector"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// PreviewHandler gives clients live pose feedback before they submit a
// photo: each binary frame gets a JSON reply with the detected landmarks and
// a coarse framing readout.
type PreviewHandler struct {
	detector detector.Detector
}

// NewPreviewHandler creates a new PreviewHandler with the given detector.
func NewPreviewHandler(d detector.Detector) *PreviewHandler {
	return &PreviewHandler{detector: d}
}

// previewResponse is sent once per received frame.
type previewResponse struct {
	Detected  bool              `json:"detected"`
	Keypoints []previewKeypoint `json:"keypoints,omitempty"`
	ShoulderW float64           `json:"shoulder_width_px,omitempty"`
	HipW      float64           `json:"hip_width_px,omitempty"`
	Error     string            `json:"error,omitempty"`
}

type previewKeypoint struct {
	Name       string  `json:"name"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Visibility float64 `json:"visibility"`
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *PreviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	for {
		msgType, frame, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.BinaryMessage {
			continue
		}

		resp := h.analyzeFrame(r.Context(), frame)
		if err := conn.WriteJSON(resp); err != nil {
			return
		}
	}
}

// analyzeFrame runs detection on one preview frame. A missed detection is a
// normal reply, not a connection error.
func (h *PreviewHandler) analyzeFrame(ctx context.Context, frame []byte) previewResponse {
	kps, err := h.detector.Detect(ctx, frame)
	if err != nil {
		if errors.Is(err, detector.ErrNoPersonDetected) {
			return previewResponse{Detected: false}
		}
		return previewResponse{Detected: false, Error: err.Error()}
	}

	resp := previewResponse{
		Detected:  true,
		Keypoints: make([]previewKeypoint, 0, detector.NumLandmarks),
		ShoulderW: kps.ShoulderWidth(),
		HipW:      kps.HipWidth(),
	}
	for i := 0; i < detector.NumLandmarks; i++ {
		p := kps.Points[i]
		resp.Keypoints = append(resp.Keypoints, previewKeypoint{
			Name:       detector.LandmarkName(i),
			X:          p.X,
			Y:          p.Y,
			Visibility: p.Visibility,
		})
	}
	return resp
}
