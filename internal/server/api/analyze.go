// Package api provides HTTP API handlers for the body measurement service.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/nramsai/sizely/internal/app"
	"github.com/nramsai/sizely/internal/detector"
	"github.com/nramsai/sizely/internal/measure"
	"github.com/nramsai/sizely/internal/quality"
	"github.com/nramsai/sizely/internal/sizing"
	"github.com/nramsai/sizely/internal/store"
)

// maxUploadBytes caps the multipart form size: three photos plus fields.
const maxUploadBytes = 32 << 20

// AnalyzeHandler handles measurement analysis requests.
type AnalyzeHandler struct {
	app *app.App
}

// NewAnalyzeHandler creates a new AnalyzeHandler backed by the pipeline.
func NewAnalyzeHandler(a *app.App) *AnalyzeHandler {
	return &AnalyzeHandler{app: a}
}

// ServeHTTP handles POST /api/analyze with a multipart form: "image"
// (required front view), optional "back" and "side" views, and the fields
// "gender", "category", "height_cm", "chart_id" or inline "chart" JSON.
func (h *AnalyzeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid multipart form: "+err.Error())
		return
	}

	image, err := formFile(r, "image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "missing image file")
		return
	}

	req := app.Request{
		Image:    image,
		Gender:   sizing.Gender(r.FormValue("gender")),
		Category: r.FormValue("category"),
		ChartID:  r.FormValue("chart_id"),
	}
	if req.Gender == "" {
		req.Gender = sizing.GenderUnisex
	}

	if v := r.FormValue("height_cm"); v != "" {
		height, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid height_cm")
			return
		}
		req.HeightCM = height
	}

	if v := r.FormValue("chart"); v != "" {
		var chart sizing.Chart
		if err := json.Unmarshal([]byte(v), &chart); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_size_chart", "invalid chart JSON: "+err.Error())
			return
		}
		req.Chart = &chart
	}

	if back, err := formFile(r, "back"); err == nil {
		req.BackImage = back
	}
	if side, err := formFile(r, "side"); err == nil {
		req.SideImage = side
	}

	result, err := h.app.Analyze(r.Context(), req)
	if err != nil {
		status, kind := classifyError(err)
		writeError(w, status, kind, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// formFile reads one uploaded file fully into memory.
func formFile(r *http.Request, field string) ([]byte, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(io.LimitReader(file, maxUploadBytes))
}

// classifyError maps pipeline sentinels onto HTTP status codes and
// machine-readable kinds. Anything unrecognized is an internal fault.
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, quality.ErrUnusableImage):
		return http.StatusBadRequest, "unusable_image"
	case errors.Is(err, detector.ErrNoPersonDetected):
		return http.StatusBadRequest, "no_person_detected"
	case errors.Is(err, measure.ErrInsufficientKeypoints):
		return http.StatusBadRequest, "insufficient_keypoints"
	case errors.Is(err, sizing.ErrInvalidChart):
		return http.StatusBadRequest, "invalid_size_chart"
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "chart_not_found"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
