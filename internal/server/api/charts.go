package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/nramsai/sizely/internal/sizing"
	"github.com/nramsai/sizely/internal/store"
)

// ChartHandler handles HTTP requests for custom size chart resources.
type ChartHandler struct {
	store *store.Store
}

// NewChartHandler creates a new ChartHandler with the given store.
func NewChartHandler(s *store.Store) *ChartHandler {
	return &ChartHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to
// collection (/api/charts) and item (/api/charts/{id}) methods.
func (h *ChartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/charts")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type chartRequest struct {
	Name   string        `json:"name"`
	Gender string        `json:"gender"`
	Sizes  []sizing.Size `json:"sizes"`
}

type chartResponse struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Gender    string        `json:"gender"`
	Sizes     []sizing.Size `json:"sizes"`
	CreatedAt string        `json:"created_at"`
	UpdatedAt string        `json:"updated_at"`
}

type listChartsResponse struct {
	Charts []chartResponse `json:"charts"`
}

// toResponse converts a store.SizeChart to a chartResponse.
func toResponse(c *store.SizeChart) chartResponse {
	return chartResponse{
		ID:        c.ID,
		Name:      c.Name,
		Gender:    string(c.Gender),
		Sizes:     c.Sizes,
		CreatedAt: c.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: c.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (h *ChartHandler) decode(w http.ResponseWriter, r *http.Request) (*chartRequest, bool) {
	var req chartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return nil, false
	}
	switch sizing.Gender(req.Gender) {
	case sizing.GenderMale, sizing.GenderFemale, sizing.GenderUnisex:
	case "":
		req.Gender = string(sizing.GenderUnisex)
	default:
		writeError(w, http.StatusBadRequest, "bad_request", "gender must be male, female or unisex")
		return nil, false
	}
	return &req, true
}

// list handles GET /api/charts and returns all stored charts.
func (h *ChartHandler) list(w http.ResponseWriter, r *http.Request) {
	charts, err := h.store.Charts().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "failed to list charts")
		return
	}

	resp := listChartsResponse{Charts: make([]chartResponse, 0, len(charts))}
	for _, c := range charts {
		resp.Charts = append(resp.Charts, toResponse(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

// create handles POST /api/charts.
func (h *ChartHandler) create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	chart := &store.SizeChart{
		ID:     uuid.New().String(),
		Name:   req.Name,
		Gender: sizing.Gender(req.Gender),
		Sizes:  req.Sizes,
	}
	if err := h.store.Charts().Create(chart); err != nil {
		if errors.Is(err, sizing.ErrInvalidChart) {
			writeError(w, http.StatusBadRequest, "invalid_size_chart", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", "failed to create chart")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(chart))
}

// get handles GET /api/charts/{id}.
func (h *ChartHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	chart, err := h.store.Charts().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "chart_not_found", "chart not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", "failed to get chart")
		return
	}
	writeJSON(w, http.StatusOK, toResponse(chart))
}

// update handles PUT /api/charts/{id}.
func (h *ChartHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	chart := &store.SizeChart{
		ID:     id,
		Name:   req.Name,
		Gender: sizing.Gender(req.Gender),
		Sizes:  req.Sizes,
	}
	if err := h.store.Charts().Update(chart); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "chart_not_found", "chart not found")
		case errors.Is(err, sizing.ErrInvalidChart):
			writeError(w, http.StatusBadRequest, "invalid_size_chart", err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "internal", "failed to update chart")
		}
		return
	}
	writeJSON(w, http.StatusOK, toResponse(chart))
}

// delete handles DELETE /api/charts/{id}.
func (h *ChartHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Charts().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "chart_not_found", "chart not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", "failed to delete chart")
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// writeError writes a JSON error response with a machine-readable kind.
func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, errorResponse{Error: message, Kind: kind})
}
