package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ayusman/voxcraft/internal/app"
	"github.com/ayusman/voxcraft/internal/generator"
	"github.com/ayusman/voxcraft/internal/store"
)

// GenerateHandler handles structure generation and its history.
type GenerateHandler struct {
	app *app.App
}

// NewGenerateHandler creates a new GenerateHandler for a.
func NewGenerateHandler(a *app.App) *GenerateHandler {
	return &GenerateHandler{app: a}
}

// Routes registers the generation endpoints on r.
func (h *GenerateHandler) Routes(r chi.Router) {
	r.Post("/generate", h.generate)
	r.Get("/generations", h.list)
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type listGenerationsResponse struct {
	Generations []*store.Generation `json:"generations"`
}

// generate handles POST /api/generate. A failed generation still answers
// 200 with applied=false so the client returns to idle.
func (h *GenerateHandler) generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.app.Generate(r.Context(), req.Prompt)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, res)
	case errors.Is(err, generator.ErrEmptyPrompt):
		writeError(w, http.StatusBadRequest, "Prompt is required")
	case errors.Is(err, app.ErrBusy):
		writeError(w, http.StatusConflict, "A generation is already in progress")
	case errors.Is(err, app.ErrGenerationDisabled):
		writeError(w, http.StatusServiceUnavailable, "Generation is not configured")
	default:
		writeError(w, http.StatusInternalServerError, "Failed to generate")
	}
}

// list handles GET /api/generations?limit=N.
func (h *GenerateHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Limit must be a non-negative integer")
			return
		}
		limit = n
	}

	gens, err := h.app.Generations(limit)
	if err != nil {
		if errors.Is(err, app.ErrNoStore) {
			writeError(w, http.StatusServiceUnavailable, "Persistence is not configured")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to list generations")
		return
	}
	if gens == nil {
		gens = []*store.Generation{}
	}
	writeJSON(w, http.StatusOK, listGenerationsResponse{Generations: gens})
}
