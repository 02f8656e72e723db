package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ayusman/voxcraft/internal/app"
	"github.com/ayusman/voxcraft/internal/voxel"
)

// EditorHandler exposes the editor state: mode, color, camera and voxels.
type EditorHandler struct {
	app *app.App
}

// NewEditorHandler creates a new EditorHandler for a.
func NewEditorHandler(a *app.App) *EditorHandler {
	return &EditorHandler{app: a}
}

// Routes registers the editor endpoints on r.
func (h *EditorHandler) Routes(r chi.Router) {
	r.Get("/state", h.state)
	r.Put("/mode", h.setMode)
	r.Put("/color", h.setColor)
	r.Put("/camera", h.setCamera)
	r.Route("/voxels", func(r chi.Router) {
		r.Get("/", h.voxels)
		r.Delete("/", h.clear)
		r.Post("/action", h.action)
	})
}

type stateResponse struct {
	Frame             app.Frame `json:"frame"`
	Palette           []string  `json:"palette"`
	CameraActive      bool      `json:"camera_active"`
	GenerationEnabled bool      `json:"generation_enabled"`
	Generating        bool      `json:"generating"`
}

type modeRequest struct {
	Mode string `json:"mode"`
}

type colorRequest struct {
	Color string `json:"color"`
}

type cameraRequest struct {
	Active *bool `json:"active"`
}

type actionRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

type voxelsResponse struct {
	Voxels []voxel.Voxel `json:"voxels"`
}

type clearResponse struct {
	Removed int `json:"removed"`
}

func (h *EditorHandler) state(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stateResponse{
		Frame:             h.app.LastFrame(),
		Palette:           voxel.Palette,
		CameraActive:      h.app.CameraActive(),
		GenerationEnabled: h.app.GenerationEnabled(),
		Generating:        h.app.Generating(),
	})
}

// setMode handles PUT /api/mode.
func (h *EditorHandler) setMode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	m, err := voxel.ParseMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Mode must be BUILD, ERASE or NAVIGATE")
		return
	}
	if err := h.app.SetMode(m); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to set mode")
		return
	}
	writeJSON(w, http.StatusOK, modeRequest{Mode: string(h.app.Mode())})
}

// setColor handles PUT /api/color.
func (h *EditorHandler) setColor(w http.ResponseWriter, r *http.Request) {
	var req colorRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.app.SetColor(req.Color); err != nil {
		if errors.Is(err, voxel.ErrUnknownColor) {
			writeError(w, http.StatusBadRequest, "Color is not in the palette")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to set color")
		return
	}
	writeJSON(w, http.StatusOK, colorRequest{Color: h.app.Color()})
}

// setCamera handles PUT /api/camera.
func (h *EditorHandler) setCamera(w http.ResponseWriter, r *http.Request) {
	var req cameraRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Active == nil {
		writeError(w, http.StatusBadRequest, "Field 'active' is required")
		return
	}

	if err := h.app.SetCameraActive(*req.Active); err != nil {
		if errors.Is(err, app.ErrCameraUnavailable) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to switch camera")
		return
	}
	active := h.app.CameraActive()
	writeJSON(w, http.StatusOK, cameraRequest{Active: &active})
}

func (h *EditorHandler) voxels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, voxelsResponse{Voxels: h.app.Voxels()})
}

// action handles POST /api/voxels/action, a pointer-driven placement that
// goes through the same mode-aware path as a pinch.
func (h *EditorHandler) action(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, h.app.Apply(voxel.Pos{X: req.X, Y: req.Y, Z: req.Z}))
}

// clear handles DELETE /api/voxels. The caller must confirm explicitly.
func (h *EditorHandler) clear(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		writeError(w, http.StatusPreconditionRequired, "Clearing all voxels requires confirm=true")
		return
	}
	writeJSON(w, http.StatusOK, clearResponse{Removed: h.app.Clear()})
}
