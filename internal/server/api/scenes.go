package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ayusman/voxcraft/internal/app"
	"github.com/ayusman/voxcraft/internal/store"
	"github.com/ayusman/voxcraft/internal/voxel"
)

// SceneHandler handles HTTP requests for saved scenes.
type SceneHandler struct {
	app *app.App
}

// NewSceneHandler creates a new SceneHandler for a.
func NewSceneHandler(a *app.App) *SceneHandler {
	return &SceneHandler{app: a}
}

// Routes registers the scene endpoints on r, relative to /api/scenes.
func (h *SceneHandler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/load", h.load)
}

type createSceneRequest struct {
	Name string `json:"name"`
}

type listScenesResponse struct {
	Scenes []*store.Scene `json:"scenes"`
}

type sceneResponse struct {
	*store.Scene
	Voxels []voxel.Spec `json:"voxels"`
}

// writeSceneError maps repository errors to HTTP status codes.
func writeSceneError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, app.ErrNoStore):
		writeError(w, http.StatusServiceUnavailable, "Persistence is not configured")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "Scene not found")
	case errors.Is(err, store.ErrEmptyName):
		writeError(w, http.StatusBadRequest, "Name is required")
	default:
		writeError(w, http.StatusInternalServerError, "Failed to "+action+" scene")
	}
}

func (h *SceneHandler) list(w http.ResponseWriter, r *http.Request) {
	scenes, err := h.app.Scenes()
	if err != nil {
		writeSceneError(w, err, "list")
		return
	}
	if scenes == nil {
		scenes = []*store.Scene{}
	}
	writeJSON(w, http.StatusOK, listScenesResponse{Scenes: scenes})
}

// create saves the current voxels under the given name.
func (h *SceneHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createSceneRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sc, err := h.app.SaveScene(req.Name)
	if err != nil {
		writeSceneError(w, err, "save")
		return
	}
	writeJSON(w, http.StatusCreated, sc)
}

func (h *SceneHandler) get(w http.ResponseWriter, r *http.Request) {
	sc, err := h.app.Scene(chi.URLParam(r, "id"))
	if err != nil {
		writeSceneError(w, err, "get")
		return
	}

	voxels := sc.Voxels
	if voxels == nil {
		voxels = []voxel.Spec{}
	}
	writeJSON(w, http.StatusOK, sceneResponse{Scene: sc, Voxels: voxels})
}

func (h *SceneHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.app.DeleteScene(chi.URLParam(r, "id")); err != nil {
		writeSceneError(w, err, "delete")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// load replaces the current voxels with the saved scene.
func (h *SceneHandler) load(w http.ResponseWriter, r *http.Request) {
	sc, err := h.app.LoadScene(chi.URLParam(r, "id"))
	if err != nil {
		writeSceneError(w, err, "load")
		return
	}
	writeJSON(w, http.StatusOK, sc)
}
