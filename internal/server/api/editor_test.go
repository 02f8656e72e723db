package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/ayusman/voxcraft/internal/app"
	"github.com/ayusman/voxcraft/internal/capture"
	"github.com/ayusman/voxcraft/internal/detector"
	"github.com/ayusman/voxcraft/internal/voxel"
)

func TestEditorHandler_State(t *testing.T) {
	a := newTestApp(t, app.Config{})
	h := newTestRouter(a)

	rec := do(t, h, http.MethodGet, "/api/state", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var resp struct {
		Frame struct {
			Mode  string `json:"mode"`
			Color string `json:"color"`
		} `json:"frame"`
		Palette           []string `json:"palette"`
		CameraActive      bool     `json:"camera_active"`
		GenerationEnabled bool     `json:"generation_enabled"`
	}
	decode(t, rec, &resp)

	if resp.Frame.Mode != "BUILD" || resp.Frame.Color != voxel.DefaultColor {
		t.Errorf("frame mode=%q color=%q", resp.Frame.Mode, resp.Frame.Color)
	}
	if len(resp.Palette) != len(voxel.Palette) {
		t.Errorf("expected %d palette colors, got %d", len(voxel.Palette), len(resp.Palette))
	}
	if resp.CameraActive || resp.GenerationEnabled {
		t.Error("camera and generation should be off without collaborators")
	}
}

func TestEditorHandler_SetMode(t *testing.T) {
	a := newTestApp(t, app.Config{})
	h := newTestRouter(a)

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantMode   voxel.Mode
	}{
		{"lowercase erase", modeRequest{Mode: "erase"}, http.StatusOK, voxel.ModeErase},
		{"navigate", modeRequest{Mode: "NAVIGATE"}, http.StatusOK, voxel.ModeNavigate},
		{"unknown mode", modeRequest{Mode: "FLY"}, http.StatusBadRequest, voxel.ModeNavigate},
		{"invalid json", "{", http.StatusBadRequest, voxel.ModeNavigate},
		{"empty body", nil, http.StatusBadRequest, voxel.ModeNavigate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPut, "/api/mode", tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if a.Mode() != tt.wantMode {
				t.Errorf("mode = %s, want %s", a.Mode(), tt.wantMode)
			}
		})
	}
}

func TestEditorHandler_SetColor(t *testing.T) {
	a := newTestApp(t, app.Config{})
	h := newTestRouter(a)

	rec := do(t, h, http.MethodPut, "/api/color", colorRequest{Color: "#EC4899"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var resp colorRequest
	decode(t, rec, &resp)
	if resp.Color != "#ec4899" {
		t.Errorf("color = %q, want #ec4899", resp.Color)
	}

	rec = do(t, h, http.MethodPut, "/api/color", colorRequest{Color: "#123456"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d for off-palette color, got %d", http.StatusBadRequest, rec.Code)
	}
	if a.Color() != "#ec4899" {
		t.Errorf("rejected color changed the selection to %s", a.Color())
	}
}

func TestEditorHandler_VoxelAction(t *testing.T) {
	a := newTestApp(t, app.Config{})
	h := newTestRouter(a)

	rec := do(t, h, http.MethodPost, "/api/voxels/action", actionRequest{X: 1, Y: 2, Z: 3})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var res voxel.Result
	decode(t, rec, &res)
	if res.Outcome != voxel.Built || res.Pos != (voxel.Pos{X: 1, Y: 2, Z: 3}) {
		t.Errorf("result = %+v", res)
	}

	// Same cell again is ignored in BUILD.
	rec = do(t, h, http.MethodPost, "/api/voxels/action", actionRequest{X: 1, Y: 2, Z: 3})
	decode(t, rec, &res)
	if res.Outcome != voxel.Ignored {
		t.Errorf("second build outcome = %s, want ignored", res.Outcome)
	}

	rec = do(t, h, http.MethodGet, "/api/voxels", nil)
	var list voxelsResponse
	decode(t, rec, &list)
	if len(list.Voxels) != 1 {
		t.Errorf("expected 1 voxel, got %d", len(list.Voxels))
	}
}

func TestEditorHandler_Clear(t *testing.T) {
	a := newTestApp(t, app.Config{})
	h := newTestRouter(a)
	a.Apply(voxel.Pos{X: 1})
	a.Apply(voxel.Pos{X: 2})

	rec := do(t, h, http.MethodDelete, "/api/voxels", nil)
	if rec.Code != http.StatusPreconditionRequired {
		t.Errorf("expected status %d without confirm, got %d", http.StatusPreconditionRequired, rec.Code)
	}
	if len(a.Voxels()) != 2 {
		t.Fatal("unconfirmed clear removed voxels")
	}

	rec = do(t, h, http.MethodDelete, "/api/voxels?confirm=true", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var resp clearResponse
	decode(t, rec, &resp)
	if resp.Removed != 2 || len(a.Voxels()) != 0 {
		t.Errorf("removed %d, %d left", resp.Removed, len(a.Voxels()))
	}
}

func TestEditorHandler_Camera(t *testing.T) {
	t.Run("unavailable", func(t *testing.T) {
		cam := capture.NewMockCamera(nil, true)
		cam.SetOpenError(errors.New("busy"))
		a := newTestApp(t, app.Config{Camera: cam, Detector: detector.NewMockDetector()})

		rec := do(t, newTestRouter(a), http.MethodPut, "/api/camera", map[string]bool{"active": true})
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
		}
	})

	t.Run("missing field", func(t *testing.T) {
		a := newTestApp(t, app.Config{})
		rec := do(t, newTestRouter(a), http.MethodPut, "/api/camera", map[string]string{})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
		}
	})

	t.Run("start and stop", func(t *testing.T) {
		cam := capture.NewMockCamera(nil, true)
		a := newTestApp(t, app.Config{Camera: cam, Detector: detector.NewMockDetector()})
		h := newTestRouter(a)

		rec := do(t, h, http.MethodPut, "/api/camera", map[string]bool{"active": true})
		if rec.Code != http.StatusOK || !a.CameraActive() {
			t.Fatalf("start: status %d, active %v", rec.Code, a.CameraActive())
		}

		rec = do(t, h, http.MethodPut, "/api/camera", map[string]bool{"active": false})
		if rec.Code != http.StatusOK || a.CameraActive() {
			t.Fatalf("stop: status %d, active %v", rec.Code, a.CameraActive())
		}
		if cam.IsOpen() {
			t.Error("camera should be released after stop")
		}
	})
}

func TestEditorHandler_MethodNotAllowed(t *testing.T) {
	h := newTestRouter(newTestApp(t, app.Config{}))

	rec := do(t, h, http.MethodPost, "/api/state", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}
