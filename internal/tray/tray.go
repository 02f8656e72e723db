// Package tray provides a system tray menu for the voxcraft editor.
package tray

import (
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/voxcraft/internal/voxel"
)

// Controller is the part of the editor the tray drives.
type Controller interface {
	Mode() voxel.Mode
	SetMode(voxel.Mode) error
	CameraActive() bool
	SetCameraActive(bool) error
	Clear() int
}

// Tray represents the system tray application.
type Tray struct {
	ctrl   Controller
	onOpen func()
	onQuit func()
	mu     sync.RWMutex

	// clearArmed is set by "Clear All..." and consumed by "Confirm clear".
	clearArmed bool

	// Menu items stored for later updates
	menuModes   map[voxel.Mode]*systray.MenuItem
	menuCamera  *systray.MenuItem
	menuConfirm *systray.MenuItem
	menuHand    *systray.MenuItem
}

// New creates a Tray that drives ctrl.
func New(ctrl Controller) *Tray {
	return &Tray{ctrl: ctrl}
}

// OnOpen sets the callback function to be called when the open UI item is clicked.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit stops the tray from outside the menu.
func (t *Tray) Quit() {
	systray.Quit()
}

var modeItems = []struct {
	mode  voxel.Mode
	title string
	tip   string
}{
	{voxel.ModeBuild, "Build", "Pinch to place voxels"},
	{voxel.ModeErase, "Erase", "Pinch to remove voxels"},
	{voxel.ModeNavigate, "Orbit", "Rotate the camera; gestures do not edit"},
}

// onReady sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Voxcraft")
	systray.SetTooltip("Voxcraft gesture voxel builder")

	t.mu.Lock()
	t.menuModes = make(map[voxel.Mode]*systray.MenuItem, len(modeItems))
	for _, it := range modeItems {
		t.menuModes[it.mode] = systray.AddMenuItemCheckbox(it.title, it.tip, false)
	}
	systray.AddSeparator()

	t.menuCamera = systray.AddMenuItem(cameraTitle(false), "Toggle hand tracking")
	t.menuHand = systray.AddMenuItem("Hand: inactive", "Hand tracking status")
	t.menuHand.Disable()
	systray.AddSeparator()

	menuClear := systray.AddMenuItem("Clear All...", "Remove every voxel")
	t.menuConfirm = systray.AddMenuItem("Confirm clear", "Really remove every voxel")
	t.menuConfirm.Hide()
	systray.AddSeparator()

	menuOpen := systray.AddMenuItem("Open Editor...", "Open the editor in the browser")
	menuQuit := systray.AddMenuItem("Quit", "Quit Voxcraft")
	t.mu.Unlock()

	t.Refresh()

	for _, it := range modeItems {
		mode, item := it.mode, t.menuModes[it.mode]
		go func() {
			for range item.ClickedCh {
				t.handleMode(mode)
			}
		}()
	}

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuCamera.ClickedCh:
				t.handleCamera()
			case <-menuClear.ClickedCh:
				t.armClear()
			case <-t.menuConfirm.ClickedCh:
				t.handleConfirmClear()
			case <-menuOpen.ClickedCh:
				t.handleOpen()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {}

func cameraTitle(active bool) string {
	if active {
		return "● Camera on"
	}
	return "○ Camera off"
}

// handleMode switches the editor mode from the radio group.
func (t *Tray) handleMode(m voxel.Mode) {
	t.ctrl.SetMode(m)
	t.Refresh()
}

// handleCamera toggles hand tracking. A failed start leaves it off.
func (t *Tray) handleCamera() {
	t.ctrl.SetCameraActive(!t.ctrl.CameraActive())
	t.Refresh()
}

// armClear reveals the confirmation item; nothing is removed yet.
func (t *Tray) armClear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clearArmed = true
	if t.menuConfirm != nil {
		t.menuConfirm.Show()
	}
}

// handleConfirmClear clears the scene if the clear was armed first.
func (t *Tray) handleConfirmClear() int {
	t.mu.Lock()
	armed := t.clearArmed
	t.clearArmed = false
	if t.menuConfirm != nil {
		t.menuConfirm.Hide()
	}
	t.mu.Unlock()

	if !armed {
		return 0
	}
	return t.ctrl.Clear()
}

func (t *Tray) handleOpen() {
	t.mu.RLock()
	callback := t.onOpen
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// Refresh syncs the mode radio group and the camera item with the editor.
func (t *Tray) Refresh() {
	mode := t.ctrl.Mode()
	active := t.ctrl.CameraActive()

	t.mu.RLock()
	defer t.mu.RUnlock()

	for m, item := range t.menuModes {
		if m == mode {
			item.Check()
		} else {
			item.Uncheck()
		}
	}
	if t.menuCamera != nil {
		t.menuCamera.SetTitle(cameraTitle(active))
	}
}

// SetHandStatus updates the hand status display in the menu.
func (t *Tray) SetHandStatus(status string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuHand != nil {
		t.menuHand.SetTitle("Hand: " + status)
	}
}
