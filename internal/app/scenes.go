package app

import (
	"go.uber.org/zap"

	"github.com/ayusman/voxcraft/internal/store"
)

// SaveScene stores the current voxels under name.
func (a *App) SaveScene(name string) (*store.Scene, error) {
	if a.config.Store == nil {
		return nil, ErrNoStore
	}

	a.mu.Lock()
	specs := a.state.Store().Specs()
	a.mu.Unlock()

	sc, err := a.config.Store.Scenes().Create(name, specs)
	if err != nil {
		return nil, err
	}
	a.log.Info("scene saved", zap.String("id", sc.ID), zap.String("name", sc.Name), zap.Int("voxels", sc.VoxelCount))
	return sc, nil
}

// LoadScene replaces the current voxels with a saved scene.
func (a *App) LoadScene(id string) (*store.Scene, error) {
	if a.config.Store == nil {
		return nil, ErrNoStore
	}

	sc, err := a.config.Store.Scenes().GetByID(id)
	if err != nil {
		return nil, err
	}
	a.ReplaceAll(sc.Structure())
	a.log.Info("scene loaded", zap.String("id", sc.ID), zap.String("name", sc.Name))
	return sc, nil
}

// Scenes lists saved scenes, newest first.
func (a *App) Scenes() ([]*store.Scene, error) {
	if a.config.Store == nil {
		return nil, ErrNoStore
	}
	return a.config.Store.Scenes().List()
}

// Scene returns one saved scene with its voxels.
func (a *App) Scene(id string) (*store.Scene, error) {
	if a.config.Store == nil {
		return nil, ErrNoStore
	}
	return a.config.Store.Scenes().GetByID(id)
}

// DeleteScene removes a saved scene.
func (a *App) DeleteScene(id string) error {
	if a.config.Store == nil {
		return ErrNoStore
	}
	return a.config.Store.Scenes().Delete(id)
}
