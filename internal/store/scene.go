package store

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/voxcraft/internal/voxel"
)

// ErrEmptyName is returned when saving a scene without a name.
var ErrEmptyName = errors.New("scene name is required")

// Scene is a saved voxel collection.
type Scene struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	VoxelCount int          `json:"voxel_count"`
	Voxels     []voxel.Spec `json:"-"`
	CreatedAt  time.Time    `json:"created_at"`
}

// Structure returns the scene as a structure for bulk replacement.
func (s *Scene) Structure() voxel.Structure {
	return voxel.Structure{Name: s.Name, Voxels: s.Voxels}
}

// SceneRepository provides CRUD operations for saved scenes.
type SceneRepository struct {
	db *sql.DB
}

// Scenes returns the scene repository for this store.
func (s *Store) Scenes() *SceneRepository {
	return &SceneRepository{db: s.db}
}

// Create saves voxels under name in a single transaction.
func (r *SceneRepository) Create(name string, voxels []voxel.Spec) (*Scene, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	sc := &Scene{
		ID:         uuid.New().String(),
		Name:       name,
		VoxelCount: len(voxels),
		Voxels:     voxels,
		CreatedAt:  time.Now(),
	}

	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO scenes (id, name, created_at) VALUES (?, ?, ?)`,
		sc.ID, sc.Name, sc.CreatedAt); err != nil {
		return nil, err
	}

	stmt, err := tx.Prepare(`INSERT INTO scene_voxels (scene_id, seq, x, y, z, color) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	for i, v := range voxels {
		if _, err := stmt.Exec(sc.ID, i, v.Pos.X, v.Pos.Y, v.Pos.Z, v.Color); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return sc, nil
}

// GetByID retrieves a scene with its voxels in saved order.
func (r *SceneRepository) GetByID(id string) (*Scene, error) {
	sc := &Scene{}
	err := r.db.QueryRow(`SELECT id, name, created_at FROM scenes WHERE id = ?`, id).
		Scan(&sc.ID, &sc.Name, &sc.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rows, err := r.db.Query(
		`SELECT x, y, z, color FROM scene_voxels WHERE scene_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sc.Voxels = []voxel.Spec{}
	for rows.Next() {
		var v voxel.Spec
		if err := rows.Scan(&v.Pos.X, &v.Pos.Y, &v.Pos.Z, &v.Color); err != nil {
			return nil, err
		}
		sc.Voxels = append(sc.Voxels, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sc.VoxelCount = len(sc.Voxels)
	return sc, nil
}

// List returns scene summaries, newest first. Voxels are not loaded.
func (r *SceneRepository) List() ([]*Scene, error) {
	rows, err := r.db.Query(
		`SELECT s.id, s.name, s.created_at,
		        (SELECT COUNT(*) FROM scene_voxels v WHERE v.scene_id = s.id)
		 FROM scenes s
		 ORDER BY s.created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scenes []*Scene
	for rows.Next() {
		sc := &Scene{}
		if err := rows.Scan(&sc.ID, &sc.Name, &sc.CreatedAt, &sc.VoxelCount); err != nil {
			return nil, err
		}
		scenes = append(scenes, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return scenes, nil
}

// Delete removes a scene and its voxels.
func (r *SceneRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM scenes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return rowsAffected(res)
}
