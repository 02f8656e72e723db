package store

import (
	"database/sql"
	"time"
)

// DefaultGenerationLimit bounds List when no limit is given.
const DefaultGenerationLimit = 50

// Generation records one structure generation attempt.
type Generation struct {
	ID         int64         `json:"id"`
	Prompt     string        `json:"prompt"`
	Name       string        `json:"name,omitempty"`
	VoxelCount int           `json:"voxel_count"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration"`
	CreatedAt  time.Time     `json:"created_at"`
}

// Succeeded reports whether the attempt replaced the scene.
func (g *Generation) Succeeded() bool {
	return g.Error == ""
}

// GenerationRepository is an append-only log of generation attempts.
type GenerationRepository struct {
	db *sql.DB
}

// Generations returns the generation repository for this store.
func (s *Store) Generations() *GenerationRepository {
	return &GenerationRepository{db: s.db}
}

// Append stores g and sets its ID and CreatedAt.
func (r *GenerationRepository) Append(g *Generation) error {
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}

	res, err := r.db.Exec(
		`INSERT INTO generations (prompt, name, voxel_count, error, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		g.Prompt, g.Name, g.VoxelCount, g.Error, g.Duration.Milliseconds(), g.CreatedAt,
	)
	if err != nil {
		return err
	}

	g.ID, err = res.LastInsertId()
	return err
}

// List returns up to limit records, newest first.
func (r *GenerationRepository) List(limit int) ([]*Generation, error) {
	if limit <= 0 {
		limit = DefaultGenerationLimit
	}

	rows, err := r.db.Query(
		`SELECT id, prompt, name, voxel_count, error, duration_ms, created_at
		 FROM generations ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Generation
	for rows.Next() {
		g := &Generation{}
		var ms int64
		if err := rows.Scan(&g.ID, &g.Prompt, &g.Name, &g.VoxelCount, &g.Error, &ms, &g.CreatedAt); err != nil {
			return nil, err
		}
		g.Duration = time.Duration(ms) * time.Millisecond
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
