// Package voxel holds the canonical voxel collection and the editor state
// that decides how placement actions change it.
package voxel

import (
	"github.com/elliotchance/orderedmap/v2"
	"github.com/google/uuid"
)

// Pos is an integer grid position.
type Pos struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Voxel is a unit cube at a grid position.
type Voxel struct {
	ID    string `json:"id"`
	Pos   Pos    `json:"position"`
	Color string `json:"color"`
}

// Spec describes a voxel to create; the store assigns the ID.
type Spec struct {
	Pos   Pos    `json:"position"`
	Color string `json:"color"`
}

// Structure is a named set of voxels produced outside the editor, by the
// generator or a saved scene.
type Structure struct {
	Name   string
	Voxels []Spec
}

// Store is the voxel collection in insertion order with a position index.
//
// Build keeps at most one voxel per position. ReplaceAll trusts its input and
// may leave several voxels at one position; Erase removes all of them.
// Store is not safe for concurrent use.
type Store struct {
	voxels *orderedmap.OrderedMap[string, Voxel]
	index  map[Pos][]string
	newID  func() string
}

// NewStore creates an empty store that labels voxels with random UUIDs.
func NewStore() *Store {
	return NewStoreWithIDs(func() string { return uuid.New().String() })
}

// NewStoreWithIDs creates an empty store using newID to label voxels.
func NewStoreWithIDs(newID func() string) *Store {
	return &Store{
		voxels: orderedmap.NewOrderedMap[string, Voxel](),
		index:  make(map[Pos][]string),
		newID:  newID,
	}
}

// Len returns the number of voxels.
func (s *Store) Len() int {
	return s.voxels.Len()
}

// Occupied reports whether any voxel sits at pos.
func (s *Store) Occupied(pos Pos) bool {
	return len(s.index[pos]) > 0
}

// At returns the first voxel placed at pos.
func (s *Store) At(pos Pos) (Voxel, bool) {
	ids := s.index[pos]
	if len(ids) == 0 {
		return Voxel{}, false
	}
	return s.voxels.Get(ids[0])
}

// Build places a voxel at pos unless the cell is occupied. The second result
// is false when nothing was placed; an occupied cell keeps its voxel as is.
func (s *Store) Build(pos Pos, color string) (Voxel, bool) {
	if s.Occupied(pos) {
		return Voxel{}, false
	}
	return s.insert(pos, color), true
}

// Erase removes every voxel at pos and returns what was removed.
func (s *Store) Erase(pos Pos) []Voxel {
	ids := s.index[pos]
	if len(ids) == 0 {
		return nil
	}

	removed := make([]Voxel, 0, len(ids))
	for _, id := range ids {
		if v, ok := s.voxels.Get(id); ok {
			removed = append(removed, v)
		}
		s.voxels.Delete(id)
	}
	delete(s.index, pos)
	return removed
}

// ReplaceAll discards the collection and inserts specs verbatim, each with a
// fresh ID. Duplicate positions are kept.
func (s *Store) ReplaceAll(specs []Spec) {
	s.Clear()
	for _, spec := range specs {
		s.insert(spec.Pos, spec.Color)
	}
}

// Clear removes every voxel and returns how many were removed.
func (s *Store) Clear() int {
	n := s.voxels.Len()
	s.voxels = orderedmap.NewOrderedMap[string, Voxel]()
	s.index = make(map[Pos][]string)
	return n
}

// Voxels returns a copy of the collection in insertion order.
func (s *Store) Voxels() []Voxel {
	out := make([]Voxel, 0, s.voxels.Len())
	for el := s.voxels.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}

// Specs returns the collection as specs, dropping IDs.
func (s *Store) Specs() []Spec {
	out := make([]Spec, 0, s.voxels.Len())
	for el := s.voxels.Front(); el != nil; el = el.Next() {
		out = append(out, Spec{Pos: el.Value.Pos, Color: el.Value.Color})
	}
	return out
}

func (s *Store) insert(pos Pos, color string) Voxel {
	v := Voxel{ID: s.newID(), Pos: pos, Color: color}
	s.voxels.Set(v.ID, v)
	s.index[pos] = append(s.index[pos], v.ID)
	return v
}
