package voxel

import (
	"fmt"
	"testing"
)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("v%d", n)
	}
}

func TestStore_BuildIsIdempotentPerCell(t *testing.T) {
	s := NewStoreWithIDs(seqIDs())
	pos := Pos{1, 2, 3}

	v, ok := s.Build(pos, "#10b981")
	if !ok {
		t.Fatal("Build() on empty cell should place a voxel")
	}
	if v.ID != "v1" || v.Pos != pos || v.Color != "#10b981" {
		t.Errorf("Build() = %+v", v)
	}

	if _, ok := s.Build(pos, "#ef4444"); ok {
		t.Error("Build() on occupied cell should be a no-op")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
	got, _ := s.At(pos)
	if got.Color != "#10b981" {
		t.Errorf("occupied cell recolored to %s", got.Color)
	}
}

func TestStore_EraseRemovesEveryVoxelAtPosition(t *testing.T) {
	s := NewStoreWithIDs(seqIDs())
	s.ReplaceAll([]Spec{
		{Pos: Pos{0, 0, 0}, Color: "#ffffff"},
		{Pos: Pos{1, 0, 0}, Color: "#000000"},
		{Pos: Pos{0, 0, 0}, Color: "#ef4444"},
	})

	removed := s.Erase(Pos{0, 0, 0})
	if len(removed) != 2 {
		t.Fatalf("Erase() removed %d voxels, want 2", len(removed))
	}
	if s.Occupied(Pos{0, 0, 0}) {
		t.Error("position still occupied after Erase()")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}

	if removed := s.Erase(Pos{5, 5, 5}); removed != nil {
		t.Errorf("Erase() on empty cell = %v, want nil", removed)
	}
}

func TestStore_ReplaceAllKeepsDuplicatesAndOrder(t *testing.T) {
	s := NewStoreWithIDs(seqIDs())
	s.Build(Pos{9, 9, 9}, "#10b981")

	specs := []Spec{
		{Pos: Pos{0, 0, 0}, Color: "#3b82f6"},
		{Pos: Pos{0, 0, 0}, Color: "#f59e0b"},
		{Pos: Pos{-1, 2, 3}, Color: "#8b5cf6"},
	}
	s.ReplaceAll(specs)

	got := s.Voxels()
	if len(got) != len(specs) {
		t.Fatalf("Voxels() len = %d, want %d", len(got), len(specs))
	}
	seen := make(map[string]bool)
	for i, v := range got {
		if v.Pos != specs[i].Pos || v.Color != specs[i].Color {
			t.Errorf("voxel %d = %+v, want %+v", i, v, specs[i])
		}
		if seen[v.ID] {
			t.Errorf("duplicate ID %s", v.ID)
		}
		seen[v.ID] = true
	}
	if s.Occupied(Pos{9, 9, 9}) {
		t.Error("ReplaceAll() should discard previous voxels")
	}
}

func TestStore_ReplaceAllEmpty(t *testing.T) {
	s := NewStore()
	s.Build(Pos{0, 0, 0}, DefaultColor)
	s.ReplaceAll(nil)
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestStore_Clear(t *testing.T) {
	s := NewStore()
	s.Build(Pos{0, 0, 0}, DefaultColor)
	s.Build(Pos{0, 1, 0}, DefaultColor)

	if n := s.Clear(); n != 2 {
		t.Errorf("Clear() = %d, want 2", n)
	}
	if s.Len() != 0 || len(s.Voxels()) != 0 {
		t.Error("store not empty after Clear()")
	}
	if _, ok := s.Build(Pos{0, 0, 0}, DefaultColor); !ok {
		t.Error("cleared cell should accept a new voxel")
	}
}

func TestStore_VoxelsIsACopy(t *testing.T) {
	s := NewStore()
	s.Build(Pos{0, 0, 0}, DefaultColor)

	snap := s.Voxels()
	snap[0].Color = "#000000"

	got, _ := s.At(Pos{0, 0, 0})
	if got.Color != DefaultColor {
		t.Error("mutating a snapshot changed the store")
	}
}

func TestStore_Specs(t *testing.T) {
	s := NewStore()
	s.Build(Pos{1, 1, 1}, "#ffffff")
	s.Build(Pos{2, 2, 2}, "#000000")

	want := []Spec{{Pos{1, 1, 1}, "#ffffff"}, {Pos{2, 2, 2}, "#000000"}}
	got := s.Specs()
	if len(got) != len(want) {
		t.Fatalf("Specs() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Specs()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}
