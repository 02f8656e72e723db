package store

import (
	"errors"
	"testing"

	"github.com/ayusman/voxcraft/internal/voxel"
)

func TestSceneRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	repo := s.Scenes()

	voxels := []voxel.Spec{
		{Pos: voxel.Pos{X: 0, Y: 0, Z: 0}, Color: "#10b981"},
		{Pos: voxel.Pos{X: -3, Y: 4, Z: 2}, Color: "#ef4444"},
		{Pos: voxel.Pos{X: 0, Y: 0, Z: 0}, Color: "#ffffff"},
	}

	sc, err := repo.Create("  castle ", voxels)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if sc.ID == "" || sc.Name != "castle" || sc.VoxelCount != 3 {
		t.Errorf("Create() = %+v", sc)
	}

	got, err := repo.GetByID(sc.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "castle" {
		t.Errorf("Name = %q, want castle", got.Name)
	}
	if len(got.Voxels) != len(voxels) {
		t.Fatalf("got %d voxels, want %d", len(got.Voxels), len(voxels))
	}
	for i := range voxels {
		if got.Voxels[i] != voxels[i] {
			t.Errorf("voxel %d = %+v, want %+v", i, got.Voxels[i], voxels[i])
		}
	}
	if st := got.Structure(); st.Name != "castle" || len(st.Voxels) != 3 {
		t.Errorf("Structure() = %+v", st)
	}
}

func TestSceneRepository_CreateEmptyScene(t *testing.T) {
	s := newTestStore(t)

	sc, err := s.Scenes().Create("blank", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	got, err := s.Scenes().GetByID(sc.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Voxels == nil || len(got.Voxels) != 0 {
		t.Errorf("Voxels = %v, want empty slice", got.Voxels)
	}
}

func TestSceneRepository_CreateRequiresName(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Scenes().Create("   ", nil); !errors.Is(err, ErrEmptyName) {
		t.Errorf("Create() error = %v, want ErrEmptyName", err)
	}
}

func TestSceneRepository_List(t *testing.T) {
	s := newTestStore(t)
	repo := s.Scenes()

	if _, err := repo.Create("first", []voxel.Spec{{Color: "#000000"}}); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Create("second", []voxel.Spec{{Color: "#000000"}, {Color: "#ffffff"}}); err != nil {
		t.Fatal(err)
	}

	scenes, err := repo.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(scenes) != 2 {
		t.Fatalf("List() returned %d scenes, want 2", len(scenes))
	}
	if scenes[0].Name != "second" || scenes[0].VoxelCount != 2 {
		t.Errorf("newest scene = %+v, want second with 2 voxels", scenes[0])
	}
	if scenes[1].VoxelCount != 1 {
		t.Errorf("oldest scene count = %d, want 1", scenes[1].VoxelCount)
	}
}

func TestSceneRepository_DeleteCascades(t *testing.T) {
	s := newTestStore(t)
	repo := s.Scenes()

	sc, err := repo.Create("temp", []voxel.Spec{{Color: "#000000"}, {Color: "#ffffff"}})
	if err != nil {
		t.Fatal(err)
	}

	if err := repo.Delete(sc.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID(sc.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() after delete = %v, want ErrNotFound", err)
	}

	var n int
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM scene_voxels`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("%d orphaned voxel rows after delete", n)
	}
}

func TestSceneRepository_NotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Scenes().GetByID("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() = %v, want ErrNotFound", err)
	}
	if err := s.Scenes().Delete("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() = %v, want ErrNotFound", err)
	}
}
