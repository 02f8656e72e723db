package store

import (
	"testing"
	"time"
)

func TestGenerationRepository_AppendAndList(t *testing.T) {
	s := newTestStore(t)
	repo := s.Generations()

	ok := &Generation{Prompt: "a tree", Name: "Oak", VoxelCount: 42, Duration: 1500 * time.Millisecond}
	if err := repo.Append(ok); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if ok.ID == 0 || ok.CreatedAt.IsZero() {
		t.Errorf("Append() did not set ID or CreatedAt: %+v", ok)
	}

	failed := &Generation{Prompt: "a dragon", Error: "model returned no text"}
	if err := repo.Append(failed); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	got, err := repo.List(0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List() returned %d, want 2", len(got))
	}
	if got[0].Prompt != "a dragon" || got[0].Succeeded() {
		t.Errorf("newest = %+v, want failed dragon", got[0])
	}
	if got[1].Name != "Oak" || got[1].VoxelCount != 42 || got[1].Duration != 1500*time.Millisecond {
		t.Errorf("oldest = %+v", got[1])
	}
	if !got[1].Succeeded() {
		t.Error("successful record reported as failed")
	}
}

func TestGenerationRepository_ListLimit(t *testing.T) {
	s := newTestStore(t)
	repo := s.Generations()

	for i := 0; i < 5; i++ {
		if err := repo.Append(&Generation{Prompt: "p"}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := repo.List(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("List(3) returned %d", len(got))
	}
}
