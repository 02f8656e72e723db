package voxel

// Outcome says what a placement action did.
type Outcome string

const (
	Built   Outcome = "built"
	Erased  Outcome = "erased"
	Ignored Outcome = "ignored"
)

// Result describes the effect of one placement action.
type Result struct {
	Outcome Outcome `json:"outcome"`
	Pos     Pos     `json:"position"`
	Voxels  []Voxel `json:"voxels,omitempty"`
}

// State is the editor state: operating mode, selected color and the voxels.
// Every transition is a method so the whole editor can be driven without a
// renderer. State is not safe for concurrent use.
type State struct {
	mode  Mode
	color string
	store *Store
}

// NewState returns a state in BUILD mode with the default color.
func NewState(store *Store) *State {
	if store == nil {
		store = NewStore()
	}
	return &State{
		mode:  ModeBuild,
		color: DefaultColor,
		store: store,
	}
}

// Mode returns the current operating mode.
func (s *State) Mode() Mode { return s.mode }

// Color returns the selected paint color.
func (s *State) Color() string { return s.color }

// Store returns the underlying voxel store.
func (s *State) Store() *Store { return s.store }

// SetMode switches the operating mode.
func (s *State) SetMode(m Mode) error {
	m, err := ParseMode(string(m))
	if err != nil {
		return err
	}
	s.mode = m
	return nil
}

// SetColor selects a palette color.
func (s *State) SetColor(c string) error {
	c, err := ParseColor(c)
	if err != nil {
		return err
	}
	s.color = c
	return nil
}

// Apply routes a placement action at pos through the current mode. BUILD
// fills an empty cell with the selected color, ERASE empties the cell and
// NAVIGATE ignores the action.
func (s *State) Apply(pos Pos) Result {
	switch s.mode {
	case ModeBuild:
		if v, ok := s.store.Build(pos, s.color); ok {
			return Result{Outcome: Built, Pos: pos, Voxels: []Voxel{v}}
		}
	case ModeErase:
		if removed := s.store.Erase(pos); len(removed) > 0 {
			return Result{Outcome: Erased, Pos: pos, Voxels: removed}
		}
	}
	return Result{Outcome: Ignored, Pos: pos}
}

// ReplaceAll swaps the collection for the voxels of st.
func (s *State) ReplaceAll(st Structure) {
	s.store.ReplaceAll(st.Voxels)
}

// Clear empties the collection and returns how many voxels were removed.
func (s *State) Clear() int {
	return s.store.Clear()
}
