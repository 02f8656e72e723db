package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/voxcraft/internal/voxel"
)

func TestParser_Parse(t *testing.T) {
	p := NewParser()

	st, err := p.Parse(`{"name":"tree","voxels":[{"x":0,"y":0,"z":0,"color":"#8b4513"},{"x":0,"y":1,"z":0,"color":"#10b981"}]}`)
	require.NoError(t, err)
	assert.Equal(t, "tree", st.Name)
	assert.Equal(t, []voxel.Spec{
		{Pos: voxel.Pos{}, Color: "#8b4513"},
		{Pos: voxel.Pos{Y: 1}, Color: "#10b981"},
	}, st.Voxels)
}

func TestParser_StripsCodeFence(t *testing.T) {
	st, err := NewParser().Parse("```json\n{\"name\":\"cube\",\"voxels\":[{\"x\":1,\"y\":2,\"z\":3,\"color\":\"#fff\"}]}\n```")
	require.NoError(t, err)
	assert.Equal(t, "cube", st.Name)
	assert.Len(t, st.Voxels, 1)
}

func TestParser_KeepsDuplicatesAndOutOfRange(t *testing.T) {
	st, err := NewParser().Parse(`{"name":"x","voxels":[{"x":50,"y":0,"z":0,"color":"#000"},{"x":50,"y":0,"z":0,"color":"#fff"}]}`)
	require.NoError(t, err)
	assert.Len(t, st.Voxels, 2)
	assert.Equal(t, 50, st.Voxels[0].Pos.X)
}

func TestParser_EmptyVoxelListIsValid(t *testing.T) {
	st, err := NewParser().Parse(`{"name":"nothing","voxels":[]}`)
	require.NoError(t, err)
	assert.Empty(t, st.Voxels)
}

func TestParser_Rejects(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{name: "empty", text: "  ", want: ErrEmptyResponse},
		{name: "not json", text: "a castle", want: ErrMalformed},
		{name: "wrong coordinate type", text: `{"name":"a","voxels":[{"x":"one","y":0,"z":0,"color":"#fff"}]}`, want: ErrMalformed},
		{name: "missing name", text: `{"voxels":[]}`, want: ErrSchemaMismatch},
		{name: "missing voxels", text: `{"name":"a"}`, want: ErrSchemaMismatch},
		{name: "missing z", text: `{"name":"a","voxels":[{"x":0,"y":0,"color":"#fff"}]}`, want: ErrSchemaMismatch},
		{name: "missing color", text: `{"name":"a","voxels":[{"x":0,"y":0,"z":0}]}`, want: ErrSchemaMismatch},
	}

	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Parse(tt.text)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPromptFor(t *testing.T) {
	assert.Equal(t,
		"Generate a 3D voxel representation for: a red car. Keep it within a 10x10x10 grid. Use hex colors.",
		PromptFor("a red car"))
}
