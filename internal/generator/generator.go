// Package generator turns a natural-language prompt into a voxel structure
// using a remote generative model.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ayusman/voxcraft/internal/voxel"
)

var (
	ErrEmptyPrompt    = errors.New("prompt is empty")
	ErrNoAPIKey       = errors.New("gemini API key required")
	ErrEmptyResponse  = errors.New("model returned no text")
	ErrMalformed      = errors.New("model output is not valid JSON")
	ErrSchemaMismatch = errors.New("model output does not match the voxel schema")
)

// Generator produces a voxel structure for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (voxel.Structure, error)
}

// PromptFor builds the instruction sent to the model.
func PromptFor(prompt string) string {
	return fmt.Sprintf("Generate a 3D voxel representation for: %s. Keep it within a 10x10x10 grid. Use hex colors.", prompt)
}

// Pointer fields let the validator tell a missing coordinate from zero.
type structurePayload struct {
	Name   *string        `json:"name" validate:"required"`
	Voxels []voxelPayload `json:"voxels" validate:"required,dive"`
}

type voxelPayload struct {
	X     *int    `json:"x" validate:"required"`
	Y     *int    `json:"y" validate:"required"`
	Z     *int    `json:"z" validate:"required"`
	Color *string `json:"color" validate:"required"`
}

// Parser decodes model output into a structure.
type Parser struct {
	validate *validator.Validate
}

// NewParser creates a parser with its own validator instance.
func NewParser() *Parser {
	return &Parser{validate: validator.New()}
}

// Parse decodes text, tolerating a markdown code fence around the JSON.
// An empty voxel list is a valid structure.
func (p *Parser) Parse(text string) (voxel.Structure, error) {
	text = stripFence(text)
	if text == "" {
		return voxel.Structure{}, ErrEmptyResponse
	}

	var payload structurePayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return voxel.Structure{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := p.validate.Struct(payload); err != nil {
		return voxel.Structure{}, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}

	st := voxel.Structure{
		Name:   *payload.Name,
		Voxels: make([]voxel.Spec, 0, len(payload.Voxels)),
	}
	for _, v := range payload.Voxels {
		st.Voxels = append(st.Voxels, voxel.Spec{
			Pos:   voxel.Pos{X: *v.X, Y: *v.Y, Z: *v.Z},
			Color: *v.Color,
		})
	}
	return st, nil
}

func stripFence(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
