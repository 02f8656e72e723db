package voxel

import (
	"errors"
	"strings"
)

// Mode selects what a placement action does.
type Mode string

const (
	ModeBuild    Mode = "BUILD"
	ModeErase    Mode = "ERASE"
	ModeNavigate Mode = "NAVIGATE"
)

var (
	// ErrUnknownMode is returned for a mode outside BUILD, ERASE, NAVIGATE.
	ErrUnknownMode = errors.New("unknown mode")
	// ErrUnknownColor is returned for a color outside the palette.
	ErrUnknownColor = errors.New("color not in palette")
)

// ParseMode accepts a mode name in any case.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToUpper(strings.TrimSpace(s))); m {
	case ModeBuild, ModeErase, ModeNavigate:
		return m, nil
	}
	return "", ErrUnknownMode
}

// Palette colors and cursor colors.
const (
	DefaultColor        = "#10b981"
	EraseCursorColor    = "#ef4444"
	NavigateCursorColor = "#3b82f6"
)

// Palette is the fixed set of selectable paint colors.
var Palette = []string{
	"#10b981", "#3b82f6", "#ef4444", "#f59e0b",
	"#8b5cf6", "#ec4899", "#ffffff", "#000000",
}

// ParseColor returns the palette entry matching s, compared case-insensitively.
func ParseColor(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range Palette {
		if c == s {
			return c, nil
		}
	}
	return "", ErrUnknownColor
}

// CursorColor is the color the renderer uses for the hand cursor.
func CursorColor(m Mode, selected string) string {
	switch m {
	case ModeErase:
		return EraseCursorColor
	case ModeBuild:
		return selected
	default:
		return NavigateCursorColor
	}
}

// ShowWireframe reports whether the renderer draws the unit-cube preview.
func ShowWireframe(m Mode) bool {
	return m != ModeNavigate
}
