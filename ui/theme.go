package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// CustomTheme enlarges text and padding so gaze targets are easier to hit.
type CustomTheme struct {
	fyne.Theme
	scale float32
}

// NewCustomTheme creates a new instance of the custom theme.
func NewCustomTheme(scale float32) fyne.Theme {
	if scale <= 0 {
		scale = 1
	}
	return &CustomTheme{Theme: theme.DefaultTheme(), scale: scale}
}

// Size returns the scaled size for text, padding and icons.
func (t *CustomTheme) Size(name fyne.ThemeSizeName) float32 {
	s := t.Theme.Size(name)
	switch name {
	case theme.SizeNameText, theme.SizeNameHeadingText, theme.SizeNamePadding, theme.SizeNameInlineIcon:
		return s * t.scale
	}
	return s
}
