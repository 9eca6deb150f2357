package ui

import (
	"GazeMenu/dwell"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// TappableContainer wraps any canvas object and reports taps.
type TappableContainer struct {
	widget.BaseWidget
	Content           fyne.CanvasObject
	OnTappedPrimary   func()
	OnTappedSecondary func(e *fyne.PointEvent)
}

func NewTappableContainer(c fyne.CanvasObject, onP func(), onS func(e *fyne.PointEvent)) *TappableContainer {
	t := &TappableContainer{
		Content:           c,
		OnTappedPrimary:   onP,
		OnTappedSecondary: onS,
	}
	t.ExtendBaseWidget(t)
	return t
}

func (t *TappableContainer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(t.Content))
}

func (t *TappableContainer) Tapped(_ *fyne.PointEvent) {
	if t.OnTappedPrimary != nil {
		t.OnTappedPrimary()
	}
}

func (t *TappableContainer) TappedSecondary(e *fyne.PointEvent) {
	if t.OnTappedSecondary != nil {
		t.OnTappedSecondary(e)
	}
}

// GazeContainer wraps a canvas object and reports pointer enter, move and
// exit as dwell kinds. Eye trackers drive the system pointer, so hover is the
// gaze. The hover area is whatever size the parent layout gives it, keep it
// at MinSize.
type GazeContainer struct {
	widget.BaseWidget
	Content   fyne.CanvasObject
	OnPointer func(dwell.Kind)
}

var _ desktop.Hoverable = (*GazeContainer)(nil)

func NewGazeContainer(c fyne.CanvasObject, onPointer func(dwell.Kind)) *GazeContainer {
	g := &GazeContainer{Content: c, OnPointer: onPointer}
	g.ExtendBaseWidget(g)
	return g
}

func (g *GazeContainer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(g.Content))
}

func (g *GazeContainer) MouseIn(_ *desktop.MouseEvent) {
	g.emit(dwell.Enter)
}

func (g *GazeContainer) MouseMoved(_ *desktop.MouseEvent) {
	g.emit(dwell.Move)
}

func (g *GazeContainer) MouseOut() {
	g.emit(dwell.Exit)
}

func (g *GazeContainer) emit(k dwell.Kind) {
	if g.OnPointer != nil {
		g.OnPointer(k)
	}
}
