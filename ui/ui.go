// Package ui builds the fyne game menu: one card per game, with a heart that
// becomes a favorite toggle when looked at long enough.
package ui

import (
	"image/color"
	"time"

	"GazeMenu/config"
	"GazeMenu/control"
	"GazeMenu/i18n"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Heart icon resources.
const (
	HeartFilled = "heart_filled.svg"
	HeartEmpty  = "heart_empty.svg"
)

// App is what the UI needs from the application.
type App interface {
	EnqueueCommand(cmd control.Command)
	Now() time.Time
	IsFavorite(id string) bool
	Resource(name string) fyne.Resource
}

// BuildGameList lays out the cards: a wrapping grid for vertical cards, a
// column for horizontal ones.
func BuildGameList(cards []*GameCard, orientation string) *fyne.Container {
	objects := make([]fyne.CanvasObject, 0, len(cards))
	for _, c := range cards {
		objects = append(objects, c.GetCanvasObject())
	}
	if orientation == config.OrientationHorizontal {
		list := container.NewVBox()
		for _, o := range objects {
			list.Add(o)
			spacer := canvas.NewRectangle(color.Transparent)
			spacer.SetMinSize(fyne.NewSize(0, 4))
			list.Add(spacer)
		}
		return list
	}
	return container.NewGridWrap(fyne.NewSize(VerticalCardWidth, VerticalCardHeight), objects...)
}

// CreateMainWindow builds the menu window.
func CreateMainWindow(fyneApp fyne.App, cards []*GameCard, orientation string) fyne.Window {
	title := fyneApp.Metadata().Name
	if title == "" {
		title = "GazeMenu"
	}
	w := fyneApp.NewWindow(title)

	header := widget.NewLabelWithStyle(i18n.T("Games"), fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	scroll := container.NewVScroll(BuildGameList(cards, orientation))

	w.SetContent(container.NewBorder(
		container.NewVBox(header, widget.NewSeparator()), nil, nil, nil,
		container.New(layout.NewPaddedLayout(), scroll),
	))
	w.Resize(fyne.NewSize(1024, 720))
	return w
}
