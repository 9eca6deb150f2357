package ui

import (
	"image/color"
	"strings"
	"sync"

	"GazeMenu/catalog"
	"GazeMenu/config"
	"GazeMenu/control"
	"GazeMenu/dwell"
	"GazeMenu/i18n"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Card dimensions
const (
	HeartSize            = 48
	VerticalCardWidth    = 240
	VerticalCardHeight   = 220
	HorizontalCardWidth  = 520
	HorizontalCardHeight = 140
	CornerRadius         = 10.0
)

var (
	// CardColor is the background of a game card.
	CardColor = color.NRGBA{R: 0x2a, G: 0x2a, B: 0x35, A: 0xff}
)

// GameCard is the menu entry for one game. It is the dwell.Target of the
// game's favorite switch: the heart icon shows whether the game is a favorite.
type GameCard struct {
	Game catalog.GameSummary

	heart    *canvas.Image
	filled   fyne.Resource
	empty    fyne.Resource
	progress *widget.ProgressBar
	gaze     *GazeContainer
	tappable *TappableContainer

	mu sync.Mutex
	on bool
}

var _ dwell.Target = (*GameCard)(nil)

// NewGameCard builds the card. Pointer events on the heart and taps on the
// card are forwarded to the command loop.
func NewGameCard(a App, g catalog.GameSummary, orientation string) *GameCard {
	c := &GameCard{
		Game:   g,
		filled: a.Resource(HeartFilled),
		empty:  a.Resource(HeartEmpty),
		on:     a.IsFavorite(g.NameCode),
	}

	c.heart = canvas.NewImageFromResource(c.resourceFor(c.on))
	c.heart.FillMode = canvas.ImageFillContain
	c.heart.SetMinSize(fyne.NewSize(HeartSize, HeartSize))

	c.progress = widget.NewProgressBar()
	c.progress.TextFormatter = func() string { return "" }
	c.progress.Hide()

	c.gaze = NewGazeContainer(c.heart, func(k dwell.Kind) {
		a.EnqueueCommand(control.Command{
			Type:   control.CmdPointer,
			GameID: g.NameCode,
			Event:  dwell.Event{Kind: k, At: a.Now()},
		})
	})

	title := widget.NewLabelWithStyle(i18n.T(g.NameCode), fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	title.Wrapping = fyne.TextWrapWord

	var desc fyne.CanvasObject = layout.NewSpacer()
	if g.Description != "" {
		d := widget.NewLabel(i18n.T(g.Description))
		d.Wrapping = fyne.TextWrapWord
		desc = d
	}

	// centered so the hover area stays the size of the heart
	heartArea := container.NewVBox(container.NewCenter(c.gaze), c.progress)

	categories := widget.NewLabelWithStyle(categoryLine(g.Categories), fyne.TextAlignTrailing, fyne.TextStyle{Italic: true})

	bg := canvas.NewRectangle(CardColor)
	bg.CornerRadius = CornerRadius

	var body fyne.CanvasObject
	switch orientation {
	case config.OrientationHorizontal:
		bg.SetMinSize(fyne.NewSize(HorizontalCardWidth, HorizontalCardHeight))
		title.Alignment = fyne.TextAlignTrailing
		body = container.NewBorder(container.NewHBox(heartArea, layout.NewSpacer()), categories, nil, nil,
			container.NewVBox(title, desc))
	default:
		bg.SetMinSize(fyne.NewSize(VerticalCardWidth, VerticalCardHeight))
		body = container.NewBorder(categories, container.NewVBox(title, desc), heartArea, nil)
	}

	c.tappable = NewTappableContainer(container.NewStack(bg, container.NewPadded(body)), func() {
		a.EnqueueCommand(control.Command{Type: control.CmdLaunch, GameID: g.NameCode})
	}, nil)
	return c
}

func categoryLine(cs []catalog.Category) string {
	names := make([]string, 0, len(cs))
	for _, c := range cs {
		names = append(names, i18n.T(c.String()))
	}
	return strings.Join(names, " · ")
}

func (c *GameCard) resourceFor(on bool) fyne.Resource {
	if on {
		return c.filled
	}
	return c.empty
}

// SetVisualState swaps the heart icon.
func (c *GameCard) SetVisualState(on bool) {
	c.mu.Lock()
	c.on = on
	c.mu.Unlock()

	res := c.resourceFor(on)
	fyne.Do(func() {
		c.heart.Resource = res
		c.heart.Refresh()
	})
}

// IsFilled reports whether the heart currently shows a favorite.
func (c *GameCard) IsFilled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.on
}

// SetProgress shows the dwell progress under the heart. Zero hides the bar.
func (c *GameCard) SetProgress(p float64) {
	fyne.Do(func() {
		if p <= 0 {
			c.progress.Hide()
			return
		}
		c.progress.SetValue(p)
		c.progress.Show()
	})
}

// Heart returns the gaze-sensitive heart.
func (c *GameCard) Heart() *GazeContainer {
	return c.gaze
}

// GetCanvasObject returns the whole card.
func (c *GameCard) GetCanvasObject() fyne.CanvasObject {
	return c.tappable
}
