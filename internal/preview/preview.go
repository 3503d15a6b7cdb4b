// Package preview shows the mask, the original capture and the corrected
// capture side by side in a fyne window.
package preview

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	AppID = "org.devignette.preview"

	PanelWidth  = 420
	PanelHeight = 320
)

// Panel is one titled image in the preview.
type Panel struct {
	Title string
	Image image.Image
}

// NewView lays panels out in a single row. Missing images render empty.
func NewView(panels []Panel) *fyne.Container {
	cells := make([]fyne.CanvasObject, 0, len(panels))
	for _, p := range panels {
		img := canvas.NewImageFromImage(p.Image)
		img.FillMode = canvas.ImageFillContain
		img.ScaleMode = canvas.ImageScalePixels
		img.SetMinSize(fyne.NewSize(PanelWidth, PanelHeight))

		title := widget.NewLabelWithStyle(p.Title, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
		cells = append(cells, container.NewBorder(title, nil, nil, nil, img))
	}

	columns := len(cells)
	if columns == 0 {
		columns = 1
	}
	return container.NewGridWithColumns(columns, cells...)
}

// NewWindow builds the preview window on a.
func NewWindow(a fyne.App, title string, panels []Panel) fyne.Window {
	w := a.NewWindow(title)
	w.SetContent(NewView(panels))
	w.Resize(fyne.NewSize(float32(PanelWidth*max(len(panels), 1)), PanelHeight+40))
	w.CenterOnScreen()
	return w
}

// Run opens the preview and blocks until the window is closed.
func Run(title string, panels []Panel) {
	a := app.NewWithID(AppID)
	NewWindow(a, title, panels).ShowAndRun()
}
