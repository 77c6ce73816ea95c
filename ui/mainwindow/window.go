// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog/log"

	"balloon-annotator/internal/annotation"
	"balloon-annotator/internal/app"
	"balloon-annotator/internal/docsource"
	"balloon-annotator/internal/export"
	"balloon-annotator/internal/interaction"
	"balloon-annotator/internal/store"
	"balloon-annotator/internal/version"
	"balloon-annotator/ui/canvas"
	"balloon-annotator/ui/dialogs"
	"balloon-annotator/ui/panels"
	"balloon-annotator/ui/prefs"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	state *app.State
	prefs *prefs.Prefs

	docs   *docsource.Client
	remote store.Remote
	cache  *store.Cache
	syncer *store.Syncer

	canvas    *canvas.DrawingCanvas
	panel     *panels.InspectionPanel
	statusBar *widget.Label

	modeButton   *widget.Button
	exportButton *widget.Button
	retryButton  *widget.Button
}

// New creates the main window and wires the annotation pipeline.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs,
	docs *docsource.Client, remote store.Remote, cache *store.Cache, syncer *store.Syncer) *MainWindow {

	win := fyneApp.NewWindow("Balloon Annotator " + version.Version)

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  p,
		docs:   docs,
		remote: remote,
		cache:  cache,
		syncer: syncer,
	}

	mw.setupUI()
	mw.setupShortcuts()

	w := p.FloatWithFallback(prefs.KeyWindowWidth, 1280)
	h := p.FloatWithFallback(prefs.KeyWindowHeight, 860)
	win.Resize(fyne.NewSize(float32(w), float32(h)))

	win.SetCloseIntercept(func() {
		mw.persistWindowState()
		syncer.Close()
		fyneApp.Quit()
	})
	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	ctrl := interaction.NewController(mw.state.Balloons)
	mw.canvas = canvas.NewDrawingCanvas(mw.state.Balloons, ctrl)

	renumber := dialogs.NewRenumberDialog(mw.state.Balloons, mw.Window, func() {
		mw.canvas.Refresh()
	})
	mw.canvas.OnRenumber = renumber.Show
	mw.canvas.OnDeleteHit = func() { mw.setStatus("Balloon deleted") }

	mw.panel = panels.NewInspectionPanel(mw.state)
	mw.statusBar = widget.NewLabel("Ready")

	mw.modeButton = widget.NewButton("Edit", mw.onToggleMode)
	mw.exportButton = widget.NewButton("Export PDF", mw.onExport)
	mw.retryButton = widget.NewButton("Try again", mw.onRetryFetch)
	mw.retryButton.Hide()

	toolbar := container.NewHBox(
		mw.modeButton,
		widget.NewButton("Clear All", mw.onClearAll),
		widget.NewSeparator(),
		mw.exportButton,
		mw.retryButton,
	)

	canvasArea := container.NewBorder(toolbar, nil, nil, nil, mw.canvas)

	split := container.NewHSplit(mw.panel.Container(), canvasArea)
	split.SetOffset(0.25)

	content := container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar),
		nil, nil,
		split,
	)
	mw.SetContent(content)

	mw.state.On(app.EventBalloonsChanged, func(interface{}) { mw.canvas.Refresh() })
	mw.state.On(app.EventSelectionChanged, func(interface{}) { mw.canvas.Refresh() })
	mw.state.On(app.EventDrawingLoaded, func(interface{}) {
		mw.canvas.SetPreview(mw.state.Preview)
		mw.retryButton.Hide()
		mw.setStatus("Drawing loaded")
	})
	mw.state.On(app.EventSyncStateChanged, func(data interface{}) {
		if err, ok := data.(error); ok && err != nil {
			mw.setStatus("Sync failed, changes kept locally")
			return
		}
		mw.setStatus("Synced")
	})
}

// setupShortcuts maps Delete/Backspace to removing the selected balloon.
func (mw *MainWindow) setupShortcuts() {
	mw.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name != fyne.KeyDelete && ev.Name != fyne.KeyBackspace {
			return
		}
		if mw.state.Balloons.Mode() != annotation.ModeEdit {
			return
		}
		id := mw.state.Balloons.SelectedID()
		if id != "" && mw.state.Balloons.Delete(id) {
			mw.setStatus("Balloon deleted")
		}
	})
}

// OpenItem loads the drawing and saved annotations for one inspection
// item. Runs the fetches off the UI goroutine and reports progress in
// the status bar.
func (mw *MainWindow) OpenItem(inspectionID, itemID string) {
	mw.state.SetInspection(inspectionID, itemID)
	mw.setStatus("Loading drawing...")

	go func() {
		ctx := context.Background()

		snap := store.LoadAnnotations(ctx, mw.remote, mw.cache, inspectionID, itemID)
		mw.state.Balloons.Replace(snap.Balloons)
		mw.panel.SetFields(snap.PartName, snap.Material, snap.Revision, snap.Inspector, snap.Notes)
		mw.panel.RefreshBalloons()

		doc, err := mw.docs.FetchDrawing(ctx, itemID)
		if err != nil {
			mw.showFetchError(err)
			return
		}

		page, err := export.PageSize(doc)
		if err != nil {
			mw.showFetchError(err)
			return
		}

		preview, err := mw.docs.FetchPreview(ctx, itemID)
		if err != nil {
			log.Warn().Err(err).Str("item", itemID).Msg("preview unavailable")
			preview = nil
		}

		mw.state.SetDrawing(doc, preview, page)
		mw.prefs.SetString(prefs.KeyLastInspectionID, inspectionID)
		mw.prefs.SetString(prefs.KeyLastItemID, itemID)
	}()
}

func (mw *MainWindow) showFetchError(err error) {
	switch {
	case errors.Is(err, docsource.ErrNotFound):
		mw.setStatus("No drawing attached to this item")
	case errors.Is(err, docsource.ErrInvalidDocument):
		mw.setStatus("The attached drawing is not a valid PDF")
	default:
		mw.setStatus("Could not load the drawing")
		mw.retryButton.Show()
	}
	mw.state.Emit(app.EventDrawingFailed, err)
}

// onRetryFetch re-runs the drawing fetch after a failure.
func (mw *MainWindow) onRetryFetch() {
	mw.retryButton.Hide()
	mw.OpenItem(mw.state.InspectionID, mw.state.ItemID)
}

// onToggleMode flips view/edit. Leaving edit mode flushes the pending
// sync immediately through the set's flush hook.
func (mw *MainWindow) onToggleMode() {
	mode := mw.state.Balloons.ToggleMode()
	if mode == annotation.ModeEdit {
		mw.modeButton.SetText("Done")
		mw.setStatus("Edit mode: click to place, drag to move, double-click to renumber")
	} else {
		mw.modeButton.SetText("Edit")
		mw.setStatus("Annotations saved")
	}
	mw.state.Emit(app.EventModeChanged, mode)
	mw.canvas.Refresh()
}

// onClearAll removes every balloon after confirmation.
func (mw *MainWindow) onClearAll() {
	if mw.state.Balloons.Mode() != annotation.ModeEdit || mw.state.Balloons.Len() == 0 {
		return
	}
	dialog.ShowConfirm("Clear All", "Remove all balloons from this drawing?", func(ok bool) {
		if ok {
			mw.state.Balloons.ClearAll()
		}
	}, mw.Window)
}

// onExport stamps the balloons into the drawing and saves the result.
// A second trigger while an export is running is dropped.
func (mw *MainWindow) onExport() {
	if !mw.state.DrawingLoaded() {
		mw.setStatus("No drawing to export")
		return
	}
	if !mw.state.BeginExport() {
		return
	}
	mw.exportButton.Disable()
	mw.setStatus("Exporting...")

	viewport := mw.canvas.Viewport()
	doc := mw.state.Drawing
	balloons := mw.state.Balloons.Balloons()
	name := export.ArtifactName(mw.state.PartName)

	finish := func() {
		mw.state.EndExport()
		mw.exportButton.Enable()
	}

	out, stamped := export.StampOrOriginal(doc, balloons, viewport)
	if !stamped && len(balloons) > 0 {
		mw.setStatus("Stamping failed, exporting the original drawing")
	}

	save := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		defer finish()
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		if wc == nil {
			mw.setStatus("Export cancelled")
			return
		}
		defer wc.Close()
		if _, err := wc.Write(out); err != nil {
			dialog.ShowError(fmt.Errorf("write exported PDF: %w", err), mw.Window)
			return
		}
		mw.prefs.SetString(prefs.KeyLastExportDir, wc.URI().String())
		mw.setStatus("Exported " + wc.URI().Name())
		mw.state.Emit(app.EventExportFinished, wc.URI().Name())
	}, mw.Window)
	save.SetFileName(name)
	save.SetFilter(storage.NewExtensionFileFilter([]string{".pdf"}))
	save.Show()
	mw.state.Emit(app.EventExportStarted, name)
}

func (mw *MainWindow) persistWindowState() {
	size := mw.Canvas().Size()
	mw.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
	mw.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
	if err := mw.prefs.Save(); err != nil {
		log.Warn().Err(err).Msg("saving preferences failed")
	}
}

func (mw *MainWindow) setStatus(msg string) {
	mw.statusBar.SetText(msg)
}
