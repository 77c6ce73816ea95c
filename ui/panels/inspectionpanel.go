// Package panels provides UI panels for the application.
package panels

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"balloon-annotator/internal/annotation"
	"balloon-annotator/internal/app"
)

// InspectionPanel holds the report fields and the live balloon list.
// Field edits feed the session state; the balloon list follows the set
// through change events.
type InspectionPanel struct {
	state     *app.State
	container fyne.CanvasObject

	partEntry      *widget.Entry
	materialEntry  *widget.Entry
	revisionEntry  *widget.Entry
	inspectorEntry *widget.Entry
	notesEntry     *widget.Entry

	balloonList *widget.List
	balloons    []annotation.Balloon

	modeLabel *widget.Label
}

// NewInspectionPanel creates the inspection side panel.
func NewInspectionPanel(state *app.State) *InspectionPanel {
	ip := &InspectionPanel{state: state}

	ip.partEntry = widget.NewEntry()
	ip.partEntry.SetPlaceHolder("Part name")
	ip.materialEntry = widget.NewEntry()
	ip.materialEntry.SetPlaceHolder("Material")
	ip.revisionEntry = widget.NewEntry()
	ip.revisionEntry.SetPlaceHolder("Revision")
	ip.inspectorEntry = widget.NewEntry()
	ip.inspectorEntry.SetPlaceHolder("Inspector")
	ip.notesEntry = widget.NewMultiLineEntry()
	ip.notesEntry.SetPlaceHolder("Notes")
	ip.notesEntry.SetMinRowsVisible(3)

	fieldChanged := func(string) { ip.pushFields() }
	ip.partEntry.OnChanged = fieldChanged
	ip.materialEntry.OnChanged = fieldChanged
	ip.revisionEntry.OnChanged = fieldChanged
	ip.inspectorEntry.OnChanged = fieldChanged
	ip.notesEntry.OnChanged = fieldChanged

	ip.modeLabel = widget.NewLabel("Mode: view")

	ip.balloonList = widget.NewList(
		func() int { return len(ip.balloons) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			b := ip.balloons[i]
			o.(*widget.Label).SetText(fmt.Sprintf("#%d  (%.1f%%, %.1f%%)", b.Number, b.X, b.Y))
		},
	)
	ip.balloonList.OnSelected = func(i widget.ListItemID) {
		if i >= 0 && i < len(ip.balloons) {
			state.Balloons.Select(ip.balloons[i].ID)
			state.Emit(app.EventSelectionChanged, ip.balloons[i].ID)
		}
	}

	state.On(app.EventBalloonsChanged, func(interface{}) { ip.RefreshBalloons() })
	state.On(app.EventModeChanged, func(data interface{}) {
		if mode, ok := data.(annotation.Mode); ok {
			ip.modeLabel.SetText("Mode: " + mode.String())
		}
	})

	form := widget.NewForm(
		widget.NewFormItem("Part", ip.partEntry),
		widget.NewFormItem("Material", ip.materialEntry),
		widget.NewFormItem("Revision", ip.revisionEntry),
		widget.NewFormItem("Inspector", ip.inspectorEntry),
		widget.NewFormItem("Notes", ip.notesEntry),
	)

	ip.container = container.NewBorder(
		container.NewVBox(
			widget.NewCard("Inspection Report", "", form),
			ip.modeLabel,
			widget.NewLabel("Balloons"),
		),
		nil, nil, nil,
		ip.balloonList,
	)
	return ip
}

// Container returns the panel container.
func (ip *InspectionPanel) Container() fyne.CanvasObject {
	return ip.container
}

// SetFields loads report field values into the entries without firing
// a change per field.
func (ip *InspectionPanel) SetFields(part, material, revision, inspector, notes string) {
	entries := []*widget.Entry{ip.partEntry, ip.materialEntry, ip.revisionEntry, ip.inspectorEntry, ip.notesEntry}
	for _, e := range entries {
		e.OnChanged = nil
	}
	ip.partEntry.SetText(part)
	ip.materialEntry.SetText(material)
	ip.revisionEntry.SetText(revision)
	ip.inspectorEntry.SetText(inspector)
	ip.notesEntry.SetText(notes)
	for _, e := range entries {
		e.OnChanged = func(string) { ip.pushFields() }
	}
	ip.pushFields()
}

// RefreshBalloons re-reads the balloon list from the set.
func (ip *InspectionPanel) RefreshBalloons() {
	ip.balloons = ip.state.Balloons.Balloons()
	ip.balloonList.Refresh()
}

func (ip *InspectionPanel) pushFields() {
	ip.state.SetReportFields(
		ip.partEntry.Text,
		ip.materialEntry.Text,
		ip.revisionEntry.Text,
		ip.inspectorEntry.Text,
		ip.notesEntry.Text,
	)
}
