// Package dialogs provides application dialogs.
package dialogs

import (
	"errors"
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"balloon-annotator/internal/annotation"
)

// RenumberDialog edits a balloon's number. A collision with an
// existing number is rejected and reported; the balloon keeps its
// number.
type RenumberDialog struct {
	set    *annotation.Set
	window fyne.Window

	// Callback after a successful renumber
	onApplied func()
}

// NewRenumberDialog creates a renumber dialog bound to a balloon set.
func NewRenumberDialog(set *annotation.Set, window fyne.Window, onApplied func()) *RenumberDialog {
	return &RenumberDialog{
		set:       set,
		window:    window,
		onApplied: onApplied,
	}
}

// Show displays the dialog for one balloon.
func (d *RenumberDialog) Show(b annotation.Balloon) {
	entry := widget.NewEntry()
	entry.SetText(strconv.Itoa(b.Number))
	entry.Validator = func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil {
			return errors.New("enter a whole number")
		}
		if n < 1 {
			return errors.New("number must be at least 1")
		}
		return nil
	}

	form := widget.NewForm(
		widget.NewFormItem("Balloon number", entry),
	)

	dlg := dialog.NewCustomConfirm(
		fmt.Sprintf("Renumber Balloon %d", b.Number),
		"Apply",
		"Cancel",
		form,
		func(apply bool) {
			if !apply {
				return
			}
			n, err := strconv.Atoi(entry.Text)
			if err != nil || n < 1 {
				dialog.ShowError(errors.New("invalid balloon number"), d.window)
				return
			}
			if err := d.set.Renumber(b.ID, n); err != nil {
				if errors.Is(err, annotation.ErrNumberTaken) {
					dialog.ShowError(fmt.Errorf("number %d is already in use", n), d.window)
				} else {
					dialog.ShowError(err, d.window)
				}
				return
			}
			if d.onApplied != nil {
				d.onApplied()
			}
		},
		d.window,
	)
	dlg.Resize(fyne.NewSize(300, 150))
	dlg.Show()
}
