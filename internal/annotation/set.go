package annotation

import (
	"errors"

	"balloon-annotator/pkg/geometry"
)

// Mode is the interaction mode for a balloon set.
type Mode int

const (
	// ModeView allows inspecting markers but no mutation.
	ModeView Mode = iota
	// ModeEdit allows placement, dragging, renumbering, and deletion.
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "view"
}

var (
	// ErrViewOnly is returned for mutations attempted in view mode.
	ErrViewOnly = errors.New("annotation: set is in view mode")
	// ErrNumberTaken is returned when a manual renumber collides with
	// an existing balloon number.
	ErrNumberTaken = errors.New("annotation: number already in use")
	// ErrInvalidNumber is returned when a manual renumber is given a
	// number below 1.
	ErrInvalidNumber = errors.New("annotation: number must be positive")
)

// ChangeFunc receives the full balloon list after a mutation.
type ChangeFunc func(balloons []Balloon)

// Set owns the ordered balloon list for the active drawing item.
//
// All methods are called from the single UI event goroutine; mutation,
// cache write, and debounce reset share one synchronous call stack, so
// no locking is needed here.
type Set struct {
	balloons   []Balloon
	mode       Mode
	selectedID string

	onChange ChangeFunc // every mutation (debounced persistence path)
	onFlush  ChangeFunc // leaving edit mode (immediate persistence)
}

// NewSet creates an empty balloon set in view mode.
func NewSet() *Set {
	return &Set{}
}

// OnChange registers the callback invoked after every mutation.
func (s *Set) OnChange(fn ChangeFunc) { s.onChange = fn }

// OnFlush registers the callback invoked when leaving edit mode.
func (s *Set) OnFlush(fn ChangeFunc) { s.onFlush = fn }

// Balloons returns a copy of the balloon list.
func (s *Set) Balloons() []Balloon {
	out := make([]Balloon, len(s.balloons))
	copy(out, s.balloons)
	return out
}

// Len returns the number of balloons.
func (s *Set) Len() int { return len(s.balloons) }

// Mode returns the current interaction mode.
func (s *Set) Mode() Mode { return s.mode }

// SelectedID returns the id of the selected balloon, or "".
func (s *Set) SelectedID() string { return s.selectedID }

// Select marks the balloon with the given id as selected. Selecting a
// new balloon implicitly deselects the previous one.
func (s *Set) Select(id string) {
	s.selectedID = id
}

// ClearSelection deselects any selected balloon.
func (s *Set) ClearSelection() {
	s.selectedID = ""
}

// ByID returns the balloon with the given id.
func (s *Set) ByID(id string) (Balloon, bool) {
	for _, b := range s.balloons {
		if b.ID == id {
			return b, true
		}
	}
	return Balloon{}, false
}

// Place appends a new balloon at the given percentage position with
// the next sequential number. Only permitted in edit mode.
func (s *Set) Place(xPct, yPct float64) (Balloon, error) {
	if s.mode != ModeEdit {
		return Balloon{}, ErrViewOnly
	}
	b := NewBalloon(len(s.balloons)+1, xPct, yPct)
	s.balloons = append(s.balloons, b)
	s.changed()
	return b, nil
}

// Move updates a balloon's position in place, clamped to the visible
// range. Numbering is unaffected.
func (s *Set) Move(id string, xPct, yPct float64) bool {
	for i := range s.balloons {
		if s.balloons[i].ID == id {
			s.balloons[i].X = geometry.ClampPercent(xPct)
			s.balloons[i].Y = geometry.ClampPercent(yPct)
			s.changed()
			return true
		}
	}
	return false
}

// Delete removes a balloon and renumbers the remaining balloons 1..N
// in list order, restoring the contiguity invariant. A selection
// pointing at the removed balloon is cleared.
func (s *Set) Delete(id string) bool {
	for i := range s.balloons {
		if s.balloons[i].ID == id {
			s.balloons = append(s.balloons[:i], s.balloons[i+1:]...)
			for j := range s.balloons {
				s.balloons[j].Number = j + 1
			}
			if s.selectedID == id {
				s.selectedID = ""
			}
			s.changed()
			return true
		}
	}
	return false
}

// Renumber assigns a manual number to a balloon. Numbers below 1 are
// rejected with ErrInvalidNumber, and the operation is rejected with
// ErrNumberTaken if another balloon already holds that number. A
// successful renumber may legally leave the sequence non-contiguous:
// manual numbering exists so the user can match an external drawing's
// own callout scheme.
func (s *Set) Renumber(id string, number int) error {
	if number < 1 {
		return ErrInvalidNumber
	}
	for _, b := range s.balloons {
		if b.Number == number && b.ID != id {
			return ErrNumberTaken
		}
	}
	for i := range s.balloons {
		if s.balloons[i].ID == id {
			s.balloons[i].Number = number
			s.changed()
			return nil
		}
	}
	return errors.New("annotation: no such balloon")
}

// ToggleMode flips between view and edit mode. Leaving edit mode
// flushes persistence immediately and clears the selection; entering
// edit mode has no side effect.
func (s *Set) ToggleMode() Mode {
	if s.mode == ModeView {
		s.mode = ModeEdit
		return s.mode
	}
	s.mode = ModeView
	s.selectedID = ""
	if s.onFlush != nil {
		s.onFlush(s.Balloons())
	}
	return s.mode
}

// ClearAll removes every balloon.
func (s *Set) ClearAll() {
	if len(s.balloons) == 0 {
		return
	}
	s.balloons = nil
	s.selectedID = ""
	s.changed()
}

// Replace installs a balloon list loaded from persistence. It does not
// fire the change callback: loading is not a mutation and must not
// schedule a sync of the data that was just read.
func (s *Set) Replace(balloons []Balloon) {
	s.balloons = make([]Balloon, len(balloons))
	copy(s.balloons, balloons)
	s.selectedID = ""
}

func (s *Set) changed() {
	if s.onChange != nil {
		s.onChange(s.Balloons())
	}
}
