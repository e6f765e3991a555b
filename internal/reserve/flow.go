// Package reserve implements the "protect a square meter" prototype: a four screen
// flow over a tap-to-select grid with a mocked checkout.
package reserve

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Screen is one state of the flow.
type Screen string

const (
	Home    Screen = "home"
	Select  Screen = "select"
	Summary Screen = "summary"
	Success Screen = "success"
)

// Action is a user intent that may move the flow.
type Action string

const (
	ActStart    Action = "start"
	ActToggle   Action = "toggle"
	ActReset    Action = "reset"
	ActNext     Action = "next"
	ActEdit     Action = "edit"
	ActCheckout Action = "checkout"
	ActMore     Action = "more"
	ActEscape   Action = "escape"
)

var (
	ErrInvalidTransition = errors.New("action not allowed on this screen")
	ErrEmptySelection    = errors.New("no cells selected")
	ErrOutOfBounds       = errors.New("cell outside the grid")
	ErrUnknownAction     = errors.New("unknown action")
)

// Receipt is issued by the mocked checkout.
type Receipt struct {
	Certificate string    `json:"certificate"`
	Cells       []Cell    `json:"cells"`
	Area        int       `json:"area"`
	Cost        int64     `json:"cost"`
	IssuedAt    time.Time `json:"issued_at"`
}

// Flow holds the screen and the selected cells. It is not safe for concurrent use.
type Flow struct {
	grid      Grid
	screen    Screen
	selection Selection
	receipt   *Receipt
	now       func() time.Time
}

// New returns a flow on the home screen.
func New(g Grid) *Flow {
	return &Flow{
		grid:      g,
		screen:    Home,
		selection: make(Selection),
		now:       time.Now,
	}
}

func (f *Flow) Grid() Grid { return f.grid }

func (f *Flow) Screen() Screen { return f.screen }

// Receipt returns the last checkout receipt, or nil before checkout.
func (f *Flow) Receipt() *Receipt { return f.receipt }

// Selected returns the selected cells in row-major order.
func (f *Flow) Selected() []Cell { return f.selection.Cells() }

func (f *Flow) IsSelected(c Cell) bool { return f.selection.Has(c) }

// Area is recomputed from the selection on every call.
func (f *Flow) Area() int {
	return len(f.selection) * f.grid.CellArea
}

// Cost is recomputed from Area on every call.
func (f *Flow) Cost() int64 {
	return int64(f.Area()) * f.grid.UnitPrice
}

// CanNext reports whether the Next button is enabled.
func (f *Flow) CanNext() bool {
	return f.screen == Select && f.Area() > 0
}

func (f *Flow) transition(from Screen, a Action) error {
	if f.screen != from {
		return fmt.Errorf("%w: %s on %s", ErrInvalidTransition, a, f.screen)
	}
	return nil
}

// Start enters the select screen with an empty selection.
func (f *Flow) Start() error {
	if err := f.transition(Home, ActStart); err != nil {
		return err
	}
	f.clear()
	f.screen = Select
	return nil
}

// Toggle flips one cell on the select screen.
func (f *Flow) Toggle(c Cell) error {
	if err := f.transition(Select, ActToggle); err != nil {
		return err
	}
	if !f.grid.Contains(c) {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, c.Row, c.Col)
	}
	f.selection.Toggle(c)
	return nil
}

// Reset clears the selection without leaving the select screen.
func (f *Flow) Reset() error {
	if err := f.transition(Select, ActReset); err != nil {
		return err
	}
	f.clear()
	return nil
}

// Next moves to the summary. It is refused while nothing is selected.
func (f *Flow) Next() error {
	if err := f.transition(Select, ActNext); err != nil {
		return err
	}
	if f.Area() == 0 {
		return ErrEmptySelection
	}
	f.screen = Summary
	return nil
}

// Edit returns from the summary to the grid, keeping the selection.
func (f *Flow) Edit() error {
	if err := f.transition(Summary, ActEdit); err != nil {
		return err
	}
	f.screen = Select
	return nil
}

// Checkout runs the mocked payment and issues a receipt.
func (f *Flow) Checkout() (*Receipt, error) {
	if err := f.transition(Summary, ActCheckout); err != nil {
		return nil, err
	}
	f.receipt = &Receipt{
		Certificate: uuid.NewString(),
		Cells:       f.selection.Cells(),
		Area:        f.Area(),
		Cost:        f.Cost(),
		IssuedAt:    f.now(),
	}
	f.screen = Success
	return f.receipt, nil
}

// More starts another round from the success screen with a fresh selection.
func (f *Flow) More() error {
	if err := f.transition(Success, ActMore); err != nil {
		return err
	}
	f.clear()
	f.screen = Select
	return nil
}

// Escape always returns home. The selection is kept.
func (f *Flow) Escape() {
	f.screen = Home
}

// Apply dispatches an action by name. c is only read for ActToggle.
func (f *Flow) Apply(a Action, c Cell) error {
	switch a {
	case ActStart:
		return f.Start()
	case ActToggle:
		return f.Toggle(c)
	case ActReset:
		return f.Reset()
	case ActNext:
		return f.Next()
	case ActEdit:
		return f.Edit()
	case ActCheckout:
		_, err := f.Checkout()
		return err
	case ActMore:
		return f.More()
	case ActEscape:
		f.Escape()
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, a)
	}
}

func (f *Flow) clear() {
	f.selection = make(Selection)
	f.receipt = nil
}

// State is a serializable snapshot of the flow.
type State struct {
	Screen   Screen   `json:"screen"`
	Grid     Grid     `json:"grid"`
	Selected []Cell   `json:"selected"`
	Area     int      `json:"area"`
	Cost     int64    `json:"cost"`
	CanNext  bool     `json:"can_next"`
	Receipt  *Receipt `json:"receipt,omitempty"`
}

// Snapshot returns the current state with freshly derived metrics.
func (f *Flow) Snapshot() State {
	return State{
		Screen:   f.screen,
		Grid:     f.grid,
		Selected: f.selection.Cells(),
		Area:     f.Area(),
		Cost:     f.Cost(),
		CanNext:  f.CanNext(),
		Receipt:  f.receipt,
	}
}
