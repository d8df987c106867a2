package client

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"pointmap/internal/model"
)

// Point categories offered when placing a point.
const (
	CategoryComplaint  = "Reclamação"
	CategoryCompliment = "Elogio"
	CategorySuggestion = "Sugestão"
)

// Categories lists the selectable categories in display order.
var Categories = []string{CategoryComplaint, CategoryCompliment, CategorySuggestion}

// TimestampLayout matches the day-first local format points are stamped with.
const TimestampLayout = "02/01/2006, 15:04:05"

var (
	// ErrInvalidTransition is returned when a wizard step is called out of order.
	ErrInvalidTransition = errors.New("invalid wizard transition")
	// ErrUnknownCategory is returned for a category outside Categories.
	ErrUnknownCategory = errors.New("unknown category")
)

// WizardState is a step of the new point wizard.
type WizardState int

const (
	// SelectingCategory is the initial state; SelectCategory leaves it.
	SelectingCategory WizardState = iota
	// EnteringDetails waits for the description and optional image.
	EnteringDetails
	// Confirming holds a complete draft until Confirm or Cancel.
	Confirming
	// Submitted is terminal: Confirm produced the point.
	Submitted
	// Cancelled is terminal: the user backed out.
	Cancelled
)

// String returns the snake_case state name.
func (s WizardState) String() string {
	switch s {
	case SelectingCategory:
		return "selecting_category"
	case EnteringDetails:
		return "entering_details"
	case Confirming:
		return "confirming"
	case Submitted:
		return "submitted"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("WizardState(%d)", int(s))
	}
}

// Terminal reports whether no further transition is possible.
func (s WizardState) Terminal() bool {
	return s == Submitted || s == Cancelled
}

// Wizard walks a new point through category, details and confirmation.
// A rejected call leaves the state unchanged.
type Wizard struct {
	state       WizardState
	coordinates model.Coordinates
	category    string
	description string
	image       string

	now         func() time.Time
	placeholder func() string
}

// NewWizard starts a wizard for a point at the given map coordinates.
func NewWizard(coordinates model.Coordinates) *Wizard {
	return &Wizard{
		state:       SelectingCategory,
		coordinates: coordinates,
		now:         time.Now,
		placeholder: PlaceholderImage,
	}
}

// PlaceholderImage returns a random picsum image URL.
func PlaceholderImage() string {
	return fmt.Sprintf("https://picsum.photos/%d", 100+rand.IntN(200))
}

// State returns the current step.
func (w *Wizard) State() WizardState { return w.state }

// Category returns the selected category, empty before SelectCategory.
func (w *Wizard) Category() string { return w.category }

// SelectCategory picks one of Categories and moves on to EnteringDetails.
func (w *Wizard) SelectCategory(category string) error {
	if w.state != SelectingCategory {
		return fmt.Errorf("%w: select category while %s", ErrInvalidTransition, w.state)
	}
	if !slices.Contains(Categories, category) {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	w.category = category
	w.state = EnteringDetails
	return nil
}

// EnterDetails records the description and an optional image.
func (w *Wizard) EnterDetails(description, image string) error {
	if w.state != EnteringDetails {
		return fmt.Errorf("%w: enter details while %s", ErrInvalidTransition, w.state)
	}
	w.description = description
	w.image = image
	w.state = Confirming
	return nil
}

// Confirm finishes the wizard and returns the point to submit. The timestamp
// is taken now; a missing image is replaced by a placeholder URL.
func (w *Wizard) Confirm() (NewPoint, error) {
	if w.state != Confirming {
		return NewPoint{}, fmt.Errorf("%w: confirm while %s", ErrInvalidTransition, w.state)
	}
	if err := w.coordinates.Validate(); err != nil {
		return NewPoint{}, err
	}

	image := w.image
	if image == "" {
		image = w.placeholder()
	}

	w.state = Submitted
	return NewPoint{
		Name:        w.category,
		Description: w.description,
		Timestamp:   w.now().Format(TimestampLayout),
		Image:       image,
		Coordinates: w.coordinates,
	}, nil
}

// Cancel abandons the wizard from any non-terminal state.
func (w *Wizard) Cancel() error {
	if w.state.Terminal() {
		return fmt.Errorf("%w: cancel while %s", ErrInvalidTransition, w.state)
	}
	w.state = Cancelled
	return nil
}
