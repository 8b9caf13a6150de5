package raise

import (
	"context"
	"fmt"
	"time"

	"github.com/capitalninja/ninja/core/validator"
)

type Type string

const (
	TypeEquity Type = "equity"
	TypeDebt   Type = "debt"
)

type Category string

const (
	CategoryFundDirectDeal Category = "fund_direct_deal"
	CategoryStartup        Category = "startup"
)

// Steps is the number of steps of the raise wizard.
const Steps = 3

// MaxMemoLength caps the deal memo, counted in characters.
const MaxMemoLength = 20000

// Raise is a fundraising project.
type Raise struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Type         Type      `json:"type" validate:"required,oneof=equity debt"`
	Category     Category  `json:"category" validate:"required,oneof=fund_direct_deal startup"`
	Name         string    `json:"name" validate:"required,max=200"`
	TargetAmount float64   `json:"target_amount" validate:"required,gt=0"`
	PitchDeckURL string    `json:"pitch_deck_url" validate:"required,url"`
	Memo         string    `json:"memo"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type stepOne struct {
	Type Type `json:"type" validate:"required,oneof=equity debt"`
}

type stepTwo struct {
	Category Category `json:"category" validate:"required,oneof=fund_direct_deal startup"`
}

type stepThree struct {
	Name         string  `json:"name" validate:"required,max=200"`
	TargetAmount float64 `json:"target_amount" validate:"required,gt=0"`
	PitchDeckURL string  `json:"pitch_deck_url" validate:"required,url"`
}

// stepThreeEdit is step three when editing: an empty pitch deck URL keeps
// the stored one.
type stepThreeEdit struct {
	Name         string  `json:"name" validate:"required,max=200"`
	TargetAmount float64 `json:"target_amount" validate:"required,gt=0"`
	PitchDeckURL string  `json:"pitch_deck_url" validate:"omitempty,url"`
}

type memo struct {
	Memo string `json:"memo" validate:"max=20000"`
}

// ValidateStep checks the fields collected by one wizard step.
func (r *Raise) ValidateStep(step int) error {
	if r == nil {
		return InvalidError{Reason: "raise is nil"}
	}

	var s interface{}
	switch step {
	case 1:
		s = stepOne{Type: r.Type}
	case 2:
		s = stepTwo{Category: r.Category}
	case 3:
		s = stepThree{Name: r.Name, TargetAmount: r.TargetAmount, PitchDeckURL: r.PitchDeckURL}
	default:
		return InvalidError{Reason: fmt.Sprintf("unknown step %d", step)}
	}

	if err := validator.ValidateStruct(s); err != nil {
		return InvalidError{Reason: err.Error()}
	}
	return nil
}

// Validate checks every step.
func (r *Raise) Validate() error {
	for step := 1; step <= Steps; step++ {
		if err := r.ValidateStep(step); err != nil {
			return err
		}
	}
	return nil
}

// ValidateEdit checks an edited raise. It differs from Validate only in
// allowing an empty pitch deck URL.
func (r *Raise) ValidateEdit() error {
	for step := 1; step < Steps; step++ {
		if err := r.ValidateStep(step); err != nil {
			return err
		}
	}
	edit := stepThreeEdit{Name: r.Name, TargetAmount: r.TargetAmount, PitchDeckURL: r.PitchDeckURL}
	if err := validator.ValidateStruct(edit); err != nil {
		return InvalidError{Reason: err.Error()}
	}
	return nil
}

// ValidateMemo checks a deal memo before it is saved.
func ValidateMemo(text string) error {
	if err := validator.ValidateStruct(memo{Memo: text}); err != nil {
		return InvalidError{Reason: err.Error()}
	}
	return nil
}

type Repository interface {
	Create(ctx context.Context, r *Raise) (string, error)
	Update(ctx context.Context, r *Raise) error
	UpdateMemo(ctx context.Context, id string, memo string) error
	GetByID(ctx context.Context, id string) (Raise, error)
	GetAll(ctx context.Context) ([]Raise, error)
	Delete(ctx context.Context, id string) error
}
