package core

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the fixed textual encoding for expense timestamps.
// ISO-8601 without a zone: sortable, and month/year aggregation works as
// a plain prefix match on the stored column.
const DateLayout = "2006-01-02T15:04:05"

// FormatDate renders a timestamp in the stored encoding.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate reads a timestamp back from the stored encoding.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: malformed date %q", ErrInvalidData, s)
	}
	return t, nil
}

// Expense is a validated expense entity. Same contract as User: setters
// validate before mutating, constructors go through the setters, so no
// partially-invalid Expense can be built or observed.
type Expense struct {
	id          int64
	name        string
	category    Category
	description string
	amount      float64
	date        time.Time
	userID      int64
}

// NewExpense builds an Expense. The id and owning user id stay zero until
// assigned by storage and the session respectively.
func NewExpense(name string, category Category, description string, amount float64, date time.Time) (*Expense, error) {
	e := &Expense{}
	if err := e.SetName(name); err != nil {
		return nil, err
	}
	if err := e.SetCategory(category); err != nil {
		return nil, err
	}
	if err := e.SetDescription(description); err != nil {
		return nil, err
	}
	if err := e.SetAmount(amount); err != nil {
		return nil, err
	}
	if err := e.SetDate(date); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Expense) ID() int64           { return e.id }
func (e *Expense) Name() string        { return e.name }
func (e *Expense) Category() Category  { return e.category }
func (e *Expense) Description() string { return e.description }
func (e *Expense) Amount() float64     { return e.amount }
func (e *Expense) Date() time.Time     { return e.date }
func (e *Expense) UserID() int64       { return e.userID }

func (e *Expense) SetID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: expense id must be positive", ErrInvalidData)
	}
	e.id = id
	return nil
}

func (e *Expense) SetName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: expense name cannot be blank", ErrInvalidData)
	}
	e.name = name
	return nil
}

func (e *Expense) SetCategory(category Category) error {
	if !category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidData, string(category))
	}
	e.category = category
	return nil
}

func (e *Expense) SetDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("%w: description cannot be blank", ErrInvalidData)
	}
	e.description = description
	return nil
}

func (e *Expense) SetAmount(amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be greater than zero", ErrInvalidData)
	}
	e.amount = amount
	return nil
}

func (e *Expense) SetDate(date time.Time) error {
	if date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidData)
	}
	e.date = date
	return nil
}

// SetUserID binds the expense to its owning account.
func (e *Expense) SetUserID(userID int64) error {
	if userID <= 0 {
		return fmt.Errorf("%w: owner id must be positive", ErrInvalidData)
	}
	e.userID = userID
	return nil
}
