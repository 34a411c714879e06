// Package services orchestrates the use cases: hash credentials,
// validate entities, delegate to the repositories, and keep the session
// in step. Its methods are the entire surface exposed to a presentation
// layer.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"moneygement/internal/auth"
	"moneygement/internal/core"
	"moneygement/internal/session"
	"moneygement/internal/storage"
)

// Service coordinates the hasher, the entities, the session and the two
// repositories. One instance per composition root; all collaborators are
// injected.
type Service struct {
	users    *storage.UserRepository
	expenses *storage.ExpenseRepository
	hasher   auth.Hasher
	session  *session.Session
}

func NewService(users *storage.UserRepository, expenses *storage.ExpenseRepository, hasher auth.Hasher, sess *session.Session) *Service {
	return &Service{
		users:    users,
		expenses: expenses,
		hasher:   hasher,
		session:  sess,
	}
}

// RegisterUser hashes the credential, builds a validated user and
// persists it. Fails with core.ErrInvalidData on a bad field and
// core.ErrUserAlreadyExists on a duplicate email.
func (s *Service) RegisterUser(ctx context.Context, firstName, lastName, email, plaintext string, age int) (*core.User, error) {
	digest := s.hasher.Hash(plaintext)

	u, err := core.NewUser(firstName, lastName, digest, email, age)
	if err != nil {
		return nil, err
	}

	if err := s.users.Register(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login looks the user up by (email, digest). Any mismatch fails with
// the same generic core.ErrAuthenticationFailed so callers cannot tell
// an unknown email from a wrong password. On success the session is
// populated.
func (s *Service) Login(ctx context.Context, email, plaintext string) (*core.User, error) {
	digest := s.hasher.Hash(plaintext)

	u, err := s.users.FindByCredentials(ctx, email, digest)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: invalid email or password", core.ErrAuthenticationFailed)
	}

	s.session.Set(u)
	slog.InfoContext(ctx, "User logged in", "user_id", u.ID())
	return u, nil
}

// Logout clears the session. Safe to call when nobody is logged in.
func (s *Service) Logout() {
	s.session.Clear()
}

// UpdateProfile mutates the session's user in memory through the
// validating setters, then persists the full row.
func (s *Service) UpdateProfile(ctx context.Context, firstName, lastName, email, plaintext string, age int) (*core.User, error) {
	u, err := s.session.Current()
	if err != nil {
		return nil, err
	}

	if err := u.SetFirstName(firstName); err != nil {
		return nil, err
	}
	if err := u.SetLastName(lastName); err != nil {
		return nil, err
	}
	if err := u.SetPasswordHash(s.hasher.Hash(plaintext)); err != nil {
		return nil, err
	}
	if err := u.SetEmail(email); err != nil {
		return nil, err
	}
	if err := u.SetAge(age); err != nil {
		return nil, err
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// FindCurrentUser re-fetches the session's user by id. Fails with
// core.ErrNotFound when the row no longer exists (stale session).
func (s *Service) FindCurrentUser(ctx context.Context) (*core.User, error) {
	cur, err := s.session.Current()
	if err != nil {
		return nil, err
	}

	u, err := s.users.FindByID(ctx, cur.ID())
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: user %d no longer exists", core.ErrNotFound, cur.ID())
	}
	return u, nil
}

// DeleteCurrentUser removes the session's user row and clears the
// session.
func (s *Service) DeleteCurrentUser(ctx context.Context) error {
	cur, err := s.session.Current()
	if err != nil {
		return err
	}

	if err := s.users.DeleteByID(ctx, cur.ID()); err != nil {
		return err
	}

	s.session.Clear()
	return nil
}

// AddExpense builds a validated expense bound to the session's user and
// persists it.
func (s *Service) AddExpense(ctx context.Context, name string, category core.Category, description string, amount float64, date time.Time) (*core.Expense, error) {
	cur, err := s.session.Current()
	if err != nil {
		return nil, err
	}

	e, err := core.NewExpense(name, category, description, amount, date)
	if err != nil {
		return nil, err
	}
	if err := e.SetUserID(cur.ID()); err != nil {
		return nil, err
	}

	if err := s.expenses.Add(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateExpense rewrites the identified expense with the given fields.
func (s *Service) UpdateExpense(ctx context.Context, expenseID int64, name string, category core.Category, description string, amount float64, date time.Time) error {
	cur, err := s.session.Current()
	if err != nil {
		return err
	}

	e, err := core.NewExpense(name, category, description, amount, date)
	if err != nil {
		return err
	}
	if err := e.SetID(expenseID); err != nil {
		return err
	}
	if err := e.SetUserID(cur.ID()); err != nil {
		return err
	}

	return s.expenses.Update(ctx, e)
}

// DeleteExpense removes the expense row; idempotent.
func (s *Service) DeleteExpense(ctx context.Context, expenseID int64) error {
	if _, err := s.session.Current(); err != nil {
		return err
	}
	return s.expenses.DeleteByID(ctx, expenseID)
}

// ListExpenses returns all the session user's expenses in insertion
// order. An empty result fails with core.ErrNotFound: the empty-as-error
// contract the presentation layer's messaging depends on.
func (s *Service) ListExpenses(ctx context.Context) ([]*core.Expense, error) {
	cur, err := s.session.Current()
	if err != nil {
		return nil, err
	}

	expenses, err := s.expenses.ListByUser(ctx, cur.ID())
	if err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return nil, fmt.Errorf("%w: no expenses recorded for user %d", core.ErrNotFound, cur.ID())
	}
	return expenses, nil
}

// SearchExpensesByCategory filters the session user's expenses by
// category, with the same empty-as-error contract as ListExpenses.
func (s *Service) SearchExpensesByCategory(ctx context.Context, category core.Category) ([]*core.Expense, error) {
	cur, err := s.session.Current()
	if err != nil {
		return nil, err
	}
	if !category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", core.ErrInvalidData, string(category))
	}

	expenses, err := s.expenses.SearchByCategory(ctx, cur.ID(), category)
	if err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return nil, fmt.Errorf("%w: no expenses in category %s", core.ErrNotFound, category)
	}
	return expenses, nil
}

// SearchExpensesByDate matches the stored date text exactly, with the
// same empty-as-error contract as ListExpenses.
func (s *Service) SearchExpensesByDate(ctx context.Context, date time.Time) ([]*core.Expense, error) {
	cur, err := s.session.Current()
	if err != nil {
		return nil, err
	}

	expenses, err := s.expenses.SearchByDate(ctx, cur.ID(), date)
	if err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return nil, fmt.Errorf("%w: no expenses dated %s", core.ErrNotFound, core.FormatDate(date))
	}
	return expenses, nil
}

// MonthlyAverage returns the mean expense amount for the given month,
// 0.0 when no expenses match.
func (s *Service) MonthlyAverage(ctx context.Context, year int, month time.Month) (float64, error) {
	cur, err := s.session.Current()
	if err != nil {
		return 0, err
	}
	return s.expenses.MonthlyAverage(ctx, cur.ID(), year, month)
}

// AnnualTotal returns the summed expense amount for the given year, 0.0
// when no expenses match.
func (s *Service) AnnualTotal(ctx context.Context, year int) (float64, error) {
	cur, err := s.session.Current()
	if err != nil {
		return 0, err
	}
	return s.expenses.AnnualTotal(ctx, cur.ID(), year)
}
