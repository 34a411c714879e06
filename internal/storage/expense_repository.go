package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"moneygement/internal/core"
)

const (
	insertExpenseQuery = `INSERT INTO expense (nome_spesa, categoria, descrizione, importo, data, user_id) VALUES (?, ?, ?, ?, ?, ?)`

	selectExpensesByUserQuery = `SELECT id, nome_spesa, categoria, descrizione, importo, data, user_id FROM expense WHERE user_id = ? ORDER BY id`

	updateExpenseQuery = `UPDATE expense SET nome_spesa = ?, categoria = ?, descrizione = ?, importo = ?, data = ? WHERE id = ?`

	deleteExpenseQuery = `DELETE FROM expense WHERE id = ?`

	searchByCategoryQuery = `SELECT id, nome_spesa, categoria, descrizione, importo, data, user_id FROM expense WHERE user_id = ? AND categoria = ? ORDER BY id`

	searchByDateQuery = `SELECT id, nome_spesa, categoria, descrizione, importo, data, user_id FROM expense WHERE user_id = ? AND data = ? ORDER BY id`

	monthlyAverageQuery = `SELECT COALESCE(AVG(importo), 0) FROM expense WHERE user_id = ? AND data LIKE ?`

	annualTotalQuery = `SELECT COALESCE(SUM(importo), 0) FROM expense WHERE user_id = ? AND data LIKE ?`
)

// ExpenseRepository translates between expense rows and validated
// Expense entities. Every query is scoped to an owning user except the
// single-row operations by expense id.
type ExpenseRepository struct {
	gw *Gateway
}

func NewExpenseRepository(gw *Gateway) *ExpenseRepository {
	return &ExpenseRepository{gw: gw}
}

// Add inserts the expense, stamping the owning user id, and assigns the
// storage id.
func (r *ExpenseRepository) Add(ctx context.Context, e *core.Expense) error {
	res, err := r.gw.DB().ExecContext(ctx, insertExpenseQuery,
		e.Name(), e.Category().String(), e.Description(), e.Amount(),
		core.FormatDate(e.Date()), e.UserID())
	if err != nil {
		return fmt.Errorf("%w: insert expense: %v", core.ErrStorageFailure, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("%w: read inserted expense id: %v", core.ErrStorageFailure, err)
	}
	if err := e.SetID(id); err != nil {
		return fmt.Errorf("%w: %v", core.ErrStorageFailure, err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"expense_id", e.ID(), "user_id", e.UserID(),
		"category", e.Category().String(), "amount", e.Amount())
	return nil
}

// ListByUser returns all the user's expenses in insertion order. No rows
// is an empty slice, not an error.
func (r *ExpenseRepository) ListByUser(ctx context.Context, userID int64) ([]*core.Expense, error) {
	return r.queryExpenses(ctx, selectExpensesByUserQuery, userID)
}

// Update rewrites the full row identified by the expense id. The owning
// user id is never rewritten.
func (r *ExpenseRepository) Update(ctx context.Context, e *core.Expense) error {
	_, err := r.gw.DB().ExecContext(ctx, updateExpenseQuery,
		e.Name(), e.Category().String(), e.Description(), e.Amount(),
		core.FormatDate(e.Date()), e.ID())
	if err != nil {
		return fmt.Errorf("%w: update expense %d: %v", core.ErrStorageFailure, e.ID(), err)
	}

	slog.InfoContext(ctx, "Expense updated", "expense_id", e.ID())
	return nil
}

// DeleteByID removes the row. Deleting a non-existent id is not an
// error.
func (r *ExpenseRepository) DeleteByID(ctx context.Context, expenseID int64) error {
	if _, err := r.gw.DB().ExecContext(ctx, deleteExpenseQuery, expenseID); err != nil {
		return fmt.Errorf("%w: delete expense %d: %v", core.ErrStorageFailure, expenseID, err)
	}

	slog.InfoContext(ctx, "Expense deleted", "expense_id", expenseID)
	return nil
}

// SearchByCategory returns the user's expenses in the given category.
func (r *ExpenseRepository) SearchByCategory(ctx context.Context, userID int64, category core.Category) ([]*core.Expense, error) {
	return r.queryExpenses(ctx, searchByCategoryQuery, userID, category.String())
}

// SearchByDate matches the stored date text exactly. Callers wanting a
// day or month window use the aggregate queries instead.
func (r *ExpenseRepository) SearchByDate(ctx context.Context, userID int64, date time.Time) ([]*core.Expense, error) {
	return r.queryExpenses(ctx, searchByDateQuery, userID, core.FormatDate(date))
}

// MonthlyAverage returns the mean amount over the user's expenses dated
// in the given month, 0.0 when none match. The stored encoding makes the
// month a "YYYY-MM" prefix of the data column.
func (r *ExpenseRepository) MonthlyAverage(ctx context.Context, userID int64, year int, month time.Month) (float64, error) {
	prefix := fmt.Sprintf("%04d-%02d%%", year, int(month))
	return r.aggregate(ctx, monthlyAverageQuery, userID, prefix)
}

// AnnualTotal returns the sum of the user's expenses dated in the given
// year, 0.0 when none match.
func (r *ExpenseRepository) AnnualTotal(ctx context.Context, userID int64, year int) (float64, error) {
	prefix := fmt.Sprintf("%04d%%", year)
	return r.aggregate(ctx, annualTotalQuery, userID, prefix)
}

func (r *ExpenseRepository) aggregate(ctx context.Context, query string, userID int64, datePrefix string) (float64, error) {
	var value float64
	if err := r.gw.DB().QueryRowContext(ctx, query, userID, datePrefix).Scan(&value); err != nil {
		return 0, fmt.Errorf("%w: aggregate expenses for user %d: %v", core.ErrStorageFailure, userID, err)
	}
	return value, nil
}

func (r *ExpenseRepository) queryExpenses(ctx context.Context, query string, args ...any) ([]*core.Expense, error) {
	rows, err := r.gw.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query expenses: %v", core.ErrStorageFailure, err)
	}
	defer rows.Close()

	expenses := []*core.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate expense rows: %v", core.ErrStorageFailure, err)
	}
	return expenses, nil
}

// scanExpense maps a row through the validating constructor; a row that
// fails validation is a data-integrity fault since rows are only written
// through that same path.
func scanExpense(rows *sql.Rows) (*core.Expense, error) {
	var (
		id          int64
		name        string
		category    string
		description string
		amount      float64
		date        string
		userID      int64
	)
	if err := rows.Scan(&id, &name, &category, &description, &amount, &date, &userID); err != nil {
		return nil, fmt.Errorf("%w: scan expense row: %v", core.ErrStorageFailure, err)
	}

	cat, err := core.ParseCategory(category)
	if err != nil {
		return nil, fmt.Errorf("%w: corrupt expense row %d: %v", core.ErrStorageFailure, id, err)
	}
	ts, err := core.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("%w: corrupt expense row %d: %v", core.ErrStorageFailure, id, err)
	}

	e, err := core.NewExpense(name, cat, description, amount, ts)
	if err != nil {
		return nil, fmt.Errorf("%w: corrupt expense row %d: %v", core.ErrStorageFailure, id, err)
	}
	if err := e.SetID(id); err != nil {
		return nil, fmt.Errorf("%w: corrupt expense row %d: %v", core.ErrStorageFailure, id, err)
	}
	if err := e.SetUserID(userID); err != nil {
		return nil, fmt.Errorf("%w: corrupt expense row %d: %v", core.ErrStorageFailure, id, err)
	}
	return e, nil
}
