package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"moneygement/internal/core"
)

// StorageTestSuite runs every repository test against a fresh database
// file in a temp directory.
type StorageTestSuite struct {
	suite.Suite
	gw       *Gateway
	users    *UserRepository
	expenses *ExpenseRepository
	ctx      context.Context
}

func (s *StorageTestSuite) SetupTest() {
	gw, err := Open(filepath.Join(s.T().TempDir(), "test.db"))
	require.NoError(s.T(), err, "failed to open test database")
	s.gw = gw
	s.users = NewUserRepository(gw)
	s.expenses = NewExpenseRepository(gw)
	s.ctx = context.Background()
}

func (s *StorageTestSuite) TearDownTest() {
	if s.gw != nil {
		s.gw.Close()
	}
}

func (s *StorageTestSuite) newUser(email string) *core.User {
	u, err := core.NewUser("Ada", "Lovelace", "digest", email, 30)
	require.NoError(s.T(), err)
	return u
}

func (s *StorageTestSuite) registeredUser(email string) *core.User {
	u := s.newUser(email)
	require.NoError(s.T(), s.users.Register(s.ctx, u))
	return u
}

func (s *StorageTestSuite) addExpense(userID int64, name string, cat core.Category, amount float64, date time.Time) *core.Expense {
	e, err := core.NewExpense(name, cat, "desc", amount, date)
	require.NoError(s.T(), err)
	require.NoError(s.T(), e.SetUserID(userID))
	require.NoError(s.T(), s.expenses.Add(s.ctx, e))
	return e
}

func (s *StorageTestSuite) TestRegisterAssignsID() {
	u := s.registeredUser("ada@example.com")
	assert.Positive(s.T(), u.ID())
}

func (s *StorageTestSuite) TestUserRoundTrip() {
	u := s.registeredUser("ada@example.com")

	got, err := s.users.FindByID(s.ctx, u.ID())
	require.NoError(s.T(), err)
	require.NotNil(s.T(), got)
	assert.Equal(s.T(), u.ID(), got.ID())
	assert.Equal(s.T(), u.FirstName(), got.FirstName())
	assert.Equal(s.T(), u.LastName(), got.LastName())
	assert.Equal(s.T(), u.Email(), got.Email())
	assert.Equal(s.T(), u.PasswordHash(), got.PasswordHash())
	assert.Equal(s.T(), u.Age(), got.Age())
}

func (s *StorageTestSuite) TestRegisterDuplicateEmail() {
	first := s.registeredUser("ada@example.com")

	err := s.users.Register(s.ctx, s.newUser("ada@example.com"))
	require.ErrorIs(s.T(), err, core.ErrUserAlreadyExists)

	// The first row is unaffected.
	got, err := s.users.FindByID(s.ctx, first.ID())
	require.NoError(s.T(), err)
	require.NotNil(s.T(), got)
	assert.Equal(s.T(), "ada@example.com", got.Email())
}

func (s *StorageTestSuite) TestFindByCredentials() {
	u := s.registeredUser("ada@example.com")

	got, err := s.users.FindByCredentials(s.ctx, "ada@example.com", "digest")
	require.NoError(s.T(), err)
	require.NotNil(s.T(), got)
	assert.Equal(s.T(), u.ID(), got.ID())

	// Absence is a normal outcome, not an error.
	got, err = s.users.FindByCredentials(s.ctx, "ada@example.com", "wrong")
	require.NoError(s.T(), err)
	assert.Nil(s.T(), got)

	got, err = s.users.FindByCredentials(s.ctx, "nobody@example.com", "digest")
	require.NoError(s.T(), err)
	assert.Nil(s.T(), got)
}

func (s *StorageTestSuite) TestFindByIDAbsent() {
	got, err := s.users.FindByID(s.ctx, 12345)
	require.NoError(s.T(), err)
	assert.Nil(s.T(), got)
}

func (s *StorageTestSuite) TestUpdateUser() {
	u := s.registeredUser("ada@example.com")
	require.NoError(s.T(), u.SetFirstName("Augusta"))
	require.NoError(s.T(), u.SetAge(31))

	require.NoError(s.T(), s.users.Update(s.ctx, u))

	got, err := s.users.FindByID(s.ctx, u.ID())
	require.NoError(s.T(), err)
	require.NotNil(s.T(), got)
	assert.Equal(s.T(), "Augusta", got.FirstName())
	assert.Equal(s.T(), 31, got.Age())
}

func (s *StorageTestSuite) TestUpdateUserDuplicateEmail() {
	s.registeredUser("taken@example.com")
	u := s.registeredUser("ada@example.com")

	require.NoError(s.T(), u.SetEmail("taken@example.com"))
	err := s.users.Update(s.ctx, u)
	assert.ErrorIs(s.T(), err, core.ErrUserAlreadyExists)
}

func (s *StorageTestSuite) TestDeleteUserIdempotent() {
	u := s.registeredUser("ada@example.com")

	require.NoError(s.T(), s.users.DeleteByID(s.ctx, u.ID()))
	got, err := s.users.FindByID(s.ctx, u.ID())
	require.NoError(s.T(), err)
	assert.Nil(s.T(), got)

	// Deleting again is not an error.
	assert.NoError(s.T(), s.users.DeleteByID(s.ctx, u.ID()))
}

func (s *StorageTestSuite) TestExpenseRoundTrip() {
	u := s.registeredUser("ada@example.com")
	date := time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC)
	e := s.addExpense(u.ID(), "groceries", core.Other, 42.50, date)
	assert.Positive(s.T(), e.ID())

	list, err := s.expenses.ListByUser(s.ctx, u.ID())
	require.NoError(s.T(), err)
	require.Len(s.T(), list, 1)

	got := list[0]
	assert.Equal(s.T(), e.ID(), got.ID())
	assert.Equal(s.T(), "groceries", got.Name())
	assert.Equal(s.T(), core.Other, got.Category())
	assert.Equal(s.T(), "desc", got.Description())
	assert.Equal(s.T(), 42.50, got.Amount())
	assert.True(s.T(), got.Date().Equal(date))
	assert.Equal(s.T(), u.ID(), got.UserID())
}

func (s *StorageTestSuite) TestListByUserInsertionOrder() {
	u := s.registeredUser("ada@example.com")
	date := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	s.addExpense(u.ID(), "first", core.Travel, 10, date.Add(2*time.Hour))
	s.addExpense(u.ID(), "second", core.Bills, 20, date)
	s.addExpense(u.ID(), "third", core.Sport, 30, date.Add(time.Hour))

	list, err := s.expenses.ListByUser(s.ctx, u.ID())
	require.NoError(s.T(), err)
	require.Len(s.T(), list, 3)
	// Insertion order, not date order.
	assert.Equal(s.T(), "first", list[0].Name())
	assert.Equal(s.T(), "second", list[1].Name())
	assert.Equal(s.T(), "third", list[2].Name())
}

func (s *StorageTestSuite) TestListByUserEmpty() {
	u := s.registeredUser("ada@example.com")

	list, err := s.expenses.ListByUser(s.ctx, u.ID())
	require.NoError(s.T(), err)
	assert.Empty(s.T(), list)
}

func (s *StorageTestSuite) TestListScopedToOwner() {
	u1 := s.registeredUser("ada@example.com")
	u2 := s.registeredUser("grace@example.com")
	date := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	s.addExpense(u1.ID(), "mine", core.Other, 10, date)
	s.addExpense(u2.ID(), "theirs", core.Other, 20, date)

	list, err := s.expenses.ListByUser(s.ctx, u1.ID())
	require.NoError(s.T(), err)
	require.Len(s.T(), list, 1)
	assert.Equal(s.T(), "mine", list[0].Name())
}

func (s *StorageTestSuite) TestUpdateExpense() {
	u := s.registeredUser("ada@example.com")
	date := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	e := s.addExpense(u.ID(), "groceries", core.Other, 42.50, date)

	require.NoError(s.T(), e.SetName("market"))
	require.NoError(s.T(), e.SetAmount(50))
	require.NoError(s.T(), e.SetCategory(core.Bills))
	require.NoError(s.T(), s.expenses.Update(s.ctx, e))

	list, err := s.expenses.ListByUser(s.ctx, u.ID())
	require.NoError(s.T(), err)
	require.Len(s.T(), list, 1)
	assert.Equal(s.T(), "market", list[0].Name())
	assert.Equal(s.T(), 50.0, list[0].Amount())
	assert.Equal(s.T(), core.Bills, list[0].Category())
}

func (s *StorageTestSuite) TestDeleteExpenseIdempotent() {
	u := s.registeredUser("ada@example.com")
	date := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	e := s.addExpense(u.ID(), "groceries", core.Other, 42.50, date)

	require.NoError(s.T(), s.expenses.DeleteByID(s.ctx, e.ID()))
	list, err := s.expenses.ListByUser(s.ctx, u.ID())
	require.NoError(s.T(), err)
	assert.Empty(s.T(), list)

	// Already deleted: still not an error.
	assert.NoError(s.T(), s.expenses.DeleteByID(s.ctx, e.ID()))
}

func (s *StorageTestSuite) TestSearchByCategory() {
	u := s.registeredUser("ada@example.com")
	date := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	s.addExpense(u.ID(), "flight", core.Travel, 200, date)
	s.addExpense(u.ID(), "dinner", core.Restaurants, 35, date)
	s.addExpense(u.ID(), "hotel", core.Travel, 120, date)

	list, err := s.expenses.SearchByCategory(s.ctx, u.ID(), core.Travel)
	require.NoError(s.T(), err)
	require.Len(s.T(), list, 2)
	assert.Equal(s.T(), "flight", list[0].Name())
	assert.Equal(s.T(), "hotel", list[1].Name())

	list, err = s.expenses.SearchByCategory(s.ctx, u.ID(), core.Hobby)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), list)
}

func (s *StorageTestSuite) TestSearchByDateExactMatch() {
	u := s.registeredUser("ada@example.com")
	date := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	s.addExpense(u.ID(), "match", core.Other, 10, date)
	s.addExpense(u.ID(), "other-time", core.Other, 20, date.Add(time.Second))

	list, err := s.expenses.SearchByDate(s.ctx, u.ID(), date)
	require.NoError(s.T(), err)
	require.Len(s.T(), list, 1)
	assert.Equal(s.T(), "match", list[0].Name())
}

func (s *StorageTestSuite) TestMonthlyAverageAndAnnualTotal() {
	u := s.registeredUser("ada@example.com")
	s.addExpense(u.ID(), "a", core.Other, 10.0, time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC))
	s.addExpense(u.ID(), "b", core.Other, 20.0, time.Date(2025, 3, 20, 10, 0, 0, 0, time.UTC))
	// Different month and year, excluded from the March aggregates.
	s.addExpense(u.ID(), "c", core.Other, 99.0, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC))

	avg, err := s.expenses.MonthlyAverage(s.ctx, u.ID(), 2025, time.March)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 15.0, avg)

	total, err := s.expenses.AnnualTotal(s.ctx, u.ID(), 2025)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 30.0, total)
}

func (s *StorageTestSuite) TestAggregatesReturnZeroWithoutRows() {
	u := s.registeredUser("ada@example.com")

	avg, err := s.expenses.MonthlyAverage(s.ctx, u.ID(), 2025, time.July)
	require.NoError(s.T(), err)
	assert.Zero(s.T(), avg)

	total, err := s.expenses.AnnualTotal(s.ctx, u.ID(), 1999)
	require.NoError(s.T(), err)
	assert.Zero(s.T(), total)
}

func TestStorageTestSuite(t *testing.T) {
	suite.Run(t, new(StorageTestSuite))
}
