package core

import (
	"fmt"
	"regexp"
	"strings"
)

// MinAge is the inclusive minimum age for an account.
const MinAge = 14

// Local part of word characters, dots and hyphens, one or more domain
// labels, a 2-4 letter top-level label. No network or MX validation.
var emailPattern = regexp.MustCompile(`^[\w.-]+@([\w-]+\.)+[\w-]{2,4}$`)

// User is a validated account entity. Fields are only reachable through
// the setters, so a User can never be observed in an invalid state: every
// setter checks its argument first and leaves the previous value in place
// on failure.
type User struct {
	id           int64
	firstName    string
	lastName     string
	email        string
	passwordHash string
	age          int
}

// NewUser builds a User by running every field through its setter. The id
// stays zero until storage assigns one.
func NewUser(firstName, lastName, passwordHash, email string, age int) (*User, error) {
	u := &User{}
	if err := u.SetFirstName(firstName); err != nil {
		return nil, err
	}
	if err := u.SetLastName(lastName); err != nil {
		return nil, err
	}
	if err := u.SetPasswordHash(passwordHash); err != nil {
		return nil, err
	}
	if err := u.SetEmail(email); err != nil {
		return nil, err
	}
	if err := u.SetAge(age); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *User) ID() int64            { return u.id }
func (u *User) FirstName() string    { return u.firstName }
func (u *User) LastName() string     { return u.lastName }
func (u *User) Email() string        { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) Age() int             { return u.age }

// SetID records the storage-assigned identifier. Once assigned it must
// stay positive.
func (u *User) SetID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: user id must be positive", ErrInvalidData)
	}
	u.id = id
	return nil
}

func (u *User) SetFirstName(firstName string) error {
	if strings.TrimSpace(firstName) == "" {
		return fmt.Errorf("%w: first name cannot be blank", ErrInvalidData)
	}
	u.firstName = firstName
	return nil
}

func (u *User) SetLastName(lastName string) error {
	if strings.TrimSpace(lastName) == "" {
		return fmt.Errorf("%w: last name cannot be blank", ErrInvalidData)
	}
	u.lastName = lastName
	return nil
}

// SetPasswordHash stores the one-way digest of the credential, never the
// plaintext itself.
func (u *User) SetPasswordHash(passwordHash string) error {
	if strings.TrimSpace(passwordHash) == "" {
		return fmt.Errorf("%w: password hash cannot be blank", ErrInvalidData)
	}
	u.passwordHash = passwordHash
	return nil
}

func (u *User) SetEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: malformed email address %q", ErrInvalidData, email)
	}
	u.email = email
	return nil
}

func (u *User) SetAge(age int) error {
	if age < MinAge {
		return fmt.Errorf("%w: age must be at least %d", ErrInvalidData, MinAge)
	}
	u.age = age
	return nil
}
