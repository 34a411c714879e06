package core

import "fmt"

// Category is the fixed set of expense categories. The string value is
// what gets persisted in the categoria column.
type Category string

const (
	Travel      Category = "travel"
	Restaurants Category = "restaurants"
	Hobby       Category = "hobby"
	Sport       Category = "sport"
	Other       Category = "other"
	Auto        Category = "auto"
	Bills       Category = "bills"
	Leisure     Category = "leisure"
)

// AllCategories returns the categories in a stable order, for menus and
// validation messages.
func AllCategories() []Category {
	return []Category{Travel, Restaurants, Hobby, Sport, Other, Auto, Bills, Leisure}
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	switch c {
	case Travel, Restaurants, Hobby, Sport, Other, Auto, Bills, Leisure:
		return true
	}
	return false
}

func (c Category) String() string { return string(c) }

// ParseCategory converts a stored or user-supplied name into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: unknown category %q", ErrInvalidData, s)
	}
	return c, nil
}
