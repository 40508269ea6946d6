package domain

import (
	"fmt"
	"strings"
	"unicode"
)

// Name is a validated contact name: non-empty and free of digit characters.
type Name struct {
	value string
}

// NewName validates value and returns it as a Name
func NewName(value string) (Name, error) {
	var n Name
	if err := n.Set(value); err != nil {
		return Name{}, err
	}
	return n, nil
}

// Set replaces the stored value. On failure the previous value is kept.
func (n *Name) Set(value string) error {
	if err := validateName(value); err != nil {
		return err
	}
	n.value = value
	return nil
}

// Value returns the name as typed
func (n Name) Value() string {
	return n.value
}

func (n Name) String() string {
	return n.value
}

func validateName(value string) error {
	if value == "" {
		return fmt.Errorf("%w: name is empty", ErrNameInvalid)
	}
	if i := strings.IndexFunc(value, unicode.IsDigit); i >= 0 {
		return fmt.Errorf("%w: %q contains a digit", ErrNameInvalid, value)
	}
	return nil
}
