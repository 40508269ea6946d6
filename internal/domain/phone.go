package domain

import (
	"fmt"
	"strings"
)

// phoneAlphabet lists every character a phone number may contain.
const phoneAlphabet = "0123456789()-+"

// Phone is a trimmed phone number made only of digits and ()-+.
type Phone struct {
	value string
}

// NewPhone trims and validates value
func NewPhone(value string) (Phone, error) {
	var p Phone
	if err := p.Set(value); err != nil {
		return Phone{}, err
	}
	return p, nil
}

// Set trims, validates and replaces the stored value. On failure the
// previous value is kept.
func (p *Phone) Set(value string) error {
	trimmed, err := normalizePhone(value)
	if err != nil {
		return err
	}
	p.value = trimmed
	return nil
}

// Value returns the trimmed phone number
func (p Phone) Value() string {
	return p.value
}

func (p Phone) String() string {
	return p.value
}

func normalizePhone(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("%w: phone is empty", ErrPhoneInvalid)
	}
	for _, r := range trimmed {
		if !strings.ContainsRune(phoneAlphabet, r) {
			return "", fmt.Errorf("%w: %q contains %q", ErrPhoneInvalid, trimmed, r)
		}
	}
	return trimmed, nil
}
