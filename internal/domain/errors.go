package domain

import "errors"

// Error kinds reported by the contact directory. Callers match them with
// errors.Is; the concrete error usually wraps one of these with detail.
var (
	ErrNameInvalid         = errors.New("invalid name")
	ErrPhoneInvalid        = errors.New("invalid phone number")
	ErrBirthdayInvalid     = errors.New("invalid birthday")
	ErrDuplicateName       = errors.New("contact already exists")
	ErrDuplicatePhone      = errors.New("phone number already exists")
	ErrRecordNotFound      = errors.New("contact not found")
	ErrPhoneNotFound       = errors.New("phone number not found")
	ErrSelectionOutOfRange = errors.New("selection out of range")

	// ErrBirthdayAbsent is returned when days-to-birthday is asked of a
	// record that has no birthday.
	ErrBirthdayAbsent = errors.New("birthday not set")

	ErrInvalidPageSize = errors.New("page size must be at least 1")
)
