package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// BirthdayLayout is the only accepted input form: dd.mm.yyyy
const BirthdayLayout = "02.01.2006"

var birthdayPattern = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}$`)

// Birthday is either absent or a real calendar date.
// The zero value is an absent birthday.
type Birthday struct {
	date  time.Time
	valid bool
}

// NewBirthday parses value as dd.mm.yyyy. Empty or blank input yields an
// absent birthday without error.
func NewBirthday(value string) (Birthday, error) {
	var b Birthday
	if err := b.Set(value); err != nil {
		return Birthday{}, err
	}
	return b, nil
}

// BirthdayFromDate builds a present birthday from a calendar date
func BirthdayFromDate(year int, month time.Month, day int) (Birthday, error) {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != month || d.Day() != day {
		return Birthday{}, fmt.Errorf("%w: %04d-%02d-%02d does not exist", ErrBirthdayInvalid, year, month, day)
	}
	return Birthday{date: d, valid: true}, nil
}

// Set parses and replaces the stored value. On failure the previous value
// is kept.
func (b *Birthday) Set(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		*b = Birthday{}
		return nil
	}
	if !birthdayPattern.MatchString(value) {
		return fmt.Errorf("%w: %q is not in dd.mm.yyyy form", ErrBirthdayInvalid, value)
	}
	d, err := time.Parse(BirthdayLayout, value)
	if err != nil {
		return fmt.Errorf("%w: %q is not a calendar date", ErrBirthdayInvalid, value)
	}
	b.date = d
	b.valid = true
	return nil
}

// IsSet reports whether a birthday is present
func (b Birthday) IsSet() bool {
	return b.valid
}

// Date returns the stored date; the zero time when absent
func (b Birthday) Date() time.Time {
	if !b.valid {
		return time.Time{}
	}
	return b.date
}

// Value returns the dd.mm.yyyy form, or "" when absent
func (b Birthday) Value() string {
	if !b.valid {
		return ""
	}
	return b.date.Format(BirthdayLayout)
}

func (b Birthday) String() string {
	return b.Value()
}

// DaysUntil returns the days from today to the next occurrence of this
// birthday's day and month.
func (b Birthday) DaysUntil(today time.Time) (int, error) {
	if !b.valid {
		return 0, ErrBirthdayAbsent
	}
	return DaysUntil(today, b.date.Day(), b.date.Month()), nil
}
