package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Record is one contact: a name, an ordered set of unique phone numbers and
// an optional birthday.
type Record struct {
	name     Name
	phones   []string
	birthday Birthday
}

// NewRecord creates a record. A zero Phone is treated as "no phone" and a
// zero Birthday as absent.
func NewRecord(name Name, phone Phone, birthday Birthday) (*Record, error) {
	if name.Value() == "" {
		return nil, fmt.Errorf("%w: name is empty", ErrNameInvalid)
	}
	r := &Record{
		name:     name,
		phones:   make([]string, 0, 1),
		birthday: birthday,
	}
	if phone.Value() != "" {
		r.AddPhone(phone)
	}
	return r, nil
}

// Clone returns an independent copy of the record
func (r *Record) Clone() *Record {
	return &Record{
		name:     r.name,
		phones:   slices.Clone(r.phones),
		birthday: r.birthday,
	}
}

// Name returns the record's key
func (r *Record) Name() Name {
	return r.name
}

// Phones returns a copy of the phone list in insertion order
func (r *Record) Phones() []string {
	return slices.Clone(r.phones)
}

// PhoneCount returns the number of stored phones
func (r *Record) PhoneCount() int {
	return len(r.phones)
}

// PhoneAt returns the phone at a 0-based position
func (r *Record) PhoneAt(i int) (string, bool) {
	if i < 0 || i >= len(r.phones) {
		return "", false
	}
	return r.phones[i], true
}

// Birthday returns the stored birthday, which may be absent
func (r *Record) Birthday() Birthday {
	return r.birthday
}

// SetBirthday replaces the birthday. Pass the zero Birthday to clear it.
func (r *Record) SetBirthday(b Birthday) {
	r.birthday = b
}

// HasPhone reports whether p (trimmed) is one of the record's phones
func (r *Record) HasPhone(p string) bool {
	return slices.Contains(r.phones, strings.TrimSpace(p))
}

// AddPhone appends p unless it is already present.
// It returns false when nothing changed.
func (r *Record) AddPhone(p Phone) bool {
	if p.Value() == "" || r.HasPhone(p.Value()) {
		return false
	}
	r.phones = append(r.phones, p.Value())
	return true
}

// UpdatePhone replaces old with new. The replacement is a delete followed by
// an add, so the new number moves to the end of the list.
func (r *Record) UpdatePhone(old string, p Phone) (bool, error) {
	old = strings.TrimSpace(old)
	if !r.HasPhone(old) {
		return false, fmt.Errorf("%w: %q", ErrPhoneNotFound, old)
	}
	if p.Value() == old {
		return true, nil
	}
	if r.HasPhone(p.Value()) {
		return false, fmt.Errorf("%w: %q", ErrDuplicatePhone, p.Value())
	}
	r.DeletePhone(old)
	return r.AddPhone(p), nil
}

// DeletePhone removes p and reports whether it was present
func (r *Record) DeletePhone(p string) bool {
	i := slices.Index(r.phones, strings.TrimSpace(p))
	if i < 0 {
		return false
	}
	r.phones = slices.Delete(r.phones, i, i+1)
	return true
}

// DaysToBirthday returns the days until the next birthday counted from
// today. ErrBirthdayAbsent means the value cannot be computed.
func (r *Record) DaysToBirthday(today time.Time) (int, error) {
	return r.birthday.DaysUntil(today)
}

// String renders the record on one line
func (r *Record) String() string {
	phones := "no phone"
	if len(r.phones) > 0 {
		phones = strings.Join(r.phones, ", ")
	}
	bd := "no birthday"
	if r.birthday.IsSet() {
		bd = r.birthday.Value()
	}
	return fmt.Sprintf("%s: %s; %s", r.name, phones, bd)
}
