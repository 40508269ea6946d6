// Package exchange converts the contact directory to and from standard
// interchange formats: vCard for contacts and iCalendar for birthdays.
package exchange

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/andy/contactbook/internal/domain"
	"github.com/emersion/go-vcard"
	"github.com/google/uuid"
)

const (
	vcardVersion    = "4.0"
	vcardDateLayout = "2006-01-02"
)

// contactNamespace seeds deterministic UIDs so repeated exports of the same
// contact produce the same identifier.
var contactNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/andy/contactbook/contact"))

// ContactUID returns the stable UID used for a contact name
func ContactUID(name string) string {
	return uuid.NewSHA1(contactNamespace, []byte(name)).String()
}

// ExportVCard writes one vCard per contact in directory order
func ExportVCard(w io.Writer, dir *domain.Directory) error {
	enc := vcard.NewEncoder(w)
	for name, r := range dir.All() {
		card := make(vcard.Card)
		card.SetValue(vcard.FieldVersion, vcardVersion)
		card.SetValue(vcard.FieldUID, "urn:uuid:"+ContactUID(name))
		card.SetValue(vcard.FieldFormattedName, name)
		for _, phone := range r.Phones() {
			card.AddValue(vcard.FieldTelephone, phone)
		}
		if b := r.Birthday(); b.IsSet() {
			card.SetValue(vcard.FieldBirthday, b.Date().Format(vcardDateLayout))
		}

		if err := enc.Encode(card); err != nil {
			return fmt.Errorf("failed to encode vCard for %q: %w", name, err)
		}
	}
	return nil
}

// ImportVCard reads every card from r. Cards that fail validation are
// skipped and reported in the returned slice; the directory holds the rest.
func ImportVCard(r io.Reader) (*domain.Directory, []error, error) {
	dir := domain.NewDirectory()
	var skipped []error

	dec := vcard.NewDecoder(r)
	for i := 1; ; i++ {
		card, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to decode vCard #%d: %w", i, err)
		}

		record, err := cardToRecord(card)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("vCard #%d: %w", i, err))
			continue
		}
		if dir.Has(record.Name().Value()) {
			skipped = append(skipped, fmt.Errorf("vCard #%d: %w: %q", i, domain.ErrDuplicateName, record.Name().Value()))
			continue
		}
		dir.AddRecord(record)
	}

	return dir, skipped, nil
}

func cardToRecord(card vcard.Card) (*domain.Record, error) {
	raw := card.Value(vcard.FieldFormattedName)
	if raw == "" {
		if n := card.Name(); n != nil {
			raw = n.GivenName
			if n.FamilyName != "" {
				raw += " " + n.FamilyName
			}
		}
	}

	name, err := domain.NewName(raw)
	if err != nil {
		return nil, err
	}

	var birthday domain.Birthday
	if bday := card.Value(vcard.FieldBirthday); bday != "" {
		if birthday, err = parseVCardDate(bday); err != nil {
			return nil, err
		}
	}

	record, err := domain.NewRecord(name, domain.Phone{}, birthday)
	if err != nil {
		return nil, err
	}

	for _, raw := range card.Values(vcard.FieldTelephone) {
		phone, err := domain.NewPhone(raw)
		if err != nil {
			return nil, err
		}
		record.AddPhone(phone)
	}

	return record, nil
}

// parseVCardDate accepts the dated BDAY forms; year-less dates cannot be
// stored because a birthday needs a full date.
func parseVCardDate(value string) (domain.Birthday, error) {
	for _, layout := range []string{vcardDateLayout, "20060102", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return domain.BirthdayFromDate(t.Year(), t.Month(), t.Day())
		}
	}
	return domain.Birthday{}, fmt.Errorf("%w: unsupported vCard date %q", domain.ErrBirthdayInvalid, value)
}
