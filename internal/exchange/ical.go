package exchange

import (
	"bytes"
	"fmt"
	"time"

	"github.com/andy/contactbook/internal/domain"
	"github.com/emersion/go-ical"
)

const (
	calendarProdID = "-//contactbook//Birthdays//EN"
	calendarName   = "Birthdays"
)

// BirthdayCalendar renders an iCalendar feed with one all-day event per
// contact birthday, placed on its next occurrence from today.
func BirthdayCalendar(dir *domain.Directory, today time.Time) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, calendarProdID)
	cal.Props.SetText("X-WR-CALNAME", calendarName)
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")

	stamp := ical.NewProp(ical.PropDateTimeStamp)
	stamp.SetDateTime(today.UTC())

	for name, r := range dir.All() {
		b := r.Birthday()
		if !b.IsSet() {
			continue
		}
		d := b.Date()
		next := domain.NextOccurrence(today, d.Day(), d.Month())

		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, fmt.Sprintf("%s-%d@contactbook", ContactUID(name), next.Year()))
		event.Props.Set(stamp)
		event.Props.SetText(ical.PropSummary, fmt.Sprintf("%s turns %d", name, next.Year()-d.Year()))

		start := ical.NewProp(ical.PropDateTimeStart)
		start.SetDate(next)
		event.Props.Set(start)

		cal.Children = append(cal.Children, event.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("failed to encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}
