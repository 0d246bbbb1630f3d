// Package ical exports calendar records to iCalendar and reads them back.
package ical

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/javiermolinar/bnapp/internal/dateutil"
	"github.com/javiermolinar/bnapp/internal/event"
)

// UIDSuffix marks UIDs of records exported by bnapp.
const UIDSuffix = "@bnapp"

const productID = "-//bnapp//household calendar//EN"

// ErrNoEvents is returned by Parse when the calendar has no usable VEVENT.
var ErrNoEvents = errors.New("calendar has no events")

// Export renders the dated records of [from, to] that user sees as an
// iCalendar document. Timed records get DTSTART/DTEND in loc; records
// without times are all-day. Series templates and default blocks are
// skipped since their days are covered by instances.
func Export(snap *event.Snapshot, user event.Owner, from, to string, loc *time.Location) (string, error) {
	rng, err := dateutil.NewDateRange(from, to)
	if err != nil {
		return "", err
	}
	if loc == nil {
		loc = time.Local
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRTimezone(loc.String())

	for _, dk := range rng.Keys() {
		for _, ev := range snap.Day(dk) {
			if !event.Relevant(ev.Owner, user) || ev.IsTemplate() || ev.IsDefault {
				continue
			}
			if err := addEvent(cal, ev, loc); err != nil {
				return "", fmt.Errorf("exporting %s: %w", ev.Path(), err)
			}
		}
	}
	return cal.Serialize(), nil
}

func addEvent(cal *ics.Calendar, ev event.Event, loc *time.Location) error {
	day, err := dateutil.ParseDate(ev.DateKey)
	if err != nil {
		return err
	}

	ve := cal.AddEvent(ev.ID + UIDSuffix)
	ve.SetSummary(ev.Title)
	if ev.Description != "" {
		ve.SetDescription(ev.Description)
	}
	if ev.Address != "" {
		ve.SetLocation(ev.Address)
	}
	ve.SetProperty(ics.ComponentPropertyCategories, string(ev.Kind))

	start, ok := event.TimeToMinutes(ev.StartTime)
	if !ok {
		ve.SetAllDayStartAt(day)
		ve.SetAllDayEndAt(day.AddDate(0, 0, 1))
		return nil
	}
	end, ok := event.TimeToMinutes(ev.EndTime)
	if !ok || end <= start {
		end = start + max(ev.Duration, 0)
	}
	at := func(m int) time.Time {
		return time.Date(day.Year(), day.Month(), day.Day(), m/60, m%60, 0, 0, loc)
	}
	ve.SetStartAt(at(start))
	ve.SetEndAt(at(end))
	return nil
}

// Parse reads the VEVENTs of an iCalendar document as records of owner.
// Times are converted to loc. Records exported by bnapp keep their id;
// others get an empty id for the store to assign.
func Parse(r io.Reader, owner event.Owner, loc *time.Location) ([]event.Event, error) {
	if loc == nil {
		loc = time.Local
	}
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parsing calendar: %w", err)
	}

	var out []event.Event
	for _, ve := range cal.Events() {
		ev, ok := fromVEvent(ve, owner, loc)
		if !ok {
			continue
		}
		out = append(out, ev)
	}
	if len(out) == 0 {
		return nil, ErrNoEvents
	}
	return out, nil
}

func fromVEvent(ve *ics.VEvent, owner event.Owner, loc *time.Location) (event.Event, bool) {
	start, err := ve.GetStartAt()
	if err != nil {
		return event.Event{}, false
	}

	ev := event.Event{
		Kind:      event.KindEvent,
		Owner:     owner,
		Recurring: event.RecurNone,
	}
	if p := ve.GetProperty(ics.ComponentPropertyUniqueId); p != nil && strings.HasSuffix(p.Value, UIDSuffix) {
		ev.ID = strings.TrimSuffix(p.Value, UIDSuffix)
	}
	if p := ve.GetProperty(ics.ComponentPropertySummary); p != nil {
		ev.Title = p.Value
	}
	if p := ve.GetProperty(ics.ComponentPropertyDescription); p != nil {
		ev.Description = p.Value
	}
	if p := ve.GetProperty(ics.ComponentPropertyLocation); p != nil {
		ev.Address = p.Value
	}
	if p := ve.GetProperty(ics.ComponentPropertyCategories); p != nil && event.Kind(p.Value) == event.KindTask {
		ev.Kind = event.KindTask
	}

	if allDay(ve) {
		ev.DateKey = start.Format(dateutil.KeyLayout)
		return ev, true
	}

	start = start.In(loc)
	ev.DateKey = dateutil.Key(start)
	ev.StartTime = start.Format("15:04")
	if end, err := ve.GetEndAt(); err == nil {
		end = end.In(loc)
		if dateutil.Key(end) == ev.DateKey && end.After(start) {
			ev.EndTime = end.Format("15:04")
		}
	}
	return ev, true
}

// allDay reports whether DTSTART is a date rather than a date-time.
func allDay(ve *ics.VEvent) bool {
	p := ve.GetProperty(ics.ComponentPropertyDtStart)
	if p == nil {
		return false
	}
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}
