package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/bnapp/internal/dateutil"
	"github.com/javiermolinar/bnapp/internal/event"
	"github.com/javiermolinar/bnapp/internal/llm"
)

// ErrNoParser is returned by Ask when no language model is configured.
var ErrNoParser = errors.New("assistant has no language model configured")

// contextDays is how many days from today are sent to the model as context.
const contextDays = 7

// ValidationError is one problem found in a drafted record.
type ValidationError struct {
	Index   int // position in the model's answer
	Message string
}

func (e ValidationError) String() string {
	return fmt.Sprintf("Record %d: %s", e.Index, e.Message)
}

// Draft is the assistant's proposal for a spoken or typed request. The
// caller confirms it before anything is written.
type Draft struct {
	Events   []event.Event
	Warnings []string

	// Errors is set when the model kept producing invalid records.
	Errors []ValidationError
}

// Valid reports whether every record passed validation.
func (d *Draft) Valid() bool {
	return len(d.Errors) == 0
}

// FormatErrors renders validation errors as feedback for the model.
func FormatErrors(errs []ValidationError) string {
	if len(errs) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("Your response had these errors:\n")
	for _, e := range errs {
		fmt.Fprintf(&sb, "- %s\n", e)
	}
	sb.WriteString("\nPlease correct these issues and respond again with valid JSON.")
	return sb.String()
}

// Ask turns text into draft records for speaker. Invalid answers are sent
// back to the model with the validation feedback, up to MaxRetries times.
// When retries run out the last draft is returned with Errors set.
func (a *Assistant) Ask(ctx context.Context, snap *event.Snapshot, speaker event.Owner, text string, now time.Time) (*Draft, error) {
	if a.opts.Parser == nil {
		return nil, ErrNoParser
	}

	other := event.OwnerB
	if speaker == event.OwnerB {
		other = event.OwnerA
	}
	req := llm.CommandRequest{
		Input:     text,
		Now:       now,
		Speaker:   string(speaker),
		Name:      a.opts.UserName(speaker),
		Other:     string(other),
		OtherName: a.opts.UserName(other),
		DayStart:  a.opts.Scheduler.DayStart(),
		DayEnd:    a.opts.Scheduler.DayEnd(),
		Existing:  existingContext(snap, dateutil.Key(now), speaker),
		Compact:   a.opts.Compact,
	}

	messages := a.opts.Parser.BuildInitialMessages(req)

	var draft *Draft
	for attempt := 0; attempt <= a.opts.MaxRetries; attempt++ {
		resp, err := a.opts.Parser.ParseWithMessages(ctx, messages)
		if err != nil {
			return nil, fmt.Errorf("parsing request (attempt %d): %w", attempt+1, err)
		}

		draft = buildDraft(snap, resp, speaker)
		if draft.Valid() {
			return draft, nil
		}
		a.opts.Log.Debug().
			Int("attempt", attempt+1).
			Int("errors", len(draft.Errors)).
			Msg("draft failed validation")

		if attempt < a.opts.MaxRetries {
			respJSON, _ := json.Marshal(resp)
			messages = append(messages,
				llm.Message{Role: "assistant", Content: string(respJSON)},
				llm.Message{Role: "user", Content: FormatErrors(draft.Errors)},
			)
		}
	}
	return draft, nil
}

// buildDraft converts the model's answer and validates every record.
// Overlaps with existing records become warnings, not errors.
func buildDraft(snap *event.Snapshot, resp *llm.CommandResponse, speaker event.Owner) *Draft {
	d := &Draft{Warnings: resp.Warnings}
	if len(resp.Events) == 0 {
		d.Errors = append(d.Errors, ValidationError{Index: 0, Message: "no records in the answer"})
		return d
	}
	for i, de := range resp.Events {
		ev := event.Normalize(fromDraft(de, speaker))
		if err := event.Validate(ev); err != nil {
			d.Errors = append(d.Errors, ValidationError{Index: i, Message: err.Error()})
			continue
		}
		d.Events = append(d.Events, ev)

		if ev.IsUndated() {
			continue
		}
		for _, c := range event.FindConflicts(snap, ev.DateKey, ev, "") {
			d.Warnings = append(d.Warnings, fmt.Sprintf("%q overlaps %q (%s-%s)", ev.Title, c.Title, c.StartTime, c.EndTime))
		}
	}
	return d
}

func fromDraft(de llm.DraftEvent, speaker event.Owner) event.Event {
	owner := event.Owner(de.Owner)
	if owner == "" {
		owner = speaker
	}
	kind := event.Kind(de.Type)
	if kind == "" {
		kind = event.KindEvent
	}
	return event.Event{
		Kind:            kind,
		Owner:           owner,
		Title:           de.Title,
		Address:         de.Address,
		DateKey:         de.Date,
		StartTime:       de.Start,
		EndTime:         de.End,
		Duration:        de.Duration,
		Urgency:         event.Urgency(de.Urgency),
		Recurring:       event.Recurrence(de.Recurring),
		ReminderMinutes: de.ReminderMinutes,
	}
}

// existingContext lists the records relevant to speaker from today on.
func existingContext(snap *event.Snapshot, today string, speaker event.Owner) []llm.ExistingEvent {
	var out []llm.ExistingEvent
	for d := 0; d < contextDays; d++ {
		dk := dateutil.AddDays(today, d)
		for _, ev := range snap.Day(dk) {
			if !event.Relevant(ev.Owner, speaker) || ev.IsTemplate() {
				continue
			}
			out = append(out, llm.ExistingEvent{
				Date:  dk,
				Start: ev.StartTime,
				End:   ev.EndTime,
				Title: ev.Title,
				Owner: string(ev.Owner),
			})
		}
	}
	return out
}
