// Package event defines the core domain types for bnapp: calendar records,
// goals, immutable snapshots of the event store, and write commands.
package event

import (
	"errors"
	"fmt"
	"strings"

	"github.com/javiermolinar/bnapp/internal/dateutil"
)

// Validation errors.
var (
	ErrEmptyTitle        = errors.New("title cannot be empty")
	ErrInvalidKind       = errors.New("type must be 'task' or 'event'")
	ErrInvalidOwner      = errors.New("owner must be 'userA', 'userB' or 'shared'")
	ErrInvalidUrgency    = errors.New("urgency must be 'today', 'week', 'month' or 'none'")
	ErrInvalidRecurrence = errors.New("recurring must be 'none', 'weekly', 'monthly_greg' or 'yearly_greg'")
	ErrInvalidTimeFormat = errors.New("time must be in HH:MM format")
	ErrEndBeforeStart    = errors.New("end time must be after start time")
	ErrEndWithoutStart   = errors.New("end time requires a start time")
	ErrRecurringUndated  = errors.New("recurring events need a date")
	ErrNegativeDuration  = errors.New("duration cannot be negative")
	ErrNegativeReminder  = errors.New("reminder minutes cannot be negative")
	ErrInvalidGoal       = errors.New("goal needs a title and positive weekly hours")
	ErrEventNotFound     = errors.New("event not found")
	ErrOrphanInstance    = errors.New("recurring instances need a parent id")
	ErrInvalidFields     = errors.New("invalid field value")
)

// Kind distinguishes tasks from events.
type Kind string

const (
	KindTask  Kind = "task"
	KindEvent Kind = "event"
)

// Owner is the household member a record belongs to.
type Owner string

const (
	OwnerA      Owner = "userA"
	OwnerB      Owner = "userB"
	OwnerShared Owner = "shared"
)

// Owners lists every valid owner.
var Owners = []Owner{OwnerA, OwnerB, OwnerShared}

// Valid returns true if the owner is a known value.
func (o Owner) Valid() bool {
	switch o {
	case OwnerA, OwnerB, OwnerShared:
		return true
	default:
		return false
	}
}

// Urgency controls how far ahead the placer may put an undated task.
type Urgency string

const (
	UrgencyToday Urgency = "today"
	UrgencyWeek  Urgency = "week"
	UrgencyMonth Urgency = "month"
	UrgencyNone  Urgency = "none"
)

// Recurrence is the repeat rule of a template event.
type Recurrence string

const (
	RecurNone    Recurrence = "none"
	RecurWeekly  Recurrence = "weekly"
	RecurMonthly Recurrence = "monthly_greg"
	RecurYearly  Recurrence = "yearly_greg"
)

// Event is a single calendar record: a task or an event.
// Records are values; a Snapshot hands out copies.
type Event struct {
	ID          string `json:"id"`
	Kind        Kind   `json:"type"`
	Owner       Owner  `json:"owner"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Address     string `json:"address,omitempty"`
	DateKey     string `json:"dateKey"`
	StartTime   string `json:"startTime,omitempty"` // "HH:MM"
	EndTime     string `json:"endTime,omitempty"`   // "HH:MM"
	Duration    int    `json:"duration,omitempty"`  // minutes

	Urgency             Urgency    `json:"urgency,omitempty"`
	Recurring           Recurrence `json:"recurring,omitempty"`
	IsRecurringParent   bool       `json:"isRecurringParent,omitempty"`
	IsRecurringInstance bool       `json:"isRecurringInstance,omitempty"`
	ParentID            string     `json:"parentId,omitempty"`
	IsDefault           bool       `json:"isDefault,omitempty"`

	Completed       bool  `json:"completed,omitempty"`
	CompletedAt     int64 `json:"completedAt,omitempty"` // epoch milliseconds
	ReminderMinutes int   `json:"reminderMinutes,omitempty"`
	RemindedAt      int64 `json:"remindedAt,omitempty"` // epoch milliseconds
}

// IsTask returns true if the record is a task.
func (e Event) IsTask() bool {
	return e.Kind == KindTask
}

// IsUndated returns true if the record has no concrete date.
func (e Event) IsUndated() bool {
	return dateutil.IsUndated(e.DateKey)
}

// IsTemplate returns true if the record is the parent of a recurring series.
func (e Event) IsTemplate() bool {
	return e.IsRecurringParent || (e.Recurrence() != RecurNone && e.ParentID == "" && !e.IsRecurringInstance)
}

// Recurrence returns the repeat rule, treating an empty value as none.
func (e Event) Recurrence() Recurrence {
	if e.Recurring == "" {
		return RecurNone
	}
	return e.Recurring
}

// HasTimes returns true if both start and end parse as clock times.
func (e Event) HasTimes() bool {
	_, ok1 := TimeToMinutes(e.StartTime)
	_, ok2 := TimeToMinutes(e.EndTime)
	return ok1 && ok2
}

// Minutes returns the scheduled length of the record, or 0 without times.
func (e Event) Minutes() int {
	start, ok1 := TimeToMinutes(e.StartTime)
	end, ok2 := TimeToMinutes(e.EndTime)
	if !ok1 || !ok2 || end <= start {
		return 0
	}
	return end - start
}

// Path returns the store path of the record.
func (e Event) Path() string {
	return EventPath(e.DateKey, e.ID)
}

// Validate checks the record before it is written.
// Normalization (trimming, defaulting empty enums) happens in Normalize.
func Validate(e Event) error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if e.Kind != KindTask && e.Kind != KindEvent {
		return ErrInvalidKind
	}
	if !e.Owner.Valid() {
		return ErrInvalidOwner
	}
	switch e.Urgency {
	case "", UrgencyToday, UrgencyWeek, UrgencyMonth, UrgencyNone:
	default:
		return ErrInvalidUrgency
	}
	switch e.Recurrence() {
	case RecurNone, RecurWeekly, RecurMonthly, RecurYearly:
	default:
		return ErrInvalidRecurrence
	}
	if !e.IsUndated() && !dateutil.IsDateKey(e.DateKey) {
		return dateutil.ErrInvalidDateFormat
	}
	if e.StartTime != "" {
		if _, ok := TimeToMinutes(e.StartTime); !ok {
			return fmt.Errorf("start time: %w", ErrInvalidTimeFormat)
		}
	}
	if e.EndTime != "" {
		if _, ok := TimeToMinutes(e.EndTime); !ok {
			return fmt.Errorf("end time: %w", ErrInvalidTimeFormat)
		}
		if e.StartTime == "" {
			return ErrEndWithoutStart
		}
	}
	if IsEndBeforeStart(e.StartTime, e.EndTime) {
		return ErrEndBeforeStart
	}
	if e.Duration < 0 {
		return ErrNegativeDuration
	}
	if e.ReminderMinutes < 0 {
		return ErrNegativeReminder
	}
	if e.Recurrence() != RecurNone && e.IsUndated() {
		return ErrRecurringUndated
	}
	if e.IsRecurringInstance && e.ParentID == "" {
		return ErrOrphanInstance
	}
	return nil
}

// Normalize trims text fields and fills empty enums and date keys with
// their defaults. It returns a copy.
func Normalize(e Event) Event {
	e.Title = strings.TrimSpace(e.Title)
	e.Description = strings.TrimSpace(e.Description)
	e.Address = strings.TrimSpace(e.Address)
	if e.DateKey == "" {
		e.DateKey = dateutil.Undated
	}
	if e.Kind == KindTask && e.Urgency == "" {
		e.Urgency = UrgencyNone
	}
	if e.Recurring == "" {
		e.Recurring = RecurNone
	}
	if e.Recurring != RecurNone && !e.IsRecurringInstance {
		e.IsRecurringParent = true
		e.ParentID = ""
	}
	return e
}

// Signature identifies records that describe the same block of time.
// Two records on the same day with equal signatures are counted once.
func (e Event) Signature() string {
	return fmt.Sprintf("%s|%s|%s-%s|%t", e.Title, e.Owner, e.StartTime, e.EndTime, e.IsDefault)
}

// Relevant reports whether records of owners a and b can affect each other:
// either one is shared or both are the same person.
func Relevant(a, b Owner) bool {
	return a == OwnerShared || b == OwnerShared || a == b
}
