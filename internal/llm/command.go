package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const commandPromptFull = `You turn spoken or typed household scheduling requests into calendar records.

Context:
- Now: %s, %s %s (DayOfWeek, YYYY-MM-DD HH:MM)
- Tomorrow: %s (%s)
- Speaker: %s (owner id %q). The other household member is %s (owner id %q).
- Free-time window: %s to %s

Existing records on the mentioned days:
%s

User request: "%s"

Rules:
1. "today" is %s and "tomorrow" is %s, even on weekends.
2. Weekday names mean the next occurrence of that weekday.
3. A request without a date or time for something to do becomes a task with "date": "undated".
4. Owner is the speaker unless the request says "both", "us", "family" (then "shared") or names the other member.
5. Use 24-hour HH:MM. End must be after start. Omit times you cannot infer.
6. urgency is one of "today", "week", "month", "none" and only applies to tasks.
7. recurring is one of "none", "weekly", "monthly_greg", "yearly_greg".
8. Add a warning when the new record overlaps an existing one.

Respond ONLY with valid JSON (no markdown, no explanation):
{
  "events": [
    {
      "type": "task" or "event",
      "owner": "userA" | "userB" | "shared",
      "title": "string",
      "date": "YYYY-MM-DD" or "undated",
      "start": "HH:MM",
      "end": "HH:MM",
      "duration": 30,
      "urgency": "none",
      "recurring": "none",
      "reminder_minutes": 0,
      "address": "string"
    }
  ],
  "warnings": ["string"]
}`

const commandPromptCompact = `Convert the request into calendar JSON.

Today: %s (%s). Tomorrow: %s. Time: %s.
Speaker owner id: %q. Other member: %q. Both: "shared".
Window: %s to %s.

Existing:
%s

Request: "%s"

Rules:
- JSON only. Dates YYYY-MM-DD or "undated". Times HH:MM, end after start.
- type "task" or "event". recurring "none", "weekly", "monthly_greg", "yearly_greg".
- "warnings" is an array of strings.

{"events":[{"type":"task","owner":"userA","title":"","date":"","start":"","end":"","duration":0,"urgency":"none","recurring":"none","reminder_minutes":0,"address":""}],"warnings":[]}`

// ExistingEvent is a record already on the calendar, given as context.
type ExistingEvent struct {
	Date  string // YYYY-MM-DD
	Start string // HH:MM
	End   string // HH:MM
	Title string
	Owner string
}

// CommandRequest is the input of one natural-language command.
type CommandRequest struct {
	Input     string
	Now       time.Time
	Speaker   string // owner id of the speaker
	Name      string // speaker display name
	Other     string // owner id of the other member
	OtherName string
	DayStart  string
	DayEnd    string
	Existing  []ExistingEvent
	Compact   bool
}

// CommandResponse is the parsed model answer.
type CommandResponse struct {
	Events   []DraftEvent `json:"events"`
	Warnings []string     `json:"warnings"`
}

// DraftEvent is one record proposed by the model.
type DraftEvent struct {
	Type            string `json:"type"`
	Owner           string `json:"owner"`
	Title           string `json:"title"`
	Date            string `json:"date"`
	Start           string `json:"start"`
	End             string `json:"end"`
	Duration        int    `json:"duration"`
	Urgency         string `json:"urgency"`
	Recurring       string `json:"recurring"`
	ReminderMinutes int    `json:"reminder_minutes"`
	Address         string `json:"address"`
}

// CommandParser turns natural-language requests into draft records.
type CommandParser struct {
	client Client
}

// NewCommandParser creates a parser backed by client.
func NewCommandParser(client Client) *CommandParser {
	return &CommandParser{client: client}
}

// Parse sends a single request and returns the model's drafts.
func (p *CommandParser) Parse(ctx context.Context, req CommandRequest) (*CommandResponse, error) {
	return p.ParseWithMessages(ctx, p.BuildInitialMessages(req))
}

// ParseWithMessages parses with a prepared conversation. Retries append
// the previous answer and the validation feedback to messages.
func (p *CommandParser) ParseWithMessages(ctx context.Context, messages []Message) (*CommandResponse, error) {
	var resp CommandResponse
	if err := p.client.ChatJSON(ctx, messages, &resp); err != nil {
		return nil, fmt.Errorf("getting command from LLM: %w", err)
	}
	return &resp, nil
}

// BuildInitialMessages renders the system prompt and the user request.
func (p *CommandParser) BuildInitialMessages(req CommandRequest) []Message {
	today := req.Now.Format("2006-01-02")
	tomorrow := req.Now.AddDate(0, 0, 1)
	existing := formatExisting(req.Existing)

	var prompt string
	if req.Compact {
		prompt = fmt.Sprintf(commandPromptCompact,
			today, req.Now.Format("Monday"),
			tomorrow.Format("2006-01-02"),
			req.Now.Format("15:04"),
			req.Speaker, req.Other,
			req.DayStart, req.DayEnd,
			existing,
			req.Input,
		)
	} else {
		prompt = fmt.Sprintf(commandPromptFull,
			req.Now.Format("Monday"), today, req.Now.Format("15:04"),
			tomorrow.Format("2006-01-02"), tomorrow.Format("Monday"),
			displayName(req.Name, req.Speaker), req.Speaker,
			displayName(req.OtherName, req.Other), req.Other,
			req.DayStart, req.DayEnd,
			existing,
			req.Input,
			today, tomorrow.Format("2006-01-02"),
		)
	}

	return []Message{
		{Role: "system", Content: prompt},
		{Role: "user", Content: req.Input},
	}
}

func displayName(name, id string) string {
	if name == "" {
		return id
	}
	return name
}

func formatExisting(events []ExistingEvent) string {
	if len(events) == 0 {
		return "(none)"
	}
	var sb strings.Builder
	for _, e := range events {
		span := "all day"
		if e.Start != "" {
			span = e.Start
			if e.End != "" {
				span += "-" + e.End
			}
		}
		fmt.Fprintf(&sb, "- %s %s %s [%s]\n", e.Date, span, e.Title, e.Owner)
	}
	return strings.TrimRight(sb.String(), "\n")
}
