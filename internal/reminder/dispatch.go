package reminder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// Dispatcher delivers a reminder.
type Dispatcher interface {
	Dispatch(ctx context.Context, r Reminder) error
}

// LogDispatcher writes reminders to the log.
type LogDispatcher struct {
	log zerolog.Logger
}

// NewLogDispatcher creates a LogDispatcher.
func NewLogDispatcher(log zerolog.Logger) *LogDispatcher {
	return &LogDispatcher{log: log}
}

// Dispatch logs r.
func (d *LogDispatcher) Dispatch(_ context.Context, r Reminder) error {
	d.log.Info().
		Str("tag", r.Tag()).
		Str("owner", string(r.Event.Owner)).
		Time("at", r.At).
		Msg(r.Body())
	return nil
}

// WebhookDispatcher posts reminders as JSON to a URL.
type WebhookDispatcher struct {
	client *resty.Client
	url    string
}

// NewWebhookDispatcher creates a WebhookDispatcher.
func NewWebhookDispatcher(url string, timeout time.Duration) *WebhookDispatcher {
	return &WebhookDispatcher{
		client: resty.New().
			SetHeader("Content-Type", "application/json").
			SetTimeout(timeout),
		url: url,
	}
}

type webhookPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Tag   string `json:"tag"`
	Owner string `json:"owner"`
	At    string `json:"at"`
}

// Dispatch posts r. Any non-2xx status is an error.
func (d *WebhookDispatcher) Dispatch(ctx context.Context, r Reminder) error {
	resp, err := d.client.R().
		SetContext(ctx).
		SetBody(webhookPayload{
			Title: r.Title(),
			Body:  r.Body(),
			Tag:   r.Tag(),
			Owner: string(r.Event.Owner),
			At:    r.At.Format(time.RFC3339),
		}).
		Post(d.url)
	if err != nil {
		return fmt.Errorf("webhook request: %w", err)
	}
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return fmt.Errorf("webhook returned %d", resp.StatusCode())
	}
	return nil
}

// Multi sends each reminder through every dispatcher and returns the first error.
type Multi []Dispatcher

// Dispatch implements Dispatcher.
func (m Multi) Dispatch(ctx context.Context, r Reminder) error {
	var first error
	for _, d := range m {
		if err := d.Dispatch(ctx, r); err != nil && first == nil {
			first = err
		}
	}
	return first
}
