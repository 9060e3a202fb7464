// Package gcal implements the calendar placement channel on top of the
// Google Calendar API. Credentials and the OAuth token are provisioned out
// of band; this package only consumes them.
package gcal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/phrazzld/taskmill/internal/dispatch"
	"github.com/phrazzld/taskmill/internal/domain"
	"github.com/phrazzld/taskmill/internal/platform/logger"
)

// Config holds the calendar channel settings.
type Config struct {
	// CredentialsFile is the OAuth client secrets JSON.
	CredentialsFile string

	// TokenFile holds the stored user token. It is removed when the token
	// is rejected, forcing re-authorization out of band.
	TokenFile string

	// TimeZone names the zone events are placed in, for example
	// "Asia/Kolkata". Defaults to UTC.
	TimeZone string
}

// eventHour is the local hour task events start at; events last one hour.
const eventHour = 9

// CalendarChannel places task due dates on the primary calendar with the
// assignee as attendee. It satisfies dispatch.CalendarChannel.
type CalendarChannel struct {
	srv      *calendar.Service
	cfg      Config
	location *time.Location
}

// Verify CalendarChannel implements dispatch.CalendarChannel
var _ dispatch.CalendarChannel = (*CalendarChannel)(nil)

// NewCalendarChannel builds a CalendarChannel from the stored credentials
// and token. Returns an error if either file is missing or malformed.
func NewCalendarChannel(ctx context.Context, cfg Config) (*CalendarChannel, error) {
	secrets, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file %s: %w", cfg.CredentialsFile, err)
	}

	oauthCfg, err := google.ConfigFromJSON(secrets, calendar.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}

	token, err := tokenFromFile(cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load calendar token: %w", err)
	}

	srv, err := calendar.NewService(ctx, option.WithHTTPClient(oauthCfg.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to build calendar service: %w", err)
	}

	location := time.UTC
	if cfg.TimeZone != "" {
		location, err = time.LoadLocation(cfg.TimeZone)
		if err != nil {
			return nil, fmt.Errorf("invalid calendar time zone %q: %w", cfg.TimeZone, err)
		}
	}

	return &CalendarChannel{srv: srv, cfg: cfg, location: location}, nil
}

// AddEvent implements dispatch.CalendarChannel. The event occupies a one
// hour window on the due date morning. A transient API failure gets one
// retry; a rejected token additionally clears the stored token file so the
// next authorization starts clean.
func (c *CalendarChannel) AddEvent(ctx context.Context, task *domain.Task) error {
	if task.DueDate == nil {
		return errors.New("task has no due date to place on the calendar")
	}

	due := task.DueDate.In(c.location)
	start := time.Date(due.Year(), due.Month(), due.Day(), eventHour, 0, 0, 0, c.location)
	event := &calendar.Event{
		Summary:     fmt.Sprintf("%s for %s", task.Name, task.CustomerName),
		Description: task.Remarks,
		Start: &calendar.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: c.location.String(),
		},
		End: &calendar.EventDateTime{
			DateTime: start.Add(time.Hour).Format(time.RFC3339),
			TimeZone: c.location.String(),
		},
		Attendees: []*calendar.EventAttendee{
			{Email: task.Assignee.Email},
		},
	}

	backoff := retry.WithMaxRetries(1, retry.NewConstant(2*time.Second))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		_, err := c.srv.Events.Insert("primary", event).Context(ctx).Do()
		if err == nil {
			return nil
		}
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			// The refresh token is no longer valid; retrying cannot help.
			c.clearToken(ctx)
			return err
		}
		return retry.RetryableError(err)
	})
	if err != nil {
		return fmt.Errorf("failed to insert calendar event for task %s: %w", task.ID, err)
	}

	return nil
}

// clearToken removes the stored token so the next out-of-band authorization
// starts from scratch instead of looping on a dead refresh token.
func (c *CalendarChannel) clearToken(ctx context.Context) {
	if c.cfg.TokenFile == "" {
		return
	}
	if err := os.Remove(c.cfg.TokenFile); err != nil && !os.IsNotExist(err) {
		logger.FromContext(ctx).Warn("failed to remove rejected calendar token",
			"token_file", c.cfg.TokenFile,
			"error", err)
		return
	}
	logger.FromContext(ctx).Warn("calendar token rejected, removed stored token",
		"token_file", c.cfg.TokenFile)
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, fmt.Errorf("failed to decode token from %s: %w", path, err)
	}
	return token, nil
}
