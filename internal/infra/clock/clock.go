// Package clock turns wall-clock time into the calendar dates the
// progress engine works with. All dates are taken in one configured
// location so "today" never depends on the server's locale.
package clock

import (
	"fmt"
	"time"

	"github.com/lernpfad/lernpfad/internal/domain"
)

// DefaultTimezone is used when no timezone is configured.
const DefaultTimezone = "Europe/Berlin"

// Clock produces domain.Today values in a fixed location.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// New returns a clock for the named IANA timezone.
func New(timezone string) (*Clock, error) {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return &Clock{loc: loc, now: time.Now}, nil
}

// Fixed returns a clock that always reports t. Used by tests and the CLI
// `--date` override.
func Fixed(t time.Time) *Clock {
	return &Clock{loc: t.Location(), now: func() time.Time { return t }}
}

// Location returns the clock's time zone.
func (c *Clock) Location() *time.Location { return c.loc }

// Today returns the current date and its Monday week start.
func (c *Clock) Today() domain.Today {
	return c.At(c.now())
}

// At returns the Today value for an arbitrary instant.
func (c *Clock) At(t time.Time) domain.Today {
	local := t.In(c.loc)
	return domain.Today{
		Date:      local.Format(domain.DateLayout),
		WeekStart: domain.WeekStartOf(local).Format(domain.DateLayout),
	}
}

// ForDate returns the Today value for a YYYY-MM-DD string.
func ForDate(date string) (domain.Today, error) {
	t, err := domain.ParseDate(date)
	if err != nil {
		return domain.Today{}, err
	}
	return domain.Today{
		Date:      date,
		WeekStart: domain.WeekStartOf(t).Format(domain.DateLayout),
	}, nil
}

// WeekStart returns the Monday on or before date, both YYYY-MM-DD.
func WeekStart(date string) (string, error) {
	today, err := ForDate(date)
	if err != nil {
		return "", err
	}
	return today.WeekStart, nil
}
