package clock

import (
	"errors"
	"testing"
	"time"

	"github.com/lernpfad/lernpfad/internal/domain"
)

func TestNew_DefaultTimezone(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if c.Location().String() != DefaultTimezone {
		t.Errorf("Location() = %s, want %s", c.Location(), DefaultTimezone)
	}
}

func TestNew_UnknownTimezone(t *testing.T) {
	if _, err := New("Mars/Olympus"); err == nil {
		t.Error("New() should reject an unknown timezone")
	}
}

func TestAt_UsesLocation(t *testing.T) {
	c, err := New("Europe/Berlin")
	if err != nil {
		t.Fatal(err)
	}

	// 23:30 UTC on Sunday is already Monday in Berlin.
	got := c.At(time.Date(2026, 2, 22, 23, 30, 0, 0, time.UTC))
	want := domain.Today{Date: "2026-02-23", WeekStart: "2026-02-23"}
	if got != want {
		t.Errorf("At() = %+v, want %+v", got, want)
	}
}

func TestFixed(t *testing.T) {
	c := Fixed(time.Date(2026, 2, 19, 8, 0, 0, 0, time.UTC))
	want := domain.Today{Date: "2026-02-19", WeekStart: "2026-02-16"}
	if got := c.Today(); got != want {
		t.Errorf("Today() = %+v, want %+v", got, want)
	}
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2026-02-16", "2026-02-16"}, // Monday
		{"2026-02-19", "2026-02-16"}, // Thursday
		{"2026-02-22", "2026-02-16"}, // Sunday
		{"2026-02-23", "2026-02-23"}, // next Monday
		{"2026-03-01", "2026-02-23"}, // across a month
		{"2027-01-01", "2026-12-28"}, // across a year
	}
	for _, tt := range tests {
		got, err := WeekStart(tt.date)
		if err != nil {
			t.Fatalf("WeekStart(%q) error: %v", tt.date, err)
		}
		if got != tt.want {
			t.Errorf("WeekStart(%q) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestForDate_Invalid(t *testing.T) {
	_, err := ForDate("19.02.2026")
	if !errors.Is(err, domain.ErrInvalidDate) {
		t.Errorf("ForDate() error = %v, want ErrInvalidDate", err)
	}
}
