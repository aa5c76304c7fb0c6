package yearly

import (
	"errors"
	"testing"
	"time"
)

func TestYearBoundsUTC(t *testing.T) {
	b, err := YearBounds(2023, "UTC")
	if err != nil {
		t.Fatalf("YearBounds failed: %v", err)
	}

	if b.YearStart != 1672531200 {
		t.Errorf("YearStart = %d, want 1672531200", b.YearStart)
	}
	if b.YearEnd != 1704067199 {
		t.Errorf("YearEnd = %d, want 1704067199", b.YearEnd)
	}
	if b.PrevYearStart != 1640995200 {
		t.Errorf("PrevYearStart = %d, want 1640995200", b.PrevYearStart)
	}
	if b.PrevYearEnd != b.YearStart-1 {
		t.Errorf("PrevYearEnd = %d, want %d", b.PrevYearEnd, b.YearStart-1)
	}

	// Berlin is an hour ahead of UTC in winter, so its year starts earlier.
	if b.RefYearStart != b.YearStart-3600 {
		t.Errorf("RefYearStart = %d, want %d", b.RefYearStart, b.YearStart-3600)
	}

	if b.Offset != "-00:00" {
		t.Errorf("Offset = %q, want -00:00", b.Offset)
	}
}

func TestYearBoundsReferenceZoneMatchesItself(t *testing.T) {
	b, err := YearBounds(2023, ReferenceZone)
	if err != nil {
		t.Fatalf("YearBounds failed: %v", err)
	}
	if b.RefYearStart != b.YearStart {
		t.Errorf("RefYearStart = %d, YearStart = %d, want equal", b.RefYearStart, b.YearStart)
	}
	if b.RefYearEnd != b.YearEnd {
		t.Errorf("RefYearEnd = %d, YearEnd = %d, want equal", b.RefYearEnd, b.YearEnd)
	}
}

func TestYearBoundsBadTimezone(t *testing.T) {
	_, err := YearBounds(2023, "Atlantis/Lost_City")
	if !errors.Is(err, ErrBadTimezone) {
		t.Fatalf("err = %v, want ErrBadTimezone", err)
	}
}

func TestUTCOffsetString(t *testing.T) {
	winter := time.Date(2023, time.December, 31, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		zone string
		want string
	}{
		{"UTC", "-00:00"},
		{"Europe/Berlin", "+01:00"},
		{"America/New_York", "-05:00"},
		{"Asia/Kathmandu", "+05:45"},
	}

	for _, tt := range tests {
		loc, err := time.LoadLocation(tt.zone)
		if err != nil {
			t.Fatalf("LoadLocation(%q) failed: %v", tt.zone, err)
		}
		if got := UTCOffsetString(loc, winter); got != tt.want {
			t.Errorf("UTCOffsetString(%s) = %q, want %q", tt.zone, got, tt.want)
		}
	}
}

func TestBoundsLocation(t *testing.T) {
	b, err := YearBounds(2023, "Europe/Berlin")
	if err != nil {
		t.Fatalf("YearBounds failed: %v", err)
	}
	if b.Location() == nil || b.Location().String() != "Europe/Berlin" {
		t.Errorf("Location = %v, want Europe/Berlin", b.Location())
	}
}
