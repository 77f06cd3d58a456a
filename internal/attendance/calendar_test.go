package attendance

import (
	"testing"
	"time"
)

var eventDays = []string{
	"2025-06-28", "2025-06-29", "2025-06-30",
	"2025-07-01", "2025-07-02", "2025-07-03", "2025-07-04",
}

func mustCalendar(t *testing.T) Calendar {
	t.Helper()
	cal, err := NewCalendar(eventDays)
	if err != nil {
		t.Fatalf("NewCalendar: %v", err)
	}
	return cal
}

func TestCalendarSlots(t *testing.T) {
	cal := mustCalendar(t)

	for i, d := range eventDays {
		day, _ := time.ParseInLocation(DateLayout, d, time.UTC)
		slot, ok := cal.SlotFor(day)
		if !ok {
			t.Errorf("expected %s to be an event day", d)
			continue
		}
		if slot != i+1 {
			t.Errorf("expected slot %d for %s, got %d", i+1, d, slot)
		}
	}
}

func TestCalendarOutsideRange(t *testing.T) {
	cal := mustCalendar(t)

	for _, d := range []string{"2025-06-27", "2025-07-05", "2024-06-28"} {
		day, _ := time.ParseInLocation(DateLayout, d, time.UTC)
		if _, ok := cal.SlotFor(day); ok {
			t.Errorf("expected %s to be outside the event calendar", d)
		}
	}
}

func TestNewCalendarValidation(t *testing.T) {
	cases := []struct {
		name string
		days []string
	}{
		{"empty", nil},
		{"too many", append(append([]string{}, eventDays...), "2025-07-05")},
		{"bad date", []string{"28-06-2025"}},
		{"duplicate", []string{"2025-06-28", "2025-06-28"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := NewCalendar(c.days); err == nil {
				t.Error("expected error")
			}
		})
	}
}
