package scheduling

import (
	"reflect"
	"testing"
)

func mustInterval(t *testing.T, start, end string) Interval {
	t.Helper()
	iv, err := NewInterval(start, end)
	if err != nil {
		t.Fatalf("NewInterval(%s, %s): %v", start, end, err)
	}
	return iv
}

func TestGrid_AllSlots(t *testing.T) {
	grid := Grid{StartHour: 8, EndHour: 18}
	slots := grid.AllSlots()

	if len(slots) != 20 {
		t.Fatalf("expected 20 slots for an 8-18 grid, got %d", len(slots))
	}
	if slots[0] != "8:00" {
		t.Errorf("first slot = %q, want 8:00", slots[0])
	}
	if slots[1] != "8:30" {
		t.Errorf("second slot = %q, want 8:30", slots[1])
	}
	if slots[len(slots)-1] != "17:30" {
		t.Errorf("last slot = %q, want 17:30 (end hour is exclusive)", slots[len(slots)-1])
	}
}

func TestGrid_Slots_SingleBooking(t *testing.T) {
	// Working hours 8-18 with one booking 09:00-10:00.
	grid := Grid{StartHour: 8, EndHour: 18}
	got := grid.Slots([]Interval{mustInterval(t, "09:00", "10:00")})

	wantBooked := []string{"9:00", "9:30"}
	if !reflect.DeepEqual(got.BookedSlots, wantBooked) {
		t.Errorf("BookedSlots = %v, want %v", got.BookedSlots, wantBooked)
	}

	for _, label := range []string{"8:00", "8:30", "10:00", "10:30", "17:30"} {
		if !contains(got.AvailableSlots, label) {
			t.Errorf("AvailableSlots missing %q", label)
		}
	}
	for _, label := range wantBooked {
		if contains(got.AvailableSlots, label) {
			t.Errorf("AvailableSlots contains booked slot %q", label)
		}
	}
}

func TestGrid_Slots_EdgeCases(t *testing.T) {
	grid := Grid{StartHour: 8, EndHour: 18}

	tests := []struct {
		name       string
		bookings   []Interval
		wantBooked []string
	}{
		{
			name:       "no bookings",
			bookings:   nil,
			wantBooked: []string{},
		},
		{
			name:       "end on slot boundary frees the boundary slot",
			bookings:   []Interval{mustInterval(t, "09:00", "10:00")},
			wantBooked: []string{"9:00", "9:30"},
		},
		{
			name:       "end mid slot still blocks the slot it cuts into",
			bookings:   []Interval{mustInterval(t, "09:00", "10:15")},
			wantBooked: []string{"9:00", "9:30", "10:00"},
		},
		{
			name:       "adjacent bookings",
			bookings:   []Interval{mustInterval(t, "08:00", "09:00"), mustInterval(t, "09:00", "09:30")},
			wantBooked: []string{"8:00", "8:30", "9:00"},
		},
		{
			name:       "overlapping bookings count each slot once",
			bookings:   []Interval{mustInterval(t, "09:00", "10:00"), mustInterval(t, "09:30", "11:00")},
			wantBooked: []string{"9:00", "9:30", "10:00", "10:30"},
		},
		{
			name:       "booking outside working hours never leaks into the grid",
			bookings:   []Interval{mustInterval(t, "06:00", "07:30")},
			wantBooked: []string{},
		},
		{
			name:       "booking spanning the end of the working day clips at the grid",
			bookings:   []Interval{mustInterval(t, "17:00", "19:00")},
			wantBooked: []string{"17:00", "17:30"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := grid.Slots(tt.bookings)
			if !reflect.DeepEqual(got.BookedSlots, tt.wantBooked) {
				t.Errorf("BookedSlots = %v, want %v", got.BookedSlots, tt.wantBooked)
			}
			assertPartition(t, got)
		})
	}
}

// assertPartition checks that available and booked together are exactly
// the full grid, with no slot double-counted or dropped.
func assertPartition(t *testing.T, a Availability) {
	t.Helper()

	seen := make(map[string]int, len(a.AllSlots))
	for _, s := range a.BookedSlots {
		seen[s]++
	}
	for _, s := range a.AvailableSlots {
		seen[s]++
	}

	if len(seen) != len(a.AllSlots) {
		t.Errorf("booked+available cover %d distinct slots, grid has %d", len(seen), len(a.AllSlots))
	}
	for _, s := range a.AllSlots {
		if seen[s] != 1 {
			t.Errorf("slot %q appears %d times across booked+available, want exactly once", s, seen[s])
		}
	}
}

func TestGrid_Slots_PreservesGridOrder(t *testing.T) {
	grid := Grid{StartHour: 8, EndHour: 12}
	got := grid.Slots([]Interval{mustInterval(t, "09:00", "09:30"), mustInterval(t, "11:00", "11:30")})

	wantAvailable := []string{"8:00", "8:30", "9:30", "10:00", "10:30", "11:30"}
	if !reflect.DeepEqual(got.AvailableSlots, wantAvailable) {
		t.Errorf("AvailableSlots = %v, want %v", got.AvailableSlots, wantAvailable)
	}
}

func contains(slots []string, label string) bool {
	for _, s := range slots {
		if s == label {
			return true
		}
	}
	return false
}
