package scheduling

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "padded hour", input: "09:30", want: 570},
		{name: "unpadded hour", input: "9:30", want: 570},
		{name: "midnight", input: "00:00", want: 0},
		{name: "last minute of day", input: "23:59", want: 1439},
		{name: "empty", input: "", wantErr: true},
		{name: "missing colon", input: "0930", wantErr: true},
		{name: "too many parts", input: "9:30:00", wantErr: true},
		{name: "hour out of range", input: "24:00", wantErr: true},
		{name: "minute out of range", input: "09:60", wantErr: true},
		{name: "negative hour", input: "-1:00", wantErr: true},
		{name: "non numeric hour", input: "ab:00", wantErr: true},
		{name: "non numeric minute", input: "09:xx", wantErr: true},
		{name: "single digit minute", input: "9:5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseClock(%q) = %d, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseClock(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseClock(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{480, "8:00"},
		{510, "8:30"},
		{1050, "17:30"},
		{0, "0:00"},
		{605, "10:05"},
	}

	for _, tt := range tests {
		if got := FormatClock(tt.minutes); got != tt.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestNewInterval_RejectsBadOrdering(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
	}{
		{name: "equal times", start: "10:00", end: "10:00"},
		{name: "inverted range", start: "11:00", end: "10:00"},
		{name: "inverted by one minute", start: "10:01", end: "10:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewInterval(tt.start, tt.end); err == nil {
				t.Errorf("NewInterval(%s, %s) accepted, want rejection", tt.start, tt.end)
			}
		})
	}

	if _, err := NewInterval("10:00", "10:01"); err != nil {
		t.Errorf("NewInterval(10:00, 10:01) rejected: %v", err)
	}
}

func TestInterval_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a    Interval
		b    Interval
		want bool
	}{
		{name: "disjoint", a: Interval{540, 600}, b: Interval{660, 720}, want: false},
		{name: "back to back never conflicts", a: Interval{540, 630}, b: Interval{630, 660}, want: false},
		{name: "partial overlap", a: Interval{540, 630}, b: Interval{600, 660}, want: true},
		{name: "one minute overlap", a: Interval{540, 601}, b: Interval{600, 660}, want: true},
		{name: "contained", a: Interval{540, 720}, b: Interval{600, 660}, want: true},
		{name: "identical", a: Interval{540, 600}, b: Interval{540, 600}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("%v.Overlaps(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			// Overlap is symmetric.
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("%v.Overlaps(%v) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
			// The predicate matches the a < d && b > c definition exactly.
			want := tt.a.Start < tt.b.End && tt.a.End > tt.b.Start
			if got := tt.a.Overlaps(tt.b); got != want {
				t.Errorf("Overlaps diverges from definition for %v vs %v", tt.a, tt.b)
			}
		})
	}
}

func TestHasConflict(t *testing.T) {
	// Existing booking 09:00-10:30.
	existing := []Interval{{540, 630}}

	tests := []struct {
		name      string
		candidate Interval
		want      bool
	}{
		{name: "back to back after is accepted", candidate: Interval{630, 660}, want: false},
		{name: "overlapping request is rejected", candidate: Interval{600, 660}, want: true},
		{name: "back to back before is accepted", candidate: Interval{480, 540}, want: false},
		{name: "covering request is rejected", candidate: Interval{480, 720}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasConflict(tt.candidate, existing); got != tt.want {
				t.Errorf("HasConflict(%v) = %v, want %v", tt.candidate, got, tt.want)
			}
		})
	}
}

func TestHasConflict_Deterministic(t *testing.T) {
	existing := []Interval{{480, 540}, {600, 660}, {720, 780}}
	candidate := Interval{630, 690}

	first := HasConflict(candidate, existing)
	for i := 0; i < 50; i++ {
		if got := HasConflict(candidate, existing); got != first {
			t.Fatalf("HasConflict not deterministic: run %d got %v, first run %v", i, got, first)
		}
	}
}

func TestHasConflict_EmptyExisting(t *testing.T) {
	if HasConflict(Interval{540, 600}, nil) {
		t.Error("HasConflict with no existing bookings reported a conflict")
	}
}

func TestDayWindow(t *testing.T) {
	utc := time.UTC
	jerusalem, err := time.LoadLocation("Asia/Jerusalem")
	if err != nil {
		t.Fatalf("loading zone: %v", err)
	}

	tests := []struct {
		name string
		date time.Time
		loc  *time.Location
	}{
		{name: "utc midday", date: time.Date(2024, 3, 15, 13, 45, 0, 0, utc), loc: utc},
		{name: "utc exact midnight", date: time.Date(2024, 3, 15, 0, 0, 0, 0, utc), loc: utc},
		{name: "non utc reference zone", date: time.Date(2024, 3, 15, 22, 30, 0, 0, utc), loc: jerusalem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := DayWindow(tt.date, tt.loc)

			if start.Hour() != 0 || start.Minute() != 0 || start.Second() != 0 {
				t.Errorf("dayStart %v is not a midnight", start)
			}
			if !end.Equal(start.AddDate(0, 0, 1)) {
				t.Errorf("dayEnd %v is not the next midnight after %v", end, start)
			}
			if tt.date.Before(start) || !tt.date.Before(end) {
				t.Errorf("date %v not inside [%v, %v)", tt.date, start, end)
			}
		})
	}
}
