package scheduling

// SlotMinutes is the fixed granularity of availability reporting,
// independent of actual booking precision.
const SlotMinutes = 30

// Grid is the working-hours slot grid for one day: every SlotMinutes
// boundary from StartHour up to but excluding EndHour.
type Grid struct {
	StartHour int
	EndHour   int
}

// AllSlots enumerates the grid labels in chronological order,
// e.g. 8:00, 8:30, ..., 17:30 for an 8-18 grid.
func (g Grid) AllSlots() []string {
	slots := make([]string, 0, (g.EndHour-g.StartHour)*60/SlotMinutes)
	for m := g.StartHour * 60; m < g.EndHour*60; m += SlotMinutes {
		slots = append(slots, FormatClock(m))
	}
	return slots
}

// Availability is the slot partition for one room and day. BookedSlots and
// AvailableSlots are disjoint and together equal AllSlots, all in grid
// order.
type Availability struct {
	AllSlots       []string `json:"all_slots"`
	BookedSlots    []string `json:"booked_slots"`
	AvailableSlots []string `json:"available_slots"`
}

// Slots partitions the grid against the day's bookings. A slot label at
// minute L is booked iff some booking covers it: start <= L < end. An
// end time exactly on a slot boundary frees that slot; a booking ending
// mid-slot (say 10:15) still blocks the 10:00 slot. Slot granularity stays
// fixed at SlotMinutes regardless of booking precision.
func (g Grid) Slots(bookings []Interval) Availability {
	all := g.AllSlots()
	booked := make([]string, 0)
	available := make([]string, 0, len(all))

	for i, label := range all {
		m := g.StartHour*60 + i*SlotMinutes
		if covered(m, bookings) {
			booked = append(booked, label)
		} else {
			available = append(available, label)
		}
	}

	return Availability{
		AllSlots:       all,
		BookedSlots:    booked,
		AvailableSlots: available,
	}
}

func covered(minute int, bookings []Interval) bool {
	for _, iv := range bookings {
		if iv.Start <= minute && minute < iv.End {
			return true
		}
	}
	return false
}
