// Package visitinghours defines the museum's fixed daily visiting slots.
package visitinghours

// Slot is one entry window in the museum's daily schedule. The midday break
// appears in the schedule for display but cannot be booked.
type Slot struct {
	ID       int    `json:"id"`
	Label    string `json:"label"`
	Bookable bool   `json:"bookable"`
}

// slots is the fixed daily schedule. IDs are stable and stored on
// reservations as visiting_hour, so entries must never be renumbered.
var slots = []Slot{
	{ID: 1, Label: "08:00 - 09:00", Bookable: true},
	{ID: 2, Label: "09:00 - 10:00", Bookable: true},
	{ID: 3, Label: "10:00 - 11:00", Bookable: true},
	{ID: 4, Label: "11:00 - 12:00", Bookable: true},
	{ID: 5, Label: "12:00 - 13:00 (break)", Bookable: false},
	{ID: 6, Label: "13:00 - 14:00", Bookable: true},
	{ID: 7, Label: "14:00 - 15:00", Bookable: true},
	{ID: 8, Label: "15:00 - 16:00", Bookable: true},
}

// All returns the full daily schedule in display order, break included.
func All() []Slot {
	out := make([]Slot, len(slots))
	copy(out, slots)
	return out
}

// Bookable reports whether id names a slot reservations may occupy. The
// break and unknown IDs are not bookable.
func Bookable(id int) bool {
	for _, s := range slots {
		if s.ID == id {
			return s.Bookable
		}
	}
	return false
}

// Label returns the display label for a slot, or "" if the slot does not
// exist.
func Label(id int) string {
	for _, s := range slots {
		if s.ID == id {
			return s.Label
		}
	}
	return ""
}
