package reservations

import "fmt"

// Table is one bookable table in the dining room.
type Table struct {
	Number      int    `json:"number"`
	Seats       int    `json:"seats"`
	Type        string `json:"type"`
	IsAvailable bool   `json:"is_available"`
}

var diningRoom = []Table{
	{Number: 1, Seats: 2, Type: "Window", IsAvailable: true},
	{Number: 2, Seats: 4, Type: "Standard", IsAvailable: true},
	{Number: 3, Seats: 6, Type: "Family", IsAvailable: false},
	{Number: 4, Seats: 2, Type: "Romantic", IsAvailable: true},
	{Number: 5, Seats: 8, Type: "Party", IsAvailable: true},
	{Number: 6, Seats: 4, Type: "Outdoor", IsAvailable: true},
	{Number: 7, Seats: 2, Type: "VIP", IsAvailable: false},
	{Number: 8, Seats: 4, Type: "Standard", IsAvailable: true},
}

const (
	firstSlotHour = 12
	lastSlotHour  = 20
)

// Tables returns a copy of the table catalogue.
func Tables() []Table {
	out := make([]Table, len(diningRoom))
	copy(out, diningRoom)
	return out
}

// TableByNumber looks up a table by its number.
func TableByNumber(number int) (Table, bool) {
	for _, t := range diningRoom {
		if t.Number == number {
			return t, true
		}
	}
	return Table{}, false
}

// Slots lists the bookable start times as HH:MM.
func Slots() []string {
	out := make([]string, 0, lastSlotHour-firstSlotHour+1)
	for h := firstSlotHour; h <= lastSlotHour; h++ {
		out = append(out, fmt.Sprintf("%02d:00", h))
	}
	return out
}

func isSlot(value string) bool {
	for _, s := range Slots() {
		if s == value {
			return true
		}
	}
	return false
}
