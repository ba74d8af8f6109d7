// Package catalog holds the fixed list of daily visit windows. The catalog
// is pure data: adding or removing a window is a code change, not a runtime
// operation.
package catalog

// Slots are the eight one-hour visit windows of a working day, in display
// order. 13:00-14:00 is the lunch gap.
var Slots = []string{
	"09:00-10:00",
	"10:00-11:00",
	"11:00-12:00",
	"12:00-13:00",
	"14:00-15:00",
	"15:00-16:00",
	"16:00-17:00",
	"17:00-18:00",
}

var slotIndex = func() map[string]int {
	m := make(map[string]int, len(Slots))
	for i, s := range Slots {
		m[s] = i
	}
	return m
}()

// Contains reports whether slot is a catalog member.
func Contains(slot string) bool {
	_, ok := slotIndex[slot]
	return ok
}

// Index returns the catalog position of slot, or -1 for non-members.
func Index(slot string) int {
	if i, ok := slotIndex[slot]; ok {
		return i
	}
	return -1
}

// All returns a copy of the catalog so callers cannot mutate the order.
func All() []string {
	out := make([]string, len(Slots))
	copy(out, Slots)
	return out
}
