package catalog

import "testing"

func TestSlots_EightWindowsWithLunchGap(t *testing.T) {
	if len(Slots) != 8 {
		t.Fatalf("expected 8 visit windows, got %d", len(Slots))
	}

	if Contains("13:00-14:00") {
		t.Error("the lunch hour must not be bookable")
	}

	if Slots[0] != "09:00-10:00" {
		t.Errorf("expected the day to start at 09:00-10:00, got %s", Slots[0])
	}
	if Slots[len(Slots)-1] != "17:00-18:00" {
		t.Errorf("expected the day to end at 17:00-18:00, got %s", Slots[len(Slots)-1])
	}
}

func TestContains(t *testing.T) {
	for _, slot := range Slots {
		if !Contains(slot) {
			t.Errorf("catalog member %q must be contained", slot)
		}
	}

	for _, slot := range []string{"", "09:00", "9:00-10:00", "09:00-10:30", "18:00-19:00"} {
		if Contains(slot) {
			t.Errorf("%q must not be contained", slot)
		}
	}
}

func TestIndex(t *testing.T) {
	for i, slot := range Slots {
		if got := Index(slot); got != i {
			t.Errorf("expected index %d for %s, got %d", i, slot, got)
		}
	}
	if got := Index("13:00-14:00"); got != -1 {
		t.Errorf("expected -1 for a non-member, got %d", got)
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	all := All()
	if len(all) != len(Slots) {
		t.Fatalf("expected %d slots, got %d", len(Slots), len(all))
	}
	all[0] = "mutated"
	if Slots[0] == "mutated" {
		t.Error("All must return a copy, not the backing slice")
	}
}
