package visitinghours

import "testing"

func TestAll_ReturnsFullSchedule(t *testing.T) {
	got := All()
	if len(got) != 8 {
		t.Fatalf("expected 8 entries, got %d", len(got))
	}
	if got[0].ID != 1 || got[0].Label != "08:00 - 09:00" {
		t.Errorf("unexpected first slot: %+v", got[0])
	}
	if got[7].ID != 8 || got[7].Label != "15:00 - 16:00" {
		t.Errorf("unexpected last slot: %+v", got[7])
	}
	if got[4].Bookable {
		t.Error("the break entry must not be bookable")
	}
}

func TestAll_CopyDoesNotAliasSchedule(t *testing.T) {
	first := All()
	first[0].Label = "mutated"
	if All()[0].Label != "08:00 - 09:00" {
		t.Error("mutating the returned slice must not change the schedule")
	}
}

func TestBookable(t *testing.T) {
	for _, id := range []int{1, 2, 3, 4, 6, 7, 8} {
		if !Bookable(id) {
			t.Errorf("expected slot %d to be bookable", id)
		}
	}
	// The break and unknown IDs.
	for _, id := range []int{5, 0, -1, 9, 42} {
		if Bookable(id) {
			t.Errorf("expected slot %d to be rejected", id)
		}
	}
}

func TestLabel(t *testing.T) {
	if got := Label(3); got != "10:00 - 11:00" {
		t.Errorf("Label(3) = %q", got)
	}
	if got := Label(5); got != "12:00 - 13:00 (break)" {
		t.Errorf("Label(5) = %q", got)
	}
	if got := Label(9); got != "" {
		t.Errorf("Label(9) = %q, want empty", got)
	}
}
