package model

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name           string
		s1, e1, s2, e2 string
		want           bool
	}{
		{"contained", "2024-06-05", "2024-06-07", "2024-06-01", "2024-06-10", true},
		{"containing", "2024-06-01", "2024-06-10", "2024-06-05", "2024-06-07", true},
		{"partial left", "2024-05-28", "2024-06-03", "2024-06-01", "2024-06-10", true},
		{"partial right", "2024-06-08", "2024-06-15", "2024-06-01", "2024-06-10", true},
		{"identical", "2024-06-01", "2024-06-10", "2024-06-01", "2024-06-10", true},
		{"touching start day", "2024-05-25", "2024-06-01", "2024-06-01", "2024-06-10", true},
		{"touching end day", "2024-06-10", "2024-06-15", "2024-06-01", "2024-06-10", true},
		{"single day inside", "2024-06-05", "2024-06-05", "2024-06-01", "2024-06-10", true},
		{"one day gap after", "2024-06-11", "2024-06-15", "2024-06-01", "2024-06-10", false},
		{"one day gap before", "2024-05-20", "2024-05-31", "2024-06-01", "2024-06-10", false},
		{"far apart", "2024-01-01", "2024-01-05", "2024-06-01", "2024-06-10", false},
	}
	for _, tc := range cases {
		got := Overlaps(day(tc.s1), day(tc.e1), day(tc.s2), day(tc.e2))
		if got != tc.want {
			t.Errorf("%s: Overlaps(%s..%s, %s..%s) = %v, want %v",
				tc.name, tc.s1, tc.e1, tc.s2, tc.e2, got, tc.want)
		}
		// The predicate is symmetric: swapping the two ranges must not
		// change the answer.
		if sym := Overlaps(day(tc.s2), day(tc.e2), day(tc.s1), day(tc.e1)); sym != got {
			t.Errorf("%s: Overlaps is not symmetric", tc.name)
		}
		// And pure: repeating the call yields the same result.
		if again := Overlaps(day(tc.s1), day(tc.e1), day(tc.s2), day(tc.e2)); again != got {
			t.Errorf("%s: Overlaps is not deterministic", tc.name)
		}
	}
}

func TestStatusSets(t *testing.T) {
	all := []string{StatusPending, StatusDenied, StatusExpired, StatusApproved,
		StatusCanceled, StatusTerminated, StatusCompleted}
	for _, s := range all {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = false", s)
		}
	}
	if ValidStatus("Confirmed") || ValidStatus("") || ValidStatus("pending") {
		t.Error("ValidStatus accepted an unknown status")
	}

	active := map[string]bool{StatusPending: true, StatusApproved: true}
	terminal := map[string]bool{StatusTerminated: true, StatusCompleted: true}
	for _, s := range all {
		if ActiveStatus(s) != active[s] {
			t.Errorf("ActiveStatus(%q) = %v, want %v", s, ActiveStatus(s), active[s])
		}
		if TerminalStatus(s) != terminal[s] {
			t.Errorf("TerminalStatus(%q) = %v, want %v", s, TerminalStatus(s), terminal[s])
		}
	}
}
