package review

import (
	"errors"
	"testing"
	"time"
)

func TestValidateCycleDateOrder(t *testing.T) {
	c := yearCycle()
	c.EndDate = date(2023, 6, 30)

	if err := ValidateCycle(c, nil); !errors.Is(err, ErrDateOrder) {
		t.Fatalf("expected ErrDateOrder, got %v", err)
	}

	c = yearCycle()
	c.SelfReviewEnd = date(2023, 9, 30)
	if err := ValidateCycle(c, nil); !errors.Is(err, ErrDateOrder) {
		t.Fatalf("expected ErrDateOrder for phase window, got %v", err)
	}
}

func TestValidateCyclePhaseContainment(t *testing.T) {
	c := yearCycle()
	c.CheckInEnd = date(2024, 1, 10)

	if err := ValidateCycle(c, nil); !errors.Is(err, ErrPhaseOutsideCycle) {
		t.Fatalf("expected ErrPhaseOutsideCycle, got %v", err)
	}

	c = yearCycle()
	c.SelfReviewStart = date(2023, 6, 15)
	if err := ValidateCycle(c, nil); !errors.Is(err, ErrPhaseOutsideCycle) {
		t.Fatalf("expected ErrPhaseOutsideCycle for early phase start, got %v", err)
	}
}

func TestValidateCycleFailFastOrder(t *testing.T) {
	// Both ordering and containment are violated; ordering wins.
	c := yearCycle()
	c.SelfReviewStart = date(2024, 2, 1)
	c.SelfReviewEnd = date(2024, 1, 1)

	if err := ValidateCycle(c, nil); !errors.Is(err, ErrDateOrder) {
		t.Fatalf("date ordering must be checked before containment, got %v", err)
	}
}

func TestValidateCycleOverlap(t *testing.T) {
	existing := []Cycle{{
		ID:        "other",
		StartDate: date(2023, 1, 1),
		EndDate:   date(2023, 6, 30),
	}}

	c := yearCycle()
	c.StartDate = date(2023, 6, 30)
	c.SelfReviewStart = date(2023, 10, 1)
	if err := ValidateCycle(c, existing); !errors.Is(err, ErrCycleOverlap) {
		t.Fatalf("shared boundary date must count as overlap, got %v", err)
	}

	c = yearCycle()
	if err := ValidateCycle(c, existing); err != nil {
		t.Fatalf("adjacent non-overlapping cycles should validate, got %v", err)
	}
}

func TestValidateCycleOverlapExcludesSelf(t *testing.T) {
	c := yearCycle()
	existing := []Cycle{c}

	if err := ValidateCycle(c, existing); err != nil {
		t.Fatalf("updating a cycle must not overlap with its own prior version, got %v", err)
	}
}

func TestOverlapsSymmetry(t *testing.T) {
	cases := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{"disjoint", date(2023, 1, 1), date(2023, 3, 31), date(2023, 4, 1), date(2023, 6, 30), false},
		{"partial", date(2023, 1, 1), date(2023, 4, 15), date(2023, 4, 1), date(2023, 6, 30), true},
		{"contained", date(2023, 1, 1), date(2023, 12, 31), date(2023, 4, 1), date(2023, 6, 30), true},
		{"identical", date(2023, 1, 1), date(2023, 6, 30), date(2023, 1, 1), date(2023, 6, 30), true},
		{"touching", date(2023, 1, 1), date(2023, 3, 31), date(2023, 3, 31), date(2023, 6, 30), true},
	}
	for _, tc := range cases {
		if got := overlaps(tc.s1, tc.e1, tc.s2, tc.e2); got != tc.want {
			t.Fatalf("%s: overlaps = %v, want %v", tc.name, got, tc.want)
		}
		if got := overlaps(tc.s2, tc.e2, tc.s1, tc.e1); got != tc.want {
			t.Fatalf("%s swapped: overlaps = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestUnpublishIfEnded(t *testing.T) {
	c := yearCycle()

	kept := UnpublishIfEnded(c, date(2023, 12, 31))
	if !kept.Publish {
		t.Fatalf("cycle still running on its end date must stay published")
	}

	cleared := UnpublishIfEnded(c, date(2024, 1, 1))
	if cleared.Publish {
		t.Fatalf("cycle past its end date must be unpublished")
	}
	if !c.Publish {
		t.Fatalf("input cycle must not be mutated")
	}
}
