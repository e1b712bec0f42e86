package review

import "time"

// ValidateCycle checks a candidate cycle against the structural invariants,
// failing fast on the first violation: date ordering, phase containment,
// then overlap with sibling cycles for the same organisation. When updating,
// the candidate's own prior version is excluded from the overlap check by id.
func ValidateCycle(candidate Cycle, existing []Cycle) error {
	windows := [][2]time.Time{
		{candidate.StartDate, candidate.EndDate},
		{candidate.SelfReviewStart, candidate.SelfReviewEnd},
		{candidate.ManagerReviewStart, candidate.ManagerReviewEnd},
		{candidate.CheckInStart, candidate.CheckInEnd},
	}
	for _, w := range windows {
		if DateOnly(w[1]).Before(DateOnly(w[0])) {
			return ErrDateOrder
		}
	}

	start, end := DateOnly(candidate.StartDate), DateOnly(candidate.EndDate)
	for _, w := range windows[1:] {
		if DateOnly(w[0]).Before(start) || DateOnly(w[1]).After(end) {
			return ErrPhaseOutsideCycle
		}
	}

	for _, other := range existing {
		if other.ID == candidate.ID {
			continue
		}
		if overlaps(candidate.StartDate, candidate.EndDate, other.StartDate, other.EndDate) {
			return ErrCycleOverlap
		}
	}
	return nil
}

// overlaps reports whether the closed intervals [s1,e1] and [s2,e2] share
// any date. Symmetric; catches containment, partial overlap and duplicates.
func overlaps(s1, e1, s2, e2 time.Time) bool {
	return !DateOnly(s1).After(DateOnly(e2)) && !DateOnly(s2).After(DateOnly(e1))
}

// UnpublishIfEnded returns a copy of the cycle with the publish flag cleared
// when its end date is already behind today. A cycle cannot stay live past
// its own end.
func UnpublishIfEnded(c Cycle, today time.Time) Cycle {
	if c.Publish && DateOnly(c.EndDate).Before(DateOnly(today)) {
		c.Publish = false
	}
	return c
}
