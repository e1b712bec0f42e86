package review

import "time"

// WithActiveFlags computes the activity flags for a cycle at refDate.
// All comparisons are date-only and boundaries are inclusive: a phase is
// still active on its end date and DatePassed the day after.
func WithActiveFlags(c Cycle, refDate time.Time) ActivityFlags {
	ref := DateOnly(refDate)

	flags := ActivityFlags{
		ReviewCycleDatePassed:   datePassed(c.EndDate, ref),
		SelfReviewDatePassed:    datePassed(c.SelfReviewEnd, ref),
		ManagerReviewDatePassed: datePassed(c.ManagerReviewEnd, ref),
		CheckInDatePassed:       datePassed(c.CheckInEnd, ref),
	}
	if !c.Publish {
		return flags
	}

	flags.IsReviewCycleActive = within(c.StartDate, c.EndDate, ref)
	flags.IsSelfReviewActive = within(c.SelfReviewStart, c.SelfReviewEnd, ref)
	flags.IsManagerReviewActive = within(c.ManagerReviewStart, c.ManagerReviewEnd, ref)
	flags.IsCheckInWithManagerActive = within(c.CheckInStart, c.CheckInEnd, ref)
	return flags
}

// DateOnly strips the time-of-day component.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func within(start, end, ref time.Time) bool {
	s, e := DateOnly(start), DateOnly(end)
	return !ref.Before(s) && !ref.After(e)
}

func datePassed(end, ref time.Time) bool {
	return DateOnly(end).Before(ref)
}
