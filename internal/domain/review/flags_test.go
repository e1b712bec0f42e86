package review

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func yearCycle() Cycle {
	return Cycle{
		ID:                 "c1",
		OrgID:              "org1",
		StartDate:          date(2023, 7, 1),
		EndDate:            date(2023, 12, 31),
		Publish:            true,
		SelfReviewStart:    date(2023, 10, 1),
		SelfReviewEnd:      date(2023, 10, 31),
		ManagerReviewStart: date(2023, 11, 1),
		ManagerReviewEnd:   date(2023, 11, 30),
		CheckInStart:       date(2023, 12, 1),
		CheckInEnd:         date(2023, 12, 15),
	}
}

func TestWithActiveFlagsMidCycle(t *testing.T) {
	flags := WithActiveFlags(yearCycle(), date(2023, 11, 20))

	if !flags.IsReviewCycleActive {
		t.Fatalf("cycle should be active on 2023-11-20")
	}
	if flags.IsSelfReviewActive {
		t.Fatalf("self review window ended 2023-10-31")
	}
	if !flags.SelfReviewDatePassed {
		t.Fatalf("self review deadline should be passed")
	}
	if !flags.IsManagerReviewActive {
		t.Fatalf("manager review window should be open")
	}
	if flags.ManagerReviewDatePassed {
		t.Fatalf("manager review deadline not yet passed")
	}
	if flags.IsCheckInWithManagerActive {
		t.Fatalf("check-in window starts 2023-12-01")
	}
	if flags.CheckInDatePassed {
		t.Fatalf("check-in deadline not yet passed")
	}
	if flags.ReviewCycleDatePassed {
		t.Fatalf("cycle end date not yet passed")
	}
}

func TestWithActiveFlagsInclusiveBoundaries(t *testing.T) {
	c := yearCycle()

	onEnd := WithActiveFlags(c, date(2023, 10, 31))
	if !onEnd.IsSelfReviewActive {
		t.Fatalf("phase should still be active on its end date")
	}
	if onEnd.SelfReviewDatePassed {
		t.Fatalf("deadline is not passed on the end date itself")
	}

	dayAfter := WithActiveFlags(c, date(2023, 11, 1))
	if dayAfter.IsSelfReviewActive {
		t.Fatalf("phase must close the day after its end date")
	}
	if !dayAfter.SelfReviewDatePassed {
		t.Fatalf("deadline is passed the day after the end date")
	}

	onStart := WithActiveFlags(c, date(2023, 7, 1))
	if !onStart.IsReviewCycleActive {
		t.Fatalf("cycle should be active on its start date")
	}
}

func TestWithActiveFlagsUnpublished(t *testing.T) {
	c := yearCycle()
	c.Publish = false

	flags := WithActiveFlags(c, date(2023, 11, 20))
	if flags.IsReviewCycleActive || flags.IsSelfReviewActive || flags.IsManagerReviewActive || flags.IsCheckInWithManagerActive {
		t.Fatalf("unpublished cycle must have no active flags: %+v", flags)
	}
	if !flags.SelfReviewDatePassed {
		t.Fatalf("date-passed flags are computed from raw dates even unpublished")
	}
}

func TestWithActiveFlagsIgnoresTimeOfDay(t *testing.T) {
	c := yearCycle()
	lateEvening := time.Date(2023, 10, 31, 23, 59, 59, 0, time.UTC)

	flags := WithActiveFlags(c, lateEvening)
	if !flags.IsSelfReviewActive {
		t.Fatalf("comparison must be date-only, time of day ignored")
	}
}

func TestWithActiveFlagsIsPure(t *testing.T) {
	c := yearCycle()
	before := c

	_ = WithActiveFlags(c, date(2023, 11, 20))
	if c != before {
		t.Fatalf("flag computation must not mutate the cycle")
	}
}
