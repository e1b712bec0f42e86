package review

// WindowState is derived from activity flags on every request, never stored.
type WindowState int

const (
	BeforeWindow WindowState = iota
	ActiveWindow
	AfterWindow
)

type Action int

const (
	ActionCreateDraft Action = iota
	ActionCreatePublish
	ActionUpdate
)

type Request struct {
	Action           Action
	Type             ReviewType
	Publish          bool
	AlreadyPublished bool
}

// PhaseState resolves the window state of the phase matching the review type.
func PhaseState(flags ActivityFlags, t ReviewType) WindowState {
	var active, passed bool
	switch t {
	case TypeSelf:
		active, passed = flags.IsSelfReviewActive, flags.SelfReviewDatePassed
	case TypeManager:
		active, passed = flags.IsManagerReviewActive, flags.ManagerReviewDatePassed
	case TypeCheckIn:
		active, passed = flags.IsCheckInWithManagerActive, flags.CheckInDatePassed
	}
	switch {
	case passed:
		return AfterWindow
	case active:
		return ActiveWindow
	default:
		return BeforeWindow
	}
}

// Decide accepts or rejects a submission request against the phase window.
// A published record rejects every update regardless of window. Before the
// window only drafts are accepted, and check-ins are stricter than self and
// manager reviews: no pre-window drafts at all.
func Decide(flags ActivityFlags, req Request) error {
	if req.Action == ActionUpdate && req.AlreadyPublished {
		return ErrAlreadyPublished
	}

	switch PhaseState(flags, req.Type) {
	case AfterWindow:
		return ErrDeadlinePassed
	case ActiveWindow:
		return nil
	}

	// BeforeWindow from here on.
	if req.Publish || req.Action == ActionCreatePublish {
		return ErrWindowNotStarted
	}
	if req.Type == TypeCheckIn {
		return ErrWindowNotStarted
	}
	return nil
}
