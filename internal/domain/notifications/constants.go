package notifications

const (
	TypeSelfReviewSubmitted    = "review.self.submitted"
	TypeManagerReviewSubmitted = "review.manager.submitted"
	TypeCheckInSubmitted       = "review.checkin.submitted"
	TypeManagerCycleComplete   = "review.cycle.manager_complete"
)
