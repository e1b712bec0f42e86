package review

import "time"

type ReviewType int

const (
	TypeSelf    ReviewType = 1
	TypeManager ReviewType = 2
	TypeCheckIn ReviewType = 3
)

// AverageNotComputed is the sentinel stored until aggregation runs.
const AverageNotComputed = -1.00

type Cycle struct {
	ID                 string    `json:"id"`
	OrgID              string    `json:"orgId"`
	StartDate          time.Time `json:"startDate"`
	EndDate            time.Time `json:"endDate"`
	Publish            bool      `json:"publish"`
	SelfReviewStart    time.Time `json:"selfReviewStart"`
	SelfReviewEnd      time.Time `json:"selfReviewEnd"`
	ManagerReviewStart time.Time `json:"managerReviewStart"`
	ManagerReviewEnd   time.Time `json:"managerReviewEnd"`
	CheckInStart       time.Time `json:"checkInStart"`
	CheckInEnd         time.Time `json:"checkInEnd"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// ActivityFlags are derived from a cycle and a reference date, never stored.
// Active flags require the cycle to be published; DatePassed flags are
// computed from the raw dates so deadline messaging works on unpublished
// cycles too.
type ActivityFlags struct {
	IsReviewCycleActive        bool `json:"isReviewCycleActive"`
	IsSelfReviewActive         bool `json:"isSelfReviewActive"`
	IsManagerReviewActive      bool `json:"isManagerReviewActive"`
	IsCheckInWithManagerActive bool `json:"isCheckInWithManagerActive"`
	ReviewCycleDatePassed      bool `json:"reviewCycleDatePassed"`
	SelfReviewDatePassed       bool `json:"selfReviewDatePassed"`
	ManagerReviewDatePassed    bool `json:"managerReviewDatePassed"`
	CheckInDatePassed          bool `json:"checkInDatePassed"`
}

type KRARating struct {
	KRAID     string  `json:"kraId"`
	Weightage float64 `json:"weightage"`
	Rating    *int    `json:"rating"`
}

type Submission struct {
	ID            string      `json:"id"`
	CycleID       string      `json:"cycleId"`
	RevieweeID    string      `json:"revieweeId"`
	ReviewerID    string      `json:"reviewerId"`
	Type          ReviewType  `json:"reviewType"`
	Draft         bool        `json:"draft"`
	Published     bool        `json:"published"`
	Ratings       []KRARating `json:"ratings"`
	AverageRating float64     `json:"averageRating"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}
