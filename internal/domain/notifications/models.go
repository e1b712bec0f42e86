package notifications

import "time"

type Notification struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"orgId"`
	UserID    string    `json:"userId"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// Event is one queued transition. Employee ids are resolved to recipient
// users inside the worker so enqueueing stays cheap on the request path.
type Event struct {
	Type       string
	OrgID      string
	CycleID    string
	RevieweeID string
	ReviewerID string
	ManagerID  string
}
