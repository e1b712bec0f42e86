package kra

import "time"

// KRA is a weighted competency area ratings are grouped under. Sibling
// weightages for an organisation are expected to sum to 100; that is an
// administrative concern, not enforced here.
type KRA struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"orgId"`
	Title     string    `json:"title"`
	Weightage float64   `json:"weightage"`
	CreatedAt time.Time `json:"createdAt"`
}
