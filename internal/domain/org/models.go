package org

import "time"

type Organisation struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Timezone     string    `json:"timezone"`
	EmailEnabled bool      `json:"emailEnabled"`
	EmailFrom    string    `json:"emailFrom"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Employee struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"orgId"`
	UserID    string    `json:"userId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	ManagerID string    `json:"managerId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}
