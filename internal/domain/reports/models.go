package reports

type CycleSummary struct {
	CycleID              string  `json:"cycleId"`
	ActiveEmployees      int     `json:"activeEmployees"`
	SelfPublished        int     `json:"selfPublished"`
	ManagerPublished     int     `json:"managerPublished"`
	CheckInPublished     int     `json:"checkInPublished"`
	Drafts               int     `json:"drafts"`
	SelfCompletionRate    float64 `json:"selfCompletionRate"`
	ManagerCompletionRate float64 `json:"managerCompletionRate"`
}

type ScoreRow struct {
	RevieweeID   string  `json:"revieweeId"`
	RevieweeName string  `json:"revieweeName"`
	ReviewerID   string  `json:"reviewerId"`
	ReviewType   int     `json:"reviewType"`
	Score        float64 `json:"score"`
}
