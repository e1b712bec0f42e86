package reports

// BuildCycleSummary derives completion rates from raw counts. Rates stay
// zero when the organisation has no active employees.
func BuildCycleSummary(cycleID string, activeEmployees, selfPublished, managerPublished, checkInPublished, drafts int) CycleSummary {
	summary := CycleSummary{
		CycleID:          cycleID,
		ActiveEmployees:  activeEmployees,
		SelfPublished:    selfPublished,
		ManagerPublished: managerPublished,
		CheckInPublished: checkInPublished,
		Drafts:           drafts,
	}
	if activeEmployees > 0 {
		summary.SelfCompletionRate = float64(selfPublished) / float64(activeEmployees)
		summary.ManagerCompletionRate = float64(managerPublished) / float64(activeEmployees)
	}
	return summary
}
