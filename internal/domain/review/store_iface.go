package review

import "context"

type StoreAPI interface {
	ListCycles(ctx context.Context, orgID string) ([]Cycle, error)
	GetCycle(ctx context.Context, orgID, cycleID string) (Cycle, error)
	ActiveCycle(ctx context.Context, orgID string) (Cycle, bool, error)
	CreateCycle(ctx context.Context, c Cycle) (Cycle, error)
	UpdateCycle(ctx context.Context, c Cycle) (Cycle, error)

	GetSubmission(ctx context.Context, cycleID, revieweeID, reviewerID string, t ReviewType) (Submission, bool, error)
	CreateSubmission(ctx context.Context, sub Submission) (Submission, error)
	UpdateSubmission(ctx context.Context, sub Submission) (Submission, error)
	ListSubmissions(ctx context.Context, cycleID, revieweeID, reviewerID string) ([]Submission, error)
	CountPendingManagerReviews(ctx context.Context, orgID, cycleID, managerID string) (int, error)
	StoredAverageRating(ctx context.Context, cycleID, revieweeID, reviewerID string, t ReviewType) (float64, error)
}
