package review

import (
	"context"
	"time"
)

// Calendar resolves "today" as an organisation-local calendar date.
type Calendar interface {
	CurrentDate(ctx context.Context, orgID string) (time.Time, error)
}

// WeightProvider returns configured KRA weightages for an organisation.
type WeightProvider interface {
	WeightageByIDs(ctx context.Context, orgID string, kraIDs []string) (map[string]float64, error)
}

// Directory resolves manager links in the organisation.
type Directory interface {
	ManagerIDByEmployeeID(ctx context.Context, orgID, employeeID string) (string, error)
}

// Notifier receives transition events. Delivery is fire-and-forget: calls
// never block the request and failures never surface to the caller.
type Notifier interface {
	ReviewSubmitted(orgID, cycleID, revieweeID, reviewerID string, t ReviewType)
	ManagerReviewCycleComplete(orgID, cycleID, managerID string)
}

type Service struct {
	store     StoreAPI
	weights   WeightProvider
	calendar  Calendar
	directory Directory
	notifier  Notifier
}

func NewService(store StoreAPI, weights WeightProvider, calendar Calendar, directory Directory, notifier Notifier) *Service {
	return &Service{store: store, weights: weights, calendar: calendar, directory: directory, notifier: notifier}
}

func (s *Service) ListCycles(ctx context.Context, orgID string) ([]Cycle, error) {
	return s.store.ListCycles(ctx, orgID)
}

func (s *Service) GetCycle(ctx context.Context, orgID, cycleID string) (Cycle, error) {
	return s.store.GetCycle(ctx, orgID, cycleID)
}

func (s *Service) CreateCycle(ctx context.Context, c Cycle) (Cycle, error) {
	today, err := s.calendar.CurrentDate(ctx, c.OrgID)
	if err != nil {
		return Cycle{}, err
	}
	existing, err := s.store.ListCycles(ctx, c.OrgID)
	if err != nil {
		return Cycle{}, err
	}
	if err := ValidateCycle(c, existing); err != nil {
		return Cycle{}, err
	}
	return s.store.CreateCycle(ctx, UnpublishIfEnded(c, today))
}

func (s *Service) UpdateCycle(ctx context.Context, c Cycle) (Cycle, error) {
	today, err := s.calendar.CurrentDate(ctx, c.OrgID)
	if err != nil {
		return Cycle{}, err
	}
	existing, err := s.store.ListCycles(ctx, c.OrgID)
	if err != nil {
		return Cycle{}, err
	}
	if err := ValidateCycle(c, existing); err != nil {
		return Cycle{}, err
	}
	return s.store.UpdateCycle(ctx, UnpublishIfEnded(c, today))
}

// ActiveCycleFlags returns the published cycle with its activity flags at
// the organisation-local date. Flags are a per-request snapshot and must
// not be cached: "today" keeps moving.
func (s *Service) ActiveCycleFlags(ctx context.Context, orgID string) (Cycle, ActivityFlags, error) {
	cycle, found, err := s.store.ActiveCycle(ctx, orgID)
	if err != nil {
		return Cycle{}, ActivityFlags{}, err
	}
	if !found {
		return Cycle{}, ActivityFlags{}, ErrCycleNotActive
	}
	today, err := s.calendar.CurrentDate(ctx, orgID)
	if err != nil {
		return Cycle{}, ActivityFlags{}, err
	}
	return cycle, WithActiveFlags(cycle, today), nil
}

// SaveReview runs one submission request end to end: resolve the active
// cycle and its flags, let the state machine accept or reject, aggregate
// the weighted score when publishing, persist, then dispatch notifications.
// The incoming submission is never mutated; the persisted value is returned.
func (s *Service) SaveReview(ctx context.Context, orgID string, sub Submission) (Submission, error) {
	cycle, flags, err := s.ActiveCycleFlags(ctx, orgID)
	if err != nil {
		return Submission{}, err
	}
	if sub.CycleID != "" && sub.CycleID != cycle.ID {
		return Submission{}, ErrCycleNotActive
	}

	existing, found, err := s.store.GetSubmission(ctx, cycle.ID, sub.RevieweeID, sub.ReviewerID, sub.Type)
	if err != nil {
		return Submission{}, err
	}

	req := Request{Type: sub.Type, Publish: sub.Published}
	switch {
	case found:
		req.Action = ActionUpdate
		req.AlreadyPublished = existing.Published
	case sub.Published:
		req.Action = ActionCreatePublish
	default:
		req.Action = ActionCreateDraft
	}
	if err := Decide(flags, req); err != nil {
		return Submission{}, err
	}

	saved := sub
	saved.CycleID = cycle.ID
	saved.AverageRating = AverageNotComputed
	if found {
		saved.ID = existing.ID
		saved.CreatedAt = existing.CreatedAt
	}

	if saved.Published {
		saved.Draft = false
		ratings, avg, err := s.aggregate(ctx, orgID, saved.Ratings)
		if err != nil {
			return Submission{}, err
		}
		saved.Ratings = ratings
		saved.AverageRating = avg
	}

	if found {
		saved, err = s.store.UpdateSubmission(ctx, saved)
	} else {
		saved, err = s.store.CreateSubmission(ctx, saved)
	}
	if err != nil {
		return Submission{}, err
	}

	if saved.Published {
		s.dispatchPublishEvents(ctx, orgID, cycle.ID, saved)
	}
	return saved, nil
}

func (s *Service) ListSubmissions(ctx context.Context, cycleID, revieweeID, reviewerID string) ([]Submission, error) {
	return s.store.ListSubmissions(ctx, cycleID, revieweeID, reviewerID)
}

// WeightedReviewScore returns the final score for a submission. A stored
// average other than the sentinel wins over recomputation; recomputing from
// live ratings is the fallback for cycles where no score was ever persisted.
func (s *Service) WeightedReviewScore(ctx context.Context, orgID, cycleID, revieweeID, reviewerID string, t ReviewType) (float64, error) {
	stored, err := s.store.StoredAverageRating(ctx, cycleID, revieweeID, reviewerID, t)
	if err != nil {
		return AverageNotComputed, err
	}
	if stored != AverageNotComputed {
		return stored, nil
	}

	sub, found, err := s.store.GetSubmission(ctx, cycleID, revieweeID, reviewerID, t)
	if err != nil {
		return AverageNotComputed, err
	}
	if !found {
		return AverageNotComputed, nil
	}
	_, avg, err := s.aggregate(ctx, orgID, sub.Ratings)
	if err != nil {
		return AverageNotComputed, err
	}
	return avg, nil
}

// aggregate resolves current KRA weightages and computes the weighted
// average, returning a rating slice with the weight snapshot filled in.
func (s *Service) aggregate(ctx context.Context, orgID string, ratings []KRARating) ([]KRARating, float64, error) {
	kraIDs := make([]string, 0, len(ratings))
	seen := make(map[string]bool, len(ratings))
	for _, r := range ratings {
		if !seen[r.KRAID] {
			seen[r.KRAID] = true
			kraIDs = append(kraIDs, r.KRAID)
		}
	}
	weights, err := s.weights.WeightageByIDs(ctx, orgID, kraIDs)
	if err != nil {
		return nil, AverageNotComputed, err
	}

	weighted := make([]KRARating, len(ratings))
	for i, r := range ratings {
		r.Weightage = weights[r.KRAID]
		weighted[i] = r
	}
	return weighted, WeightedAverage(GroupRatings(weighted), weights), nil
}

// dispatchPublishEvents hands transition events to the notifier. The
// per-submission event always fires; the cycle-complete event fires only
// once the manager owes no further reviews in the cycle. Lookup failures
// are swallowed here: the submission is already committed.
func (s *Service) dispatchPublishEvents(ctx context.Context, orgID, cycleID string, sub Submission) {
	s.notifier.ReviewSubmitted(orgID, cycleID, sub.RevieweeID, sub.ReviewerID, sub.Type)

	if sub.Type != TypeSelf && sub.Type != TypeManager {
		return
	}
	managerID := sub.ReviewerID
	if sub.Type == TypeSelf {
		id, err := s.directory.ManagerIDByEmployeeID(ctx, orgID, sub.RevieweeID)
		if err != nil || id == "" {
			return
		}
		managerID = id
	}
	pending, err := s.store.CountPendingManagerReviews(ctx, orgID, cycleID, managerID)
	if err != nil || pending != 0 {
		return
	}
	s.notifier.ManagerReviewCycleComplete(orgID, cycleID, managerID)
}
