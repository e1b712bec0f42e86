package review

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type fakeStore struct {
	cycles      []Cycle
	submissions map[string]Submission
	pending     map[string]int
	stored      map[string]float64
	nextID      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		submissions: map[string]Submission{},
		pending:     map[string]int{},
		stored:      map[string]float64{},
	}
}

func subKey(cycleID, revieweeID, reviewerID string, t ReviewType) string {
	return fmt.Sprintf("%s|%s|%s|%d", cycleID, revieweeID, reviewerID, t)
}

func (f *fakeStore) ListCycles(ctx context.Context, orgID string) ([]Cycle, error) {
	var out []Cycle
	for _, c := range f.cycles {
		if c.OrgID == orgID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) GetCycle(ctx context.Context, orgID, cycleID string) (Cycle, error) {
	for _, c := range f.cycles {
		if c.OrgID == orgID && c.ID == cycleID {
			return c, nil
		}
	}
	return Cycle{}, errors.New("not found")
}

func (f *fakeStore) ActiveCycle(ctx context.Context, orgID string) (Cycle, bool, error) {
	for _, c := range f.cycles {
		if c.OrgID == orgID && c.Publish {
			return c, true, nil
		}
	}
	return Cycle{}, false, nil
}

func (f *fakeStore) CreateCycle(ctx context.Context, c Cycle) (Cycle, error) {
	f.nextID++
	c.ID = fmt.Sprintf("cycle-%d", f.nextID)
	if c.Publish {
		for i := range f.cycles {
			if f.cycles[i].OrgID == c.OrgID {
				f.cycles[i].Publish = false
			}
		}
	}
	f.cycles = append(f.cycles, c)
	return c, nil
}

func (f *fakeStore) UpdateCycle(ctx context.Context, c Cycle) (Cycle, error) {
	for i := range f.cycles {
		if f.cycles[i].ID == c.ID {
			if c.Publish {
				for j := range f.cycles {
					if j != i && f.cycles[j].OrgID == c.OrgID {
						f.cycles[j].Publish = false
					}
				}
			}
			f.cycles[i] = c
			return c, nil
		}
	}
	return Cycle{}, errors.New("not found")
}

func (f *fakeStore) GetSubmission(ctx context.Context, cycleID, revieweeID, reviewerID string, t ReviewType) (Submission, bool, error) {
	sub, ok := f.submissions[subKey(cycleID, revieweeID, reviewerID, t)]
	return sub, ok, nil
}

func (f *fakeStore) CreateSubmission(ctx context.Context, sub Submission) (Submission, error) {
	key := subKey(sub.CycleID, sub.RevieweeID, sub.ReviewerID, sub.Type)
	if _, exists := f.submissions[key]; exists {
		return Submission{}, ErrDuplicateManagerMapping
	}
	f.nextID++
	sub.ID = fmt.Sprintf("sub-%d", f.nextID)
	sub.CreatedAt = time.Now()
	sub.UpdatedAt = sub.CreatedAt
	f.submissions[key] = sub
	return sub, nil
}

func (f *fakeStore) UpdateSubmission(ctx context.Context, sub Submission) (Submission, error) {
	key := subKey(sub.CycleID, sub.RevieweeID, sub.ReviewerID, sub.Type)
	if _, exists := f.submissions[key]; !exists {
		return Submission{}, errors.New("not found")
	}
	sub.UpdatedAt = time.Now()
	f.submissions[key] = sub
	return sub, nil
}

func (f *fakeStore) ListSubmissions(ctx context.Context, cycleID, revieweeID, reviewerID string) ([]Submission, error) {
	var out []Submission
	for _, sub := range f.submissions {
		if sub.CycleID == cycleID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (f *fakeStore) CountPendingManagerReviews(ctx context.Context, orgID, cycleID, managerID string) (int, error) {
	return f.pending[managerID], nil
}

func (f *fakeStore) StoredAverageRating(ctx context.Context, cycleID, revieweeID, reviewerID string, t ReviewType) (float64, error) {
	if avg, ok := f.stored[subKey(cycleID, revieweeID, reviewerID, t)]; ok {
		return avg, nil
	}
	if sub, ok := f.submissions[subKey(cycleID, revieweeID, reviewerID, t)]; ok {
		return sub.AverageRating, nil
	}
	return AverageNotComputed, nil
}

type fakeWeights map[string]float64

func (f fakeWeights) WeightageByIDs(ctx context.Context, orgID string, kraIDs []string) (map[string]float64, error) {
	out := map[string]float64{}
	for _, id := range kraIDs {
		if w, ok := f[id]; ok {
			out[id] = w
		}
	}
	return out, nil
}

type fixedCalendar struct{ today time.Time }

func (f fixedCalendar) CurrentDate(ctx context.Context, orgID string) (time.Time, error) {
	return f.today, nil
}

type fakeDirectory map[string]string

func (f fakeDirectory) ManagerIDByEmployeeID(ctx context.Context, orgID, employeeID string) (string, error) {
	return f[employeeID], nil
}

type recordingNotifier struct {
	submitted []string
	complete  []string
}

func (r *recordingNotifier) ReviewSubmitted(orgID, cycleID, revieweeID, reviewerID string, t ReviewType) {
	r.submitted = append(r.submitted, fmt.Sprintf("%s:%d", revieweeID, t))
}

func (r *recordingNotifier) ManagerReviewCycleComplete(orgID, cycleID, managerID string) {
	r.complete = append(r.complete, managerID)
}

func newTestService(store *fakeStore, today time.Time) (*Service, *recordingNotifier) {
	notifier := &recordingNotifier{}
	weights := fakeWeights{"kra1": 60, "kra2": 40}
	directory := fakeDirectory{"emp1": "mgr1"}
	svc := NewService(store, weights, fixedCalendar{today: today}, directory, notifier)
	return svc, notifier
}

func TestCreateCycleRejectsOverlapWithoutPersisting(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store, date(2023, 8, 1))

	first := yearCycle()
	first.ID = ""
	if _, err := svc.CreateCycle(context.Background(), first); err != nil {
		t.Fatalf("first cycle should save: %v", err)
	}

	second := yearCycle()
	second.ID = ""
	if _, err := svc.CreateCycle(context.Background(), second); !errors.Is(err, ErrCycleOverlap) {
		t.Fatalf("expected ErrCycleOverlap, got %v", err)
	}
	if len(store.cycles) != 1 {
		t.Fatalf("rejected cycle must not be persisted, have %d", len(store.cycles))
	}
}

func TestCreateCycleAutoUnpublishesEndedCycle(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store, date(2024, 3, 1))

	c := yearCycle()
	c.ID = ""
	saved, err := svc.CreateCycle(context.Background(), c)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if saved.Publish {
		t.Fatalf("cycle already past its end date must be saved unpublished")
	}
}

func TestActiveCycleFlagsNoPublishedCycle(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store, date(2023, 11, 20))

	if _, _, err := svc.ActiveCycleFlags(context.Background(), "org1"); !errors.Is(err, ErrCycleNotActive) {
		t.Fatalf("expected ErrCycleNotActive, got %v", err)
	}
}

func seedActiveCycle(store *fakeStore) Cycle {
	c := yearCycle()
	store.cycles = append(store.cycles, c)
	return c
}

func TestSaveReviewPublishAggregates(t *testing.T) {
	store := newFakeStore()
	svc, notifier := newTestService(store, date(2023, 10, 15))
	seedActiveCycle(store)
	store.pending["mgr1"] = 2

	saved, err := svc.SaveReview(context.Background(), "org1", Submission{
		RevieweeID: "emp1",
		ReviewerID: "emp1",
		Type:       TypeSelf,
		Published:  true,
		Ratings: []KRARating{
			{KRAID: "kra1", Rating: intPtr(4)},
			{KRAID: "kra1", Rating: intPtr(5)},
			{KRAID: "kra2", Rating: intPtr(3)},
		},
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if saved.AverageRating != 3.9 {
		t.Fatalf("average = %v, want 3.9", saved.AverageRating)
	}
	if saved.Draft {
		t.Fatalf("published submission must not remain a draft")
	}
	for _, r := range saved.Ratings {
		if r.KRAID == "kra1" && r.Weightage != 60 {
			t.Fatalf("weight snapshot missing: %+v", r)
		}
	}
	if len(notifier.submitted) != 1 {
		t.Fatalf("publish must raise exactly one submitted event, got %d", len(notifier.submitted))
	}
	if len(notifier.complete) != 0 {
		t.Fatalf("manager still owes reviews, no completion event expected")
	}
}

func TestSaveReviewDraftSkipsAggregation(t *testing.T) {
	store := newFakeStore()
	svc, notifier := newTestService(store, date(2023, 10, 15))
	seedActiveCycle(store)

	saved, err := svc.SaveReview(context.Background(), "org1", Submission{
		RevieweeID: "emp1",
		ReviewerID: "emp1",
		Type:       TypeSelf,
		Draft:      true,
		Ratings:    []KRARating{{KRAID: "kra1", Rating: intPtr(4)}},
	})
	if err != nil {
		t.Fatalf("draft save failed: %v", err)
	}
	if saved.AverageRating != AverageNotComputed {
		t.Fatalf("draft must keep the sentinel average, got %v", saved.AverageRating)
	}
	if len(notifier.submitted) != 0 {
		t.Fatalf("drafts must not raise events")
	}
}

func TestSaveReviewDoesNotMutateInput(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store, date(2023, 10, 15))
	seedActiveCycle(store)

	input := Submission{
		RevieweeID: "emp1",
		ReviewerID: "emp1",
		Type:       TypeSelf,
		Published:  true,
		Ratings:    []KRARating{{KRAID: "kra1", Rating: intPtr(4)}},
	}
	saved, err := svc.SaveReview(context.Background(), "org1", input)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if input.ID != "" || input.CycleID != "" || input.AverageRating != 0 {
		t.Fatalf("input submission was mutated: %+v", input)
	}
	if saved.ID == "" {
		t.Fatalf("persisted submission must carry its new id")
	}
}

func TestSaveReviewWrongCycleID(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store, date(2023, 10, 15))
	seedActiveCycle(store)

	_, err := svc.SaveReview(context.Background(), "org1", Submission{
		CycleID:    "stale-cycle",
		RevieweeID: "emp1",
		ReviewerID: "emp1",
		Type:       TypeSelf,
		Draft:      true,
	})
	if !errors.Is(err, ErrCycleNotActive) {
		t.Fatalf("stale cycle id must be rejected, got %v", err)
	}
}

func TestSaveReviewPublishedIsImmutable(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store, date(2023, 10, 15))
	seedActiveCycle(store)

	first := Submission{
		RevieweeID: "emp1",
		ReviewerID: "emp1",
		Type:       TypeSelf,
		Published:  true,
		Ratings:    []KRARating{{KRAID: "kra1", Rating: intPtr(4)}},
	}
	if _, err := svc.SaveReview(context.Background(), "org1", first); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	_, err := svc.SaveReview(context.Background(), "org1", first)
	if !errors.Is(err, ErrAlreadyPublished) {
		t.Fatalf("expected ErrAlreadyPublished, got %v", err)
	}
}

func TestSaveReviewCheckInBeforeWindow(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store, date(2023, 10, 15))
	seedActiveCycle(store)

	_, err := svc.SaveReview(context.Background(), "org1", Submission{
		RevieweeID: "emp1",
		ReviewerID: "mgr1",
		Type:       TypeCheckIn,
		Draft:      true,
	})
	if !errors.Is(err, ErrWindowNotStarted) {
		t.Fatalf("check-in drafts before the window must be rejected, got %v", err)
	}
}

func TestSaveReviewManagerCompletionEvent(t *testing.T) {
	store := newFakeStore()
	svc, notifier := newTestService(store, date(2023, 11, 15))
	seedActiveCycle(store)
	store.pending["mgr1"] = 0

	_, err := svc.SaveReview(context.Background(), "org1", Submission{
		RevieweeID: "emp1",
		ReviewerID: "mgr1",
		Type:       TypeManager,
		Published:  true,
		Ratings:    []KRARating{{KRAID: "kra1", Rating: intPtr(5)}},
	})
	if err != nil {
		t.Fatalf("manager publish failed: %v", err)
	}
	if len(notifier.complete) != 1 || notifier.complete[0] != "mgr1" {
		t.Fatalf("expected completion event for mgr1, got %v", notifier.complete)
	}
}

func TestSaveReviewSelfPublishResolvesManagerForCompletion(t *testing.T) {
	store := newFakeStore()
	svc, notifier := newTestService(store, date(2023, 10, 15))
	seedActiveCycle(store)
	store.pending["mgr1"] = 0

	_, err := svc.SaveReview(context.Background(), "org1", Submission{
		RevieweeID: "emp1",
		ReviewerID: "emp1",
		Type:       TypeSelf,
		Published:  true,
		Ratings:    []KRARating{{KRAID: "kra1", Rating: intPtr(4)}},
	})
	if err != nil {
		t.Fatalf("self publish failed: %v", err)
	}
	if len(notifier.complete) != 1 || notifier.complete[0] != "mgr1" {
		t.Fatalf("self publish must resolve the manager via the directory, got %v", notifier.complete)
	}
}

func TestSaveReviewPersistsRepeatedKRARatings(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store, date(2023, 10, 15))
	c := seedActiveCycle(store)

	_, err := svc.SaveReview(context.Background(), "org1", Submission{
		RevieweeID: "emp1",
		ReviewerID: "emp1",
		Type:       TypeSelf,
		Published:  true,
		Ratings: []KRARating{
			{KRAID: "kra1", Rating: intPtr(4)},
			{KRAID: "kra1", Rating: intPtr(5)},
			{KRAID: "kra2", Rating: intPtr(3)},
		},
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	persisted := store.submissions[subKey(c.ID, "emp1", "emp1", TypeSelf)]
	if len(persisted.Ratings) != 3 {
		t.Fatalf("all rating rows must persist, got %d", len(persisted.Ratings))
	}
	var kra1Rows int
	for _, r := range persisted.Ratings {
		if r.KRAID == "kra1" {
			kra1Rows++
		}
	}
	if kra1Rows != 2 {
		t.Fatalf("both kra1 ratings must persist as separate rows, got %d", kra1Rows)
	}
}

func TestWeightedReviewScoreStoredWins(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store, date(2023, 10, 15))
	c := seedActiveCycle(store)
	store.stored[subKey(c.ID, "emp1", "emp1", TypeSelf)] = 4.20

	score, err := svc.WeightedReviewScore(context.Background(), "org1", c.ID, "emp1", "emp1", TypeSelf)
	if err != nil {
		t.Fatalf("score failed: %v", err)
	}
	if score != 4.20 {
		t.Fatalf("stored average must win over recomputation, got %v", score)
	}
}

func TestWeightedReviewScoreRecomputesWhenStoredIsSentinel(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store, date(2023, 10, 15))
	c := seedActiveCycle(store)
	store.submissions[subKey(c.ID, "emp1", "emp1", TypeSelf)] = Submission{
		ID:            "sub-1",
		CycleID:       c.ID,
		RevieweeID:    "emp1",
		ReviewerID:    "emp1",
		Type:          TypeSelf,
		Draft:         true,
		AverageRating: AverageNotComputed,
		Ratings: []KRARating{
			{KRAID: "kra1", Rating: intPtr(4)},
			{KRAID: "kra1", Rating: intPtr(5)},
			{KRAID: "kra2", Rating: intPtr(3)},
		},
	}

	score, err := svc.WeightedReviewScore(context.Background(), "org1", c.ID, "emp1", "emp1", TypeSelf)
	if err != nil {
		t.Fatalf("score failed: %v", err)
	}
	if score != 3.9 {
		t.Fatalf("sentinel average must fall back to live recomputation, got %v", score)
	}
}

func TestWeightedReviewScoreSentinelWhenMissing(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store, date(2023, 10, 15))
	c := seedActiveCycle(store)

	score, err := svc.WeightedReviewScore(context.Background(), "org1", c.ID, "ghost", "ghost", TypeSelf)
	if err != nil {
		t.Fatalf("score failed: %v", err)
	}
	if score != AverageNotComputed {
		t.Fatalf("missing submission must return the sentinel, got %v", score)
	}
}
