package notifications

import (
	"context"
	"fmt"
	"log/slog"

	"appraisal/internal/domain/review"
)

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// Dispatcher delivers transition events off the request path. Enqueue never
// blocks: a full queue drops the event with a warning, and delivery errors
// stay inside the worker. The submission that triggered an event is already
// committed by the time it is queued.
type Dispatcher struct {
	store       StoreAPI
	mailer      Mailer
	defaultFrom string
	queue       chan Event
}

func NewDispatcher(store StoreAPI, mailer Mailer, defaultFrom string, queueSize int) *Dispatcher {
	return &Dispatcher{
		store:       store,
		mailer:      mailer,
		defaultFrom: defaultFrom,
		queue:       make(chan Event, queueSize),
	}
}

func (d *Dispatcher) Start(ctx context.Context) {
	go d.worker(ctx)
}

func (d *Dispatcher) Enqueue(e Event) {
	select {
	case d.queue <- e:
	default:
		slog.Warn("notification queue full, event dropped", "type", e.Type, "orgId", e.OrgID)
	}
}

// ReviewSubmitted queues the per-submission event raised on every publish.
func (d *Dispatcher) ReviewSubmitted(orgID, cycleID, revieweeID, reviewerID string, t review.ReviewType) {
	etype := TypeSelfReviewSubmitted
	switch t {
	case review.TypeManager:
		etype = TypeManagerReviewSubmitted
	case review.TypeCheckIn:
		etype = TypeCheckInSubmitted
	}
	d.Enqueue(Event{Type: etype, OrgID: orgID, CycleID: cycleID, RevieweeID: revieweeID, ReviewerID: reviewerID})
}

// ManagerReviewCycleComplete queues the second-order event raised when a
// manager owes no further reviews in the cycle.
func (d *Dispatcher) ManagerReviewCycleComplete(orgID, cycleID, managerID string) {
	d.Enqueue(Event{Type: TypeManagerCycleComplete, OrgID: orgID, CycleID: cycleID, ManagerID: managerID})
}

func (d *Dispatcher) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-d.queue:
			if err := d.process(ctx, e); err != nil {
				slog.Warn("notification delivery failed", "type", e.Type, "orgId", e.OrgID, "err", err)
			}
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, e Event) error {
	var userID, title, body string
	var err error

	switch e.Type {
	case TypeSelfReviewSubmitted:
		managerID, lookupErr := d.store.ManagerIDByEmployeeID(ctx, e.OrgID, e.RevieweeID)
		if lookupErr != nil || managerID == "" {
			return lookupErr
		}
		userID, err = d.store.EmployeeUserID(ctx, e.OrgID, managerID)
		name, _ := d.store.EmployeeName(ctx, e.OrgID, e.RevieweeID)
		title = "Self review submitted"
		body = fmt.Sprintf("%s submitted their self review.", name)
	case TypeManagerReviewSubmitted:
		userID, err = d.store.EmployeeUserID(ctx, e.OrgID, e.RevieweeID)
		name, _ := d.store.EmployeeName(ctx, e.OrgID, e.ReviewerID)
		title = "Manager review submitted"
		body = fmt.Sprintf("%s submitted your manager review.", name)
	case TypeCheckInSubmitted:
		userID, err = d.store.EmployeeUserID(ctx, e.OrgID, e.RevieweeID)
		title = "Check-in recorded"
		body = "A check-in with your manager was recorded."
	case TypeManagerCycleComplete:
		userID, err = d.store.EmployeeUserID(ctx, e.OrgID, e.ManagerID)
		title = "Manager reviews complete"
		body = "All manager reviews for the current cycle are submitted."
	default:
		return nil
	}
	if err != nil || userID == "" {
		return err
	}

	if err := d.store.CreateNotification(ctx, e.OrgID, userID, e.Type, title, body); err != nil {
		return err
	}
	d.sendEmail(ctx, e.OrgID, userID, title, body)
	return nil
}

func (d *Dispatcher) sendEmail(ctx context.Context, orgID, userID, subject, body string) {
	if d.mailer == nil {
		return
	}
	enabled, from, err := d.store.EmailSettings(ctx, orgID)
	if err != nil || !enabled {
		return
	}
	if from == "" {
		from = d.defaultFrom
	}
	email, err := d.store.UserEmail(ctx, orgID, userID)
	if err != nil || email == "" {
		if err != nil {
			slog.Warn("notification email lookup failed", "err", err)
		}
		return
	}
	if err := d.mailer.Send(ctx, from, email, subject, body); err != nil {
		slog.Warn("notification email send failed", "err", err)
	}
}
