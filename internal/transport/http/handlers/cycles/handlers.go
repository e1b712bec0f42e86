package cycleshandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"appraisal/internal/domain/auth"
	"appraisal/internal/domain/review"
	"appraisal/internal/transport/http/api"
	"appraisal/internal/transport/http/middleware"
	"appraisal/internal/transport/http/shared"
)

type Handler struct {
	Service *review.Service
}

func NewHandler(service *review.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/cycles", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermCyclesRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermCyclesRead)).Get("/active", h.handleActive)
		r.With(middleware.RequirePermission(auth.PermCyclesWrite)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermCyclesWrite)).Put("/{cycleID}", h.handleUpdate)
	})
}

type cyclePayload struct {
	StartDate          string `json:"startDate"`
	EndDate            string `json:"endDate"`
	Publish            bool   `json:"publish"`
	SelfReviewStart    string `json:"selfReviewStart"`
	SelfReviewEnd      string `json:"selfReviewEnd"`
	ManagerReviewStart string `json:"managerReviewStart"`
	ManagerReviewEnd   string `json:"managerReviewEnd"`
	CheckInStart       string `json:"checkInStart"`
	CheckInEnd         string `json:"checkInEnd"`
}

func (p cyclePayload) toCycle(w http.ResponseWriter, requestID string) (review.Cycle, bool) {
	v := shared.NewValidator()
	c := review.Cycle{Publish: p.Publish}
	c.StartDate, _ = v.Date("startDate", p.StartDate)
	c.EndDate, _ = v.Date("endDate", p.EndDate)
	c.SelfReviewStart, _ = v.Date("selfReviewStart", p.SelfReviewStart)
	c.SelfReviewEnd, _ = v.Date("selfReviewEnd", p.SelfReviewEnd)
	c.ManagerReviewStart, _ = v.Date("managerReviewStart", p.ManagerReviewStart)
	c.ManagerReviewEnd, _ = v.Date("managerReviewEnd", p.ManagerReviewEnd)
	c.CheckInStart, _ = v.Date("checkInStart", p.CheckInStart)
	c.CheckInEnd, _ = v.Date("checkInEnd", p.CheckInEnd)
	if v.Reject(w, requestID) {
		return review.Cycle{}, false
	}
	return c, true
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	cycles, err := h.Service.ListCycles(r.Context(), user.OrgID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "cycle_list_failed", "failed to list review cycles", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, cycles, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleActive(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	cycle, flags, err := h.Service.ActiveCycleFlags(r.Context(), user.OrgID)
	if err != nil {
		if errors.Is(err, review.ErrCycleNotActive) {
			api.Fail(w, http.StatusNotFound, "no_active_cycle", "no published review cycle", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "cycle_active_failed", "failed to resolve active cycle", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"cycle": cycle, "flags": flags}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload cyclePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	cycle, ok := payload.toCycle(w, middleware.GetRequestID(r.Context()))
	if !ok {
		return
	}
	cycle.OrgID = user.OrgID

	created, err := h.Service.CreateCycle(r.Context(), cycle)
	if err != nil {
		failCycleError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	cycleID := chi.URLParam(r, "cycleID")
	if _, err := h.Service.GetCycle(r.Context(), user.OrgID, cycleID); err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "review cycle not found", middleware.GetRequestID(r.Context()))
		return
	}

	var payload cyclePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	cycle, ok := payload.toCycle(w, middleware.GetRequestID(r.Context()))
	if !ok {
		return
	}
	cycle.ID = cycleID
	cycle.OrgID = user.OrgID

	updated, err := h.Service.UpdateCycle(r.Context(), cycle)
	if err != nil {
		failCycleError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func failCycleError(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, review.ErrDateOrder):
		api.Fail(w, http.StatusBadRequest, "invalid_dates", "start date must be on or before end date for every window", requestID)
	case errors.Is(err, review.ErrPhaseOutsideCycle):
		api.Fail(w, http.StatusBadRequest, "invalid_dates", "phase windows must fall inside the cycle window", requestID)
	case errors.Is(err, review.ErrCycleOverlap):
		api.Fail(w, http.StatusConflict, "cycle_overlap", "cycle dates overlap an existing cycle", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "cycle_save_failed", "failed to save review cycle", requestID)
	}
}
