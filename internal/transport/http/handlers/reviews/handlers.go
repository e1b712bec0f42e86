package reviewshandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"appraisal/internal/domain/auth"
	"appraisal/internal/domain/org"
	"appraisal/internal/domain/review"
	"appraisal/internal/transport/http/api"
	"appraisal/internal/transport/http/middleware"
)

type Handler struct {
	Service *review.Service
	Org     *org.Store
}

func NewHandler(service *review.Service, orgStore *org.Store) *Handler {
	return &Handler{Service: service, Org: orgStore}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reviews", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermReviewsRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermReviewsRead)).Get("/score", h.handleScore)
		r.With(middleware.RequirePermission(auth.PermReviewsSubmit)).Post("/", h.handleSave)
	})
}

type ratingPayload struct {
	KRAID  string `json:"kraId"`
	Rating *int   `json:"rating"`
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		CycleID    string          `json:"cycleId"`
		RevieweeID string          `json:"revieweeId"`
		ReviewType int             `json:"reviewType"`
		Draft      bool            `json:"draft"`
		Published  bool            `json:"published"`
		Ratings    []ratingPayload `json:"ratings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	reviewType := review.ReviewType(payload.ReviewType)
	if reviewType != review.TypeSelf && reviewType != review.TypeManager && reviewType != review.TypeCheckIn {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "unknown review type", middleware.GetRequestID(r.Context()))
		return
	}

	reviewerID, err := h.Org.EmployeeIDByUserID(r.Context(), user.OrgID, user.UserID)
	if err != nil || reviewerID == "" {
		api.Fail(w, http.StatusForbidden, "forbidden", "no employee record for user", middleware.GetRequestID(r.Context()))
		return
	}

	revieweeID := payload.RevieweeID
	if revieweeID == "" {
		revieweeID = reviewerID
	}

	switch reviewType {
	case review.TypeSelf:
		if revieweeID != reviewerID {
			api.Fail(w, http.StatusForbidden, "forbidden", "self review must target the reviewer", middleware.GetRequestID(r.Context()))
			return
		}
	case review.TypeManager, review.TypeCheckIn:
		allowed, err := h.Org.IsManagerOf(r.Context(), user.OrgID, reviewerID, revieweeID)
		if err != nil {
			slog.Warn("manager scope lookup failed", "err", err)
		}
		if !allowed {
			api.Fail(w, http.StatusForbidden, "forbidden", "reviewer does not manage this employee", middleware.GetRequestID(r.Context()))
			return
		}
	}

	ratings := make([]review.KRARating, 0, len(payload.Ratings))
	for _, p := range payload.Ratings {
		if p.KRAID == "" {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "kraId required on every rating", middleware.GetRequestID(r.Context()))
			return
		}
		if p.Rating != nil && (*p.Rating < 1 || *p.Rating > 5) {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "rating must be between 1 and 5", middleware.GetRequestID(r.Context()))
			return
		}
		ratings = append(ratings, review.KRARating{KRAID: p.KRAID, Rating: p.Rating})
	}

	saved, err := h.Service.SaveReview(r.Context(), user.OrgID, review.Submission{
		CycleID:    payload.CycleID,
		RevieweeID: revieweeID,
		ReviewerID: reviewerID,
		Type:       reviewType,
		Draft:      payload.Draft && !payload.Published,
		Published:  payload.Published,
		Ratings:    ratings,
	})
	if err != nil {
		failReviewError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, saved, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	cycleID := r.URL.Query().Get("cycleId")
	revieweeID := r.URL.Query().Get("revieweeId")
	reviewerID := r.URL.Query().Get("reviewerId")
	if cycleID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "cycleId required", middleware.GetRequestID(r.Context()))
		return
	}

	if user.Role == auth.RoleEmployee {
		selfID, err := h.Org.EmployeeIDByUserID(r.Context(), user.OrgID, user.UserID)
		if err != nil || selfID == "" {
			api.Fail(w, http.StatusForbidden, "forbidden", "no employee record for user", middleware.GetRequestID(r.Context()))
			return
		}
		revieweeID = selfID
		reviewerID = ""
	}

	subs, err := h.Service.ListSubmissions(r.Context(), cycleID, revieweeID, reviewerID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "review_list_failed", "failed to list reviews", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, subs, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleScore(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	cycleID := r.URL.Query().Get("cycleId")
	revieweeID := r.URL.Query().Get("revieweeId")
	reviewerID := r.URL.Query().Get("reviewerId")
	rawType := r.URL.Query().Get("reviewType")
	parsedType, err := strconv.Atoi(rawType)
	if cycleID == "" || revieweeID == "" || reviewerID == "" || err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "cycleId, revieweeId, reviewerId and reviewType required", middleware.GetRequestID(r.Context()))
		return
	}

	if user.Role == auth.RoleEmployee {
		selfID, lookupErr := h.Org.EmployeeIDByUserID(r.Context(), user.OrgID, user.UserID)
		if lookupErr != nil || selfID == "" || revieweeID != selfID {
			api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", middleware.GetRequestID(r.Context()))
			return
		}
	}

	score, err := h.Service.WeightedReviewScore(r.Context(), user.OrgID, cycleID, revieweeID, reviewerID, review.ReviewType(parsedType))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "score_failed", "failed to compute review score", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{
		"score":    score,
		"computed": score != review.AverageNotComputed,
	}, middleware.GetRequestID(r.Context()))
}

func failReviewError(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, review.ErrCycleNotActive):
		api.Fail(w, http.StatusConflict, "cycle_not_active", "no active review cycle for this submission", requestID)
	case errors.Is(err, review.ErrWindowNotStarted):
		api.Fail(w, http.StatusConflict, "window_not_started", "the review window has not started", requestID)
	case errors.Is(err, review.ErrDeadlinePassed):
		api.Fail(w, http.StatusConflict, "deadline_passed", "the review window has closed", requestID)
	case errors.Is(err, review.ErrAlreadyPublished):
		api.Fail(w, http.StatusConflict, "already_published", "a published review cannot be modified", requestID)
	case errors.Is(err, review.ErrDuplicateManagerMapping):
		api.Fail(w, http.StatusConflict, "duplicate_review", "a review already exists for this reviewer and reviewee", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "review_save_failed", "failed to save review", requestID)
	}
}
