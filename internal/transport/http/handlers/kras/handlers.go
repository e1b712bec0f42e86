package krashandler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"appraisal/internal/domain/auth"
	"appraisal/internal/domain/kra"
	"appraisal/internal/transport/http/api"
	"appraisal/internal/transport/http/middleware"
	"appraisal/internal/transport/http/shared"
)

type Handler struct {
	Store *kra.Store
}

func NewHandler(store *kra.Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/kras", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermKRARead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermKRAWrite)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermKRAWrite)).Put("/{kraID}", h.handleUpdate)
	})
}

type kraPayload struct {
	Title     string  `json:"title"`
	Weightage float64 `json:"weightage"`
}

func (p kraPayload) validate(w http.ResponseWriter, requestID string) bool {
	v := shared.NewValidator()
	v.Required("title", p.Title, "title is required")
	v.Range("weightage", p.Weightage, 0, 100, "weightage must be between 0 and 100")
	return !v.Reject(w, requestID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	kras, err := h.Store.List(r.Context(), user.OrgID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "kra_list_failed", "failed to list KRAs", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, kras, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload kraPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if !payload.validate(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Store.Create(r.Context(), user.OrgID, payload.Title, payload.Weightage)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "kra_create_failed", "failed to create KRA", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	kraID := chi.URLParam(r, "kraID")
	var payload kraPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if !payload.validate(w, middleware.GetRequestID(r.Context())) {
		return
	}

	if err := h.Store.Update(r.Context(), user.OrgID, kraID, payload.Title, payload.Weightage); err != nil {
		api.Fail(w, http.StatusInternalServerError, "kra_update_failed", "failed to update KRA", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"id": kraID}, middleware.GetRequestID(r.Context()))
}
