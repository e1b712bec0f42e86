package reportshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"appraisal/internal/domain/auth"
	"appraisal/internal/domain/reports"
	"appraisal/internal/transport/http/api"
	"appraisal/internal/transport/http/middleware"
)

type Handler struct {
	Service *reports.Service
}

func NewHandler(service *reports.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Use(middleware.RequirePermission(auth.PermReportsRead))
		r.Get("/cycles/{cycleID}/summary", h.handleSummary)
		r.Get("/cycles/{cycleID}/scores", h.handleScores)
		r.Post("/cycles/{cycleID}/export", h.handleExport)
	})
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	cycleID := chi.URLParam(r, "cycleID")
	summary, err := h.Service.CycleSummary(r.Context(), user.OrgID, cycleID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_summary_failed", "failed to build cycle summary", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleScores(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	cycleID := chi.URLParam(r, "cycleID")
	rows, err := h.Service.ScoreReport(r.Context(), user.OrgID, cycleID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_scores_failed", "failed to build score report", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, rows, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	cycleID := chi.URLParam(r, "cycleID")
	path, err := h.Service.GenerateCycleReportPDF(r.Context(), user.OrgID, cycleID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_export_failed", "failed to export cycle report", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]string{"path": path}, middleware.GetRequestID(r.Context()))
}
