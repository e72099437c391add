package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"accountdesk/internal/reporting"
	"accountdesk/pkg/platform/httputil"
	"accountdesk/pkg/requestcontext"
)

// Service defines the reports exposed over HTTP.
type Service interface {
	ManagerReport(ctx context.Context, managerName string) (*reporting.ManagerReport, error)
	SegmentReport(ctx context.Context) ([]reporting.SegmentGroup, error)
}

type Handler struct {
	logger  *slog.Logger
	reports Service
}

func New(reports Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{logger: logger, reports: reports}
}

// Register registers the report routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/reports/managers/{name}", h.handleManagerReport)
	r.Get("/reports/segments", h.handleSegmentReport)
}

type segmentReportResponse struct {
	Segments []reporting.SegmentGroup `json:"segments"`
}

// handleManagerReport answers 200 for unknown names too; the body carries found=false.
func (h *Handler) handleManagerReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		name = chi.URLParam(r, "name")
	}
	report, err := h.reports.ManagerReport(ctx, name)
	if err != nil {
		h.logger.ErrorContext(ctx, "manager report failed",
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) handleSegmentReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	groups, err := h.reports.SegmentReport(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "segment report failed",
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, segmentReportResponse{Segments: groups})
}
