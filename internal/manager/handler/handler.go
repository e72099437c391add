package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"accountdesk/internal/manager/models"
	"accountdesk/pkg/domain"
	dErrors "accountdesk/pkg/domain-errors"
	"accountdesk/pkg/platform/httputil"
	"accountdesk/pkg/requestcontext"
)

// Service defines the manager directory operations exposed over HTTP.
type Service interface {
	Register(ctx context.Context, name string, region domain.Region, segment domain.Segment) (*models.Manager, error)
	Get(ctx context.Context, id domain.ManagerID) (*models.Manager, error)
}

// Handler handles manager registration and lookup.
type Handler struct {
	logger   *slog.Logger
	managers Service
}

func New(managers Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, managers: managers}
}

// Register registers the manager routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/managers", h.handleRegister)
	r.Get("/managers/{id}", h.handleGet)
}

type registerRequest struct {
	Name    string `json:"name"`
	Region  string `json:"region"`
	Segment string `json:"segment"`
}

// Response is the JSON view of a manager.
type Response struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Region    string    `json:"region"`
	Segment   string    `json:"segment"`
	Clients   []string  `json:"clients"`
	CreatedAt time.Time `json:"created_at"`
}

func toResponse(m *models.Manager) Response {
	clients := make([]string, 0, len(m.Clients))
	for _, id := range m.Clients {
		clients = append(clients, id.String())
	}
	return Response{
		ID:        m.ID.String(),
		Name:      m.Name,
		Region:    m.Region.String(),
		Segment:   m.Segment.String(),
		Clients:   clients,
		CreatedAt: m.CreatedAt,
	}
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeJSON[registerRequest](w, r, h.logger, requestID)
	if !ok {
		return
	}
	region, err := domain.ParseRegion(req.Region)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "region is required"))
		return
	}
	segment, err := domain.ParseSegment(req.Segment)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "segment must be one of Retail, Exclusive, Premium, Private"))
		return
	}

	m, err := h.managers.Register(ctx, req.Name, region, segment)
	if err != nil {
		h.logFailure(ctx, "failed to register manager", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toResponse(m))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := domain.ParseManagerID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	m, err := h.managers.Get(ctx, id)
	if err != nil {
		h.logFailure(ctx, "failed to load manager", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toResponse(m))
}

func (h *Handler) logFailure(ctx context.Context, msg string, err error) {
	if h.logger == nil {
		return
	}
	level := slog.LevelWarn
	if dErrors.GetCode(err) == dErrors.CodeInternal {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg,
		"error", err.Error(),
		"request_id", requestcontext.RequestID(ctx),
	)
}
