package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"accountdesk/internal/assignment/models"
	clientmodels "accountdesk/internal/client/models"
	"accountdesk/pkg/domain"
	dErrors "accountdesk/pkg/domain-errors"
	"accountdesk/pkg/platform/httputil"
	"accountdesk/pkg/platform/middleware/admin"
	"accountdesk/pkg/requestcontext"
)

const birthDateLayout = "2006-01-02"

// Service defines the assignment operations exposed over HTTP.
type Service interface {
	AssignClient(ctx context.Context, req models.AssignRequest) (domain.ClientID, error)
	RepairRosters(ctx context.Context) (int, error)
}

// ClientLookup reads stored clients back for responses.
type ClientLookup interface {
	FindByID(ctx context.Context, id domain.ClientID) (*clientmodels.Client, error)
}

// Handler handles client assignment, client lookup and roster repair.
type Handler struct {
	logger      *slog.Logger
	assignments Service
	clients     ClientLookup
	adminToken  string
}

func New(assignments Service, clients ClientLookup, adminToken string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		logger:      logger,
		assignments: assignments,
		clients:     clients,
		adminToken:  adminToken,
	}
}

// Register registers the client and admin routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/clients", h.handleAssign)
	r.Get("/clients/{id}", h.handleGetClient)
	r.With(admin.RequireAdminToken(h.adminToken, h.logger)).
		Post("/admin/rosters/repair", h.handleRepair)
}

type assignRequest struct {
	Name      string           `json:"name"`
	TaxID     string           `json:"tax_id"`
	Income    *decimal.Decimal `json:"income"`
	Region    string           `json:"region"`
	BirthDate string           `json:"birth_date"`
}

func (req *assignRequest) toModel() (models.AssignRequest, error) {
	if req.Income == nil {
		return models.AssignRequest{}, dErrors.New(dErrors.CodeValidation, "income is required")
	}
	birthDate, err := time.Parse(birthDateLayout, strings.TrimSpace(req.BirthDate))
	if err != nil {
		return models.AssignRequest{}, dErrors.New(dErrors.CodeValidation, "birth_date must be formatted as YYYY-MM-DD")
	}
	return models.AssignRequest{
		Name:      req.Name,
		TaxID:     req.TaxID,
		Income:    *req.Income,
		Region:    domain.Region(req.Region),
		BirthDate: birthDate,
	}, nil
}

// ClientResponse is the JSON view of a stored client.
type ClientResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	TaxID        string    `json:"tax_id"`
	Income       string    `json:"income"`
	Region       string    `json:"region"`
	BirthDate    string    `json:"birth_date"`
	RegisteredAt time.Time `json:"registered_at"`
	Segment      string    `json:"segment"`
	ManagerName  string    `json:"manager_name"`
	ManagerID    string    `json:"manager_id"`
}

func toClientResponse(c *clientmodels.Client) ClientResponse {
	return ClientResponse{
		ID:           c.ID.String(),
		Name:         c.Name,
		TaxID:        c.TaxID,
		Income:       domain.FormatIncome(c.Income),
		Region:       c.Region.String(),
		BirthDate:    c.BirthDate.Format(birthDateLayout),
		RegisteredAt: c.RegisteredAt,
		Segment:      c.Segment.String(),
		ManagerName:  c.ManagerName,
		ManagerID:    c.ManagerID.String(),
	}
}

type repairResponse struct {
	Repaired int `json:"repaired"`
}

func (h *Handler) handleAssign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	body, ok := httputil.DecodeJSON[assignRequest](w, r, h.logger, requestID)
	if !ok {
		return
	}
	req, err := body.toModel()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	clientID, err := h.assignments.AssignClient(ctx, req)
	if err != nil {
		attrs := []any{"error", err.Error(), "request_id", requestID}
		if !clientID.IsNil() {
			attrs = append(attrs, "client_id", clientID.String())
		}
		if dErrors.GetCode(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "client assignment failed", attrs...)
		} else {
			h.logger.WarnContext(ctx, "client assignment rejected", attrs...)
		}
		httputil.WriteError(w, err)
		return
	}

	client, err := h.clients.FindByID(ctx, clientID)
	if err != nil {
		h.logger.ErrorContext(ctx, "assigned client could not be read back",
			"client_id", clientID.String(),
			"error", err.Error(),
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toClientResponse(client))
}

func (h *Handler) handleGetClient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := domain.ParseClientID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	client, err := h.clients.FindByID(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toClientResponse(client))
}

func (h *Handler) handleRepair(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	n, err := h.assignments.RepairRosters(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "roster repair failed",
			"error", err.Error(),
			"repaired", n,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "roster repair finished",
		"repaired", n,
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteJSON(w, http.StatusOK, repairResponse{Repaired: n})
}
