package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"accountdesk/pkg/domain"
	dErrors "accountdesk/pkg/domain-errors"
)

// AssignRequest carries the client attributes needed to pick a manager.
type AssignRequest struct {
	Name      string
	TaxID     string
	Income    decimal.Decimal
	Region    domain.Region
	BirthDate time.Time
}

// Normalize trims free-text fields and canonicalizes the region in place.
func (r *AssignRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.TaxID = strings.TrimSpace(r.TaxID)
	if region, err := domain.ParseRegion(string(r.Region)); err == nil {
		r.Region = region
	}
}

// Validate rejects requests that could not produce a consistent client record.
func (r *AssignRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(r.TaxID) == "" {
		return dErrors.New(dErrors.CodeValidation, "tax_id is required")
	}
	if strings.TrimSpace(string(r.Region)) == "" {
		return dErrors.New(dErrors.CodeValidation, "region is required")
	}
	if r.Income.IsNegative() {
		return dErrors.New(dErrors.CodeValidation, "income cannot be negative")
	}
	return nil
}

// ClientAssigned is emitted after a client lands in a manager's roster.
type ClientAssigned struct {
	ClientID    domain.ClientID  `json:"client_id"`
	ManagerID   domain.ManagerID `json:"manager_id"`
	ManagerName string           `json:"manager_name"`
	Region      domain.Region    `json:"region"`
	Segment     domain.Segment   `json:"segment"`
	AssignedAt  time.Time        `json:"assigned_at"`
}

// LockKey names the critical section for assignments into segment. General
// managers are candidates for every region, so the key cannot include the region.
func LockKey(segment domain.Segment) string {
	return "assign:" + segment.String()
}
