package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"accountdesk/pkg/domain"
	dErrors "accountdesk/pkg/domain-errors"
)

// Client is a bank customer assigned to an account manager.
//
// Invariants:
//   - Name and TaxID are non-empty
//   - Segment equals domain.ClassifyIncome(Income)
//   - ManagerName and ManagerID identify the manager resolved at insertion
//   - immutable once inserted
type Client struct {
	ID           domain.ClientID
	Name         string
	TaxID        string
	Income       decimal.Decimal
	Region       domain.Region
	BirthDate    time.Time
	RegisteredAt time.Time
	Segment      domain.Segment
	ManagerName  string
	ManagerID    domain.ManagerID
}

// NewClient builds a client record, deriving the segment from income.
func NewClient(
	name string,
	taxID string,
	income decimal.Decimal,
	region domain.Region,
	birthDate time.Time,
	managerID domain.ManagerID,
	managerName string,
	now time.Time,
) (*Client, error) {
	name = strings.TrimSpace(name)
	taxID = strings.TrimSpace(taxID)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "client name cannot be empty")
	}
	if taxID == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "client tax id cannot be empty")
	}
	if region == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "client region cannot be empty")
	}
	if managerID.IsNil() || managerName == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "client must reference a manager")
	}
	return &Client{
		Name:         name,
		TaxID:        taxID,
		Income:       income,
		Region:       region,
		BirthDate:    birthDate,
		RegisteredAt: now,
		Segment:      domain.ClassifyIncome(income),
		ManagerName:  managerName,
		ManagerID:    managerID,
	}, nil
}

// Clone returns a copy safe to hand across the store boundary.
func (c *Client) Clone() *Client {
	cp := *c
	return &cp
}
