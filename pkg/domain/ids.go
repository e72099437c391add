package domain

import (
	"github.com/google/uuid"

	dErrors "accountdesk/pkg/domain-errors"
)

// Typed identifiers keep manager and client ids from being swapped at call sites.
// Both are UUIDs; parsing at trust boundaries rejects empty, malformed and nil values.
type (
	ManagerID uuid.UUID
	ClientID  uuid.UUID
)

// NewManagerID returns a random manager identifier.
func NewManagerID() ManagerID { return ManagerID(uuid.New()) }

// NewClientID returns a random client identifier.
func NewClientID() ClientID { return ClientID(uuid.New()) }

func ParseManagerID(s string) (ManagerID, error) {
	u, err := parseUUID(s, "manager id")
	return ManagerID(u), err
}

func ParseClientID(s string) (ClientID, error) {
	u, err := parseUUID(s, "client id")
	return ClientID(u), err
}

func (id ManagerID) String() string { return uuid.UUID(id).String() }
func (id ManagerID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id ClientID) String() string { return uuid.UUID(id).String() }
func (id ClientID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// MarshalText renders ids as canonical UUID strings in JSON payloads.
func (id ManagerID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id ClientID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }

func parseUUID(s, field string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+field)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" cannot be nil")
	}
	return u, nil
}
