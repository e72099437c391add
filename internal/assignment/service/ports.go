package service

import (
	"context"
	"iter"

	"accountdesk/internal/assignment/models"
	clientmodels "accountdesk/internal/client/models"
	managermodels "accountdesk/internal/manager/models"
	"accountdesk/pkg/domain"
)

// ManagerDirectory is the subset of the manager directory used for assignment.
type ManagerDirectory interface {
	FindCandidate(ctx context.Context, region domain.Region, segment domain.Segment) (*managermodels.Manager, error)
	AddClient(ctx context.Context, managerID domain.ManagerID, clientID domain.ClientID) error
	Get(ctx context.Context, managerID domain.ManagerID) (*managermodels.Manager, error)
}

// ClientRegistry is the subset of the client registry used for assignment.
type ClientRegistry interface {
	Insert(ctx context.Context, client *clientmodels.Client) (domain.ClientID, error)
	All(ctx context.Context) iter.Seq2[*clientmodels.Client, error]
}

// Locker serializes assignments that compete for the same candidate pool.
// Acquire blocks until the lock is held or ctx ends, and returns the release func.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(context.Context) error, err error)
}

// Publisher emits assignment events. Failures never undo an assignment.
type Publisher interface {
	PublishClientAssigned(ctx context.Context, event models.ClientAssigned) error
}

// StoreTx runs fn inside a transaction; stores pick the transaction up from the
// context passed to fn.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
