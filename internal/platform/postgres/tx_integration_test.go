//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"accountdesk/internal/manager/models"
	"accountdesk/internal/manager/store"
	"accountdesk/internal/platform/postgres"
	"accountdesk/pkg/domain"
	"accountdesk/pkg/platform/sentinel"
	"accountdesk/pkg/testutil/containers"
)

type TxRunnerSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	runner   *postgres.TxRunner
	store    *store.PostgresStore
}

func TestTxRunnerSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(TxRunnerSuite))
}

func (s *TxRunnerSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.runner = postgres.NewTxRunner(s.postgres.DB)
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *TxRunnerSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "manager_clients", "managers"))
}

func (s *TxRunnerSuite) newManager(name string) *models.Manager {
	m, err := models.NewManager(domain.NewManagerID(), name, "SP", domain.SegmentRetail,
		time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	return m
}

func (s *TxRunnerSuite) TestCommitPersistsEveryWrite() {
	ctx := context.Background()
	m := s.newManager("Ana")
	clientID := domain.NewClientID()

	err := s.runner.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.Create(ctx, m); err != nil {
			return err
		}
		return s.store.AddClient(ctx, m.ID, clientID)
	})
	s.Require().NoError(err)

	found, err := s.store.FindByID(ctx, m.ID)
	s.Require().NoError(err)
	s.Equal([]domain.ClientID{clientID}, found.Clients)
}

func (s *TxRunnerSuite) TestErrorRollsBack() {
	ctx := context.Background()
	m := s.newManager("Bia")
	boom := errors.New("boom")

	err := s.runner.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.Create(ctx, m); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	_, err = s.store.FindByID(ctx, m.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *TxRunnerSuite) TestNestedCallsJoinTheOuterTransaction() {
	ctx := context.Background()
	m := s.newManager("Caio")
	boom := errors.New("boom")

	err := s.runner.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.runner.RunInTx(ctx, func(ctx context.Context) error {
			return s.store.Create(ctx, m)
		}); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	_, err = s.store.FindByID(ctx, m.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}
