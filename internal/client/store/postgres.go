package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"accountdesk/internal/client/models"
	"accountdesk/pkg/domain"
	"accountdesk/pkg/platform/sentinel"
	txcontext "accountdesk/pkg/platform/tx"
)

const pgUniqueViolation = "23505"

const clientColumns = `id, name, tax_id, income, region, birth_date, registered_at, segment, manager_name, manager_id`

// PostgresStore persists clients in PostgreSQL. Income is stored as NUMERIC and
// scanned through decimal.Decimal, which implements sql.Scanner.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed client store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, client *models.Client) error {
	_, err := txcontext.ExecutorFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO clients (`+clientColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		client.ID.String(),
		client.Name,
		client.TaxID,
		client.Income,
		client.Region.String(),
		client.BirthDate,
		client.RegisteredAt,
		client.Segment.String(),
		client.ManagerName,
		client.ManagerID.String(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.ClientID) (*models.Client, error) {
	row := txcontext.ExecutorFrom(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = $1`, id.String())
	c, err := scanClient(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find client by id: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) FindByIDs(ctx context.Context, ids []domain.ClientID) ([]*models.Client, error) {
	raw := make([]string, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.String())
	}
	rows, err := txcontext.ExecutorFrom(ctx, s.db).QueryContext(ctx, `
		SELECT `+clientColumns+`
		FROM clients
		WHERE id = ANY($1::uuid[])
		ORDER BY registered_at, id::text`, pq.Array(raw))
	if err != nil {
		return nil, fmt.Errorf("find clients by ids: %w", err)
	}
	defer rows.Close()

	clients := make([]*models.Client, 0, len(ids))
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clients: %w", err)
	}
	return clients, nil
}

// Each streams rows straight from the result set.
func (s *PostgresStore) Each(ctx context.Context, segment domain.Segment, yield func(*models.Client) bool) error {
	query := `SELECT ` + clientColumns + ` FROM clients`
	args := []any{}
	if segment != "" {
		query += ` WHERE segment = $1`
		args = append(args, segment.String())
	}
	query += ` ORDER BY registered_at, id::text`

	rows, err := txcontext.ExecutorFrom(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return fmt.Errorf("scan client: %w", err)
		}
		if !yield(c) {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate clients: %w", err)
	}
	return nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := txcontext.ExecutorFrom(ctx, s.db).QueryRowContext(ctx, `SELECT count(*) FROM clients`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count clients: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (*models.Client, error) {
	var (
		id, name, taxID, region, segment, managerName, managerID string
		income                                                   decimal.Decimal
		birthDate, registeredAt                                  time.Time
	)
	if err := row.Scan(&id, &name, &taxID, &income, &region, &birthDate, &registeredAt, &segment, &managerName, &managerID); err != nil {
		return nil, err
	}
	clientID, err := domain.ParseClientID(id)
	if err != nil {
		return nil, fmt.Errorf("parse client id %q: %w", id, err)
	}
	mID, err := domain.ParseManagerID(managerID)
	if err != nil {
		return nil, fmt.Errorf("parse manager id %q: %w", managerID, err)
	}
	return &models.Client{
		ID:           clientID,
		Name:         name,
		TaxID:        taxID,
		Income:       income,
		Region:       domain.Region(region),
		BirthDate:    birthDate,
		RegisteredAt: registeredAt,
		Segment:      domain.Segment(segment),
		ManagerName:  managerName,
		ManagerID:    mID,
	}, nil
}
