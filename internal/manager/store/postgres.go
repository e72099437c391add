package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"accountdesk/internal/manager/models"
	"accountdesk/pkg/domain"
	"accountdesk/pkg/platform/sentinel"
	txcontext "accountdesk/pkg/platform/tx"
)

const (
	// pgForeignKeyViolation is raised when a roster row references a missing manager.
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// managerColumns selects a manager with its roster aggregated from manager_clients.
const managerColumns = `
	m.id, m.name, m.region, m.segment, m.created_at,
	COALESCE(array_agg(mc.client_id::text ORDER BY mc.added_at, mc.client_id::text) FILTER (WHERE mc.client_id IS NOT NULL), '{}') AS clients`

// PostgresStore persists managers in PostgreSQL. Rosters live in manager_clients,
// whose primary key gives AddClient its set semantics.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed manager store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, manager *models.Manager) error {
	_, err := txcontext.ExecutorFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO managers (id, name, region, segment, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		manager.ID.String(),
		manager.Name,
		manager.Region.String(),
		manager.Segment.String(),
		manager.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create manager: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.ManagerID) (*models.Manager, error) {
	row := txcontext.ExecutorFrom(ctx, s.db).QueryRowContext(ctx, `
		SELECT `+managerColumns+`
		FROM managers m
		LEFT JOIN manager_clients mc ON mc.manager_id = m.id
		WHERE m.id = $1
		GROUP BY m.id`, id.String())
	m, err := scanManager(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find manager by id: %w", err)
	}
	return m, nil
}

func (s *PostgresStore) FindByName(ctx context.Context, name string) (*models.Manager, error) {
	row := txcontext.ExecutorFrom(ctx, s.db).QueryRowContext(ctx, `
		SELECT `+managerColumns+`
		FROM managers m
		LEFT JOIN manager_clients mc ON mc.manager_id = m.id
		WHERE m.name = $1
		GROUP BY m.id
		ORDER BY m.created_at, m.id::text
		LIMIT 1`, name)
	m, err := scanManager(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find manager by name: %w", err)
	}
	return m, nil
}

func (s *PostgresStore) FindByRegionAndSegment(ctx context.Context, region domain.Region, segment domain.Segment) ([]*models.Manager, error) {
	return s.query(ctx, "find candidate managers", `
		SELECT `+managerColumns+`
		FROM managers m
		LEFT JOIN manager_clients mc ON mc.manager_id = m.id
		WHERE m.segment = $1 AND (m.region = $2 OR m.region = $3)
		GROUP BY m.id`,
		segment.String(), region.String(), domain.RegionGeneral.String())
}

func (s *PostgresStore) AddClient(ctx context.Context, managerID domain.ManagerID, clientID domain.ClientID) error {
	_, err := txcontext.ExecutorFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO manager_clients (manager_id, client_id, added_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (manager_id, client_id) DO NOTHING`,
		managerID.String(), clientID.String(), time.Now())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("add client to manager: %w", err)
	}
	return nil
}

func (s *PostgresStore) DistinctSegments(ctx context.Context) ([]domain.Segment, error) {
	rows, err := txcontext.ExecutorFrom(ctx, s.db).QueryContext(ctx, `SELECT DISTINCT segment FROM managers`)
	if err != nil {
		return nil, fmt.Errorf("list manager segments: %w", err)
	}
	defer rows.Close()

	segments := make([]domain.Segment, 0, 4)
	for rows.Next() {
		var seg string
		if err := rows.Scan(&seg); err != nil {
			return nil, fmt.Errorf("scan manager segment: %w", err)
		}
		segments = append(segments, domain.Segment(seg))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate manager segments: %w", err)
	}
	return segments, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Manager, error) {
	return s.query(ctx, "list managers", `
		SELECT `+managerColumns+`
		FROM managers m
		LEFT JOIN manager_clients mc ON mc.manager_id = m.id
		GROUP BY m.id
		ORDER BY m.created_at, m.id::text`)
}

func (s *PostgresStore) query(ctx context.Context, op, query string, args ...any) ([]*models.Manager, error) {
	rows, err := txcontext.ExecutorFrom(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	managers := make([]*models.Manager, 0)
	for rows.Next() {
		m, err := scanManager(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		managers = append(managers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return managers, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanManager(row rowScanner) (*models.Manager, error) {
	var (
		id, name, region, segment string
		createdAt                 time.Time
		clientIDs                 []string
	)
	if err := row.Scan(&id, &name, &region, &segment, &createdAt, pq.Array(&clientIDs)); err != nil {
		return nil, err
	}
	managerID, err := domain.ParseManagerID(id)
	if err != nil {
		return nil, fmt.Errorf("parse manager id %q: %w", id, err)
	}
	clients := make([]domain.ClientID, 0, len(clientIDs))
	for _, raw := range clientIDs {
		clientID, err := domain.ParseClientID(raw)
		if err != nil {
			return nil, fmt.Errorf("parse roster client id %q: %w", raw, err)
		}
		clients = append(clients, clientID)
	}
	return &models.Manager{
		ID:        managerID,
		Name:      name,
		Region:    domain.Region(region),
		Segment:   domain.Segment(segment),
		Clients:   clients,
		CreatedAt: createdAt,
	}, nil
}
