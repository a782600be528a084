package house

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
)

// PostgresStore keeps houses in a PostgreSQL table through the pgx
// database/sql driver.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects to databaseURL, checks the connection and creates
// the schema on first use.
func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is empty")
	}
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if err := ensureBootstrapped(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	log.Debug().Msg("house store ready")
	return &PostgresStore{db: db}, nil
}

const houseColumns = `id::text, link, vote, comment, removed,
	city, zone, street, lat, lng, rooms_number, square_meters, cost,
	created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanHouse(row scanner) (House, error) {
	var h House
	err := row.Scan(
		&h.ID, &h.Link, &h.Vote, &h.Comment, &h.Removed,
		&h.City, &h.Zone, &h.Street, &h.Latitude, &h.Longitude,
		&h.RoomCount, &h.AreaSqm, &h.MonthlyCost,
		&h.CreatedAt, &h.UpdatedAt,
	)
	return h, err
}

func (s *PostgresStore) Insert(ctx context.Context, n NewHouse) (string, error) {
	if err := n.Validate(); err != nil {
		return "", err
	}
	id := uuid.New()
	const q = `
		INSERT INTO houses
			(id, link, vote, comment, city, zone, street, lat, lng, rooms_number, square_meters, cost)
		VALUES
			($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.db.ExecContext(ctx, q,
		id, n.Link, n.Vote, n.Comment,
		n.City, n.Zone, n.Street, n.Latitude, n.Longitude,
		n.RoomCount, n.AreaSqm, n.MonthlyCost,
	)
	if err != nil {
		return "", fmt.Errorf("insert house: %w", err)
	}
	return id.String(), nil
}

func (s *PostgresStore) Remove(ctx context.Context, id string) error {
	id, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE houses SET removed = true, updated_at = now() WHERE id = $1 AND NOT removed`, id)
	if err != nil {
		return fmt.Errorf("remove house: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove house: %w", err)
	}
	if n == 0 {
		return notFound(id)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]House, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+houseColumns+` FROM houses WHERE NOT removed ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list houses: %w", err)
	}
	defer rows.Close()
	out := []House{}
	for rows.Next() {
		h, err := scanHouse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan house: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Get(ctx context.Context, id string) (House, error) {
	id, err := parseID(id)
	if err != nil {
		return House{}, err
	}
	h, err := scanHouse(s.db.QueryRowContext(ctx,
		`SELECT `+houseColumns+` FROM houses WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return House{}, notFound(id)
	}
	if err != nil {
		return House{}, fmt.Errorf("get house: %w", err)
	}
	return h, nil
}

func (s *PostgresStore) Update(ctx context.Context, id string, u Update) (House, error) {
	id, err := parseID(id)
	if err != nil {
		return House{}, err
	}
	h, err := scanHouse(s.db.QueryRowContext(ctx,
		`UPDATE houses SET vote = $2, comment = $3, updated_at = now()
		 WHERE id = $1 RETURNING `+houseColumns, id, u.Vote, u.Comment))
	if errors.Is(err, sql.ErrNoRows) {
		return House{}, notFound(id)
	}
	if err != nil {
		return House{}, fmt.Errorf("update house: %w", err)
	}
	return h, nil
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
