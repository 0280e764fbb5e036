package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// --- profiles ---

const profileColumns = `profile_id, name, factors, params, created_at, updated_at`

func (s *PostgresStore) CreateProfile(ctx context.Context, p *ScoreProfile) error {
	factorsJSON, err := json.Marshal(p.Factors)
	if err != nil {
		return fmt.Errorf("marshal factors: %w", err)
	}
	paramsJSON, _ := json.Marshal(p.Params)

	return s.pool.QueryRow(ctx, `
		INSERT INTO homescout_profiles (name, factors, params)
		VALUES ($1, $2, $3)
		RETURNING profile_id, created_at, updated_at`,
		p.Name, factorsJSON, paramsJSON,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (s *PostgresStore) GetProfile(ctx context.Context, id uuid.UUID) (*ScoreProfile, error) {
	p := &ScoreProfile{}
	var factorsJSON, paramsJSON []byte
	err := s.pool.QueryRow(ctx, `
		SELECT `+profileColumns+`
		FROM homescout_profiles WHERE profile_id = $1`, id,
	).Scan(&p.ID, &p.Name, &factorsJSON, &paramsJSON, &p.CreatedAt, &p.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(factorsJSON, &p.Factors); err != nil {
		return nil, fmt.Errorf("unmarshal factors: %w", err)
	}
	if err := json.Unmarshal(paramsJSON, &p.Params); err != nil {
		return nil, fmt.Errorf("unmarshal params: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) ListProfiles(ctx context.Context) ([]*ScoreProfile, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+profileColumns+`
		FROM homescout_profiles ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*ScoreProfile
	for rows.Next() {
		p := &ScoreProfile{}
		var factorsJSON, paramsJSON []byte
		if err := rows.Scan(&p.ID, &p.Name, &factorsJSON, &paramsJSON, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(factorsJSON, &p.Factors); err != nil {
			return nil, fmt.Errorf("unmarshal factors: %w", err)
		}
		if err := json.Unmarshal(paramsJSON, &p.Params); err != nil {
			return nil, fmt.Errorf("unmarshal params: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (s *PostgresStore) UpdateProfile(ctx context.Context, p *ScoreProfile) error {
	factorsJSON, err := json.Marshal(p.Factors)
	if err != nil {
		return fmt.Errorf("marshal factors: %w", err)
	}
	paramsJSON, _ := json.Marshal(p.Params)

	tag, err := s.pool.Exec(ctx, `
		UPDATE homescout_profiles
		SET name = $2, factors = $3, params = $4, updated_at = now()
		WHERE profile_id = $1`,
		p.ID, p.Name, factorsJSON, paramsJSON,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("profile %s not found", p.ID)
	}
	return nil
}

func (s *PostgresStore) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM homescout_profiles WHERE profile_id = $1`, id)
	return err
}

// --- listings ---

const listingColumns = `listing_id, address, priority, source, raw, quality, created_at, updated_at`

func (s *PostgresStore) CreateListing(ctx context.Context, l *Listing) error {
	rawJSON, err := json.Marshal(l.Raw)
	if err != nil {
		return fmt.Errorf("marshal raw: %w", err)
	}
	qualityJSON, _ := json.Marshal(l.Quality)

	return s.pool.QueryRow(ctx, `
		INSERT INTO homescout_listings (address, priority, source, raw, quality)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING listing_id, created_at, updated_at`,
		l.Address, l.Priority, l.Source, rawJSON, qualityJSON,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
}

func (s *PostgresStore) GetListing(ctx context.Context, id uuid.UUID) (*Listing, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+listingColumns+`
		FROM homescout_listings WHERE listing_id = $1`, id)
	return scanListing(row)
}

func scanListing(row pgx.Row) (*Listing, error) {
	l := &Listing{}
	var rawJSON, qualityJSON []byte
	err := row.Scan(&l.ID, &l.Address, &l.Priority, &l.Source, &rawJSON, &qualityJSON, &l.CreatedAt, &l.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if rawJSON != nil {
		if err := json.Unmarshal(rawJSON, &l.Raw); err != nil {
			return nil, fmt.Errorf("unmarshal raw: %w", err)
		}
	}
	if qualityJSON != nil {
		if err := json.Unmarshal(qualityJSON, &l.Quality); err != nil {
			return nil, fmt.Errorf("unmarshal quality: %w", err)
		}
	}
	return l, nil
}

func (s *PostgresStore) ListListings(ctx context.Context, filter ListingFilter) ([]*Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM homescout_listings WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.Source != "" {
		n++
		query += fmt.Sprintf(" AND source = $%d", n)
		args = append(args, filter.Source)
	}
	// numeric priorities ascending first, everything else in insertion
	// order; CASE keeps the cast off non-numeric values
	query += ` ORDER BY CASE WHEN priority ~ '^-?[0-9]+(\.[0-9]+)?$' THEN priority::numeric END NULLS LAST, created_at`
	if filter.Limit > 0 {
		n++
		query += fmt.Sprintf(" LIMIT $%d", n)
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []*Listing
	for rows.Next() {
		l := &Listing{}
		var rawJSON, qualityJSON []byte
		if err := rows.Scan(&l.ID, &l.Address, &l.Priority, &l.Source, &rawJSON, &qualityJSON, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		if rawJSON != nil {
			if err := json.Unmarshal(rawJSON, &l.Raw); err != nil {
				return nil, fmt.Errorf("unmarshal raw: %w", err)
			}
		}
		if qualityJSON != nil {
			if err := json.Unmarshal(qualityJSON, &l.Quality); err != nil {
				return nil, fmt.Errorf("unmarshal quality: %w", err)
			}
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func (s *PostgresStore) DeleteListing(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM homescout_listings WHERE listing_id = $1`, id)
	return err
}

func (s *PostgresStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM homescout_profiles),
			(SELECT count(*) FROM homescout_listings)`,
	).Scan(&stats.Profiles, &stats.Listings)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
