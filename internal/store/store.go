package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nestquest/homescout/internal/scoring"
)

// ScoreProfile is a named, validated scoring profile. Factors and
// Params are stored in normalized form, so an engine can be rebuilt
// from a stored row without revalidation surprises.
type ScoreProfile struct {
	ID        uuid.UUID       `json:"profile_id"`
	Name      string          `json:"name"`
	Factors   scoring.Profile `json:"factors"`
	Params    scoring.Params  `json:"params"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Listing is one candidate property with its raw measurements and any
// subjective ratings.
type Listing struct {
	ID        uuid.UUID            `json:"listing_id"`
	Address   string               `json:"address"`
	Priority  string               `json:"priority,omitempty"`
	Source    string               `json:"source,omitempty"`
	Raw       scoring.RawInput     `json:"raw"`
	Quality   scoring.QualityInput `json:"quality,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

type ListingFilter struct {
	Source string
	Limit  int
	Offset int
}

type Stats struct {
	Profiles int `json:"profiles"`
	Listings int `json:"listings"`
}

type Store interface {
	CreateProfile(ctx context.Context, p *ScoreProfile) error
	GetProfile(ctx context.Context, id uuid.UUID) (*ScoreProfile, error)
	ListProfiles(ctx context.Context) ([]*ScoreProfile, error)
	UpdateProfile(ctx context.Context, p *ScoreProfile) error
	DeleteProfile(ctx context.Context, id uuid.UUID) error

	CreateListing(ctx context.Context, l *Listing) error
	GetListing(ctx context.Context, id uuid.UUID) (*Listing, error)
	ListListings(ctx context.Context, filter ListingFilter) ([]*Listing, error)
	DeleteListing(ctx context.Context, id uuid.UUID) error

	GetStats(ctx context.Context) (*Stats, error)
	Close() error
}
