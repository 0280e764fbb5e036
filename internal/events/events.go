package events

import "time"

type ProfileEvent struct {
	ProfileID string `json:"profile_id"`
	Name      string `json:"name"`
	Factors   int    `json:"factors"`
}

type ListingImportedEvent struct {
	ListingID string `json:"listing_id"`
	Address   string `json:"address"`
	Source    string `json:"source,omitempty"`
}

type ScoringCompletedEvent struct {
	ProfileID    string    `json:"profile_id"`
	ListingCount int       `json:"listing_count"`
	VetoCount    int       `json:"veto_count"`
	TopScore     float64   `json:"top_score"`
	TopListingID string    `json:"top_listing_id,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

type StatsEvent struct {
	Profiles  int       `json:"profiles"`
	Listings  int       `json:"listings"`
	Timestamp time.Time `json:"timestamp"`
}
