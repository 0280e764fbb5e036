package store

import (
	"testing"

	"github.com/nestquest/homescout/internal/scoring"
)

func TestListingFilterDefaults(t *testing.T) {
	f := ListingFilter{}
	if f.Limit != 0 {
		t.Errorf("expected 0 default limit, got %d", f.Limit)
	}
	if f.Source != "" {
		t.Error("expected empty source filter")
	}
}

func TestListingCarriesBothRawShapes(t *testing.T) {
	l := Listing{
		Address: "12 Station Road",
		Raw: scoring.RawInput{
			"walk_dist":   scoring.Scalar(1.1),
			"school_dist": scoring.Multi(0.4, 0.9, 2.2),
		},
		Quality: scoring.QualityInput{"walk_dist": 4},
	}
	if l.Raw["walk_dist"].IsMulti() {
		t.Error("walk_dist should be scalar")
	}
	if !l.Raw["school_dist"].IsMulti() {
		t.Error("school_dist should be multi")
	}
	if l.Quality["walk_dist"] != 4 {
		t.Error("expected quality rating preserved")
	}
}
