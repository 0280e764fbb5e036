package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/nestquest/homescout/internal/scoring"
	"github.com/nestquest/homescout/internal/store"
)

func seedRankFixture(t *testing.T, ms *mockStore) uuid.UUID {
	t.Helper()

	target := 1.0
	upper := 3.0
	factors := scoring.Profile{
		"distance_center": {Mode: scoring.ModeNiceToHave, Target: &target, Upper: &upper, Direction: -1, Weight: 4},
	}
	normalized, err := scoring.NormalizeProfile(factors, scoring.DefaultParams())
	if err != nil {
		t.Fatalf("fixture profile invalid: %v", err)
	}
	p := &store.ScoreProfile{Name: "Commuter", Factors: normalized, Params: scoring.DefaultParams()}
	ms.CreateProfile(context.Background(), p)

	listings := []*store.Listing{
		{Address: "far", Raw: scoring.RawInput{"distance_center": {Value: 2.6}}},
		{Address: "near", Raw: scoring.RawInput{"distance_center": {Value: 1.0}}},
		{Address: "mid", Raw: scoring.RawInput{"distance_center": {Value: 1.8}}},
	}
	for _, l := range listings {
		ms.CreateListing(context.Background(), l)
	}
	return p.ID
}

func TestRankOrdersByScoreDescending(t *testing.T) {
	router, ms, ev := setupTestRouter()
	profileID := seedRankFixture(t, ms)

	body := `{"profile_id":"` + profileID.String() + `"}`
	req := httptest.NewRequest("POST", "/api/v1/rank", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp RankResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if len(resp.Ranked) != 3 {
		t.Fatalf("expected 3 ranked listings, got %d", len(resp.Ranked))
	}

	want := []string{"near", "mid", "far"}
	for i, rl := range resp.Ranked {
		if rl.Listing.Address != want[i] {
			t.Errorf("rank %d: expected %s, got %s", i, want[i], rl.Listing.Address)
		}
		if rl.Trace != nil {
			t.Error("trace should be omitted without verbose")
		}
	}
	if resp.Ranked[0].Score <= resp.Ranked[1].Score || resp.Ranked[1].Score <= resp.Ranked[2].Score {
		t.Errorf("scores not strictly descending: %v %v %v",
			resp.Ranked[0].Score, resp.Ranked[1].Score, resp.Ranked[2].Score)
	}

	completed := false
	for _, subject := range ev.published {
		if strings.HasPrefix(subject, "homescout.scoring.") {
			completed = true
		}
	}
	if !completed {
		t.Error("expected a scoring completed event")
	}
}

func TestRankLimit(t *testing.T) {
	router, ms, _ := setupTestRouter()
	profileID := seedRankFixture(t, ms)

	body := `{"profile_id":"` + profileID.String() + `","limit":1}`
	req := httptest.NewRequest("POST", "/api/v1/rank", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp RankResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if len(resp.Ranked) != 1 {
		t.Fatalf("expected 1 ranked listing, got %d", len(resp.Ranked))
	}
	if resp.Ranked[0].Listing.Address != "near" {
		t.Errorf("expected 'near' on top, got '%s'", resp.Ranked[0].Listing.Address)
	}
}

func TestRankVerboseIncludesTraces(t *testing.T) {
	router, ms, _ := setupTestRouter()
	profileID := seedRankFixture(t, ms)

	body := `{"profile_id":"` + profileID.String() + `","verbose":true}`
	req := httptest.NewRequest("POST", "/api/v1/rank", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp RankResponse
	json.NewDecoder(w.Body).Decode(&resp)
	for _, rl := range resp.Ranked {
		if rl.Trace == nil {
			t.Fatalf("expected trace for %s", rl.Listing.Address)
		}
	}
}

func TestRankCountsVetoes(t *testing.T) {
	router, ms, _ := setupTestRouter()

	target := 1.0
	factors := scoring.Profile{
		"balcony": {Mode: scoring.ModeMustHave, Target: &target, Direction: 1, Weight: 2},
	}
	normalized, err := scoring.NormalizeProfile(factors, scoring.DefaultParams())
	if err != nil {
		t.Fatalf("fixture profile invalid: %v", err)
	}
	p := &store.ScoreProfile{Name: "Strict", Factors: normalized, Params: scoring.DefaultParams()}
	ms.CreateProfile(context.Background(), p)
	ms.CreateListing(context.Background(), &store.Listing{Address: "with", Raw: scoring.RawInput{"balcony": {Value: 1}}})
	ms.CreateListing(context.Background(), &store.Listing{Address: "without", Raw: scoring.RawInput{"balcony": {Value: 0}}})

	body := `{"profile_id":"` + p.ID.String() + `"}`
	req := httptest.NewRequest("POST", "/api/v1/rank", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp RankResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.VetoCount != 1 {
		t.Errorf("expected 1 veto, got %d", resp.VetoCount)
	}
	if resp.Ranked[0].Listing.Address != "with" {
		t.Errorf("expected 'with' on top, got '%s'", resp.Ranked[0].Listing.Address)
	}
}

func TestRankUnknownProfile(t *testing.T) {
	router, _, _ := setupTestRouter()

	body := `{"profile_id":"` + uuid.NewString() + `"}`
	req := httptest.NewRequest("POST", "/api/v1/rank", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
