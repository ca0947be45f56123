package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Tune-Swipe-Go/pkg/db"
	"Tune-Swipe-Go/pkg/discover"
)

type fakeRecommender struct {
	deck  []discover.Track
	err   error
	prefs discover.Preferences
}

func (f *fakeRecommender) Recommend(_ context.Context, prefs discover.Preferences) ([]discover.Track, error) {
	f.prefs = prefs
	return f.deck, f.err
}

type fakeEnricher struct{ called bool }

func (f *fakeEnricher) AttachPreviews(_ context.Context, deck []discover.Track) []discover.Track {
	f.called = true
	for i := range deck {
		deck[i].PreviewURL = "https://cdn.example.com/p.mp3"
	}
	return deck
}

type fakeSearch struct {
	raws []discover.RawTrack
	err  error
}

func (f *fakeSearch) SearchTracks(context.Context, string, int) ([]discover.RawTrack, error) {
	return f.raws, f.err
}

func testDB(t *testing.T) *db.DB {
	t.Helper()
	d, err := db.New(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
}

func TestDiscoverJSON(t *testing.T) {
	rec := &fakeRecommender{deck: []discover.Track{
		{Name: "Anthem", Artist: "Loud Band", Score: 4.5, Source: discover.SourceGenre},
	}}
	enr := &fakeEnricher{}
	app := &Application{Recommender: rec, Enricher: enr}

	req := httptest.NewRequest(http.MethodPost, "/api/discover",
		strings.NewReader(`{"genres":["rock"],"moods":["chill"]}`))
	rr := httptest.NewRecorder()
	app.DiscoverJSON(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status %d body %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Tracks []discover.Track `json:"tracks"`
	}
	decodeBody(t, rr, &resp)
	if len(resp.Tracks) != 1 || resp.Tracks[0].Name != "Anthem" {
		t.Fatalf("unexpected deck %+v", resp.Tracks)
	}
	if !enr.called || resp.Tracks[0].PreviewURL == "" {
		t.Error("enrichment pass not applied")
	}
	if len(rec.prefs.Genres) != 1 || rec.prefs.Genres[0] != "rock" {
		t.Errorf("preferences not decoded: %+v", rec.prefs)
	}
}

func TestDiscoverJSONEmptyBodyRejected(t *testing.T) {
	app := &Application{Recommender: &fakeRecommender{}}
	req := httptest.NewRequest(http.MethodPost, "/api/discover", nil)
	rr := httptest.NewRecorder()
	app.DiscoverJSON(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty body, got %d", rr.Code)
	}
}

func TestDiscoverJSONNoResults(t *testing.T) {
	app := &Application{Recommender: &fakeRecommender{err: discover.ErrNoResults}}
	req := httptest.NewRequest(http.MethodPost, "/api/discover", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	app.DiscoverJSON(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	var resp map[string]string
	decodeBody(t, rr, &resp)
	if resp["error"] != "no_results" {
		t.Errorf("unexpected error code %q", resp["error"])
	}
}

func TestDiscoverJSONMethodNotAllowed(t *testing.T) {
	app := &Application{Recommender: &fakeRecommender{}}
	req := httptest.NewRequest(http.MethodGet, "/api/discover", nil)
	rr := httptest.NewRecorder()
	app.DiscoverJSON(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}

func TestDiscoverJSONUnknownField(t *testing.T) {
	app := &Application{Recommender: &fakeRecommender{}}
	req := httptest.NewRequest(http.MethodPost, "/api/discover", strings.NewReader(`{"bogus":true}`))
	rr := httptest.NewRecorder()
	app.DiscoverJSON(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", rr.Code)
	}
}

func TestSearchJSON(t *testing.T) {
	app := &Application{Search: &fakeSearch{raws: []discover.RawTrack{
		{Name: "Anthem", ArtistName: "Loud Band"},
	}}}
	req := httptest.NewRequest(http.MethodGet, "/api/search?q=anthem", nil)
	rr := httptest.NewRecorder()
	app.SearchJSON(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d body %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Tracks []discover.Track `json:"tracks"`
	}
	decodeBody(t, rr, &resp)
	if len(resp.Tracks) != 1 || resp.Tracks[0].Artist != "Loud Band" {
		t.Fatalf("unexpected tracks %+v", resp.Tracks)
	}
}

func TestSearchJSONErrors(t *testing.T) {
	app := &Application{}
	req := httptest.NewRequest(http.MethodGet, "/api/search?q=x", nil)
	rr := httptest.NewRecorder()
	app.SearchJSON(rr, req)
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without provider, got %d", rr.Code)
	}

	app = &Application{Search: &fakeSearch{}}
	req = httptest.NewRequest(http.MethodGet, "/api/search", nil)
	rr = httptest.NewRecorder()
	app.SearchJSON(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without q, got %d", rr.Code)
	}

	app = &Application{Search: &fakeSearch{err: errors.New("down")}}
	req = httptest.NewRequest(http.MethodGet, "/api/search?q=x", nil)
	rr = httptest.NewRecorder()
	app.SearchJSON(rr, req)
	if rr.Code != http.StatusBadGateway {
		t.Errorf("expected 502 on provider failure, got %d", rr.Code)
	}
}

func TestLikesRoundTrip(t *testing.T) {
	app := &Application{DB: testDB(t)}

	body := `{"user":"u","track":{"name":"Anthem","artist":"Loud Band","source":"genre"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/likes", strings.NewReader(body))
	rr := httptest.NewRecorder()
	app.AddLikeJSON(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("add like status %d body %s", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/likes?user=u", nil)
	rr = httptest.NewRecorder()
	app.LikesJSON(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("list likes status %d", rr.Code)
	}
	var resp struct {
		Tracks []discover.Track `json:"tracks"`
	}
	decodeBody(t, rr, &resp)
	if len(resp.Tracks) != 1 || resp.Tracks[0].Name != "Anthem" {
		t.Fatalf("unexpected likes %+v", resp.Tracks)
	}
}

// TestDeleteLike verifies un-liking a track through the API and the 404
// answer for likes that do not exist.
func TestDeleteLike(t *testing.T) {
	app := &Application{DB: testDB(t)}

	body := `{"user":"u","track":{"name":"Anthem","artist":"Loud Band"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/likes", strings.NewReader(body))
	rr := httptest.NewRecorder()
	app.AddLikeJSON(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("add like status %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/likes", strings.NewReader(body))
	rr = httptest.NewRecorder()
	app.DeleteLikeJSON(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("delete like status %d body %s", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/likes?user=u", nil)
	rr = httptest.NewRecorder()
	app.LikesJSON(rr, req)
	if !strings.Contains(rr.Body.String(), `"tracks":[]`) {
		t.Errorf("like not removed: %s", rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/likes", strings.NewReader(body))
	rr = httptest.NewRecorder()
	app.DeleteLikeJSON(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing like, got %d", rr.Code)
	}
}

func TestAddLikeValidation(t *testing.T) {
	app := &Application{DB: testDB(t)}
	req := httptest.NewRequest(http.MethodPost, "/api/likes", strings.NewReader(`{"user":"u","track":{"name":"Anthem"}}`))
	rr := httptest.NewRecorder()
	app.AddLikeJSON(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing artist, got %d", rr.Code)
	}
}

func TestLikesJSONEmptyList(t *testing.T) {
	app := &Application{DB: testDB(t)}
	req := httptest.NewRequest(http.MethodGet, "/api/likes?user=nobody", nil)
	rr := httptest.NewRecorder()
	app.LikesJSON(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"tracks":[]`) {
		t.Errorf("expected empty array, got %s", rr.Body.String())
	}
}

func TestCollectionsAndShares(t *testing.T) {
	app := &Application{DB: testDB(t)}

	req := httptest.NewRequest(http.MethodPost, "/api/collections", strings.NewReader(`{"user":"u","name":"road trip"}`))
	rr := httptest.NewRecorder()
	app.CreateCollectionJSON(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create collection status %d body %s", rr.Code, rr.Body.String())
	}
	var created map[string]string
	decodeBody(t, rr, &created)
	colID := created["id"]
	if colID == "" {
		t.Fatal("no collection id returned")
	}

	req = httptest.NewRequest(http.MethodPost, "/api/collections/"+colID,
		strings.NewReader(`{"name":"Anthem","artist":"Loud Band"}`))
	rr = httptest.NewRecorder()
	app.CollectionJSON(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("add track status %d body %s", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/api/shares", strings.NewReader(`{"collection":"`+colID+`"}`))
	rr = httptest.NewRecorder()
	app.ShareCollectionJSON(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("share status %d body %s", rr.Code, rr.Body.String())
	}
	var share map[string]string
	decodeBody(t, rr, &share)
	if share["id"] == "" {
		t.Fatal("no share id returned")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/shares/"+share["id"], nil)
	rr = httptest.NewRecorder()
	app.SharedCollectionJSON(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("resolve share status %d body %s", rr.Code, rr.Body.String())
	}
	var resolved struct {
		Collection string           `json:"collection"`
		Tracks     []discover.Track `json:"tracks"`
	}
	decodeBody(t, rr, &resolved)
	if resolved.Collection != colID || len(resolved.Tracks) != 1 || resolved.Tracks[0].Name != "Anthem" {
		t.Fatalf("unexpected shared collection %+v", resolved)
	}
}

func TestSharedCollectionJSONUnknown(t *testing.T) {
	app := &Application{DB: testDB(t)}
	req := httptest.NewRequest(http.MethodGet, "/api/shares/missing", nil)
	rr := httptest.NewRecorder()
	app.SharedCollectionJSON(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestHealth(t *testing.T) {
	app := &Application{}
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	app.Health(rr, req)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "ok") {
		t.Fatalf("unexpected health response %d %s", rr.Code, rr.Body.String())
	}
}
