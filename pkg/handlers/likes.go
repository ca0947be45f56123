// Endpoints managing liked tracks and bento collections. Likes never feed
// back into scoring; they exist so the UI can build and share
// collections.

package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"Tune-Swipe-Go/pkg/discover"
)

// AddLikeJSON handles POST /api/likes with a body of {"user": ...,
// "track": {...}}.
func (app *Application) AddLikeJSON(w http.ResponseWriter, r *http.Request) {
	var req struct {
		User  string         `json:"user"`
		Track discover.Track `json:"track"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if req.User == "" || req.Track.Name == "" || req.Track.Artist == "" {
		respondError(w, http.StatusBadRequest, "bad_request", "user, track.name and track.artist are required")
		return
	}
	if err := app.DB.AddLike(r.Context(), req.User, req.Track); err != nil {
		app.log().WithError(err).Error("add like failed")
		respondError(w, http.StatusInternalServerError, "internal", "could not save like")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"status": "saved"})
}

// DeleteLikeJSON handles DELETE /api/likes, removing a like previously
// stored for the user (the swipe-back path). Unknown likes answer 404.
func (app *Application) DeleteLikeJSON(w http.ResponseWriter, r *http.Request) {
	var req struct {
		User  string         `json:"user"`
		Track discover.Track `json:"track"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if req.User == "" || req.Track.Name == "" || req.Track.Artist == "" {
		respondError(w, http.StatusBadRequest, "bad_request", "user, track.name and track.artist are required")
		return
	}
	if err := app.DB.DeleteLike(r.Context(), req.User, req.Track.Name, req.Track.Artist); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "not_found", "like not found")
			return
		}
		app.log().WithError(err).Error("delete like failed")
		respondError(w, http.StatusInternalServerError, "internal", "could not delete like")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// LikesJSON handles GET /api/likes?user=.
func (app *Application) LikesJSON(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	if user == "" {
		respondError(w, http.StatusBadRequest, "bad_request", "missing user parameter")
		return
	}
	likes, err := app.DB.ListLikes(r.Context(), user)
	if err != nil {
		app.log().WithError(err).Error("list likes failed")
		respondError(w, http.StatusInternalServerError, "internal", "could not list likes")
		return
	}
	if likes == nil {
		likes = []discover.Track{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"tracks": likes})
}

// CreateCollectionJSON handles POST /api/collections.
func (app *Application) CreateCollectionJSON(w http.ResponseWriter, r *http.Request) {
	var req struct {
		User string `json:"user"`
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if req.User == "" {
		respondError(w, http.StatusBadRequest, "bad_request", "user is required")
		return
	}
	id, err := app.DB.CreateCollection(r.Context(), req.User, req.Name)
	if err != nil {
		app.log().WithError(err).Error("create collection failed")
		respondError(w, http.StatusInternalServerError, "internal", "could not create collection")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// CollectionJSON handles /api/collections/{id}: GET lists the tracks,
// POST adds one.
func (app *Application) CollectionJSON(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/collections/")
	if id == "" || strings.Contains(id, "/") {
		respondError(w, http.StatusBadRequest, "bad_request", "invalid collection id")
		return
	}
	switch r.Method {
	case http.MethodPost:
		var track discover.Track
		if err := decodeJSON(r, &track); err != nil {
			respondError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		if err := app.DB.AddCollectionTrack(r.Context(), id, track); err != nil {
			app.log().WithError(err).Error("add collection track failed")
			respondError(w, http.StatusInternalServerError, "internal", "could not save track")
			return
		}
		respondJSON(w, http.StatusCreated, map[string]string{"status": "saved"})
	default:
		tracks, err := app.DB.ListCollectionTracks(r.Context(), id)
		if err != nil {
			app.log().WithError(err).Error("list collection failed")
			respondError(w, http.StatusInternalServerError, "internal", "could not list collection")
			return
		}
		if tracks == nil {
			tracks = []discover.Track{}
		}
		respondJSON(w, http.StatusOK, map[string]any{"tracks": tracks})
	}
}

// ShareCollectionJSON handles POST /api/shares with {"collection": id}
// and returns a share ID usable in a public URL.
func (app *Application) ShareCollectionJSON(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Collection string `json:"collection"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if req.Collection == "" {
		respondError(w, http.StatusBadRequest, "bad_request", "collection is required")
		return
	}
	id, err := app.DB.CreateShare(r.Context(), req.Collection)
	if err != nil {
		app.log().WithError(err).Error("create share failed")
		respondError(w, http.StatusInternalServerError, "internal", "could not create share")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// SharedCollectionJSON handles GET /api/shares/{id}, resolving a share
// link to the collection's tracks.
func (app *Application) SharedCollectionJSON(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/shares/")
	if id == "" || strings.Contains(id, "/") {
		respondError(w, http.StatusBadRequest, "bad_request", "invalid share id")
		return
	}
	colID, err := app.DB.GetShare(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "not_found", "unknown share")
			return
		}
		app.log().WithError(err).Error("resolve share failed")
		respondError(w, http.StatusInternalServerError, "internal", "could not resolve share")
		return
	}
	tracks, err := app.DB.ListCollectionTracks(r.Context(), colID)
	if err != nil {
		app.log().WithError(err).Error("list shared collection failed")
		respondError(w, http.StatusInternalServerError, "internal", "could not list collection")
		return
	}
	if tracks == nil {
		tracks = []discover.Track{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"collection": colID, "tracks": tracks})
}
