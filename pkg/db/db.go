// Package db provides the persistence layer for liked tracks and bento
// collections. It wraps a SQLite database and is intentionally small:
// callers open a single DB instance with New and reuse it for all
// operations. Likes are deduplicated automatically; the engine never reads
// them back for scoring, they exist purely so collections can be shared
// and exported.

package db

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"Tune-Swipe-Go/pkg/discover"
)

// DB wraps a sql.DB connection and exposes helper methods for the
// application's persistence layer.
type DB struct {
	*sql.DB
}

// New opens the SQLite database located at path. If the file does not
// exist it is created along with the required schema.
func New(path string) (*DB, error) {
	d, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS likes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT,
			track_name TEXT,
			artist_name TEXT,
			album_title TEXT,
			preview_url TEXT,
			image_url TEXT,
			source TEXT,
			reason TEXT,
			liked_at TIMESTAMP
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_like_user_track ON likes(user_id, track_name, artist_name)`,
		`CREATE TABLE IF NOT EXISTS collections (id TEXT PRIMARY KEY, owner TEXT, name TEXT, created_at TIMESTAMP)`,
		`CREATE TABLE IF NOT EXISTS collection_tracks (
			collection_id TEXT,
			track_name TEXT,
			artist_name TEXT,
			image_url TEXT,
			preview_url TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS shares (id TEXT PRIMARY KEY, collection_id TEXT)`,
	}
	for _, s := range stmts {
		if _, err := d.Exec(s); err != nil {
			d.Close()
			return nil, fmt.Errorf("init db: %w", err)
		}
	}
	return &DB{d}, nil
}

// AddLike stores a liked track for the given user. Liking the same track
// twice is a no-op.
func (db *DB) AddLike(ctx context.Context, userID string, t discover.Track) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO likes(user_id, track_name, artist_name, album_title, preview_url, image_url, source, reason, liked_at)
		 VALUES(?,?,?,?,?,?,?,?,?)`,
		userID, t.Name, t.Artist, t.Album, t.PreviewURL, t.ImageURL, string(t.Source), t.Reason, time.Now())
	return err
}

// DeleteLike removes a liked track. sql.ErrNoRows is returned when the
// like does not exist so callers can respond with a 404.
func (db *DB) DeleteLike(ctx context.Context, userID, trackName, artistName string) error {
	res, err := db.ExecContext(ctx,
		`DELETE FROM likes WHERE user_id=? AND track_name=? AND artist_name=?`,
		userID, trackName, artistName)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListLikes retrieves all liked tracks for the user, most recent first.
func (db *DB) ListLikes(ctx context.Context, userID string) ([]discover.Track, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT track_name, artist_name, album_title, preview_url, image_url, source, reason
		 FROM likes WHERE user_id=? ORDER BY id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []discover.Track
	for rows.Next() {
		var t discover.Track
		var source string
		if err := rows.Scan(&t.Name, &t.Artist, &t.Album, &t.PreviewURL, &t.ImageURL, &source, &t.Reason); err != nil {
			return nil, err
		}
		t.Source = discover.Provenance(source)
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}

// CreateCollection starts a new bento collection owned by the given user
// and returns its ID.
func (db *DB) CreateCollection(ctx context.Context, owner, name string) (string, error) {
	id, err := randomString(9)
	if err != nil {
		return "", err
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO collections(id, owner, name, created_at) VALUES(?,?,?,?)`,
		id, owner, name, time.Now()); err != nil {
		return "", err
	}
	return id, nil
}

// AddCollectionTrack saves a track in the specified collection.
func (db *DB) AddCollectionTrack(ctx context.Context, colID string, t discover.Track) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO collection_tracks(collection_id, track_name, artist_name, image_url, preview_url) VALUES(?,?,?,?,?)`,
		colID, t.Name, t.Artist, t.ImageURL, t.PreviewURL)
	return err
}

// ListCollectionTracks returns all tracks stored in the given collection.
func (db *DB) ListCollectionTracks(ctx context.Context, colID string) ([]discover.Track, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT track_name, artist_name, image_url, preview_url FROM collection_tracks WHERE collection_id=?`, colID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tracks []discover.Track
	for rows.Next() {
		var t discover.Track
		if err := rows.Scan(&t.Name, &t.Artist, &t.ImageURL, &t.PreviewURL); err != nil {
			return nil, err
		}
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}

// CreateShare stores a share link for a collection under a random ID.
func (db *DB) CreateShare(ctx context.Context, collectionID string) (string, error) {
	id, err := randomString(12)
	if err != nil {
		return "", err
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO shares(id, collection_id) VALUES(?, ?)`, id, collectionID); err != nil {
		return "", err
	}
	return id, nil
}

// GetShare resolves a share ID back to its collection. sql.ErrNoRows is
// returned for unknown IDs.
func (db *DB) GetShare(ctx context.Context, id string) (string, error) {
	var colID string
	err := db.QueryRowContext(ctx, `SELECT collection_id FROM shares WHERE id=?`, id).Scan(&colID)
	return colID, err
}

// randomString returns a URL-safe base64 string with n bytes of entropy.
func randomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
