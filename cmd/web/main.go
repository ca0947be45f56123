// Command web initializes the Tune-Swipe application and starts the HTTP
// server. Configuration is provided via environment variables; every
// provider API key is independently optional and a missing key simply
// disables that provider rather than preventing startup. The server
// serves the JSON discovery API and Prometheus metrics.

package main

import (
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"Tune-Swipe-Go/pkg/db"
	"Tune-Swipe-Go/pkg/deezer"
	"Tune-Swipe-Go/pkg/discover"
	"Tune-Swipe-Go/pkg/gemini"
	"Tune-Swipe-Go/pkg/handlers"
	"Tune-Swipe-Go/pkg/lastfm"
	"Tune-Swipe-Go/pkg/spotify"
	"Tune-Swipe-Go/pkg/youtube"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(lvl)
	}

	agg := &discover.Aggregator{
		Scorer: discover.NewScorer(discover.DefaultScoreWeights(),
			rand.New(rand.NewSource(time.Now().UnixNano()))),
		Config: discover.DefaultConfig(),
		Log:    log,
	}

	// Deezer needs no key and is always available: it serves the
	// surprise-me chart source and the preview enrichment pass.
	dz := &deezer.Client{}
	agg.Charts = dz

	if key := os.Getenv("LASTFM_API_KEY"); key != "" {
		lf := &lastfm.Client{APIKey: key}
		agg.Tags = lf
		agg.Similar = lf
		agg.ArtistTop = lf
		agg.SimilarTracks = lf
		agg.Search = lf
	} else {
		// Deezer's per-genre charts keep the genre and mood stages alive,
		// with coarser tag coverage. The reference stage has no Deezer
		// equivalent and stays disabled.
		agg.Tags = dz
		log.Warn("LASTFM_API_KEY not set, serving genre/mood stages from deezer charts, reference stage disabled")
	}

	// The AI provider degrades to a static mock list when unconfigured,
	// so it is always wired.
	agg.AI = &gemini.Client{APIKey: os.Getenv("GEMINI_API_KEY")}

	// Spotify, when configured, takes over free-text search from Last.fm
	// because its results include preview URLs and album art.
	var search discover.SearchProvider = agg.Search
	clientID := os.Getenv("SPOTIFY_CLIENT_ID")
	clientSecret := os.Getenv("SPOTIFY_CLIENT_SECRET")
	if clientID != "" && clientSecret != "" {
		sc, err := spotify.NewClient(clientID, clientSecret)
		if err != nil {
			log.WithError(err).Warn("spotify client init failed, continuing without it")
		} else {
			agg.Search = sc
			search = sc
		}
	}
	if key := os.Getenv("YOUTUBE_API_KEY"); key != "" && search == nil {
		yt := &youtube.Client{Key: key}
		agg.Search = yt
		search = yt
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "tuneswipe.db"
	}
	database, err := db.New(dbPath)
	if err != nil {
		log.WithError(err).Fatal("db init failed")
	}
	defer database.Close()

	app := &handlers.Application{
		Recommender: agg,
		Enricher:    discover.NewEnricher(dz, log),
		Search:      search,
		DB:          database,
		Log:         log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/discover", handlers.WithMetrics("discover", app.DiscoverJSON))
	mux.HandleFunc("/api/search", handlers.WithMetrics("search", app.SearchJSON))
	mux.HandleFunc("/api/likes", handlers.WithMetrics("likes", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			app.AddLikeJSON(w, r)
		case http.MethodDelete:
			app.DeleteLikeJSON(w, r)
		default:
			app.LikesJSON(w, r)
		}
	}))
	mux.HandleFunc("/api/collections", handlers.WithMetrics("collections", app.CreateCollectionJSON))
	mux.HandleFunc("/api/collections/", handlers.WithMetrics("collection", app.CollectionJSON))
	mux.HandleFunc("/api/shares", handlers.WithMetrics("shares", app.ShareCollectionJSON))
	mux.HandleFunc("/api/shares/", handlers.WithMetrics("share", app.SharedCollectionJSON))
	mux.HandleFunc("/healthz", app.Health)
	mux.Handle("/metrics", promhttp.Handler())

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":4000"
	}
	log.WithField("addr", addr).Info("starting server")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.WithError(err).Fatal("http server error")
	}
}
