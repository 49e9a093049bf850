// Package api serves the public HTTP surface: the ranked feed plus the
// tweet, like, follow, media, and profile operations around it.
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/warbler-social/warbler/internal/feed"
	"github.com/warbler-social/warbler/internal/serverutil"
	"github.com/warbler-social/warbler/internal/warbler"
)

type (
	// Server fronts the aggregator and repository over HTTP.
	Server struct {
		*http.Server

		repo warbler.Repository
		agg  *feed.Aggregator

		mediaDir string

		// Author summaries are small and hot; cache them per process.
		authorCache *lru.Cache[string, AuthorSummary]
	}

	ServerConfig struct {
		Port       int
		MediaDir   string
		CorsOrigin string
	}
)

func NewServer(config ServerConfig, repo warbler.Repository, agg *feed.Aggregator) *Server {
	var (
		r        = serverutil.ErrRouter{Router: mux.NewRouter()}
		cache, _ = lru.New[string, AuthorSummary](1024)
	)

	srvr := Server{
		repo:        repo,
		agg:         agg,
		mediaDir:    config.MediaDir,
		authorCache: cache,
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%d", config.Port),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			Handler: handlers.CORS(
				handlers.AllowedOrigins([]string{config.CorsOrigin}),
				handlers.AllowCredentials(),
				handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}),
				handlers.AllowedHeaders([]string{"content-type", "api-key"}),
			)(r),
		},
	}

	r.Use(serverutil.AccessLogMiddleware) // Log everything
	r.HandleFuncE("/healthz", srvr.getHealth).Methods(http.MethodGet)
	r.HandleFuncE("/api/users", srvr.postUser).Methods(http.MethodPost)
	r.HandleFuncE("/media/{mediaID}", srvr.getMediaFile).Methods(http.MethodGet)

	authed := serverutil.ErrRouter{Router: r.NewRoute().Subrouter()}
	authed.Use(requireAPIKeyMiddleware(repo))

	// The feed: ranked tweets from the caller's followees
	authed.HandleFuncE("/api/tweets", srvr.getFeed).Methods(http.MethodGet)

	// Tweet lifecycle
	authed.HandleFuncE("/api/tweets", srvr.postTweet).Methods(http.MethodPost)
	authed.HandleFuncE("/api/tweets/{tweetID}", srvr.deleteTweet).Methods(http.MethodDelete)

	// Likes
	authed.HandleFuncE("/api/tweets/{tweetID}/likes", srvr.postLike).Methods(http.MethodPost)
	authed.HandleFuncE("/api/tweets/{tweetID}/likes", srvr.deleteLike).Methods(http.MethodDelete)

	// Follow graph
	authed.HandleFuncE("/api/users/{userID}/follow", srvr.postFollow).Methods(http.MethodPost)
	authed.HandleFuncE("/api/users/{userID}/follow", srvr.deleteFollow).Methods(http.MethodDelete)

	// Profiles
	authed.HandleFuncE("/api/users/me", srvr.getMe).Methods(http.MethodGet)
	authed.HandleFuncE("/api/users/{userID}", srvr.getUser).Methods(http.MethodGet)

	// Media upload
	authed.HandleFuncE("/api/medias", srvr.postMedia).Methods(http.MethodPost)

	slog.Debug("configured api server", "port", config.Port)

	return &srvr
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) error {
	return serverutil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
