package api

import (
	"net/http"

	"github.com/gorilla/mux"

	werrs "github.com/warbler-social/warbler/internal/errors"
	"github.com/warbler-social/warbler/internal/serverutil"
	"github.com/warbler-social/warbler/internal/warbler"
)

type (
	CreateTweetRequest struct {
		TweetData string   `json:"tweet_data"`
		MediaIDs  []string `json:"tweet_media_ids"`
	}

	CreateTweetResponse struct {
		TweetID string `json:"tweet_id"`
	}
)

// Validate checks that the body (minus logic checks) is valid.
func (r CreateTweetRequest) Validate() error {
	errs := []werrs.Detail{}
	if r.TweetData == "" {
		errs = append(errs, werrs.Detail{
			Field: "tweet_data",
			Error: "tweet_data is required",
		})
	}
	if len(r.MediaIDs) > warbler.MaxMediaPerTweet {
		errs = append(errs, werrs.Detail{
			Field: "tweet_media_ids",
			Error: "too many media attachments",
		})
	}
	if len(errs) > 0 {
		return werrs.E("request was invalid", errs, http.StatusBadRequest)
	}

	return nil
}

func (s *Server) postTweet(w http.ResponseWriter, r *http.Request) error {
	usr := requestUser(r)

	body, err := serverutil.DecodeValid[CreateTweetRequest](r.Body)
	if err != nil {
		return werrs.E(err, http.StatusBadRequest)
	}

	tweet, err := s.repo.InsertTweet(r.Context(), usr.ID, body.TweetData, body.MediaIDs)
	if err != nil {
		return coerce(err)
	}

	return serverutil.WriteJSON(w, http.StatusCreated, CreateTweetResponse{TweetID: tweet.ID})
}

func (s *Server) deleteTweet(w http.ResponseWriter, r *http.Request) error {
	var (
		usr     = requestUser(r)
		tweetID = mux.Vars(r)["tweetID"]
	)

	tweet, err := s.repo.Tweet(r.Context(), tweetID)
	if err != nil {
		return coerce(err)
	}
	// Only the author may delete their tweet.
	if tweet.AuthorID != usr.ID {
		return werrs.E("tweet belongs to another user", http.StatusForbidden)
	}

	if err := s.repo.DeleteTweet(r.Context(), tweetID); err != nil {
		return coerce(err)
	}

	return serverutil.WriteJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) postLike(w http.ResponseWriter, r *http.Request) error {
	var (
		usr     = requestUser(r)
		tweetID = mux.Vars(r)["tweetID"]
	)

	if err := s.repo.Like(r.Context(), usr.ID, tweetID); err != nil {
		return coerce(err)
	}

	return serverutil.WriteJSON(w, http.StatusCreated, struct{}{})
}

func (s *Server) deleteLike(w http.ResponseWriter, r *http.Request) error {
	var (
		usr     = requestUser(r)
		tweetID = mux.Vars(r)["tweetID"]
	)

	if err := s.repo.Unlike(r.Context(), usr.ID, tweetID); err != nil {
		return coerce(err)
	}

	return serverutil.WriteJSON(w, http.StatusOK, struct{}{})
}
