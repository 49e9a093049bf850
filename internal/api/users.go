package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	werrs "github.com/warbler-social/warbler/internal/errors"
	"github.com/warbler-social/warbler/internal/serverutil"
	"github.com/warbler-social/warbler/internal/warbler"
)

type (
	CreateUserRequest struct {
		Handle string `json:"handle"`
		Name   string `json:"name"`
	}

	CreateUserResponse struct {
		UserID string `json:"user_id"`
		APIKey string `json:"api_key"`
	}

	// UserResp is a full profile: the user plus both sides of their follow
	// graph, summarized.
	UserResp struct {
		ID        string          `json:"id"`
		Handle    string          `json:"handle"`
		Name      string          `json:"name"`
		CreatedAt time.Time       `json:"created_at"`
		Followers []AuthorSummary `json:"followers"`
		Following []AuthorSummary `json:"following"`
	}
)

func (r CreateUserRequest) Validate() error {
	if r.Handle == "" {
		return werrs.E("request was invalid", http.StatusBadRequest, werrs.Detail{
			Field: "handle",
			Error: "handle is required",
		})
	}

	return nil
}

func (s *Server) postUser(w http.ResponseWriter, r *http.Request) error {
	body, err := serverutil.DecodeValid[CreateUserRequest](r.Body)
	if err != nil {
		return werrs.E(err, http.StatusBadRequest)
	}

	usr, err := s.repo.InsertUser(r.Context(), warbler.User{
		Handle: body.Handle,
		Name:   body.Name,
	})
	if err != nil {
		return coerce(err)
	}

	return serverutil.WriteJSON(w, http.StatusCreated, CreateUserResponse{
		UserID: usr.ID,
		APIKey: usr.APIKey,
	})
}

func (s *Server) getMe(w http.ResponseWriter, r *http.Request) error {
	return s.writeProfile(w, r, requestUser(r))
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) error {
	usr, err := s.repo.User(r.Context(), mux.Vars(r)["userID"])
	if err != nil {
		return coerce(err)
	}

	return s.writeProfile(w, r, usr)
}

func (s *Server) writeProfile(w http.ResponseWriter, r *http.Request, usr warbler.User) error {
	ctx := r.Context()

	followerIDs, err := s.repo.FollowerIDs(ctx, usr.ID)
	if err != nil {
		return err
	}
	followeeIDs, err := s.repo.FolloweeIDs(ctx, usr.ID)
	if err != nil {
		return err
	}

	followers, err := s.summarize(r, followerIDs)
	if err != nil {
		return err
	}
	following, err := s.summarize(r, followeeIDs)
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, UserResp{
		ID:        usr.ID,
		Handle:    usr.Handle,
		Name:      usr.Name,
		CreatedAt: usr.CreatedAt,
		Followers: followers,
		Following: following,
	})
}

func (s *Server) summarize(r *http.Request, ids []string) ([]AuthorSummary, error) {
	users, err := s.repo.UsersByIDs(r.Context(), ids)
	if err != nil {
		return nil, err
	}

	out := make([]AuthorSummary, 0, len(users))
	for _, usr := range users {
		out = append(out, AuthorSummary{ID: usr.ID, Handle: usr.Handle, Name: usr.Name})
	}
	return out, nil
}

func (s *Server) postFollow(w http.ResponseWriter, r *http.Request) error {
	var (
		usr      = requestUser(r)
		targetID = mux.Vars(r)["userID"]
	)
	if targetID == usr.ID {
		return werrs.E("cannot follow yourself", http.StatusBadRequest)
	}

	if err := s.repo.Follow(r.Context(), usr.ID, targetID); err != nil {
		return coerce(err)
	}

	return serverutil.WriteJSON(w, http.StatusCreated, struct{}{})
}

func (s *Server) deleteFollow(w http.ResponseWriter, r *http.Request) error {
	var (
		usr      = requestUser(r)
		targetID = mux.Vars(r)["userID"]
	)
	if targetID == usr.ID {
		return werrs.E("cannot unfollow yourself", http.StatusBadRequest)
	}

	if err := s.repo.Unfollow(r.Context(), usr.ID, targetID); err != nil {
		return coerce(err)
	}

	return serverutil.WriteJSON(w, http.StatusOK, struct{}{})
}
