package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/warbler-social/warbler/internal/feed"
	"github.com/warbler-social/warbler/internal/metrics"
	"github.com/warbler-social/warbler/internal/serverutil"
)

type (
	FeedResp struct {
		Tweets        []FeedTweet `json:"tweets"`
		NextPageToken *string     `json:"next_page_token"`
	}

	FeedTweet struct {
		ID        string        `json:"id"`
		Author    AuthorSummary `json:"author"`
		Text      string        `json:"text"`
		Media     []string      `json:"media"`
		LikeCount int           `json:"like_count"`
		CreatedAt time.Time     `json:"created_at"`
	}

	AuthorSummary struct {
		ID     string `json:"id"`
		Handle string `json:"handle"`
		Name   string `json:"name"`
	}
)

// getFeed serves GET /api/tweets: the caller's ranked feed, one page at a
// time. Ranking and pagination live in the aggregator; this handler only
// shapes the wire response.
func (s *Server) getFeed(w http.ResponseWriter, r *http.Request) error {
	var (
		ctx   = r.Context()
		start = time.Now()
		usr   = requestUser(r)
		query = r.URL.Query()
	)

	pageSize, _ := strconv.Atoi(query.Get("page_size"))
	page, err := s.agg.Feed(ctx, usr.ID, feed.Args{
		PageToken: query.Get("page_token"),
		PageSize:  pageSize,
	})
	if err != nil {
		metrics.ObserveFeed(start, "error", 0)
		return coerce(err)
	}

	authors, err := s.authorSummaries(r, page.Tweets)
	if err != nil {
		metrics.ObserveFeed(start, "error", 0)
		return err
	}

	tweetIDs := make([]string, 0, len(page.Tweets))
	for _, rt := range page.Tweets {
		tweetIDs = append(tweetIDs, rt.ID)
	}
	media, err := s.repo.MediaForTweets(ctx, tweetIDs)
	if err != nil {
		metrics.ObserveFeed(start, "error", 0)
		return err
	}
	mediaByTweet := make(map[string][]string)
	for _, m := range media {
		if m.TweetID == nil {
			continue
		}
		mediaByTweet[*m.TweetID] = append(mediaByTweet[*m.TweetID], "/media/"+m.ID)
	}

	resp := FeedResp{Tweets: make([]FeedTweet, 0, len(page.Tweets))}
	for _, rt := range page.Tweets {
		urls := mediaByTweet[rt.ID]
		if urls == nil {
			urls = []string{}
		}
		resp.Tweets = append(resp.Tweets, FeedTweet{
			ID:        rt.ID,
			Author:    authors[rt.AuthorID],
			Text:      rt.Content,
			Media:     urls,
			LikeCount: rt.LikeCount,
			CreatedAt: rt.CreatedAt,
		})
	}
	if page.NextPageToken != "" {
		resp.NextPageToken = &page.NextPageToken
	}

	metrics.ObserveFeed(start, "ok", len(resp.Tweets))

	return serverutil.WriteJSON(w, http.StatusOK, resp)
}

// authorSummaries resolves the authors for a page of tweets, hitting storage
// only for ids the process hasn't seen recently.
func (s *Server) authorSummaries(r *http.Request, tweets []feed.RankedTweet) (map[string]AuthorSummary, error) {
	out := make(map[string]AuthorSummary)

	var missing []string
	for _, rt := range tweets {
		if _, ok := out[rt.AuthorID]; ok {
			continue
		}
		if summary, ok := s.authorCache.Get(rt.AuthorID); ok {
			out[rt.AuthorID] = summary
			continue
		}
		missing = append(missing, rt.AuthorID)
		out[rt.AuthorID] = AuthorSummary{} // placeholder so we dedupe
	}

	if len(missing) > 0 {
		users, err := s.repo.UsersByIDs(r.Context(), missing)
		if err != nil {
			return nil, fmt.Errorf("resolving authors: %w", err)
		}
		for _, usr := range users {
			summary := AuthorSummary{ID: usr.ID, Handle: usr.Handle, Name: usr.Name}
			out[usr.ID] = summary
			s.authorCache.Add(usr.ID, summary)
		}
	}

	return out, nil
}
