// Package feed assembles and ranks a user's feed: the tweets authored by
// the users they follow, ordered by popularity.
package feed

import (
	"context"
	"fmt"
	"sort"

	"github.com/warbler-social/warbler/internal/warbler"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Repository is the slice of storage the aggregator needs. Everything is
// read fresh per call; the aggregator holds no state between requests.
type Repository interface {
	User(ctx context.Context, id string) (warbler.User, error)
	FolloweeIDs(ctx context.Context, followerID string) ([]string, error)
	TweetsByAuthors(ctx context.Context, authorIDs []string) ([]warbler.Tweet, error)
}

type (
	// Aggregator computes ranked feed pages. It is read-only and safe for
	// concurrent use.
	Aggregator struct {
		repo    Repository
		cursors CursorCodec

		// Whether a user's own tweets show up in their own feed.
		includeSelf bool
	}

	Args struct {
		PageToken string
		PageSize  int
	}

	// RankedTweet carries the tweet together with the score it was ranked
	// under, so presentation never has to recompute it.
	RankedTweet struct {
		warbler.Tweet

		Score float64
	}

	Page struct {
		Tweets []RankedTweet
		// Empty when the result set is exhausted.
		NextPageToken string
	}
)

type Option func(*Aggregator)

// WithOwnTweets makes a user's own tweets appear in their feed alongside
// their followees'. Off unless asked for.
func WithOwnTweets() Option {
	return func(a *Aggregator) { a.includeSelf = true }
}

func New(repo Repository, cursors CursorCodec, opts ...Option) *Aggregator {
	a := &Aggregator{
		repo:    repo,
		cursors: cursors,
	}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Feed returns one page of the requesting user's feed.
//
// Ordering is a total order: score descending, then created_at descending,
// then id ascending. The tie-break is load-bearing: it is what makes page
// tokens stable, so it must never change shape.
func (a *Aggregator) Feed(ctx context.Context, requesterID string, args Args) (Page, error) {
	// A bad token fails the whole request up front; no partial page.
	var (
		cur      cursor
		hasCur   bool
		pageSize = args.PageSize
	)
	if args.PageToken != "" {
		c, err := a.cursors.decode(args.PageToken)
		if err != nil {
			return Page{}, err
		}
		cur, hasCur = c, true
	}
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}

	if _, err := a.repo.User(ctx, requesterID); err != nil {
		return Page{}, fmt.Errorf("resolving requester %q: %w", requesterID, err)
	}

	authorIDs, err := a.repo.FolloweeIDs(ctx, requesterID)
	if err != nil {
		return Page{}, fmt.Errorf("resolving followees of %q: %w", requesterID, err)
	}
	if a.includeSelf {
		authorIDs = append(authorIDs, requesterID)
	}

	// Following no one is an empty feed, not an error.
	if len(authorIDs) == 0 {
		return Page{Tweets: []RankedTweet{}}, nil
	}

	// One bulk fetch for every author at once.
	tweets, err := a.repo.TweetsByAuthors(ctx, authorIDs)
	if err != nil {
		return Page{}, fmt.Errorf("fetching tweets for %q: %w", requesterID, err)
	}

	ranked := make([]RankedTweet, 0, len(tweets))
	for _, t := range tweets {
		ranked = append(ranked, RankedTweet{Tweet: t, Score: Score(t)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		return key(ranked[i]).before(key(ranked[j]))
	})

	// Resume strictly after the cursor position.
	if hasCur {
		n := sort.Search(len(ranked), func(i int) bool {
			return cur.before(key(ranked[i]))
		})
		ranked = ranked[n:]
	}

	page := Page{Tweets: ranked}
	if len(ranked) > pageSize {
		page.Tweets = ranked[:pageSize]
		token, err := a.cursors.encode(key(page.Tweets[pageSize-1]))
		if err != nil {
			return Page{}, err
		}
		page.NextPageToken = token
	}

	return page, nil
}

func key(rt RankedTweet) cursor {
	return cursor{
		Score:     rt.Score,
		CreatedAt: rt.CreatedAt.UnixNano(),
		ID:        rt.ID,
	}
}
