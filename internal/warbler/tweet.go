package warbler

import (
	"context"
	"time"
)

// MaxMediaPerTweet bounds the number of attachments a single tweet may carry.
const MaxMediaPerTweet = 10

type (
	TweetService interface {
		InsertTweet(ctx context.Context, authorID string, content string, mediaIDs []string) (Tweet, error)
		Tweet(ctx context.Context, id string) (Tweet, error)
		// DeleteTweet removes the tweet along with its likes and media rows.
		DeleteTweet(ctx context.Context, id string) error
		// TweetsByAuthors is the bulk fetch backing feed assembly: one query
		// for every author at once, each tweet carrying its current like count.
		TweetsByAuthors(ctx context.Context, authorIDs []string) ([]Tweet, error)
	}

	// Tweet is immutable once created; only its like count moves.
	Tweet struct {
		ID        string    `db:"id"`
		AuthorID  string    `db:"author_id"`
		Content   string    `db:"content"`
		CreatedAt time.Time `db:"created_at"`

		// Aggregated from the likes relation at query time, never stored.
		LikeCount int `db:"like_count"`
	}

	MediaService interface {
		InsertMedia(ctx context.Context, fileName string, contentType string) (Media, error)
		Media(ctx context.Context, id string) (Media, error)
		MediaForTweets(ctx context.Context, tweetIDs []string) ([]Media, error)
	}

	// Media is an uploaded file. It starts unattached and is bound to a
	// tweet when the tweet referencing it is created.
	Media struct {
		ID          string    `db:"id"`
		TweetID     *string   `db:"tweet_id"`
		FileName    string    `db:"file_name"`
		ContentType string    `db:"content_type"`
		CreatedAt   time.Time `db:"created_at"`
	}
)
