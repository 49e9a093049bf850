package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/warbler-social/warbler/internal/warbler"
)

const (
	tweetNamespace = "-twt"
	mediaNamespace = "-md"
)

func (r Repo) InsertTweet(ctx context.Context, authorID string, content string, mediaIDs []string) (warbler.Tweet, error) {
	tweet := warbler.Tweet{
		ID:        uuid.NewString() + tweetNamespace,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return warbler.Tweet{}, fmt.Errorf("error starting transaction: %s", err)
	}
	defer tx.Rollback()

	const q = `INSERT INTO tweets (id, author_id, content, created_at)
	VALUES (:id, :author_id, :content, :created_at);`
	if _, err := tx.NamedExecContext(ctx, q, tweet); err != nil {
		return warbler.Tweet{}, fmt.Errorf("error inserting tweet: %s", err)
	}

	// Bind the uploaded media to the new tweet. Only unattached media may be
	// claimed, so a media id can't end up shared between tweets.
	for _, mediaID := range mediaIDs {
		res, err := tx.ExecContext(ctx,
			`UPDATE media SET tweet_id = ? WHERE id = ? AND tweet_id IS NULL;`,
			tweet.ID, mediaID,
		)
		if err != nil {
			return warbler.Tweet{}, fmt.Errorf("error attaching media: %s", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return warbler.Tweet{}, fmt.Errorf("error checking media attach: %s", err)
		}
		if n == 0 {
			return warbler.Tweet{}, fmt.Errorf("media %q: %w", mediaID, warbler.ErrNotFound)
		}
	}

	if err := tx.Commit(); err != nil {
		return warbler.Tweet{}, fmt.Errorf("error committing tweet: %s", err)
	}

	return tweet, nil
}

func (r Repo) Tweet(ctx context.Context, id string) (warbler.Tweet, error) {
	const q = `
	SELECT t.id, t.author_id, t.content, t.created_at, COUNT(l.user_id) AS like_count
	FROM tweets t
	LEFT JOIN likes l ON l.tweet_id = t.id
	WHERE t.id = ?
	GROUP BY t.id;`

	var tweet warbler.Tweet
	err := r.db.GetContext(ctx, &tweet, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return warbler.Tweet{}, fmt.Errorf("tweet %q: %w", id, warbler.ErrNotFound)
	}
	if err != nil {
		return warbler.Tweet{}, fmt.Errorf("error fetching tweet: %s", err)
	}

	return tweet, nil
}

// DeleteTweet removes the tweet and cascades to its likes and media rows.
func (r Repo) DeleteTweet(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %s", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM likes WHERE tweet_id = ?;`, id); err != nil {
		return fmt.Errorf("error deleting likes for tweet: %s", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM media WHERE tweet_id = ?;`, id); err != nil {
		return fmt.Errorf("error deleting media for tweet: %s", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM tweets WHERE id = ?;`, id)
	if err != nil {
		return fmt.Errorf("error deleting tweet: %s", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking tweet delete: %s", err)
	}
	if n == 0 {
		return fmt.Errorf("tweet %q: %w", id, warbler.ErrNotFound)
	}

	return tx.Commit()
}

// TweetsByAuthors fetches every tweet authored by any of the given users in a
// single query, with the current like count aggregated in. This is the bulk
// access backing feed assembly; it is never issued per author.
func (r Repo) TweetsByAuthors(ctx context.Context, authorIDs []string) ([]warbler.Tweet, error) {
	if len(authorIDs) == 0 {
		return []warbler.Tweet{}, nil
	}

	query, args, err := sq.
		Select("t.id", "t.author_id", "t.content", "t.created_at", "COUNT(l.user_id) AS like_count").
		From("tweets t").
		LeftJoin("likes l ON l.tweet_id = t.id").
		Where(sq.Eq{"t.author_id": authorIDs}).
		GroupBy("t.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error constructing sql: %s", err)
	}

	var tweets []warbler.Tweet
	if err := r.db.SelectContext(ctx, &tweets, query, args...); err != nil {
		return nil, fmt.Errorf("error fetching tweets by authors: %s", err)
	}

	return tweets, nil
}

func (r Repo) InsertMedia(ctx context.Context, fileName string, contentType string) (warbler.Media, error) {
	const q = `INSERT INTO media (id, file_name, content_type, created_at)
	VALUES (:id, :file_name, :content_type, :created_at);`

	m := warbler.Media{
		ID:          uuid.NewString() + mediaNamespace,
		FileName:    fileName,
		ContentType: contentType,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := r.db.NamedExecContext(ctx, q, m); err != nil {
		return warbler.Media{}, fmt.Errorf("error inserting media: %s", err)
	}

	return m, nil
}

func (r Repo) Media(ctx context.Context, id string) (warbler.Media, error) {
	const q = `SELECT * FROM media WHERE id = ?;`

	var m warbler.Media
	err := r.db.GetContext(ctx, &m, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return warbler.Media{}, fmt.Errorf("media %q: %w", id, warbler.ErrNotFound)
	}
	if err != nil {
		return warbler.Media{}, fmt.Errorf("error fetching media: %s", err)
	}

	return m, nil
}

func (r Repo) MediaForTweets(ctx context.Context, tweetIDs []string) ([]warbler.Media, error) {
	if len(tweetIDs) == 0 {
		return []warbler.Media{}, nil
	}

	query, args, err := sq.Select("*").From("media").
		Where(sq.Eq{"tweet_id": tweetIDs}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error constructing sql: %s", err)
	}

	var media []warbler.Media
	if err := r.db.SelectContext(ctx, &media, query, args...); err != nil {
		return nil, fmt.Errorf("error fetching media for tweets: %s", err)
	}

	return media, nil
}
