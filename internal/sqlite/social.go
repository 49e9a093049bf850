package sqlite

import (
	"context"
	"fmt"

	"github.com/warbler-social/warbler/internal/warbler"
)

// Usually not a fan of this pattern, but it keeps the compiler honest about
// the repo covering the social surface.
var _ warbler.SocialService = (*Repo)(nil)

func (r Repo) Follow(ctx context.Context, followerID, followeeID string) error {
	if followerID == followeeID {
		return fmt.Errorf("user cannot follow themselves: %w", warbler.ErrConflict)
	}

	// The followee has to exist; the follower is the authenticated caller.
	if _, err := r.User(ctx, followeeID); err != nil {
		return err
	}

	const q = `INSERT INTO follows (follower_id, followee_id) VALUES (?, ?);`
	_, err := r.db.ExecContext(ctx, q, followerID, followeeID)
	if isConstraintErr(err, sqliteConstraintPrimaryKey, sqliteConstraintUnique) {
		return fmt.Errorf("already following %q: %w", followeeID, warbler.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("error creating follow edge: %s", err)
	}

	return nil
}

func (r Repo) Unfollow(ctx context.Context, followerID, followeeID string) error {
	if _, err := r.User(ctx, followeeID); err != nil {
		return err
	}

	const q = `DELETE FROM follows WHERE follower_id = ? AND followee_id = ?;`
	res, err := r.db.ExecContext(ctx, q, followerID, followeeID)
	if err != nil {
		return fmt.Errorf("error deleting follow edge: %s", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking follow delete: %s", err)
	}
	if n == 0 {
		return fmt.Errorf("not following %q: %w", followeeID, warbler.ErrNotFound)
	}

	return nil
}

// FolloweeIDs reads the current follow set for a user. The query is indexed
// on follower_id, so cost tracks the user's edge count rather than graph size.
func (r Repo) FolloweeIDs(ctx context.Context, followerID string) ([]string, error) {
	const q = `SELECT followee_id FROM follows WHERE follower_id = ?;`

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, q, followerID); err != nil {
		return nil, fmt.Errorf("error selecting followees: %s", err)
	}

	return ids, nil
}

func (r Repo) FollowerIDs(ctx context.Context, followeeID string) ([]string, error) {
	const q = `SELECT follower_id FROM follows WHERE followee_id = ?;`

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, q, followeeID); err != nil {
		return nil, fmt.Errorf("error selecting followers: %s", err)
	}

	return ids, nil
}

func (r Repo) Like(ctx context.Context, userID, tweetID string) error {
	if _, err := r.Tweet(ctx, tweetID); err != nil {
		return err
	}

	const q = `INSERT INTO likes (user_id, tweet_id) VALUES (?, ?);`
	_, err := r.db.ExecContext(ctx, q, userID, tweetID)
	if isConstraintErr(err, sqliteConstraintPrimaryKey, sqliteConstraintUnique) {
		return fmt.Errorf("tweet %q already liked: %w", tweetID, warbler.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("error inserting like: %s", err)
	}

	return nil
}

func (r Repo) Unlike(ctx context.Context, userID, tweetID string) error {
	const q = `DELETE FROM likes WHERE user_id = ? AND tweet_id = ?;`

	res, err := r.db.ExecContext(ctx, q, userID, tweetID)
	if err != nil {
		return fmt.Errorf("error deleting like: %s", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking like delete: %s", err)
	}
	if n == 0 {
		return fmt.Errorf("like on tweet %q: %w", tweetID, warbler.ErrNotFound)
	}

	return nil
}
