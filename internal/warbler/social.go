package warbler

import "context"

// SocialService covers the follow graph and the likes relation.
type SocialService interface {
	// Follow creates the directed (follower, followee) edge. Self-follows
	// and duplicate edges are rejected.
	Follow(ctx context.Context, followerID, followeeID string) error
	Unfollow(ctx context.Context, followerID, followeeID string) error
	// FolloweeIDs returns who the given user currently follows. The result
	// is read fresh per call; an empty set is valid.
	FolloweeIDs(ctx context.Context, followerID string) ([]string, error)
	FollowerIDs(ctx context.Context, followeeID string) ([]string, error)

	// Like records that a user liked a tweet, at most once per pair.
	Like(ctx context.Context, userID, tweetID string) error
	Unlike(ctx context.Context, userID, tweetID string) error
}
