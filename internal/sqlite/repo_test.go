package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warbler-social/warbler/internal/migrations"
	"github.com/warbler-social/warbler/internal/warbler"
)

func newTestRepo(t *testing.T) Repo {
	t.Helper()

	dbx, err := sqlx.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { dbx.Close() })

	require.NoError(t, migrations.Run(dbx))

	return New(dbx)
}

func seedUser(t *testing.T, r Repo, handle string) warbler.User {
	t.Helper()

	usr, err := r.InsertUser(context.Background(), warbler.User{Handle: handle})
	require.NoError(t, err)

	return usr
}

func TestUsers(t *testing.T) {
	var (
		ctx = context.Background()
		r   = newTestRepo(t)
	)

	usr := seedUser(t, r, "alice")
	require.NotEmpty(t, usr.ID)
	require.NotEmpty(t, usr.APIKey)

	got, err := r.User(ctx, usr.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Handle)

	byKey, err := r.UserByAPIKey(ctx, usr.APIKey)
	require.NoError(t, err)
	assert.Equal(t, usr.ID, byKey.ID)

	_, err = r.User(ctx, "missing-usr")
	assert.ErrorIs(t, err, warbler.ErrNotFound)

	// Handles are unique.
	_, err = r.InsertUser(ctx, warbler.User{Handle: "alice"})
	assert.ErrorIs(t, err, warbler.ErrConflict)
}

func TestFollowGraph(t *testing.T) {
	var (
		ctx = context.Background()
		r   = newTestRepo(t)

		alice = seedUser(t, r, "alice")
		bob   = seedUser(t, r, "bob")
		carol = seedUser(t, r, "carol")
	)

	require.NoError(t, r.Follow(ctx, alice.ID, bob.ID))
	require.NoError(t, r.Follow(ctx, alice.ID, carol.ID))

	followees, err := r.FolloweeIDs(ctx, alice.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{bob.ID, carol.ID}, followees)

	followers, err := r.FollowerIDs(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{alice.ID}, followers)

	// No self-follows, no duplicate edges, no edges to ghosts.
	assert.ErrorIs(t, r.Follow(ctx, alice.ID, alice.ID), warbler.ErrConflict)
	assert.ErrorIs(t, r.Follow(ctx, alice.ID, bob.ID), warbler.ErrConflict)
	assert.ErrorIs(t, r.Follow(ctx, alice.ID, "missing-usr"), warbler.ErrNotFound)

	require.NoError(t, r.Unfollow(ctx, alice.ID, bob.ID))
	assert.ErrorIs(t, r.Unfollow(ctx, alice.ID, bob.ID), warbler.ErrNotFound)

	followees, err = r.FolloweeIDs(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{carol.ID}, followees)
}

func TestTweetsAndLikes(t *testing.T) {
	var (
		ctx = context.Background()
		r   = newTestRepo(t)

		alice = seedUser(t, r, "alice")
		bob   = seedUser(t, r, "bob")
		carol = seedUser(t, r, "carol")
	)

	t1, err := r.InsertTweet(ctx, bob.ID, "first", nil)
	require.NoError(t, err)
	t2, err := r.InsertTweet(ctx, carol.ID, "second", nil)
	require.NoError(t, err)

	require.NoError(t, r.Like(ctx, alice.ID, t1.ID))
	require.NoError(t, r.Like(ctx, carol.ID, t1.ID))
	require.NoError(t, r.Like(ctx, alice.ID, t2.ID))

	// A user likes a given tweet at most once.
	assert.ErrorIs(t, r.Like(ctx, alice.ID, t1.ID), warbler.ErrConflict)
	assert.ErrorIs(t, r.Like(ctx, alice.ID, "missing-twt"), warbler.ErrNotFound)

	tweets, err := r.TweetsByAuthors(ctx, []string{bob.ID, carol.ID})
	require.NoError(t, err)
	require.Len(t, tweets, 2)

	counts := map[string]int{}
	for _, tw := range tweets {
		counts[tw.ID] = tw.LikeCount
	}
	assert.Equal(t, 2, counts[t1.ID])
	assert.Equal(t, 1, counts[t2.ID])

	require.NoError(t, r.Unlike(ctx, carol.ID, t1.ID))
	assert.ErrorIs(t, r.Unlike(ctx, carol.ID, t1.ID), warbler.ErrNotFound)

	got, err := r.Tweet(ctx, t1.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikeCount)
}

func TestInsertTweet_AttachesMedia(t *testing.T) {
	var (
		ctx = context.Background()
		r   = newTestRepo(t)

		bob = seedUser(t, r, "bob")
	)

	m, err := r.InsertMedia(ctx, "photo.png", "image/png")
	require.NoError(t, err)

	tw, err := r.InsertTweet(ctx, bob.ID, "with photo", []string{m.ID})
	require.NoError(t, err)

	media, err := r.MediaForTweets(ctx, []string{tw.ID})
	require.NoError(t, err)
	require.Len(t, media, 1)
	assert.Equal(t, m.ID, media[0].ID)

	// A claimed media id can't be attached again.
	_, err = r.InsertTweet(ctx, bob.ID, "reuses photo", []string{m.ID})
	assert.ErrorIs(t, err, warbler.ErrNotFound)

	// Unknown media rolls the whole tweet back.
	_, err = r.InsertTweet(ctx, bob.ID, "bad media", []string{"missing-md"})
	assert.ErrorIs(t, err, warbler.ErrNotFound)
	tweets, err := r.TweetsByAuthors(ctx, []string{bob.ID})
	require.NoError(t, err)
	assert.Len(t, tweets, 1)
}

func TestDeleteTweet_Cascades(t *testing.T) {
	var (
		ctx = context.Background()
		r   = newTestRepo(t)

		alice = seedUser(t, r, "alice")
		bob   = seedUser(t, r, "bob")
	)

	m, err := r.InsertMedia(ctx, "photo.png", "image/png")
	require.NoError(t, err)
	tw, err := r.InsertTweet(ctx, bob.ID, "doomed", []string{m.ID})
	require.NoError(t, err)
	require.NoError(t, r.Like(ctx, alice.ID, tw.ID))

	require.NoError(t, r.DeleteTweet(ctx, tw.ID))

	_, err = r.Tweet(ctx, tw.ID)
	assert.ErrorIs(t, err, warbler.ErrNotFound)
	_, err = r.Media(ctx, m.ID)
	assert.ErrorIs(t, err, warbler.ErrNotFound)
	assert.ErrorIs(t, r.Unlike(ctx, alice.ID, tw.ID), warbler.ErrNotFound)

	assert.ErrorIs(t, r.DeleteTweet(ctx, tw.ID), warbler.ErrNotFound)
}
