// Package warbler holds the domain types and service surfaces for the
// microblog: users, tweets, media, likes, and the follow graph.
package warbler

import "errors"

var (
	ErrConflict = errors.New("resource already exists")
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidCursor means a page token was malformed or tampered with.
	// Callers should restart pagination from the first page.
	ErrInvalidCursor = errors.New("invalid page cursor")
)

// Repository is the full persistence surface backing the services.
type Repository interface {
	UserService
	TweetService
	SocialService
	MediaService
}
