package feed

import (
	"fmt"

	"github.com/gorilla/securecookie"

	"github.com/warbler-social/warbler/internal/warbler"
)

// The securecookie "name" under which cursors are encoded.
const cursorName = "feed_cursor"

// cursor is the sort key of the last item a page returned. Pagination
// resumes strictly after this position in the (score desc, created_at desc,
// id asc) order, which keeps pages stable when new tweets land at the tail.
type cursor struct {
	Score     float64
	CreatedAt int64 // unix nanos
	ID        string
}

// before reports whether a sorts ahead of b in feed order.
func (a cursor) before(b cursor) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.CreatedAt != b.CreatedAt {
		return a.CreatedAt > b.CreatedAt
	}
	return a.ID < b.ID
}

// CursorCodec turns cursors into opaque, MAC-signed page tokens and back.
// A token that fails to decode was malformed or tampered with; either way
// the caller gets [warbler.ErrInvalidCursor] and restarts from page one.
type CursorCodec struct {
	sc *securecookie.SecureCookie
}

func NewCursorCodec(hashKey []byte) CursorCodec {
	return CursorCodec{sc: securecookie.New(hashKey, nil)}
}

func (c CursorCodec) encode(cur cursor) (string, error) {
	token, err := c.sc.Encode(cursorName, cur)
	if err != nil {
		return "", fmt.Errorf("error encoding cursor: %s", err)
	}

	return token, nil
}

func (c CursorCodec) decode(token string) (cursor, error) {
	var cur cursor
	if err := c.sc.Decode(cursorName, token, &cur); err != nil {
		return cursor{}, fmt.Errorf("%s: %w", err, warbler.ErrInvalidCursor)
	}

	return cur, nil
}
