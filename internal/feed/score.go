package feed

import "github.com/warbler-social/warbler/internal/warbler"

// Score computes a tweet's popularity from its engagement counts as they
// stand at query time. It is a pure function: no stored score column, no
// drift between a cached counter and the likes relation.
//
// Monotonic in likes: adding a like never lowers the score, removing one
// never raises it. Ties are expected and broken by the aggregator's sort,
// not here.
func Score(t warbler.Tweet) float64 {
	return float64(t.LikeCount)
}
