package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warbler-social/warbler/internal/warbler"
)

func TestCursorRoundTrip(t *testing.T) {
	codec := testCodec()
	cur := cursor{Score: 7, CreatedAt: 1714842000000000000, ID: "t3"}

	token, err := codec.encode(cur)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := codec.decode(token)
	require.NoError(t, err)
	assert.Equal(t, cur, got)
}

func TestCursorDecode_Garbage(t *testing.T) {
	_, err := testCodec().decode("not-a-token")
	assert.ErrorIs(t, err, warbler.ErrInvalidCursor)
}

func TestCursorDecode_WrongKey(t *testing.T) {
	token, err := testCodec().encode(cursor{Score: 1, ID: "t1"})
	require.NoError(t, err)

	other := NewCursorCodec([]byte("ffffffffffffffffffffffffffffffff"))
	_, err = other.decode(token)
	assert.ErrorIs(t, err, warbler.ErrInvalidCursor)
}

func TestCursorBefore(t *testing.T) {
	tests := []struct {
		name string
		a, b cursor
		want bool
	}{
		{
			name: "higher score first",
			a:    cursor{Score: 7, CreatedAt: 1, ID: "z"},
			b:    cursor{Score: 5, CreatedAt: 9, ID: "a"},
			want: true,
		},
		{
			name: "equal score, newer first",
			a:    cursor{Score: 5, CreatedAt: 9, ID: "z"},
			b:    cursor{Score: 5, CreatedAt: 1, ID: "a"},
			want: true,
		},
		{
			name: "equal score and time, lower id first",
			a:    cursor{Score: 5, CreatedAt: 1, ID: "a"},
			b:    cursor{Score: 5, CreatedAt: 1, ID: "b"},
			want: true,
		},
		{
			name: "identical keys",
			a:    cursor{Score: 5, CreatedAt: 1, ID: "a"},
			b:    cursor{Score: 5, CreatedAt: 1, ID: "a"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.before(tt.b))
			if tt.want {
				assert.False(t, tt.b.before(tt.a))
			}
		})
	}
}
