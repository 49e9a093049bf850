package warbler

import (
	"context"
	"time"
)

type UserService interface {
	InsertUser(ctx context.Context, usr User) (User, error)
	User(ctx context.Context, id string) (User, error)
	UserByAPIKey(ctx context.Context, apiKey string) (User, error)
	UsersByIDs(ctx context.Context, ids []string) ([]User, error)
}

type User struct {
	ID        string    `db:"id"`
	APIKey    string    `db:"api_key"`
	Handle    string    `db:"handle"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}
