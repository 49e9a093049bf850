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

const userNamespace = "-usr"

func (r Repo) InsertUser(ctx context.Context, usr warbler.User) (warbler.User, error) {
	const q = `INSERT INTO users (id, api_key, handle, name, created_at)
	VALUES (:id, :api_key, :handle, :name, :created_at);`

	usr.ID = uuid.NewString() + userNamespace
	if usr.APIKey == "" {
		usr.APIKey = uuid.NewString()
	}
	usr.CreatedAt = time.Now().UTC()

	_, err := r.db.NamedExecContext(ctx, q, usr)
	if isConstraintErr(err, sqliteConstraintUnique) {
		return warbler.User{}, fmt.Errorf("handle %q is taken: %w", usr.Handle, warbler.ErrConflict)
	}
	if err != nil {
		return warbler.User{}, fmt.Errorf("error inserting user: %s", err)
	}

	return r.User(ctx, usr.ID)
}

func (r Repo) User(ctx context.Context, id string) (warbler.User, error) {
	const q = `SELECT * FROM users WHERE id = ?;`

	var usr warbler.User
	err := r.db.GetContext(ctx, &usr, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return warbler.User{}, fmt.Errorf("user %q: %w", id, warbler.ErrNotFound)
	}
	if err != nil {
		return warbler.User{}, fmt.Errorf("error fetching user: %s", err)
	}

	return usr, nil
}

func (r Repo) UserByAPIKey(ctx context.Context, apiKey string) (warbler.User, error) {
	const q = `SELECT * FROM users WHERE api_key = ?;`

	var usr warbler.User
	err := r.db.GetContext(ctx, &usr, q, apiKey)
	if errors.Is(err, sql.ErrNoRows) {
		return warbler.User{}, warbler.ErrNotFound
	}
	if err != nil {
		return warbler.User{}, fmt.Errorf("error fetching user by api key: %s", err)
	}

	return usr, nil
}

func (r Repo) UsersByIDs(ctx context.Context, ids []string) ([]warbler.User, error) {
	if len(ids) == 0 {
		return []warbler.User{}, nil
	}

	query, args, err := sq.Select("*").From("users").Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error constructing sql: %s", err)
	}

	var users []warbler.User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("error fetching users: %s", err)
	}

	return users, nil
}
