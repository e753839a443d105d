package repositories

import (
	"context"
)

// UserRepository persists users by unique username.
type UserRepository struct{ named }

// newUserRepository creates a [UserRepository].
func newUserRepository(b base) *UserRepository {
	return &UserRepository{named{base: b, entity: "user", table: "users", column: "username"}}
}

// Exists reports whether a user with the username is present.
func (r *UserRepository) Exists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "SELECT id FROM users WHERE username = ?", username)
}

// List returns every username in ascending order.
func (r *UserRepository) List(ctx context.Context) ([]string, error) {
	return queryStrings(ctx, r.base, "SELECT username FROM users ORDER BY username ASC")
}
