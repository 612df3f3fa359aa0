package userservice

import (
	"context"
	"database/sql"
	"errors"
)

var (
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrNotFound          = errors.New("user not found")
)

func newUserModel(db *sql.DB) *DBModel {
	return &DBModel{db: db}
}

func (m *DBModel) insertUser(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (username, name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	args := []any{
		u.Username,
		u.Name,
		u.Password.hash,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		switch {
		case err.Error() == "pq: duplicate key value violates unique constraint \"users_username_key\"":
			return ErrDuplicateUsername
		default:
			return err
		}
	}
	return nil
}

func (m *DBModel) getUserByUsername(ctx context.Context, username string) (*User, error) {
	query := `
		SELECT id, username, name, password_hash, created_at, updated_at
		FROM users
		WHERE username = $1`

	var u User

	err := m.db.QueryRowContext(ctx, query, username).Scan(&u.ID, &u.Username, &u.Name, &u.Password.hash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

func (m *DBModel) getUserById(ctx context.Context, id int) (*User, error) {
	query := `
		SELECT id, username, name, created_at, updated_at
		FROM users
		WHERE id = $1`

	var u User

	err := m.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Username, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

// getUsers returns every user with the ids of the blogs it owns. The back
// reference set keeps insertion order via user_blogs.added_at.
func (m *DBModel) getUsers(ctx context.Context) ([]User, error) {
	query := `
		SELECT u.id, u.username, u.name, u.created_at, u.updated_at, ub.blog_id
		FROM users u
		LEFT JOIN user_blogs ub ON u.id = ub.user_id
		ORDER BY u.id, ub.added_at, ub.blog_id`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		var u User
		var blogID sql.NullInt64

		err := rows.Scan(&u.ID, &u.Username, &u.Name, &u.CreatedAt, &u.UpdatedAt, &blogID)
		if err != nil {
			return nil, err
		}

		if len(users) == 0 || users[len(users)-1].ID != u.ID {
			u.Blogs = []int{}
			users = append(users, u)
		}

		if blogID.Valid {
			last := &users[len(users)-1]
			last.Blogs = append(last.Blogs, int(blogID.Int64))
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}
