package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrUserForeignKey = errors.New("user_id does not exist")
)

func newBlogModel(db *sql.DB) *BlogModel {
	return &BlogModel{db: db}
}

// ForeignKeyError is a helper function to check if the error is a foreign key constraint error.
func ForeignKeyError(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23503" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

// insert creates the blog row and appends its id to the owner's blog set in a
// single transaction. Both writes commit together or roll back together.
func (m *BlogModel) insert(ctx context.Context, blog *Blog, userID int) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO blogs (title, author, url, likes, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err = tx.QueryRowContext(ctx, query, blog.Title, blog.Author, blog.URL, blog.Likes, userID).Scan(&blog.ID, &blog.CreatedAt, &blog.UpdatedAt)
	if err != nil {
		_ = tx.Rollback()
		switch {
		case ForeignKeyError(err, "blogs_user_id_fkey"):
			return ErrUserForeignKey
		default:
			return err
		}
	}

	_, err = tx.ExecContext(ctx, "INSERT INTO user_blogs (user_id, blog_id) VALUES ($1, $2)", userID, blog.ID)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func scanBlog(row interface{ Scan(...any) error }) (*Blog, error) {
	var blog Blog
	var ownerID sql.NullInt64
	var ownerUsername, ownerName sql.NullString

	err := row.Scan(&blog.ID, &blog.Title, &blog.Author, &blog.URL, &blog.Likes, &blog.CreatedAt, &blog.UpdatedAt, &ownerID, &ownerUsername, &ownerName)
	if err != nil {
		return nil, err
	}

	if ownerID.Valid {
		blog.Owner = &Owner{
			ID:       int(ownerID.Int64),
			Username: ownerUsername.String,
			Name:     ownerName.String,
		}
	}

	return &blog, nil
}

// getBlogById joins the users table so that the owner projection can be
// populated without a second query.
func (m *BlogModel) getBlogById(ctx context.Context, id int) (*Blog, error) {
	query := `
		SELECT b.id, b.title, b.author, b.url, b.likes, b.created_at, b.updated_at, u.id, u.username, u.name
		FROM blogs b
		LEFT JOIN users u ON b.user_id = u.id
		WHERE b.id = $1`

	blog, err := scanBlog(m.db.QueryRowContext(ctx, query, id))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return blog, nil
}

func (m *BlogModel) getBlogs(ctx context.Context) ([]Blog, error) {
	query := `
		SELECT b.id, b.title, b.author, b.url, b.likes, b.created_at, b.updated_at, u.id, u.username, u.name
		FROM blogs b
		LEFT JOIN users u ON b.user_id = u.id
		ORDER BY b.created_at DESC, b.id DESC`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blogs := []Blog{}
	for rows.Next() {
		blog, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, *blog)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return blogs, nil
}

func (m *BlogModel) updateBlog(ctx context.Context, id int, title, author, url string, likes int) (*Blog, error) {
	query := `
		UPDATE blogs
		SET title = $1, author = $2, url = $3, likes = $4, updated_at = NOW()
		WHERE id = $5`

	res, err := m.db.ExecContext(ctx, query, title, author, url, likes, id)
	if err != nil {
		return nil, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}

	if rows == 0 {
		return nil, ErrRecordNotFound
	}

	return m.getBlogById(ctx, id)
}

// deleteBlog removes the blog row and its owner back-reference in a single
// transaction. The user_id filter keeps a stale ownership check from deleting
// a blog that changed hands between the load and the delete.
func (m *BlogModel) deleteBlog(ctx context.Context, blogId, userId int) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM user_blogs WHERE blog_id = $1 AND user_id = $2", blogId, userId)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM blogs WHERE id = $1 AND user_id = $2", blogId, userId)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	if rows != 1 {
		_ = tx.Rollback()
		switch {
		case rows == 0:
			return ErrRecordNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return tx.Commit()
}
