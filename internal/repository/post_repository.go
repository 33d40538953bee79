package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Post mirrors the 'posts' table. Every post belongs to exactly one user;
// edit and delete require an ownership match in the handler layer.
type Post struct {
	ID        uint64
	Title     string
	Content   string
	Location  float64
	UserID    uint64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PostRepo encapsulates all database queries related to posts.
type PostRepo struct{ DB *sql.DB }

func NewPostRepo(db *sql.DB) *PostRepo { return &PostRepo{DB: db} }

// Create inserts a new post. On success the post's ID, CreatedAt and
// UpdatedAt fields are populated so callers receive a full record.
func (r *PostRepo) Create(ctx context.Context, p *Post) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO posts (title, content, location, user_id) VALUES (?,?,?,?)",
		p.Title, p.Content, p.Location, p.UserID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)

	// Follow-up SELECT to populate default timestamp columns.
	return r.DB.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM posts WHERE id=?",
		p.ID).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// GetByID fetches a post by its ID regardless of owner.
func (r *PostRepo) GetByID(ctx context.Context, id uint64) (Post, error) {
	var p Post
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,title,content,location,user_id,created_at,updated_at FROM posts WHERE id=? LIMIT 1",
		id).Scan(&p.ID, &p.Title, &p.Content, &p.Location, &p.UserID, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Post{}, ErrPostNotFound
	}
	return p, err
}

// ListAll returns every post ordered by id.
func (r *PostRepo) ListAll(ctx context.Context) ([]Post, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,title,content,location,user_id,created_at,updated_at FROM posts ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.Location, &p.UserID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update rewrites title and content of a post. Ownership is checked by the
// handler before calling; the repository applies the change unconditionally.
func (r *PostRepo) Update(ctx context.Context, id uint64, title, content string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE posts SET title=?, content=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		title, content, id)
	return err
}

// Delete removes a post row.
func (r *PostRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM posts WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPostNotFound
	}
	return nil
}
