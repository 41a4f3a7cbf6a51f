package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/titan-observatory/internal/domain"
)

// ErrDuplicateSlug is returned when another post already uses the slug.
var ErrDuplicateSlug = errors.New("slug already exists")

// PostRepository manages blog post persistence.
type PostRepository interface {
	List(ctx context.Context) ([]domain.Post, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Post, error)
	GetByID(ctx context.Context, id string) (*domain.Post, error)
	Create(ctx context.Context, post *domain.Post) error
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id string) error
}

type postRepository struct {
	db DBTX
}

// NewPostRepository constructs repository.
func NewPostRepository(db DBTX) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `p.id, p.title, p.slug, p.content, p.author_id, u.name, p.created_at, p.updated_at`

func (r *postRepository) List(ctx context.Context) ([]domain.Post, error) {
	const query = `
        SELECT ` + postColumns + `
        FROM posts p LEFT JOIN users u ON u.id = p.author_id
        ORDER BY p.created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *post)
	}
	return result, rows.Err()
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	const query = `
        SELECT ` + postColumns + `
        FROM posts p LEFT JOIN users u ON u.id = p.author_id
        WHERE p.slug=$1`
	return scanPost(r.db.QueryRow(ctx, query, slug))
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	const query = `
        SELECT ` + postColumns + `
        FROM posts p LEFT JOIN users u ON u.id = p.author_id
        WHERE p.id=$1`
	if !isUUID(id) {
		return nil, pgx.ErrNoRows
	}
	return scanPost(r.db.QueryRow(ctx, query, id))
}

func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	const query = `
        INSERT INTO posts (title, slug, content, author_id)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		post.Title,
		post.Slug,
		post.Content,
		post.AuthorID,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if isUniqueViolation(err, "posts_slug_key") {
		return ErrDuplicateSlug
	}
	return err
}

func (r *postRepository) Update(ctx context.Context, post *domain.Post) error {
	const query = `
        UPDATE posts SET title=$1, slug=$2, content=$3, updated_at=NOW()
        WHERE id=$4
        RETURNING updated_at`
	err := r.db.QueryRow(ctx, query,
		post.Title,
		post.Slug,
		post.Content,
		post.ID,
	).Scan(&post.UpdatedAt)
	if isUniqueViolation(err, "posts_slug_key") {
		return ErrDuplicateSlug
	}
	return err
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM posts WHERE id=$1`
	if !isUUID(id) {
		return pgx.ErrNoRows
	}
	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanPost(row pgx.Row) (*domain.Post, error) {
	var post domain.Post
	if err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Slug,
		&post.Content,
		&post.AuthorID,
		&post.AuthorName,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &post, nil
}
