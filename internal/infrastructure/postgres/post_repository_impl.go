package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmarkova/go-blog-platform/internal/domain/entity"
	"github.com/dmarkova/go-blog-platform/internal/domain/repository"
)

// PostRepository persists posts and their tag associations. Every write runs
// in a single transaction so the post row and its post_tags rows commit or
// roll back together.
type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post, tagIDs []int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		INSERT INTO posts (title, content, category_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, p.Title, p.Content, p.CategoryID)
	if err := row.Scan(&p.ID, &p.CreatedAt); err != nil {
		// The only FK on the insert is the category reference.
		if isForeignKeyViolation(err) {
			return repository.ErrInvalidReference
		}
		return err
	}

	if err := insertPostTags(ctx, tx, p.ID, tagIDs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PostRepository) GetByID(ctx context.Context, id int64) (*entity.Post, error) {
	p := &entity.Post{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, title, content, created_at, category_id
		FROM posts
		WHERE id = $1
	`, id)
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.CreatedAt, &p.CategoryID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	tagsByPost, err := r.tagsForPosts(ctx, []int64{p.ID})
	if err != nil {
		return nil, err
	}
	p.Tags = tagsByPost[p.ID]
	return p, nil
}

func (r *PostRepository) Update(ctx context.Context, p *entity.Post, tagIDs []int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	res, err := tx.Exec(ctx, `
		UPDATE posts
		SET title = $1, content = $2, category_id = $3
		WHERE id = $4
	`, p.Title, p.Content, p.CategoryID, p.ID)
	if err != nil {
		// A vanished category is not a vanished post.
		if isForeignKeyViolation(err) {
			return repository.ErrInvalidReference
		}
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	// Full replace of the tag set.
	if _, err := tx.Exec(ctx, `DELETE FROM post_tags WHERE post_id = $1`, p.ID); err != nil {
		return err
	}
	if err := insertPostTags(ctx, tx, p.ID, tagIDs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM post_tags WHERE post_id = $1`, id); err != nil {
		return err
	}
	res, err := tx.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return tx.Commit(ctx)
}

func (r *PostRepository) ListNewest(ctx context.Context, limit int) ([]entity.Post, error) {
	q := `
		SELECT id, title, content, created_at, category_id
		FROM posts
		ORDER BY created_at DESC, id DESC
	`
	var rows pgx.Rows
	var err error
	if limit > 0 {
		rows, err = r.pool.Query(ctx, q+` LIMIT $1`, limit)
	} else {
		rows, err = r.pool.Query(ctx, q)
	}
	if err != nil {
		return nil, err
	}
	return r.collectPosts(ctx, rows)
}

func (r *PostRepository) ListByCategory(ctx context.Context, categoryID int64) ([]entity.Post, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, content, created_at, category_id
		FROM posts
		WHERE category_id = $1
		ORDER BY created_at DESC, id DESC
	`, categoryID)
	if err != nil {
		return nil, err
	}
	return r.collectPosts(ctx, rows)
}

func (r *PostRepository) ListByTag(ctx context.Context, tagID int64) ([]entity.Post, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.title, p.content, p.created_at, p.category_id
		FROM posts p
		JOIN post_tags pt ON pt.post_id = p.id
		WHERE pt.tag_id = $1
		ORDER BY p.created_at DESC, p.id DESC
	`, tagID)
	if err != nil {
		return nil, err
	}
	return r.collectPosts(ctx, rows)
}

func (r *PostRepository) collectPosts(ctx context.Context, rows pgx.Rows) ([]entity.Post, error) {
	defer rows.Close()

	var posts []entity.Post
	var ids []int64
	for rows.Next() {
		var p entity.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.CreatedAt, &p.CategoryID); err != nil {
			return nil, err
		}
		posts = append(posts, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return posts, nil
	}

	tagsByPost, err := r.tagsForPosts(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].Tags = tagsByPost[posts[i].ID]
	}
	return posts, nil
}

// tagsForPosts materializes the tag sets for the given post ids in one query.
func (r *PostRepository) tagsForPosts(ctx context.Context, postIDs []int64) (map[int64][]entity.Tag, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT pt.post_id, t.id, t.name
		FROM post_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id = ANY($1)
		ORDER BY pt.post_id, t.id
	`, postIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]entity.Tag)
	for rows.Next() {
		var postID int64
		var t entity.Tag
		if err := rows.Scan(&postID, &t.ID, &t.Name); err != nil {
			return nil, err
		}
		out[postID] = append(out[postID], t)
	}
	return out, rows.Err()
}

func insertPostTags(ctx context.Context, tx pgx.Tx, postID int64, tagIDs []int64) error {
	for _, tagID := range tagIDs {
		_, err := tx.Exec(ctx, `
			INSERT INTO post_tags (post_id, tag_id)
			VALUES ($1, $2)
			ON CONFLICT (post_id, tag_id) DO NOTHING
		`, postID, tagID)
		if err != nil {
			// The post row was written in this transaction, so the only FK
			// that can trip here is the tag reference.
			if isForeignKeyViolation(err) {
				return repository.ErrInvalidReference
			}
			return err
		}
	}
	return nil
}

var _ repository.PostRepository = (*PostRepository)(nil)
