package repository

import (
	"context"

	"github.com/dmarkova/go-blog-platform/internal/domain/entity"
)

// PostRepository defines post persistence. Create, Update and Delete each run
// as a single transaction covering the post row and its post_tags rows, so a
// partially written tag set is never observable. Listings return posts newest
// first (created_at DESC, id DESC) with tags materialized.
type PostRepository interface {
	Create(ctx context.Context, p *entity.Post, tagIDs []int64) error
	GetByID(ctx context.Context, id int64) (*entity.Post, error)
	// Update replaces title, content and category, and rebuilds the tag set
	// from tagIDs (full replace, not a merge).
	Update(ctx context.Context, p *entity.Post, tagIDs []int64) error
	Delete(ctx context.Context, id int64) error
	ListNewest(ctx context.Context, limit int) ([]entity.Post, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]entity.Post, error)
	ListByTag(ctx context.Context, tagID int64) ([]entity.Post, error)
}
