package repository

import (
	"context"

	"github.com/dmarkova/go-blog-platform/internal/domain/entity"
)

// CategoryRepository reads the pre-seeded category table.
type CategoryRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Category, error)
	List(ctx context.Context) ([]entity.Category, error)
}

// TagRepository reads the pre-seeded tag table.
type TagRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Tag, error)
	// GetByIDs resolves the given ids, preserving input order. Ids that do
	// not resolve are simply absent from the result.
	GetByIDs(ctx context.Context, ids []int64) ([]entity.Tag, error)
	List(ctx context.Context) ([]entity.Tag, error)
}
