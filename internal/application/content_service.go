package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dmarkova/go-blog-platform/internal/domain/entity"
	repo "github.com/dmarkova/go-blog-platform/internal/domain/repository"
)

// ContentService owns post CRUD and the read-only listings. Write operations
// require an authenticated caller, enforced at the router; there is no
// per-author ownership — any authenticated user may edit or delete any post.
type ContentService struct {
	Posts      repo.PostRepository
	Categories repo.CategoryRepository
	Tags       repo.TagRepository
	Logger     *logrus.Logger
}

func NewContentService(posts repo.PostRepository, categories repo.CategoryRepository, tags repo.TagRepository, logger *logrus.Logger) *ContentService {
	return &ContentService{Posts: posts, Categories: categories, Tags: tags, Logger: logger}
}

// PostInput carries the full state of a post for create and edit. Edits are
// full-replace: the stored tag set is rebuilt from TagIDs, not merged.
type PostInput struct {
	Title      string
	Content    string
	CategoryID int64
	TagIDs     []int64
}

// resolveTags validates that every id in tagIDs names an existing tag and
// returns them in input order. An unresolved id fails with ErrTagNotFound
// rather than being silently dropped.
func (s *ContentService) resolveTags(ctx context.Context, tagIDs []int64) ([]entity.Tag, error) {
	ids := dedupeIDs(tagIDs)
	tags, err := s.Tags.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, ErrTagNotFound
	}
	return tags, nil
}

func (s *ContentService) validateInput(ctx context.Context, in PostInput) ([]entity.Tag, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" {
		return nil, ErrValidation
	}
	if _, err := s.Categories.GetByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return s.resolveTags(ctx, in.TagIDs)
}

// CreatePost persists a new post owned by in.CategoryID and associated with
// each tag in in.TagIDs.
func (s *ContentService) CreatePost(ctx context.Context, in PostInput) (*entity.Post, error) {
	tags, err := s.validateInput(ctx, in)
	if err != nil {
		return nil, err
	}

	p := &entity.Post{Title: in.Title, Content: in.Content, CategoryID: in.CategoryID}
	if err := s.Posts.Create(ctx, p, tagIDsOf(tags)); err != nil {
		return nil, s.writeErr(ctx, in, err)
	}
	p.Tags = tags

	s.Logger.WithFields(logrus.Fields{"post_id": p.ID, "category_id": p.CategoryID}).Info("post created")
	return p, nil
}

// EditPost replaces title, content, category and the whole tag set of the
// identified post.
func (s *ContentService) EditPost(ctx context.Context, postID int64, in PostInput) (*entity.Post, error) {
	p, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	tags, err := s.validateInput(ctx, in)
	if err != nil {
		return nil, err
	}

	p.Title = in.Title
	p.Content = in.Content
	p.CategoryID = in.CategoryID
	if err := s.Posts.Update(ctx, p, tagIDsOf(tags)); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, s.writeErr(ctx, in, err)
	}
	p.Tags = tags

	s.Logger.WithField("post_id", p.ID).Info("post updated")
	return p, nil
}

// DeletePost removes the post and all its tag associations.
func (s *ContentService) DeletePost(ctx context.Context, postID int64) error {
	if err := s.Posts.Delete(ctx, postID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	s.Logger.WithField("post_id", postID).Info("post deleted")
	return nil
}

func (s *ContentService) GetPost(ctx context.Context, postID int64) (*entity.Post, error) {
	p, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListNewest returns posts newest first. limit <= 0 returns all.
func (s *ContentService) ListNewest(ctx context.Context, limit int) ([]entity.Post, error) {
	return s.Posts.ListNewest(ctx, limit)
}

func (s *ContentService) ListByCategory(ctx context.Context, categoryID int64) (*entity.Category, []entity.Post, error) {
	c, err := s.Categories.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil, ErrCategoryNotFound
		}
		return nil, nil, err
	}
	posts, err := s.Posts.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, nil, err
	}
	return c, posts, nil
}

func (s *ContentService) ListByTag(ctx context.Context, tagID int64) (*entity.Tag, []entity.Post, error) {
	t, err := s.Tags.GetByID(ctx, tagID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil, ErrTagNotFound
		}
		return nil, nil, err
	}
	posts, err := s.Posts.ListByTag(ctx, tagID)
	if err != nil {
		return nil, nil, err
	}
	return t, posts, nil
}

// ListCategories feeds the new/edit post forms.
func (s *ContentService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	return s.Categories.List(ctx)
}

// ListTags feeds the new/edit post forms.
func (s *ContentService) ListTags(ctx context.Context) ([]entity.Tag, error) {
	return s.Tags.List(ctx)
}

// writeErr resolves a failed post write. The repositories surface a broken
// category or tag reference as ErrInvalidReference; that can only happen when
// the row vanished between validateInput and the write, so re-checking the
// category tells the two apart.
func (s *ContentService) writeErr(ctx context.Context, in PostInput, err error) error {
	if !errors.Is(err, repo.ErrInvalidReference) {
		return err
	}
	if _, lookupErr := s.Categories.GetByID(ctx, in.CategoryID); lookupErr != nil {
		return ErrCategoryNotFound
	}
	return ErrTagNotFound
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func tagIDsOf(tags []entity.Tag) []int64 {
	ids := make([]int64, 0, len(tags))
	for _, t := range tags {
		ids = append(ids, t.ID)
	}
	return ids
}
