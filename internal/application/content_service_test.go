package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmarkova/go-blog-platform/internal/domain/entity"
	repo "github.com/dmarkova/go-blog-platform/internal/domain/repository"
)

func newContentFixture() (*ContentService, *memPostRepo) {
	categories := &memCategoryRepo{categories: map[int64]entity.Category{
		1: {ID: 1, Name: "General"},
		2: {ID: 2, Name: "Tech"},
	}}
	tags := &memTagRepo{tags: map[int64]entity.Tag{
		1: {ID: 1, Name: "go"},
		2: {ID: 2, Name: "web"},
		3: {ID: 3, Name: "db"},
	}}
	posts := newMemPostRepo(tags)
	return NewContentService(posts, categories, tags, testLogger()), posts
}

func tagNames(tags []entity.Tag) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.Name)
	}
	return out
}

func TestCreatePostRoundTrip(t *testing.T) {
	svc, _ := newContentFixture()
	ctx := context.Background()

	p, err := svc.CreatePost(ctx, PostInput{
		Title:      "First Post",
		Content:    "hello world",
		CategoryID: 2,
		TagIDs:     []int64{2, 1},
	})
	require.NoError(t, err)
	assert.Positive(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())

	got, err := svc.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "First Post", got.Title)
	assert.Equal(t, int64(2), got.CategoryID)
	// Tags come back in input order.
	assert.Equal(t, []string{"web", "go"}, tagNames(got.Tags))
}

func TestCreatePostNoTags(t *testing.T) {
	svc, _ := newContentFixture()

	p, err := svc.CreatePost(context.Background(), PostInput{
		Title:      "Untagged",
		Content:    "body",
		CategoryID: 1,
	})
	require.NoError(t, err)
	assert.Empty(t, p.Tags)
}

func TestCreatePostDedupesTags(t *testing.T) {
	svc, _ := newContentFixture()

	p, err := svc.CreatePost(context.Background(), PostInput{
		Title:      "Dupes",
		Content:    "body",
		CategoryID: 1,
		TagIDs:     []int64{1, 1, 2},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "web"}, tagNames(p.Tags))
}

func TestCreatePostValidation(t *testing.T) {
	svc, _ := newContentFixture()
	ctx := context.Background()

	_, err := svc.CreatePost(ctx, PostInput{Title: "  ", Content: "body", CategoryID: 1})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreatePost(ctx, PostInput{Title: "t", Content: "", CategoryID: 1})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreatePost(ctx, PostInput{Title: "t", Content: "b", CategoryID: 99})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	_, err = svc.CreatePost(ctx, PostInput{Title: "t", Content: "b", CategoryID: 1, TagIDs: []int64{1, 42}})
	assert.ErrorIs(t, err, ErrTagNotFound)
}

func TestEditPostReplacesTagSet(t *testing.T) {
	svc, _ := newContentFixture()
	ctx := context.Background()

	p, err := svc.CreatePost(ctx, PostInput{
		Title:      "Original",
		Content:    "body",
		CategoryID: 1,
		TagIDs:     []int64{1, 2},
	})
	require.NoError(t, err)

	edited, err := svc.EditPost(ctx, p.ID, PostInput{
		Title:      "Edited",
		Content:    "new body",
		CategoryID: 2,
		TagIDs:     []int64{3},
	})
	require.NoError(t, err)
	assert.Equal(t, "Edited", edited.Title)

	got, err := svc.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "new body", got.Content)
	assert.Equal(t, int64(2), got.CategoryID)
	assert.Equal(t, []string{"db"}, tagNames(got.Tags))
}

func TestEditPostMissing(t *testing.T) {
	svc, _ := newContentFixture()

	_, err := svc.EditPost(context.Background(), 404, PostInput{
		Title: "t", Content: "b", CategoryID: 1,
	})
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestDeletePost(t *testing.T) {
	svc, _ := newContentFixture()
	ctx := context.Background()

	p, err := svc.CreatePost(ctx, PostInput{Title: "t", Content: "b", CategoryID: 1, TagIDs: []int64{1}})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePost(ctx, p.ID))

	_, err = svc.GetPost(ctx, p.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
	assert.ErrorIs(t, svc.DeletePost(ctx, p.ID), ErrPostNotFound)
}

func TestDeletePostDropsFromListings(t *testing.T) {
	svc, _ := newContentFixture()
	ctx := context.Background()

	keep, err := svc.CreatePost(ctx, PostInput{Title: "keep", Content: "b", CategoryID: 1, TagIDs: []int64{1}})
	require.NoError(t, err)
	doomed, err := svc.CreatePost(ctx, PostInput{Title: "doomed", Content: "b", CategoryID: 1, TagIDs: []int64{1, 2}})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePost(ctx, doomed.ID))

	// The join rows go with the post: no tag it held lists it anymore.
	for _, tagID := range []int64{1, 2} {
		_, got, err := svc.ListByTag(ctx, tagID)
		require.NoError(t, err)
		for _, p := range got {
			assert.NotEqual(t, doomed.ID, p.ID, "tag %d still lists the deleted post", tagID)
		}
	}

	_, got, err := svc.ListByTag(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, keep.ID, got[0].ID)

	_, got, err = svc.ListByCategory(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, keep.ID, got[0].ID)
}

func TestWriteRaceOnVanishedReference(t *testing.T) {
	ctx := context.Background()

	// The store reports a broken reference after validation passed (the
	// category was deleted between the check and the write).
	t.Run("category vanishes mid-create", func(t *testing.T) {
		svc, posts := newContentFixture()
		categories := svc.Categories.(*memCategoryRepo)
		posts.failWrite = func() error {
			delete(categories.categories, 1)
			return repo.ErrInvalidReference
		}

		_, err := svc.CreatePost(ctx, PostInput{Title: "t", Content: "b", CategoryID: 1})
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})

	t.Run("tag vanishes mid-create", func(t *testing.T) {
		svc, posts := newContentFixture()
		posts.failWrite = func() error { return repo.ErrInvalidReference }

		_, err := svc.CreatePost(ctx, PostInput{Title: "t", Content: "b", CategoryID: 1, TagIDs: []int64{1}})
		assert.ErrorIs(t, err, ErrTagNotFound)
	})

	t.Run("category vanishes mid-edit", func(t *testing.T) {
		svc, posts := newContentFixture()
		p, err := svc.CreatePost(ctx, PostInput{Title: "t", Content: "b", CategoryID: 1})
		require.NoError(t, err)

		categories := svc.Categories.(*memCategoryRepo)
		posts.failWrite = func() error {
			delete(categories.categories, 2)
			return repo.ErrInvalidReference
		}
		_, err = svc.EditPost(ctx, p.ID, PostInput{Title: "t2", Content: "b2", CategoryID: 2})
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})
}

func TestListNewestOrderAndLimit(t *testing.T) {
	svc, posts := newContentFixture()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	stamp := base
	posts.now = func() time.Time { return stamp }

	var ids []int64
	for i, title := range []string{"a", "b", "c"} {
		stamp = base.Add(time.Duration(i) * time.Minute)
		p, err := svc.CreatePost(ctx, PostInput{Title: title, Content: "b", CategoryID: 1})
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	got, err := svc.ListNewest(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int64{ids[2], ids[1], ids[0]}, []int64{got[0].ID, got[1].ID, got[2].ID})

	got, err = svc.ListNewest(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, ids[2], got[0].ID)
}

func TestListNewestTieBreaksOnID(t *testing.T) {
	svc, posts := newContentFixture()
	ctx := context.Background()

	same := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	posts.now = func() time.Time { return same }

	p1, err := svc.CreatePost(ctx, PostInput{Title: "first", Content: "b", CategoryID: 1})
	require.NoError(t, err)
	p2, err := svc.CreatePost(ctx, PostInput{Title: "second", Content: "b", CategoryID: 1})
	require.NoError(t, err)

	got, err := svc.ListNewest(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, p2.ID, got[0].ID)
	assert.Equal(t, p1.ID, got[1].ID)
}

func TestListByCategory(t *testing.T) {
	svc, _ := newContentFixture()
	ctx := context.Background()

	_, err := svc.CreatePost(ctx, PostInput{Title: "general", Content: "b", CategoryID: 1})
	require.NoError(t, err)
	p2, err := svc.CreatePost(ctx, PostInput{Title: "tech", Content: "b", CategoryID: 2})
	require.NoError(t, err)

	cat, got, err := svc.ListByCategory(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Tech", cat.Name)
	require.Len(t, got, 1)
	assert.Equal(t, p2.ID, got[0].ID)

	_, _, err = svc.ListByCategory(ctx, 99)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestListByTag(t *testing.T) {
	svc, _ := newContentFixture()
	ctx := context.Background()

	p1, err := svc.CreatePost(ctx, PostInput{Title: "go post", Content: "b", CategoryID: 1, TagIDs: []int64{1}})
	require.NoError(t, err)
	_, err = svc.CreatePost(ctx, PostInput{Title: "web post", Content: "b", CategoryID: 1, TagIDs: []int64{2}})
	require.NoError(t, err)

	tag, got, err := svc.ListByTag(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "go", tag.Name)
	require.Len(t, got, 1)
	assert.Equal(t, p1.ID, got[0].ID)

	_, _, err = svc.ListByTag(ctx, 99)
	assert.ErrorIs(t, err, ErrTagNotFound)
}

func TestListTaxonomy(t *testing.T) {
	svc, _ := newContentFixture()
	ctx := context.Background()

	categories, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 2)

	tags, err := svc.ListTags(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 3)
}
