package application

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmarkova/go-blog-platform/internal/domain/entity"
	repo "github.com/dmarkova/go-blog-platform/internal/domain/repository"
)

// In-memory repository fakes backing the service tests. They enforce the
// same contracts as the postgres implementations (unique constraints,
// ErrNotFound, newest-first ordering with id as tie-breaker).

type memUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[int64]entity.User)}
}

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ex := range r.users {
		if ex.Username == u.Username || ex.Email == u.Email {
			return repo.ErrConflict
		}
	}
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = time.Now().UTC()
	r.users[u.ID] = *u
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &u, nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *memUserRepo) delete(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

type memCategoryRepo struct {
	categories map[int64]entity.Category
}

func (r *memCategoryRepo) GetByID(_ context.Context, id int64) (*entity.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &c, nil
}

func (r *memCategoryRepo) List(_ context.Context) ([]entity.Category, error) {
	out := make([]entity.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memTagRepo struct {
	tags map[int64]entity.Tag
}

func (r *memTagRepo) GetByID(_ context.Context, id int64) (*entity.Tag, error) {
	t, ok := r.tags[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &t, nil
}

func (r *memTagRepo) GetByIDs(_ context.Context, ids []int64) ([]entity.Tag, error) {
	out := make([]entity.Tag, 0, len(ids))
	for _, id := range ids {
		if t, ok := r.tags[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memTagRepo) List(_ context.Context) ([]entity.Tag, error) {
	out := make([]entity.Tag, 0, len(r.tags))
	for _, t := range r.tags {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memPostRepo struct {
	mu     sync.Mutex
	nextID int64
	posts  map[int64]entity.Post
	tags   *memTagRepo
	// now stamps created_at; tests override it to force ordering ties.
	now func() time.Time
	// failWrite, when set, runs before Create/Update and may fail the write.
	// Tests use it to simulate races the database would report.
	failWrite func() error
}

func newMemPostRepo(tags *memTagRepo) *memPostRepo {
	return &memPostRepo{
		posts: make(map[int64]entity.Post),
		tags:  tags,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *memPostRepo) materialize(tagIDs []int64) []entity.Tag {
	out := make([]entity.Tag, 0, len(tagIDs))
	for _, id := range tagIDs {
		if t, ok := r.tags.tags[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

func (r *memPostRepo) Create(_ context.Context, p *entity.Post, tagIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWrite != nil {
		if err := r.failWrite(); err != nil {
			return err
		}
	}
	r.nextID++
	p.ID = r.nextID
	p.CreatedAt = r.now()
	stored := *p
	stored.Tags = r.materialize(tagIDs)
	r.posts[p.ID] = stored
	return nil
}

func (r *memPostRepo) GetByID(_ context.Context, id int64) (*entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &p, nil
}

func (r *memPostRepo) Update(_ context.Context, p *entity.Post, tagIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWrite != nil {
		if err := r.failWrite(); err != nil {
			return err
		}
	}
	stored, ok := r.posts[p.ID]
	if !ok {
		return repo.ErrNotFound
	}
	stored.Title = p.Title
	stored.Content = p.Content
	stored.CategoryID = p.CategoryID
	stored.Tags = r.materialize(tagIDs)
	r.posts[p.ID] = stored
	return nil
}

func (r *memPostRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *memPostRepo) sortedDesc(filter func(entity.Post) bool) []entity.Post {
	out := make([]entity.Post, 0, len(r.posts))
	for _, p := range r.posts {
		if filter == nil || filter(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r *memPostRepo) ListNewest(_ context.Context, limit int) ([]entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.sortedDesc(nil)
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memPostRepo) ListByCategory(_ context.Context, categoryID int64) ([]entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sortedDesc(func(p entity.Post) bool { return p.CategoryID == categoryID }), nil
}

func (r *memPostRepo) ListByTag(_ context.Context, tagID int64) ([]entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sortedDesc(func(p entity.Post) bool {
		for _, t := range p.Tags {
			if t.ID == tagID {
				return true
			}
		}
		return false
	}), nil
}

var (
	_ repo.UserRepository     = (*memUserRepo)(nil)
	_ repo.CategoryRepository = (*memCategoryRepo)(nil)
	_ repo.TagRepository      = (*memTagRepo)(nil)
	_ repo.PostRepository     = (*memPostRepo)(nil)
)
