package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/titan-observatory/internal/config"
	"github.com/spec-kit/titan-observatory/internal/domain"
	"github.com/spec-kit/titan-observatory/internal/events"
	"github.com/spec-kit/titan-observatory/internal/newsletter"
	"github.com/spec-kit/titan-observatory/internal/repository"
)

func testConfig(invite string, admins ...string) config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			Secret:                "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            bcrypt.MinCost,
			MinPasswordLength:     config.DefaultMinPasswordLength,
			InviteCode:            invite,
			AdminEmails:           admins,
		},
	}
}

// fakeUserRepo is an in-memory store with a unique email constraint.
type fakeUserRepo struct {
	mu     sync.Mutex
	byID   map[string]*domain.User
	nextID int

	reads  int
	writes int

	getErr error
	// hideOnLookup makes GetByEmail miss existing rows, as a concurrent
	// registration would observe before the other insert commits.
	hideOnLookup bool
	createErr    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]*domain.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.byID {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	f.nextID++
	user.ID = fmt.Sprintf("u-%d", f.nextID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	f.byID[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if u, ok := f.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.hideOnLookup {
		return nil, pgx.ErrNoRows
	}
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) ops() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads, f.writes
}

func (f *fakeUserRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

// fakePostRepo is an in-memory post store with a unique slug constraint.
type fakePostRepo struct {
	posts  map[string]*domain.Post
	nextID int
	lists  int
	err    error
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[string]*domain.Post{}}
}

func (f *fakePostRepo) List(context.Context) ([]domain.Post, error) {
	f.lists++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.Post, 0, len(f.posts))
	for _, p := range f.posts {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakePostRepo) GetBySlug(_ context.Context, slug string) (*domain.Post, error) {
	for _, p := range f.posts {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakePostRepo) GetByID(_ context.Context, id string) (*domain.Post, error) {
	if p, ok := f.posts[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakePostRepo) Create(_ context.Context, post *domain.Post) error {
	if f.err != nil {
		return f.err
	}
	for _, p := range f.posts {
		if p.Slug == post.Slug {
			return repository.ErrDuplicateSlug
		}
	}
	f.nextID++
	post.ID = fmt.Sprintf("p-%d", f.nextID)
	post.CreatedAt = time.Now().Add(time.Duration(f.nextID) * time.Second)
	post.UpdatedAt = post.CreatedAt
	cp := *post
	f.posts[post.ID] = &cp
	return nil
}

func (f *fakePostRepo) Update(_ context.Context, post *domain.Post) error {
	if _, ok := f.posts[post.ID]; !ok {
		return pgx.ErrNoRows
	}
	for id, p := range f.posts {
		if id != post.ID && p.Slug == post.Slug {
			return repository.ErrDuplicateSlug
		}
	}
	post.UpdatedAt = time.Now()
	cp := *post
	f.posts[post.ID] = &cp
	return nil
}

func (f *fakePostRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.posts[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.posts, id)
	return nil
}

// fakePostCache holds one cached list.
type fakePostCache struct {
	posts       []domain.Post
	set         bool
	getErr      error
	invalidated int
}

func (f *fakePostCache) GetPosts(context.Context) ([]domain.Post, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	return f.posts, f.set, nil
}

func (f *fakePostCache) SetPosts(_ context.Context, posts []domain.Post) error {
	f.posts, f.set = posts, true
	return nil
}

func (f *fakePostCache) Invalidate(context.Context) error {
	f.posts, f.set = nil, false
	f.invalidated++
	return nil
}

type fakeNewsletterClient struct {
	requests []newsletter.DoubleOptInRequest
	err      error
}

func (f *fakeNewsletterClient) RequestDoubleOptIn(_ context.Context, req newsletter.DoubleOptInRequest) error {
	f.requests = append(f.requests, req)
	return f.err
}

// recordingDispatcher keeps every published event.
type recordingDispatcher struct {
	events.Dispatcher
	published []events.Event
}

func newRecordingDispatcher() *recordingDispatcher {
	return &recordingDispatcher{Dispatcher: events.NewInMemoryDispatcher()}
}

func (r *recordingDispatcher) Publish(ctx context.Context, event events.Event) error {
	r.published = append(r.published, event)
	return r.Dispatcher.Publish(ctx, event)
}
