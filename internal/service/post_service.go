package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/titan-observatory/internal/cache"
	"github.com/spec-kit/titan-observatory/internal/domain"
	"github.com/spec-kit/titan-observatory/internal/events"
	"github.com/spec-kit/titan-observatory/internal/repository"
)

// Post validation reasons.
const (
	ReasonTitleRequired   = "Title is required"
	ReasonSlugInvalid     = "Slug must use lowercase letters, numbers, or hyphens"
	ReasonContentRequired = "Content cannot be empty"
)

var (
	// ErrPostNotFound is returned when no post matches the id or slug.
	ErrPostNotFound = errors.New("post not found")
	// ErrSlugTaken is returned when another post already uses the slug.
	ErrSlugTaken = errors.New("slug already in use")
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// PostInput is the editable part of a post.
type PostInput struct {
	Title   string
	Slug    string
	Content string
}

// NormalizePostInput trims the fields, lower-cases the slug and validates.
func NormalizePostInput(in PostInput) (PostInput, error) {
	out := PostInput{
		Title:   strings.TrimSpace(in.Title),
		Slug:    strings.ToLower(strings.TrimSpace(in.Slug)),
		Content: strings.TrimSpace(in.Content),
	}
	if err := validation.Validate(out.Title, validation.Required); err != nil {
		return PostInput{}, &ValidationError{Reason: ReasonTitleRequired}
	}
	if err := validation.Validate(out.Slug, validation.Required, validation.Match(slugPattern)); err != nil {
		return PostInput{}, &ValidationError{Reason: ReasonSlugInvalid}
	}
	if err := validation.Validate(out.Content, validation.Required); err != nil {
		return PostInput{}, &ValidationError{Reason: ReasonContentRequired}
	}
	return out, nil
}

// PostService coordinates blog workflows.
type PostService struct {
	posts      repository.PostRepository
	cache      cache.PostCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// PostDependencies bundles collaborators for the post service.
type PostDependencies struct {
	PostRepo   repository.PostRepository
	Cache      cache.PostCache
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewPostService constructs the service.
func NewPostService(deps PostDependencies) *PostService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	postCache := deps.Cache
	if postCache == nil {
		postCache = cache.NewRedisPostCache(nil, time.Minute)
	}
	return &PostService{
		posts:      deps.PostRepo,
		cache:      postCache,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// ListPosts returns every post, newest first. Cache failures fall through to
// the store.
func (s *PostService) ListPosts(ctx context.Context) ([]domain.Post, error) {
	cached, hit, err := s.cache.GetPosts(ctx)
	if err != nil {
		s.logger.Warn("post cache read failed", zap.Error(err))
	} else if hit {
		return cached, nil
	}

	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	if err := s.cache.SetPosts(ctx, posts); err != nil {
		s.logger.Warn("post cache write failed", zap.Error(err))
	}
	return posts, nil
}

// GetPost returns a post by slug.
func (s *PostService) GetPost(ctx context.Context, slug string) (*domain.Post, error) {
	post, err := s.posts.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

// CreatePost publishes a post authored by the given session user.
func (s *PostService) CreatePost(ctx context.Context, author domain.SessionUser, in PostInput) (*domain.Post, error) {
	normalized, err := NormalizePostInput(in)
	if err != nil {
		return nil, err
	}

	post := &domain.Post{
		Title:      normalized.Title,
		Slug:       normalized.Slug,
		Content:    normalized.Content,
		AuthorName: author.Name,
	}
	if author.ID != "" {
		authorID := author.ID
		post.AuthorID = &authorID
	}

	if err := s.posts.Create(ctx, post); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("create post: %w", err)
	}
	s.invalidate(ctx)

	if s.dispatcher != nil {
		event := events.NewEvent(events.EventPostPublished, post.ID, events.PostPublishedPayload{
			Slug:     post.Slug,
			Title:    post.Title,
			AuthorID: post.AuthorID,
		})
		if err := s.dispatcher.Publish(ctx, event); err != nil {
			s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
		}
	}
	return post, nil
}

// UpdatePost replaces the editable fields of an existing post.
func (s *PostService) UpdatePost(ctx context.Context, id string, in PostInput) (*domain.Post, error) {
	normalized, err := NormalizePostInput(in)
	if err != nil {
		return nil, err
	}

	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}

	post.Title = normalized.Title
	post.Slug = normalized.Slug
	post.Content = normalized.Content
	if err := s.posts.Update(ctx, post); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateSlug):
			return nil, ErrSlugTaken
		case errors.Is(err, pgx.ErrNoRows):
			return nil, ErrPostNotFound
		default:
			return nil, fmt.Errorf("update post: %w", err)
		}
	}
	s.invalidate(ctx)
	return post, nil
}

// DeletePost removes a post.
func (s *PostService) DeletePost(ctx context.Context, id string) error {
	if err := s.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrPostNotFound
		}
		return fmt.Errorf("delete post: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *PostService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("post cache invalidation failed", zap.Error(err))
	}
}
