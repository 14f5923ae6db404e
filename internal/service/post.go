package service

import (
	"context"
	"strings"

	"github.com/modushop/backend/internal/db"
	"github.com/modushop/backend/internal/model"
)

type PostService struct {
	repo *db.Postgres
}

func NewPostService(repo *db.Postgres) *PostService {
	return &PostService{repo: repo}
}

func (s *PostService) Create(ctx context.Context, req model.PostUpsertRequest) (*model.Post, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.CreatePost(ctx, &model.Post{
		Title:      strings.TrimSpace(req.Title),
		Summary:    req.Summary,
		Content:    req.Content,
		CoverImage: req.CoverImage,
		Published:  req.Published,
	})
}

func (s *PostService) Update(ctx context.Context, id int64, req model.PostUpsertRequest) (*model.Post, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return nil, ErrInvalidInput
	}
	post, err := s.repo.UpdatePost(ctx, &model.Post{
		ID:         id,
		Title:      strings.TrimSpace(req.Title),
		Summary:    req.Summary,
		Content:    req.Content,
		CoverImage: req.CoverImage,
		Published:  req.Published,
	})
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return post, nil
}

// Get returns the post; unpublished posts are only visible with includeDrafts.
func (s *PostService) Get(ctx context.Context, id int64, includeDrafts bool) (*model.Post, error) {
	post, err := s.repo.GetPost(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !post.Published && !includeDrafts {
		return nil, ErrNotFound
	}
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, id int64) error {
	return s.repo.DeletePost(ctx, id)
}

func (s *PostService) List(ctx context.Context, publishedOnly bool, page, pageSize int) (*model.PostPage, error) {
	page, pageSize = normalizePage(page, pageSize)
	items, total, err := s.repo.ListPosts(ctx, publishedOnly, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return &model.PostPage{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}
