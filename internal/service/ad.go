package service

import (
	"context"
	"strings"
	"time"

	"github.com/modushop/backend/internal/db"
	"github.com/modushop/backend/internal/model"
)

type AdvertisementService struct {
	repo *db.Postgres
}

func NewAdvertisementService(repo *db.Postgres) *AdvertisementService {
	return &AdvertisementService{repo: repo}
}

func (s *AdvertisementService) Create(ctx context.Context, req model.AdvertisementUpsertRequest) (*model.Advertisement, error) {
	ad, err := adFromRequest(req)
	if err != nil {
		return nil, err
	}
	return s.repo.CreateAdvertisement(ctx, ad)
}

func (s *AdvertisementService) Update(ctx context.Context, id int64, req model.AdvertisementUpsertRequest) (*model.Advertisement, error) {
	ad, err := adFromRequest(req)
	if err != nil {
		return nil, err
	}
	ad.ID = id

	updated, err := s.repo.UpdateAdvertisement(ctx, ad)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *AdvertisementService) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteAdvertisement(ctx, id)
}

func (s *AdvertisementService) List(ctx context.Context) ([]model.Advertisement, error) {
	return s.repo.ListAdvertisements(ctx)
}

// ListActive returns live ads, optionally narrowed to one placement slot.
func (s *AdvertisementService) ListActive(ctx context.Context, position string) ([]model.Advertisement, error) {
	return s.repo.ListActiveAdvertisements(ctx, strings.TrimSpace(position), time.Now())
}

func adFromRequest(req model.AdvertisementUpsertRequest) (*model.Advertisement, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.ImageURL) == "" || strings.TrimSpace(req.Position) == "" {
		return nil, ErrInvalidInput
	}

	startsAt := req.StartsAt
	if startsAt.IsZero() {
		startsAt = time.Now()
	}
	endsAt := req.EndsAt
	if endsAt.IsZero() {
		endsAt = startsAt.Add(365 * 24 * time.Hour)
	}
	if !endsAt.After(startsAt) {
		return nil, ErrInvalidInput
	}

	return &model.Advertisement{
		Title:    strings.TrimSpace(req.Title),
		ImageURL: strings.TrimSpace(req.ImageURL),
		LinkURL:  strings.TrimSpace(req.LinkURL),
		Position: strings.TrimSpace(req.Position),
		Sort:     req.Sort,
		Active:   req.Active,
		StartsAt: startsAt,
		EndsAt:   endsAt,
	}, nil
}
