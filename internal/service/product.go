package service

import (
	"context"
	"strings"

	"github.com/modushop/backend/internal/db"
	"github.com/modushop/backend/internal/model"
)

type ProductService struct {
	repo *db.Postgres
}

func NewProductService(repo *db.Postgres) *ProductService {
	return &ProductService{repo: repo}
}

func (s *ProductService) Create(ctx context.Context, req model.ProductUpsertRequest) (*model.Product, error) {
	product, err := s.validated(ctx, req)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return created, nil
}

func (s *ProductService) Update(ctx context.Context, id int64, req model.ProductUpsertRequest) (*model.Product, error) {
	product, err := s.validated(ctx, req)
	if err != nil {
		return nil, err
	}
	product.ID = id

	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		if db.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return updated, nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (*model.Product, error) {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteProduct(ctx, id)
}

func (s *ProductService) List(ctx context.Context, q model.ProductListQuery) (*model.ProductPage, error) {
	q.Page, q.PageSize = normalizePage(q.Page, q.PageSize)

	items, total, err := s.repo.ListProducts(ctx, q)
	if err != nil {
		return nil, err
	}
	return &model.ProductPage{
		Items:    items,
		Total:    total,
		Page:     q.Page,
		PageSize: q.PageSize,
	}, nil
}

func (s *ProductService) validated(ctx context.Context, req model.ProductUpsertRequest) (*model.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || req.PriceCents < 0 || req.Stock < 0 {
		return nil, ErrInvalidInput
	}

	if req.CategoryID != nil {
		if _, err := s.repo.GetCategory(ctx, *req.CategoryID); err != nil {
			if db.IsNoRows(err) {
				return nil, ErrInvalidInput
			}
			return nil, err
		}
	}

	images := req.Images
	if images == nil {
		images = []string{}
	}

	return &model.Product{
		Name:        name,
		Slug:        Slugify(firstNonEmpty(req.Slug, req.Name)),
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		Images:      images,
		OnSale:      req.OnSale,
	}, nil
}
