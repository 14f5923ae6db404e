package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/modushop/backend/internal/db"
	"github.com/modushop/backend/internal/model"
)

var slugCleanRx = regexp.MustCompile(`[^a-z0-9]+`)

type CategoryService struct {
	repo *db.Postgres
}

func NewCategoryService(repo *db.Postgres) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) Create(ctx context.Context, req model.CategoryUpsertRequest) (*model.Category, error) {
	if req.ParentID != nil {
		if _, err := s.repo.GetCategory(ctx, *req.ParentID); err != nil {
			if db.IsNoRows(err) {
				return nil, ErrInvalidInput
			}
			return nil, err
		}
	}

	created, err := s.repo.CreateCategory(ctx, &model.Category{
		Name:     strings.TrimSpace(req.Name),
		Slug:     Slugify(firstNonEmpty(req.Slug, req.Name)),
		ParentID: req.ParentID,
		Sort:     req.Sort,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return created, nil
}

func (s *CategoryService) Update(ctx context.Context, id int64, req model.CategoryUpsertRequest) (*model.Category, error) {
	if req.ParentID != nil && *req.ParentID == id {
		return nil, ErrInvalidInput
	}

	updated, err := s.repo.UpdateCategory(ctx, &model.Category{
		ID:       id,
		Name:     strings.TrimSpace(req.Name),
		Slug:     Slugify(firstNonEmpty(req.Slug, req.Name)),
		ParentID: req.ParentID,
		Sort:     req.Sort,
	})
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

// Delete refuses to remove a category that still has children or products.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	children, err := s.repo.CountChildCategories(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return ErrCategoryInUse
	}

	products, err := s.repo.CountProductsInCategory(ctx, id)
	if err != nil {
		return err
	}
	if products > 0 {
		return ErrCategoryInUse
	}

	return s.repo.DeleteCategory(ctx, id)
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.repo.ListCategories(ctx)
}

// Tree assembles the flat category rows into parent/child nodes. Rows whose
// parent is missing are lifted to the root rather than dropped.
func (s *CategoryService) Tree(ctx context.Context) ([]*model.CategoryNode, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return BuildCategoryTree(categories), nil
}

func BuildCategoryTree(categories []model.Category) []*model.CategoryNode {
	nodes := make(map[int64]*model.CategoryNode, len(categories))
	for i := range categories {
		nodes[categories[i].ID] = &model.CategoryNode{Category: categories[i], Children: []*model.CategoryNode{}}
	}

	roots := []*model.CategoryNode{}
	for i := range categories {
		node := nodes[categories[i].ID]
		if categories[i].ParentID != nil {
			if parent, ok := nodes[*categories[i].ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}

func Slugify(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	value = slugCleanRx.ReplaceAllString(value, "-")
	return strings.Trim(value, "-")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
