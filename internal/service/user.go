package service

import (
	"context"
	"strings"

	"github.com/modushop/backend/internal/db"
	"github.com/modushop/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	repo *db.Postgres
}

func NewUserService(repo *db.Postgres) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) GetProfile(ctx context.Context, userID int64) (*model.UserProfile, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	profile := user.Profile()
	return &profile, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int64, name string) (*model.UserProfile, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 64 {
		return nil, ErrInvalidInput
	}
	if err := s.repo.UpdateUserProfile(ctx, userID, name); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, userID)
}

// ChangePassword verifies the current password before writing the new hash.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return ErrNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return ErrUnauthorized
	}
	if !passwordStrong(next) {
		return ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdateUserPassword(ctx, userID, string(hash))
}

func (s *UserService) List(ctx context.Context, page, pageSize int) (*model.UserPage, error) {
	page, pageSize = normalizePage(page, pageSize)
	users, total, err := s.repo.ListUsers(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	profiles := make([]model.UserProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].Profile())
	}
	return &model.UserPage{Items: profiles, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *UserService) SetRoles(ctx context.Context, userID int64, roles []string) error {
	if len(roles) == 0 {
		return ErrInvalidInput
	}
	for _, role := range roles {
		if role != RoleAdmin && role != RoleUser {
			return ErrInvalidInput
		}
	}
	return s.repo.UpdateUserRoles(ctx, userID, roles)
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
