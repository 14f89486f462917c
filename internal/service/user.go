package service

import (
	"context"

	"github.com/aidar/nexus-api/internal/domain"
	"github.com/aidar/nexus-api/internal/repository"
)

const defaultUsersPageLimit = 20

// UserService handles business logic for user profiles
type UserService struct {
	userRepo  repository.UserRepository
	swipeRepo repository.SwipeRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, swipeRepo repository.SwipeRepository) *UserService {
	return &UserService{
		userRepo:  userRepo,
		swipeRepo: swipeRepo,
	}
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// Me returns the caller's own profile together with the skip list, oldest skip first
func (s *UserService) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	skipped, err := s.swipeRepo.SkippedProjectIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.SkippedProjects = skipped

	return user, nil
}

// List returns a page of users
func (s *UserService) List(ctx context.Context, pageNum, limit int) (*domain.PageResult[*domain.User], error) {
	page := domain.NewPage(pageNum, limit, defaultUsersPageLimit)

	users, total, err := s.userRepo.List(ctx, page)
	if err != nil {
		return nil, err
	}

	return &domain.PageResult[*domain.User]{Items: users, Total: total, Page: page}, nil
}

// UpdateProfile applies a partial profile update to the caller's own record
func (s *UserService) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	update.Apply(user)

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
