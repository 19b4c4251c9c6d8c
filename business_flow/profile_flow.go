package businessflow

import (
	"context"
	"fmt"

	"github.com/amirphl/Kusanagi/app/dto"
	"github.com/amirphl/Kusanagi/repository"
	"github.com/amirphl/Kusanagi/utils"
	"gorm.io/gorm"
)

// ProfileFlow handles profile retrieval and updates
type ProfileFlow interface {
	GetProfile(ctx context.Context, userID uint) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uint, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
}

// ProfileFlowImpl implements the profile business flow
type ProfileFlowImpl struct {
	userRepo repository.UserRepository
	blogRepo repository.BlogRepository
	db       *gorm.DB
}

// NewProfileFlow creates a new profile flow instance
func NewProfileFlow(userRepo repository.UserRepository, blogRepo repository.BlogRepository, db *gorm.DB) ProfileFlow {
	return &ProfileFlowImpl{
		userRepo: userRepo,
		blogRepo: blogRepo,
		db:       db,
	}
}

// GetProfile returns the user along with their own blogs
func (p *ProfileFlowImpl) GetProfile(ctx context.Context, userID uint) (*dto.ProfileResponse, error) {
	user, err := p.userRepo.ByID(ctx, userID)
	if err != nil {
		return nil, NewBusinessError("PROFILE_FETCH_FAILED", "Failed to fetch profile", err)
	}
	if user == nil {
		return nil, NewBusinessError("PROFILE_FETCH_FAILED", "Failed to fetch profile", ErrUserNotFound)
	}

	blogs, err := p.blogRepo.List(ctx, repository.BlogQuery{
		ViewerID: &userID,
		UserID:   &userID,
	})
	if err != nil {
		return nil, NewBusinessError("PROFILE_FETCH_FAILED", "Failed to fetch profile", err)
	}

	return &dto.ProfileResponse{
		User:  ToAuthUserDTO(*user),
		Blogs: ToBlogDTOs(blogs),
	}, nil
}

// UpdateProfile applies the provided fields and returns the fresh profile
func (p *ProfileFlowImpl) UpdateProfile(ctx context.Context, userID uint, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	user, err := p.userRepo.ByID(ctx, userID)
	if err != nil {
		return nil, NewBusinessError("PROFILE_UPDATE_FAILED", "Failed to update profile", err)
	}
	if user == nil {
		return nil, NewBusinessError("PROFILE_UPDATE_FAILED", "Failed to update profile", ErrUserNotFound)
	}

	if req.Email != nil && *req.Email != user.Email {
		existing, err := p.userRepo.ByEmail(ctx, *req.Email)
		if err != nil {
			return nil, NewBusinessError("PROFILE_UPDATE_FAILED", "Failed to update profile", fmt.Errorf("failed to check email uniqueness: %w", err))
		}
		if existing != nil {
			return nil, NewBusinessError("PROFILE_UPDATE_FAILED", "Failed to update profile", ErrEmailAlreadyExists)
		}
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	user.UpdatedAt = utils.UTCNow()

	if err := p.userRepo.Update(ctx, user); err != nil {
		return nil, NewBusinessError("PROFILE_UPDATE_FAILED", "Failed to update profile", err)
	}

	return p.GetProfile(ctx, userID)
}
