package businessflow

import (
	"context"

	"github.com/amirphl/Kusanagi/app/dto"
	"github.com/amirphl/Kusanagi/models"
	"github.com/amirphl/Kusanagi/repository"
	"github.com/amirphl/Kusanagi/utils"
	"gorm.io/gorm"
)

// ReviewFlow handles posting and listing reviews on blogs. Reviews are
// create-only; there is no edit or delete path.
type ReviewFlow interface {
	CreateReview(ctx context.Context, userID uint, blogSlug string, req *dto.CreateReviewRequest) (*dto.ReviewDTO, error)
	ListReviews(ctx context.Context, blogSlug string) ([]dto.ReviewDTO, error)
}

// ReviewFlowImpl implements the review business flow
type ReviewFlowImpl struct {
	reviewRepo repository.ReviewRepository
	blogRepo   repository.BlogRepository
	userRepo   repository.UserRepository
	db         *gorm.DB
}

// NewReviewFlow creates a new review flow instance
func NewReviewFlow(reviewRepo repository.ReviewRepository, blogRepo repository.BlogRepository, userRepo repository.UserRepository, db *gorm.DB) ReviewFlow {
	return &ReviewFlowImpl{
		reviewRepo: reviewRepo,
		blogRepo:   blogRepo,
		userRepo:   userRepo,
		db:         db,
	}
}

// CreateReview posts a review on the blog identified by slug
func (r *ReviewFlowImpl) CreateReview(ctx context.Context, userID uint, blogSlug string, req *dto.CreateReviewRequest) (*dto.ReviewDTO, error) {
	if req.Rating != nil && (*req.Rating < models.MinReviewRating || *req.Rating > models.MaxReviewRating) {
		return nil, NewBusinessError("REVIEW_CREATE_FAILED", "Failed to create review", ErrRatingOutOfRange)
	}

	blog, err := r.blogRepo.BySlug(ctx, blogSlug, nil)
	if err != nil {
		return nil, NewBusinessError("REVIEW_CREATE_FAILED", "Failed to create review", err)
	}
	if blog == nil {
		return nil, NewBusinessError("REVIEW_CREATE_FAILED", "Failed to create review", ErrBlogNotFound)
	}

	review := &models.Review{
		UserID:    userID,
		BlogID:    blog.ID,
		Comment:   req.Comment,
		Rating:    req.Rating,
		CreatedAt: utils.UTCNow(),
	}
	if err := r.reviewRepo.Save(ctx, review); err != nil {
		return nil, NewBusinessError("REVIEW_CREATE_FAILED", "Failed to create review", err)
	}

	user, err := r.userRepo.ByID(ctx, userID)
	if err == nil && user != nil {
		review.User = *user
	}

	out := ToReviewDTO(*review)
	return &out, nil
}

// ListReviews returns all reviews of the blog identified by slug
func (r *ReviewFlowImpl) ListReviews(ctx context.Context, blogSlug string) ([]dto.ReviewDTO, error) {
	blog, err := r.blogRepo.BySlug(ctx, blogSlug, nil)
	if err != nil {
		return nil, NewBusinessError("REVIEW_LIST_FAILED", "Failed to list reviews", err)
	}
	if blog == nil {
		return nil, NewBusinessError("REVIEW_LIST_FAILED", "Failed to list reviews", ErrBlogNotFound)
	}

	reviews, err := r.reviewRepo.ListByBlog(ctx, blog.ID)
	if err != nil {
		return nil, NewBusinessError("REVIEW_LIST_FAILED", "Failed to list reviews", err)
	}

	out := make([]dto.ReviewDTO, 0, len(reviews))
	for _, review := range reviews {
		out = append(out, ToReviewDTO(*review))
	}
	return out, nil
}
