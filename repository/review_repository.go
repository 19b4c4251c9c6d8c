package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/Kusanagi/models"
	"gorm.io/gorm"
)

// ReviewRepositoryImpl implements ReviewRepository interface
type ReviewRepositoryImpl struct {
	*BaseRepository[models.Review, models.ReviewFilter]
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &ReviewRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Review, models.ReviewFilter](db),
	}
}

// ListByBlog retrieves all reviews of a blog with their authors, newest first
func (r *ReviewRepositoryImpl) ListByBlog(ctx context.Context, blogID uint) ([]*models.Review, error) {
	db := r.getDB(ctx)

	var rows []*models.Review
	err := db.Model(&models.Review{}).
		Preload("User").
		Where("blog_id = ?", blogID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for blog %d: %w", blogID, err)
	}
	return rows, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *ReviewRepositoryImpl) applyFilter(query *gorm.DB, filter models.ReviewFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.BlogID != nil {
		query = query.Where("blog_id = ?", *filter.BlogID)
	}
	if filter.Rating != nil {
		query = query.Where("rating = ?", *filter.Rating)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves reviews based on filter criteria
func (r *ReviewRepositoryImpl) ByFilter(ctx context.Context, filter models.ReviewFilter, orderBy string, limit, offset int) ([]*models.Review, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Review{}), filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Review
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of reviews matching the filter
func (r *ReviewRepositoryImpl) Count(ctx context.Context, filter models.ReviewFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Review{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any review matching the filter exists
func (r *ReviewRepositoryImpl) Exists(ctx context.Context, filter models.ReviewFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
