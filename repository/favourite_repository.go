package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/Kusanagi/models"
	"gorm.io/gorm"
)

// FavouriteRepositoryImpl implements FavouriteRepository interface
type FavouriteRepositoryImpl struct {
	*BaseRepository[models.Favourite, models.FavouriteFilter]
}

// NewFavouriteRepository creates a new favourite repository
func NewFavouriteRepository(db *gorm.DB) FavouriteRepository {
	return &FavouriteRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Favourite, models.FavouriteFilter](db),
	}
}

// ByUserAndBlog retrieves the favourite row for a (user, blog) pair
func (r *FavouriteRepositoryImpl) ByUserAndBlog(ctx context.Context, userID, blogID uint) (*models.Favourite, error) {
	filter := models.FavouriteFilter{UserID: &userID, BlogID: &blogID}
	rows, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find favourite: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// DeleteByUserAndBlog removes the favourite for a (user, blog) pair and
// returns how many rows were deleted (0 when the pair was absent).
func (r *FavouriteRepositoryImpl) DeleteByUserAndBlog(ctx context.Context, userID, blogID uint) (int64, error) {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return 0, err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	result := db.Where("user_id = ? AND blog_id = ?", userID, blogID).Delete(&models.Favourite{})
	if result.Error != nil {
		err = result.Error
		return 0, fmt.Errorf("failed to delete favourite: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *FavouriteRepositoryImpl) applyFilter(query *gorm.DB, filter models.FavouriteFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.BlogID != nil {
		query = query.Where("blog_id = ?", *filter.BlogID)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves favourites based on filter criteria
func (r *FavouriteRepositoryImpl) ByFilter(ctx context.Context, filter models.FavouriteFilter, orderBy string, limit, offset int) ([]*models.Favourite, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Favourite{}), filter)

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

	var rows []*models.Favourite
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of favourites matching the filter
func (r *FavouriteRepositoryImpl) Count(ctx context.Context, filter models.FavouriteFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Favourite{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any favourite matching the filter exists
func (r *FavouriteRepositoryImpl) Exists(ctx context.Context, filter models.FavouriteFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
