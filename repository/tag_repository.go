package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/Kusanagi/models"
	"gorm.io/gorm"
)

// TagRepositoryImpl implements TagRepository interface
type TagRepositoryImpl struct {
	*BaseRepository[models.Tag, models.TagFilter]
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &TagRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Tag, models.TagFilter](db),
	}
}

// ByTitle retrieves a tag by title. The default match is exact ("go" and "Go"
// are distinct tags); foldCase switches to a case-insensitive lookup.
func (r *TagRepositoryImpl) ByTitle(ctx context.Context, title string, foldCase bool) (*models.Tag, error) {
	db := r.getDB(ctx)

	var row models.Tag
	query := db.Model(&models.Tag{})
	if foldCase {
		query = query.Where("LOWER(title) = LOWER(?)", title)
	} else {
		query = query.Where("title = ?", title)
	}
	err := query.Last(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find tag by title: %w", err)
	}
	return &row, nil
}

// List retrieves all tags ordered by title
func (r *TagRepositoryImpl) List(ctx context.Context) ([]*models.Tag, error) {
	return r.ByFilter(ctx, models.TagFilter{}, "title ASC", 0, 0)
}

// BlogRefCount returns the number of blogs still associated with the tag
func (r *TagRepositoryImpl) BlogRefCount(ctx context.Context, tagID uint) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := db.Table("blog_tags").Where("tag_id = ?", tagID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count blog references for tag %d: %w", tagID, err)
	}
	return count, nil
}

// Delete removes a tag and its remaining association rows
func (r *TagRepositoryImpl) Delete(ctx context.Context, tagID uint) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
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

	if err = db.Exec("DELETE FROM blog_tags WHERE tag_id = ?", tagID).Error; err != nil {
		return fmt.Errorf("failed to clear associations for tag %d: %w", tagID, err)
	}
	if err = db.Delete(&models.Tag{}, tagID).Error; err != nil {
		return fmt.Errorf("failed to delete tag %d: %w", tagID, err)
	}
	return nil
}

// applyFilter applies filter criteria to a GORM query
func (r *TagRepositoryImpl) applyFilter(query *gorm.DB, filter models.TagFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Title != nil {
		query = query.Where("title = ?", *filter.Title)
	}
	if filter.Slug != nil {
		query = query.Where("slug = ?", *filter.Slug)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves tags based on filter criteria
func (r *TagRepositoryImpl) ByFilter(ctx context.Context, filter models.TagFilter, orderBy string, limit, offset int) ([]*models.Tag, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Tag{}), filter)

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

	var rows []*models.Tag
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of tags matching the filter
func (r *TagRepositoryImpl) Count(ctx context.Context, filter models.TagFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Tag{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any tag matching the filter exists
func (r *TagRepositoryImpl) Exists(ctx context.Context, filter models.TagFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
