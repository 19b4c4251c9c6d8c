package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/Kusanagi/models"
	"gorm.io/gorm"
)

// BlogRepositoryImpl implements BlogRepository interface
type BlogRepositoryImpl struct {
	*BaseRepository[models.Blog, models.BlogFilter]
}

// NewBlogRepository creates a new blog repository
func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &BlogRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Blog, models.BlogFilter](db),
	}
}

// withRelations eagerly attaches category, author, tags and reviews with their
// authors, so serializing a result set issues no per-row lookups.
func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Category").
		Preload("User").
		Preload("Tags").
		Preload("Reviews").
		Preload("Reviews.User")
}

// annotateFavourites sets IsFavourited on every row in a single batched
// existence check against the favourites relation. Anonymous viewers touch no
// storage: every row stays false.
func (r *BlogRepositoryImpl) annotateFavourites(ctx context.Context, blogs []*models.Blog, viewerID *uint) error {
	if viewerID == nil || len(blogs) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(blogs))
	for _, b := range blogs {
		ids = append(ids, b.ID)
	}

	db := r.getDB(ctx)
	var favIDs []uint
	err := db.Model(&models.Favourite{}).
		Where("user_id = ? AND blog_id IN ?", *viewerID, ids).
		Pluck("blog_id", &favIDs).Error
	if err != nil {
		return fmt.Errorf("failed to annotate favourites: %w", err)
	}

	favSet := make(map[uint]struct{}, len(favIDs))
	for _, id := range favIDs {
		favSet[id] = struct{}{}
	}
	for _, b := range blogs {
		_, ok := favSet[b.ID]
		b.IsFavourited = ok
	}
	return nil
}

// BySlug retrieves a single blog with relations, annotated for the viewer
func (r *BlogRepositoryImpl) BySlug(ctx context.Context, slug string, viewerID *uint) (*models.Blog, error) {
	db := r.getDB(ctx)

	var blog models.Blog
	err := withRelations(db).Where("slug = ?", slug).Last(&blog).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find blog by slug: %w", err)
	}

	if err := r.annotateFavourites(ctx, []*models.Blog{&blog}, viewerID); err != nil {
		return nil, err
	}
	return &blog, nil
}

// ByIDWithRelations retrieves a single blog with relations, annotated for the viewer
func (r *BlogRepositoryImpl) ByIDWithRelations(ctx context.Context, id uint, viewerID *uint) (*models.Blog, error) {
	db := r.getDB(ctx)

	var blog models.Blog
	err := withRelations(db).Last(&blog, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find blog %d: %w", id, err)
	}

	if err := r.annotateFavourites(ctx, []*models.Blog{&blog}, viewerID); err != nil {
		return nil, err
	}
	return &blog, nil
}

// composeListQuery applies the listing predicates shared by List and
// CountList. The returned flag reports whether a join made deduplication
// necessary.
func composeListQuery(query *gorm.DB, q BlogQuery) (*gorm.DB, bool) {
	if q.UserID != nil {
		query = query.Where("blogs.user_id = ?", *q.UserID)
	}
	if q.CategoryID != nil {
		query = query.Where("blogs.category_id = ?", *q.CategoryID)
	}

	needsDistinct := false
	if len(q.TagTitles) > 0 {
		query = query.
			Joins("JOIN blog_tags ON blog_tags.blog_id = blogs.id").
			Joins("JOIN tags ON tags.id = blog_tags.tag_id").
			Where("tags.title IN ?", q.TagTitles)
		needsDistinct = true
	}
	if q.SearchTerm != "" {
		pattern := "%" + q.SearchTerm + "%"
		query = query.
			Joins("JOIN categories ON categories.id = blogs.category_id").
			Joins("LEFT JOIN blog_tags bt_search ON bt_search.blog_id = blogs.id").
			Joins("LEFT JOIN tags t_search ON t_search.id = bt_search.tag_id").
			Where("blogs.title ILIKE ? OR categories.title ILIKE ? OR t_search.title ILIKE ?",
				pattern, pattern, pattern)
		needsDistinct = true
	}
	return query, needsDistinct
}

// List composes the filtered/searched blog result set. Rows are ordered by
// creation date descending; joined multi-matches are deduplicated.
func (r *BlogRepositoryImpl) List(ctx context.Context, q BlogQuery) ([]*models.Blog, error) {
	db := r.getDB(ctx)

	query, needsDistinct := composeListQuery(withRelations(db.Model(&models.Blog{})), q)
	if needsDistinct {
		query = query.Distinct("blogs.*")
	}

	query = query.Order("blogs.created_at DESC, blogs.id DESC")

	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	if q.Offset > 0 {
		query = query.Offset(q.Offset)
	}

	var blogs []*models.Blog
	if err := query.Find(&blogs).Error; err != nil {
		return nil, fmt.Errorf("failed to list blogs: %w", err)
	}

	if err := r.annotateFavourites(ctx, blogs, q.ViewerID); err != nil {
		return nil, err
	}
	return blogs, nil
}

// CountList returns the number of distinct blogs the composed query would
// yield, without preloading relations or materializing rows. Limit and
// Offset on the query are ignored.
func (r *BlogRepositoryImpl) CountList(ctx context.Context, q BlogQuery) (int64, error) {
	db := r.getDB(ctx)

	query, needsDistinct := composeListQuery(db.Model(&models.Blog{}), q)
	if needsDistinct {
		query = query.Distinct("blogs.id")
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count blogs: %w", err)
	}
	return count, nil
}

// ListFavouritesOf retrieves all blogs the user has favourited
func (r *BlogRepositoryImpl) ListFavouritesOf(ctx context.Context, userID uint) ([]*models.Blog, error) {
	db := r.getDB(ctx)

	var blogs []*models.Blog
	err := withRelations(db.Model(&models.Blog{})).
		Joins("JOIN favourites ON favourites.blog_id = blogs.id").
		Where("favourites.user_id = ?", userID).
		Order("blogs.created_at DESC, blogs.id DESC").
		Find(&blogs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list favourite blogs: %w", err)
	}

	// The listing is the caller's own favourites, so every row is true by
	// construction; no extra lookup needed.
	for _, b := range blogs {
		b.IsFavourited = true
	}
	return blogs, nil
}

// ListRelated retrieves other blogs in the same category, newest first
func (r *BlogRepositoryImpl) ListRelated(ctx context.Context, categoryID, excludeBlogID uint) ([]*models.Blog, error) {
	db := r.getDB(ctx)

	var blogs []*models.Blog
	err := db.Model(&models.Blog{}).
		Where("category_id = ? AND id <> ?", categoryID, excludeBlogID).
		Order("created_at DESC, id DESC").
		Find(&blogs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list related blogs: %w", err)
	}
	return blogs, nil
}

// SlugExists reports whether a blog other than excludeID already holds the slug
func (r *BlogRepositoryImpl) SlugExists(ctx context.Context, slug string, excludeID uint, foldCase bool) (bool, error) {
	db := r.getDB(ctx)

	query := db.Model(&models.Blog{})
	if foldCase {
		query = query.Where("LOWER(slug) = LOWER(?)", slug)
	} else {
		query = query.Where("slug = ?", slug)
	}
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check slug existence: %w", err)
	}
	return count > 0, nil
}

// Update persists changes to an existing blog
func (r *BlogRepositoryImpl) Update(ctx context.Context, blog *models.Blog) error {
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

	// Omit associations: tag replacement goes through ReplaceTags so the
	// orphan scan can run strictly after the association commit.
	err = db.Omit("Tags", "Reviews", "Favourites", "User", "Category").Save(blog).Error
	if err != nil {
		return fmt.Errorf("failed to update blog: %w", err)
	}
	return nil
}

// Delete removes a blog; favourites and reviews go with it via FK cascade
func (r *BlogRepositoryImpl) Delete(ctx context.Context, blogID uint) error {
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

	if err = db.Exec("DELETE FROM blog_tags WHERE blog_id = ?", blogID).Error; err != nil {
		return fmt.Errorf("failed to clear tag associations for blog %d: %w", blogID, err)
	}
	if err = db.Delete(&models.Blog{}, blogID).Error; err != nil {
		return fmt.Errorf("failed to delete blog %d: %w", blogID, err)
	}
	return nil
}

// ReplaceTags swaps the blog's tag set for the given one
func (r *BlogRepositoryImpl) ReplaceTags(ctx context.Context, blog *models.Blog, tags []*models.Tag) error {
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

	err = db.Model(blog).Association("Tags").Replace(tags)
	if err != nil {
		return fmt.Errorf("failed to replace tags for blog %d: %w", blog.ID, err)
	}
	return nil
}

// applyFilter applies filter criteria to a GORM query
func (r *BlogRepositoryImpl) applyFilter(query *gorm.DB, filter models.BlogFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("blogs.id = ?", *filter.ID)
	}
	if filter.UserID != nil {
		query = query.Where("blogs.user_id = ?", *filter.UserID)
	}
	if filter.CategoryID != nil {
		query = query.Where("blogs.category_id = ?", *filter.CategoryID)
	}
	if filter.Slug != nil {
		query = query.Where("blogs.slug = ?", *filter.Slug)
	}
	if len(filter.TagTitles) > 0 {
		query = query.
			Joins("JOIN blog_tags ON blog_tags.blog_id = blogs.id").
			Joins("JOIN tags ON tags.id = blog_tags.tag_id").
			Where("tags.title IN ?", filter.TagTitles).
			Distinct("blogs.*")
	}
	if filter.CreatedAfter != nil {
		query = query.Where("blogs.created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("blogs.created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves blogs based on filter criteria
func (r *BlogRepositoryImpl) ByFilter(ctx context.Context, filter models.BlogFilter, orderBy string, limit, offset int) ([]*models.Blog, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Blog{}), filter)

	if orderBy == "" {
		orderBy = "blogs.created_at DESC, blogs.id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Blog
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of blogs matching the filter
func (r *BlogRepositoryImpl) Count(ctx context.Context, filter models.BlogFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Blog{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any blog matching the filter exists
func (r *BlogRepositoryImpl) Exists(ctx context.Context, filter models.BlogFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
