package businessflow

import (
	"context"

	"github.com/amirphl/Kusanagi/app/dto"
	"github.com/amirphl/Kusanagi/models"
	"github.com/amirphl/Kusanagi/repository"
	"github.com/amirphl/Kusanagi/utils"
	"gorm.io/gorm"
)

// CategoryFlow handles category listing and creation, plus the public tag
// listing
type CategoryFlow interface {
	ListCategories(ctx context.Context) ([]dto.CategoryDTO, error)
	CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest) (*dto.CategoryDTO, error)
	ListTags(ctx context.Context) ([]dto.TagDTO, error)
}

// CategoryFlowImpl implements the category business flow
type CategoryFlowImpl struct {
	categoryRepo repository.CategoryRepository
	tagRepo      repository.TagRepository
	db           *gorm.DB
}

// NewCategoryFlow creates a new category flow instance
func NewCategoryFlow(categoryRepo repository.CategoryRepository, tagRepo repository.TagRepository, db *gorm.DB) CategoryFlow {
	return &CategoryFlowImpl{
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
		db:           db,
	}
}

// ListCategories returns all categories ordered by title
func (c *CategoryFlowImpl) ListCategories(ctx context.Context) ([]dto.CategoryDTO, error) {
	categories, err := c.categoryRepo.List(ctx)
	if err != nil {
		return nil, NewBusinessError("CATEGORY_LIST_FAILED", "Failed to list categories", err)
	}

	out := make([]dto.CategoryDTO, 0, len(categories))
	for _, category := range categories {
		out = append(out, ToCategoryDTO(*category))
	}
	return out, nil
}

// CreateCategory creates a category. The slug is recomputed from the title
// on every save and is not guarded for uniqueness, unlike blog slugs.
func (c *CategoryFlowImpl) CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest) (*dto.CategoryDTO, error) {
	existing, err := c.categoryRepo.ByTitle(ctx, req.Title)
	if err != nil {
		return nil, NewBusinessError("CATEGORY_CREATE_FAILED", "Failed to create category", err)
	}
	if existing != nil {
		out := ToCategoryDTO(*existing)
		return &out, nil
	}

	category := &models.Category{
		Title:     req.Title,
		Slug:      NormalizeSlug(req.Title),
		CreatedAt: utils.UTCNow(),
	}
	if err := c.categoryRepo.Save(ctx, category); err != nil {
		return nil, NewBusinessError("CATEGORY_CREATE_FAILED", "Failed to create category", err)
	}

	out := ToCategoryDTO(*category)
	return &out, nil
}

// ListTags returns all tags ordered by title
func (c *CategoryFlowImpl) ListTags(ctx context.Context) ([]dto.TagDTO, error) {
	tags, err := c.tagRepo.List(ctx)
	if err != nil {
		return nil, NewBusinessError("TAG_LIST_FAILED", "Failed to list tags", err)
	}

	out := make([]dto.TagDTO, 0, len(tags))
	for _, tag := range tags {
		out = append(out, ToTagDTO(*tag))
	}
	return out, nil
}
