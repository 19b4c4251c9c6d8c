package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/amirphl/Kusanagi/app/dto"
	"github.com/amirphl/Kusanagi/models"
	"github.com/amirphl/Kusanagi/repository"
	"github.com/amirphl/Kusanagi/utils"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const latestCacheTTL = 60 * time.Second

// ListBlogsParams carries the raw listing inputs. Latest, Category and Tags
// arrive as raw query strings; parsing rules live here so the handlers stay
// thin.
type ListBlogsParams struct {
	ViewerID *uint

	Latest   string // "N" bypasses pagination; non-numeric disables the mode
	Category string // category id; missing or malformed yields an empty set
	Tags     string // comma-separated tag titles; empty yields an empty set
	Search   string // free-text term; empty yields the full ordered set

	FilterByCategory bool
	FilterByTags     bool

	Page     int
	PageSize int
}

// BlogFlow handles blog creation, mutation and the composed listings
type BlogFlow interface {
	CreateBlog(ctx context.Context, userID uint, req *dto.CreateBlogRequest) (*dto.BlogDTO, error)
	UpdateBlog(ctx context.Context, userID, blogID uint, req *dto.UpdateBlogRequest) (*dto.BlogDTO, error)
	DeleteBlog(ctx context.Context, userID, blogID uint) error
	GetBlogBySlug(ctx context.Context, slug string, viewerID *uint) (*dto.BlogDetailDTO, error)
	ListBlogs(ctx context.Context, params ListBlogsParams) (*dto.BlogListResponse, error)
	ListUserBlogs(ctx context.Context, userID uint) ([]dto.BlogDTO, error)
}

// BlogFlowImpl implements the blog business flow
type BlogFlowImpl struct {
	blogRepo     repository.BlogRepository
	categoryRepo repository.CategoryRepository
	tagResolver  *TagResolver
	rc           *redis.Client
	foldSlugCase bool
	pageSize     int
	maxPageSize  int
	db           *gorm.DB
}

// NewBlogFlow creates a new blog flow instance. rc may be nil to disable the
// latest-blogs cache.
func NewBlogFlow(
	blogRepo repository.BlogRepository,
	categoryRepo repository.CategoryRepository,
	tagResolver *TagResolver,
	rc *redis.Client,
	foldSlugCase bool,
	pageSize, maxPageSize int,
	db *gorm.DB,
) BlogFlow {
	if pageSize <= 0 {
		pageSize = utils.DefaultPageSize
	}
	if maxPageSize <= 0 {
		maxPageSize = utils.MaxPageSize
	}
	return &BlogFlowImpl{
		blogRepo:     blogRepo,
		categoryRepo: categoryRepo,
		tagResolver:  tagResolver,
		rc:           rc,
		foldSlugCase: foldSlugCase,
		pageSize:     pageSize,
		maxPageSize:  maxPageSize,
		db:           db,
	}
}

// CreateBlog persists a new blog with a unique slug and its resolved tag set
func (b *BlogFlowImpl) CreateBlog(ctx context.Context, userID uint, req *dto.CreateBlogRequest) (*dto.BlogDTO, error) {
	category, err := b.categoryRepo.ByID(ctx, req.CategoryID)
	if err != nil {
		return nil, NewBusinessError("BLOG_CREATE_FAILED", "Failed to create blog", err)
	}
	if category == nil {
		return nil, NewBusinessError("BLOG_CREATE_FAILED", "Failed to create blog", ErrCategoryNotFound)
	}

	var blog *models.Blog
	err = repository.WithTransaction(ctx, b.db, func(txCtx context.Context) error {
		slug, err := GenerateUniqueSlug(txCtx, req.Title, 0, b.foldSlugCase, b.blogRepo.SlugExists)
		if err != nil {
			return err
		}

		tags, err := b.tagResolver.Resolve(txCtx, req.Tags)
		if err != nil {
			return err
		}

		blog = &models.Blog{
			UserID:      userID,
			CategoryID:  req.CategoryID,
			Title:       req.Title,
			Slug:        slug,
			Description: req.Description,
			Banner:      req.Banner,
			CreatedAt:   utils.UTCNow(),
		}
		if err := b.blogRepo.Save(txCtx, blog); err != nil {
			return fmt.Errorf("failed to save blog: %w", err)
		}

		return b.blogRepo.ReplaceTags(txCtx, blog, tagPtrs(tags))
	})
	if err != nil {
		return nil, NewBusinessError("BLOG_CREATE_FAILED", "Failed to create blog", err)
	}

	b.invalidateLatestCache(ctx)

	created, err := b.blogRepo.ByIDWithRelations(ctx, blog.ID, &userID)
	if err != nil {
		return nil, NewBusinessError("BLOG_CREATE_FAILED", "Failed to create blog", err)
	}
	out := ToBlogDTO(*created)
	return &out, nil
}

// UpdateBlog mutates an owned blog. The slug is regenerated only when the
// normalized title actually changes; tag replacement commits before the
// orphan scan runs.
func (b *BlogFlowImpl) UpdateBlog(ctx context.Context, userID, blogID uint, req *dto.UpdateBlogRequest) (*dto.BlogDTO, error) {
	blog, err := b.blogRepo.ByIDWithRelations(ctx, blogID, &userID)
	if err != nil {
		return nil, NewBusinessError("BLOG_UPDATE_FAILED", "Failed to update blog", err)
	}
	if blog == nil {
		return nil, NewBusinessError("BLOG_UPDATE_FAILED", "Failed to update blog", ErrBlogNotFound)
	}
	if blog.UserID != userID {
		return nil, NewBusinessError("BLOG_UPDATE_FAILED", "Failed to update blog", ErrBlogAccessDenied)
	}

	if req.CategoryID != nil {
		category, err := b.categoryRepo.ByID(ctx, *req.CategoryID)
		if err != nil {
			return nil, NewBusinessError("BLOG_UPDATE_FAILED", "Failed to update blog", err)
		}
		if category == nil {
			return nil, NewBusinessError("BLOG_UPDATE_FAILED", "Failed to update blog", ErrCategoryNotFound)
		}
	}

	previousTags := blog.Tags
	tagsChanged := false

	err = repository.WithTransaction(ctx, b.db, func(txCtx context.Context) error {
		if req.Title != nil && NormalizeSlug(*req.Title) != NormalizeSlug(blog.Title) {
			slug, err := GenerateUniqueSlug(txCtx, *req.Title, blog.ID, b.foldSlugCase, b.blogRepo.SlugExists)
			if err != nil {
				return err
			}
			blog.Slug = slug
		}
		if req.Title != nil {
			blog.Title = *req.Title
		}
		if req.CategoryID != nil {
			blog.CategoryID = *req.CategoryID
		}
		if req.Description != nil {
			blog.Description = *req.Description
		}
		if req.Banner != nil {
			blog.Banner = req.Banner
		}

		if err := b.blogRepo.Update(txCtx, blog); err != nil {
			return fmt.Errorf("failed to update blog: %w", err)
		}

		if req.Tags != nil {
			tags, err := b.tagResolver.Resolve(txCtx, *req.Tags)
			if err != nil {
				return err
			}
			if err := b.blogRepo.ReplaceTags(txCtx, blog, tagPtrs(tags)); err != nil {
				return err
			}
			tagsChanged = true
		}
		return nil
	})
	if err != nil {
		return nil, NewBusinessError("BLOG_UPDATE_FAILED", "Failed to update blog", err)
	}

	// The orphan scan must observe the committed association set, so it runs
	// strictly after the transaction above.
	if tagsChanged {
		if err := b.tagResolver.ReclaimOrphans(ctx, previousTags); err != nil {
			slog.Warn("orphan tag reclaim failed", "blog_id", blog.ID, "error", err)
		}
	}

	b.invalidateLatestCache(ctx)

	updated, err := b.blogRepo.ByIDWithRelations(ctx, blog.ID, &userID)
	if err != nil {
		return nil, NewBusinessError("BLOG_UPDATE_FAILED", "Failed to update blog", err)
	}
	out := ToBlogDTO(*updated)
	return &out, nil
}

// DeleteBlog removes an owned blog; favourites and reviews cascade, and tags
// left without any blog are reclaimed afterwards.
func (b *BlogFlowImpl) DeleteBlog(ctx context.Context, userID, blogID uint) error {
	blog, err := b.blogRepo.ByIDWithRelations(ctx, blogID, nil)
	if err != nil {
		return NewBusinessError("BLOG_DELETE_FAILED", "Failed to delete blog", err)
	}
	if blog == nil {
		return NewBusinessError("BLOG_DELETE_FAILED", "Failed to delete blog", ErrBlogNotFound)
	}
	if blog.UserID != userID {
		return NewBusinessError("BLOG_DELETE_FAILED", "Failed to delete blog", ErrBlogAccessDenied)
	}

	previousTags := blog.Tags

	if err := b.blogRepo.Delete(ctx, blog.ID); err != nil {
		return NewBusinessError("BLOG_DELETE_FAILED", "Failed to delete blog", err)
	}

	if err := b.tagResolver.ReclaimOrphans(ctx, previousTags); err != nil {
		slog.Warn("orphan tag reclaim failed", "blog_id", blog.ID, "error", err)
	}

	b.invalidateLatestCache(ctx)
	return nil
}

// GetBlogBySlug returns the blog with reviews and related posts from the
// same category
func (b *BlogFlowImpl) GetBlogBySlug(ctx context.Context, slug string, viewerID *uint) (*dto.BlogDetailDTO, error) {
	blog, err := b.blogRepo.BySlug(ctx, slug, viewerID)
	if err != nil {
		return nil, NewBusinessError("BLOG_FETCH_FAILED", "Failed to fetch blog", err)
	}
	if blog == nil {
		return nil, NewBusinessError("BLOG_FETCH_FAILED", "Failed to fetch blog", ErrBlogNotFound)
	}

	detail := ToBlogDetailDTO(*blog)

	related, err := b.blogRepo.ListRelated(ctx, blog.CategoryID, blog.ID)
	if err != nil {
		return nil, NewBusinessError("BLOG_FETCH_FAILED", "Failed to fetch blog", err)
	}
	detail.Related = ToBlogDTOs(related)

	return &detail, nil
}

// ListBlogs runs the composed listing: latest-N mode, category/tag/search
// filters and pagination.
func (b *BlogFlowImpl) ListBlogs(ctx context.Context, params ListBlogsParams) (*dto.BlogListResponse, error) {
	q := repository.BlogQuery{ViewerID: params.ViewerID}

	// Category and tag filters fail closed: a missing or malformed value
	// yields an empty result set rather than the unfiltered one.
	if params.FilterByCategory {
		id, err := strconv.ParseUint(params.Category, 10, 64)
		if err != nil {
			return &dto.BlogListResponse{Blogs: []dto.BlogDTO{}}, nil
		}
		categoryID := uint(id)
		q.CategoryID = &categoryID
	}
	if params.FilterByTags {
		titles := ParseTagTitles(params.Tags)
		if len(titles) == 0 {
			return &dto.BlogListResponse{Blogs: []dto.BlogDTO{}}, nil
		}
		q.TagTitles = titles
	}
	q.SearchTerm = params.Search

	// latest=N returns exactly the first N rows of the default ordering and
	// bypasses pagination entirely. Zero is a valid N and yields an empty
	// set; only a negative or non-numeric value disables the mode.
	if n, err := strconv.Atoi(params.Latest); err == nil && n >= 0 {
		if n == 0 {
			return &dto.BlogListResponse{Blogs: []dto.BlogDTO{}}, nil
		}

		if blogs, ok := b.latestFromCache(ctx, params, n); ok {
			return &dto.BlogListResponse{Blogs: blogs, Total: int64(len(blogs))}, nil
		}

		q.Limit = n
		rows, err := b.blogRepo.List(ctx, q)
		if err != nil {
			return nil, NewBusinessError("BLOG_LIST_FAILED", "Failed to list blogs", err)
		}
		blogs := ToBlogDTOs(rows)
		b.storeLatestInCache(ctx, params, n, blogs)
		return &dto.BlogListResponse{Blogs: blogs, Total: int64(len(blogs))}, nil
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = b.pageSize
	}
	if pageSize > b.maxPageSize {
		pageSize = b.maxPageSize
	}

	q.Limit = pageSize
	q.Offset = (page - 1) * pageSize

	rows, err := b.blogRepo.List(ctx, q)
	if err != nil {
		return nil, NewBusinessError("BLOG_LIST_FAILED", "Failed to list blogs", err)
	}

	total, err := b.blogRepo.CountList(ctx, q)
	if err != nil {
		return nil, NewBusinessError("BLOG_LIST_FAILED", "Failed to list blogs", err)
	}

	return &dto.BlogListResponse{
		Blogs:    ToBlogDTOs(rows),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// ListUserBlogs returns all blogs authored by the user
func (b *BlogFlowImpl) ListUserBlogs(ctx context.Context, userID uint) ([]dto.BlogDTO, error) {
	rows, err := b.blogRepo.List(ctx, repository.BlogQuery{ViewerID: &userID, UserID: &userID})
	if err != nil {
		return nil, NewBusinessError("BLOG_LIST_FAILED", "Failed to list blogs", err)
	}
	return ToBlogDTOs(rows), nil
}

// latestFromCache serves the unfiltered anonymous latest listing from Redis.
// Any filter or an authenticated viewer makes the entry viewer-specific, so
// those requests always hit the store.
func (b *BlogFlowImpl) latestFromCache(ctx context.Context, params ListBlogsParams, n int) ([]dto.BlogDTO, bool) {
	if !b.latestCacheable(params) {
		return nil, false
	}
	raw, err := b.rc.Get(ctx, latestCacheKey(n)).Bytes()
	if err != nil {
		return nil, false
	}
	var blogs []dto.BlogDTO
	if err := json.Unmarshal(raw, &blogs); err != nil {
		return nil, false
	}
	return blogs, true
}

func (b *BlogFlowImpl) storeLatestInCache(ctx context.Context, params ListBlogsParams, n int, blogs []dto.BlogDTO) {
	if !b.latestCacheable(params) {
		return
	}
	raw, err := json.Marshal(blogs)
	if err != nil {
		return
	}
	if err := b.rc.Set(ctx, latestCacheKey(n), raw, latestCacheTTL).Err(); err != nil {
		slog.Debug("latest blogs cache write failed", "error", err)
	}
}

func (b *BlogFlowImpl) latestCacheable(params ListBlogsParams) bool {
	return b.rc != nil &&
		params.ViewerID == nil &&
		!params.FilterByCategory &&
		!params.FilterByTags &&
		params.Search == ""
}

func (b *BlogFlowImpl) invalidateLatestCache(ctx context.Context) {
	if b.rc == nil {
		return
	}
	iter := b.rc.Scan(ctx, 0, utils.LatestBlogsCacheKey+":*", 100).Iterator()
	for iter.Next(ctx) {
		if err := b.rc.Del(ctx, iter.Val()).Err(); err != nil {
			slog.Debug("latest blogs cache invalidation failed", "key", iter.Val(), "error", err)
		}
	}
}

func latestCacheKey(n int) string {
	return fmt.Sprintf("%s:%d", utils.LatestBlogsCacheKey, n)
}

func tagPtrs(tags []models.Tag) []*models.Tag {
	out := make([]*models.Tag, len(tags))
	for i := range tags {
		out[i] = &tags[i]
	}
	return out
}
