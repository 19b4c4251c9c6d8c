package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/amirphl/Kusanagi/app/dto"
	businessflow "github.com/amirphl/Kusanagi/business_flow"
	"github.com/amirphl/Kusanagi/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// BlogHandlerInterface defines the contract for blog handlers
type BlogHandlerInterface interface {
	CreateBlog(c fiber.Ctx) error
	UpdateBlog(c fiber.Ctx) error
	DeleteBlog(c fiber.Ctx) error
	GetBlogDetail(c fiber.Ctx) error
	CreateReview(c fiber.Ctx) error
	ListAllBlogs(c fiber.Ctx) error
	ListMyBlogs(c fiber.Ctx) error
	FilterByCategory(c fiber.Ctx) error
	FilterByTags(c fiber.Ctx) error
	Search(c fiber.Ctx) error
}

// BlogHandler handles blog-related HTTP requests
type BlogHandler struct {
	blogFlow   businessflow.BlogFlow
	reviewFlow businessflow.ReviewFlow
	validator  *validator.Validate
}

// NewBlogHandler creates a new blog handler
func NewBlogHandler(blogFlow businessflow.BlogFlow, reviewFlow businessflow.ReviewFlow) *BlogHandler {
	return &BlogHandler{
		blogFlow:   blogFlow,
		reviewFlow: reviewFlow,
		validator:  validator.New(),
	}
}

// CreateBlog creates a blog post for the authenticated user. The request is
// JSON, or multipart form data when a banner image is attached.
func (h *BlogHandler) CreateBlog(c fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	var req dto.CreateBlogRequest
	if strings.HasPrefix(c.Get("Content-Type"), "multipart/form-data") {
		req.Title = c.FormValue("title")
		req.Tags = c.FormValue("tags")
		req.Description = c.FormValue("description")
		if id, err := strconv.ParseUint(c.FormValue("category_id"), 10, 64); err == nil {
			req.CategoryID = uint(id)
		}
		if fileHeader, err := c.FormFile("banner"); err == nil && fileHeader != nil {
			path, err := saveBannerFile(fileHeader)
			if err != nil {
				return errorResponse(c, fiber.StatusBadRequest, "Invalid banner file", "INVALID_BANNER", err.Error())
			}
			req.Banner = &path
		}
	} else {
		if err := c.Bind().JSON(&req); err != nil {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
		}
	}

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationDetails(err))
	}

	result, err := h.blogFlow.CreateBlog(createRequestContext(c, "/api/v1/blogs"), userID, &req)
	if err != nil {
		if businessflow.IsCategoryNotFound(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Category not found", "CATEGORY_NOT_FOUND", nil)
		}
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create blog", "BLOG_CREATE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, "Blog created successfully", result)
}

// UpdateBlog applies partial updates to an owned blog post
func (h *BlogHandler) UpdateBlog(c fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	blogID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid blog id", "INVALID_BLOG_ID", nil)
	}

	var req dto.UpdateBlogRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationDetails(err))
	}

	result, err := h.blogFlow.UpdateBlog(createRequestContext(c, "/api/v1/blogs/:id"), userID, uint(blogID), &req)
	if err != nil {
		return h.blogMutationError(c, err, "BLOG_UPDATE_FAILED", "Failed to update blog")
	}

	return successResponse(c, fiber.StatusOK, "Blog updated successfully", result)
}

// DeleteBlog removes an owned blog post
func (h *BlogHandler) DeleteBlog(c fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	blogID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid blog id", "INVALID_BLOG_ID", nil)
	}

	if err := h.blogFlow.DeleteBlog(createRequestContext(c, "/api/v1/blogs/:id"), userID, uint(blogID)); err != nil {
		return h.blogMutationError(c, err, "BLOG_DELETE_FAILED", "Failed to delete blog")
	}

	return successResponse(c, fiber.StatusOK, "Blog deleted successfully", nil)
}

// GetBlogDetail returns one blog by slug, with reviews and related posts
func (h *BlogHandler) GetBlogDetail(c fiber.Ctx) error {
	slug := c.Params("slug")

	result, err := h.blogFlow.GetBlogBySlug(createRequestContext(c, "/api/v1/blog-detail/:slug"), slug, viewerID(c))
	if err != nil {
		if businessflow.IsBlogNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Blog not found", "BLOG_NOT_FOUND", nil)
		}
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to fetch blog", "BLOG_FETCH_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Blog retrieved successfully", result)
}

// CreateReview posts a review on the blog identified by slug
func (h *BlogHandler) CreateReview(c fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	var req dto.CreateReviewRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationDetails(err))
	}

	result, err := h.reviewFlow.CreateReview(createRequestContext(c, "/api/v1/blog-detail/:slug"), userID, c.Params("slug"), &req)
	if err != nil {
		if businessflow.IsBlogNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Blog not found", "BLOG_NOT_FOUND", nil)
		}
		if businessflow.IsRatingOutOfRange(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Rating must be between 1 and 5", "RATING_OUT_OF_RANGE", nil)
		}
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create review", "REVIEW_CREATE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, "Review created successfully", result)
}

// ListAllBlogs returns the public paginated listing, or the latest N when
// the latest query parameter is numeric
func (h *BlogHandler) ListAllBlogs(c fiber.Ctx) error {
	params := h.listParams(c)

	result, err := h.blogFlow.ListBlogs(createRequestContext(c, "/api/v1/all-blogs"), params)
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list blogs", "BLOG_LIST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Blogs retrieved successfully", result)
}

// ListMyBlogs returns the authenticated user's own blogs
func (h *BlogHandler) ListMyBlogs(c fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	result, err := h.blogFlow.ListUserBlogs(createRequestContext(c, "/api/v1/blogs"), userID)
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list blogs", "BLOG_LIST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Blogs retrieved successfully", result)
}

// FilterByCategory lists blogs of one category; missing or malformed values
// yield an empty set
func (h *BlogHandler) FilterByCategory(c fiber.Ctx) error {
	params := h.listParams(c)
	params.FilterByCategory = true
	params.Category = c.Query("category")

	result, err := h.blogFlow.ListBlogs(createRequestContext(c, "/api/v1/filter"), params)
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to filter blogs", "BLOG_LIST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Blogs retrieved successfully", result)
}

// FilterByTags lists blogs carrying at least one of the given tags
func (h *BlogHandler) FilterByTags(c fiber.Ctx) error {
	params := h.listParams(c)
	params.FilterByTags = true
	params.Tags = c.Query("tags")

	result, err := h.blogFlow.ListBlogs(createRequestContext(c, "/api/v1/filter/tags"), params)
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to filter blogs", "BLOG_LIST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Blogs retrieved successfully", result)
}

// Search lists blogs whose title, category title or any tag title contains
// the search term; an empty term returns the full ordered set
func (h *BlogHandler) Search(c fiber.Ctx) error {
	params := h.listParams(c)
	params.Search = c.Query("find")

	result, err := h.blogFlow.ListBlogs(createRequestContext(c, "/api/v1/search"), params)
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to search blogs", "BLOG_LIST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Blogs retrieved successfully", result)
}

func (h *BlogHandler) listParams(c fiber.Ctx) businessflow.ListBlogsParams {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size"))

	return businessflow.ListBlogsParams{
		ViewerID: viewerID(c),
		Latest:   c.Query("latest"),
		Page:     page,
		PageSize: pageSize,
	}
}

func (h *BlogHandler) blogMutationError(c fiber.Ctx, err error, code, message string) error {
	if businessflow.IsBlogNotFound(err) {
		return errorResponse(c, fiber.StatusNotFound, "Blog not found", "BLOG_NOT_FOUND", nil)
	}
	if businessflow.IsBlogAccessDenied(err) {
		return errorResponse(c, fiber.StatusForbidden, "Blog access denied", "BLOG_ACCESS_DENIED", nil)
	}
	if businessflow.IsCategoryNotFound(err) {
		return errorResponse(c, fiber.StatusBadRequest, "Category not found", "CATEGORY_NOT_FOUND", nil)
	}
	return errorResponse(c, fiber.StatusInternalServerError, message, code, nil)
}

// saveBannerFile writes a multipart banner upload to disk under
// data/uploads/banners/YYYY-MM-DD/
func saveBannerFile(fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader == nil {
		return "", fmt.Errorf("no file provided")
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return "", fmt.Errorf("invalid file type")
	}
	// 10MB limit
	if fileHeader.Size > 10*1024*1024 {
		return "", fmt.Errorf("file too large")
	}

	dateDir := utils.UTCNow().Format("2006-01-02")
	baseDir := filepath.Join("data", "uploads", "banners", dateDir)
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", err
	}

	fname := uuid.New().String() + ext
	fullPath := filepath.Join(baseDir, fname)

	src, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(fullPath)
		return "", err
	}

	return filepath.ToSlash(fullPath), nil
}
