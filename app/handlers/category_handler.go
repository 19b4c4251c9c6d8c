package handlers

import (
	"github.com/amirphl/Kusanagi/app/dto"
	businessflow "github.com/amirphl/Kusanagi/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// CategoryHandlerInterface defines the contract for category handlers
type CategoryHandlerInterface interface {
	ListCategories(c fiber.Ctx) error
	CreateCategory(c fiber.Ctx) error
	ListTags(c fiber.Ctx) error
}

// CategoryHandler handles category and tag listing requests
type CategoryHandler struct {
	categoryFlow businessflow.CategoryFlow
	validator    *validator.Validate
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryFlow businessflow.CategoryFlow) *CategoryHandler {
	return &CategoryHandler{
		categoryFlow: categoryFlow,
		validator:    validator.New(),
	}
}

// ListCategories returns all categories
func (h *CategoryHandler) ListCategories(c fiber.Ctx) error {
	result, err := h.categoryFlow.ListCategories(createRequestContext(c, "/api/v1/categories"))
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list categories", "CATEGORY_LIST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Categories retrieved successfully", result)
}

// CreateCategory creates a category for the authenticated user
func (h *CategoryHandler) CreateCategory(c fiber.Ctx) error {
	if _, ok := currentUserID(c); !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	var req dto.CreateCategoryRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationDetails(err))
	}

	result, err := h.categoryFlow.CreateCategory(createRequestContext(c, "/api/v1/categories"), &req)
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create category", "CATEGORY_CREATE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, "Category created successfully", result)
}

// ListTags returns all tags
func (h *CategoryHandler) ListTags(c fiber.Ctx) error {
	result, err := h.categoryFlow.ListTags(createRequestContext(c, "/api/v1/tags"))
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list tags", "TAG_LIST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Tags retrieved successfully", result)
}
