package handlers

import (
	"strconv"

	businessflow "github.com/amirphl/Kusanagi/business_flow"
	"github.com/gofiber/fiber/v3"
)

// FavouriteHandlerInterface defines the contract for favourite handlers
type FavouriteHandlerInterface interface {
	AddFavourite(c fiber.Ctx) error
	RemoveFavourite(c fiber.Ctx) error
	ListFavourites(c fiber.Ctx) error
}

// FavouriteHandler handles favourite-related HTTP requests
type FavouriteHandler struct {
	favouriteFlow businessflow.FavouriteFlow
}

// NewFavouriteHandler creates a new favourite handler
func NewFavouriteHandler(favouriteFlow businessflow.FavouriteFlow) *FavouriteHandler {
	return &FavouriteHandler{favouriteFlow: favouriteFlow}
}

// AddFavourite marks a blog as favourited; a repeated add is a conflict
func (h *FavouriteHandler) AddFavourite(c fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	blogID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid blog id", "INVALID_BLOG_ID", nil)
	}

	if err := h.favouriteFlow.AddFavourite(createRequestContext(c, "/api/v1/favourites/:id"), userID, uint(blogID)); err != nil {
		if businessflow.IsAlreadyInFavourites(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Blog already in favorites", "ALREADY_IN_FAVOURITES", nil)
		}
		if businessflow.IsBlogNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Blog not found", "BLOG_NOT_FOUND", nil)
		}
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to add favourite", "FAVOURITE_ADD_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, "Blog added to favourites", nil)
}

// RemoveFavourite unmarks a blog; removing an absent favourite is not found
func (h *FavouriteHandler) RemoveFavourite(c fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	blogID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid blog id", "INVALID_BLOG_ID", nil)
	}

	if err := h.favouriteFlow.RemoveFavourite(createRequestContext(c, "/api/v1/favourites/:id"), userID, uint(blogID)); err != nil {
		if businessflow.IsNotInFavourites(err) {
			return errorResponse(c, fiber.StatusNotFound, "Blog not in favorites", "NOT_IN_FAVOURITES", nil)
		}
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to remove favourite", "FAVOURITE_REMOVE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Blog removed from favourites", nil)
}

// ListFavourites returns the authenticated user's favourited blogs
func (h *FavouriteHandler) ListFavourites(c fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	result, err := h.favouriteFlow.ListFavourites(createRequestContext(c, "/api/v1/favourites"), userID)
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list favourites", "FAVOURITE_LIST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Favourites retrieved successfully", result)
}
