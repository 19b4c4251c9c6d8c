package businessflow

import (
	"context"

	"github.com/amirphl/Kusanagi/app/dto"
	"github.com/amirphl/Kusanagi/models"
	"github.com/amirphl/Kusanagi/repository"
	"github.com/amirphl/Kusanagi/utils"
	"gorm.io/gorm"
)

// FavouriteFlow handles adding, removing and listing a user's favourites
type FavouriteFlow interface {
	AddFavourite(ctx context.Context, userID, blogID uint) error
	RemoveFavourite(ctx context.Context, userID, blogID uint) error
	ListFavourites(ctx context.Context, userID uint) ([]dto.BlogDTO, error)
}

// FavouriteFlowImpl implements the favourite business flow
type FavouriteFlowImpl struct {
	favouriteRepo repository.FavouriteRepository
	blogRepo      repository.BlogRepository
	db            *gorm.DB
}

// NewFavouriteFlow creates a new favourite flow instance
func NewFavouriteFlow(favouriteRepo repository.FavouriteRepository, blogRepo repository.BlogRepository, db *gorm.DB) FavouriteFlow {
	return &FavouriteFlowImpl{
		favouriteRepo: favouriteRepo,
		blogRepo:      blogRepo,
		db:            db,
	}
}

// AddFavourite marks a blog as favourited; doing it twice is a conflict
func (f *FavouriteFlowImpl) AddFavourite(ctx context.Context, userID, blogID uint) error {
	blog, err := f.blogRepo.ByID(ctx, blogID)
	if err != nil {
		return NewBusinessError("FAVOURITE_ADD_FAILED", "Failed to add favourite", err)
	}
	if blog == nil {
		return NewBusinessError("FAVOURITE_ADD_FAILED", "Failed to add favourite", ErrBlogNotFound)
	}

	existing, err := f.favouriteRepo.ByUserAndBlog(ctx, userID, blogID)
	if err != nil {
		return NewBusinessError("FAVOURITE_ADD_FAILED", "Failed to add favourite", err)
	}
	if existing != nil {
		return NewBusinessError("ALREADY_IN_FAVOURITES", "Blog already in favorites", ErrAlreadyInFavourites)
	}

	favourite := &models.Favourite{
		UserID:    userID,
		BlogID:    blogID,
		CreatedAt: utils.UTCNow(),
	}
	if err := f.favouriteRepo.Save(ctx, favourite); err != nil {
		return NewBusinessError("FAVOURITE_ADD_FAILED", "Failed to add favourite", err)
	}
	return nil
}

// RemoveFavourite unmarks a blog; removing an absent favourite is not found
func (f *FavouriteFlowImpl) RemoveFavourite(ctx context.Context, userID, blogID uint) error {
	affected, err := f.favouriteRepo.DeleteByUserAndBlog(ctx, userID, blogID)
	if err != nil {
		return NewBusinessError("FAVOURITE_REMOVE_FAILED", "Failed to remove favourite", err)
	}
	if affected == 0 {
		return NewBusinessError("NOT_IN_FAVOURITES", "Blog not in favorites", ErrNotInFavourites)
	}
	return nil
}

// ListFavourites returns the user's favourited blogs, newest first
func (f *FavouriteFlowImpl) ListFavourites(ctx context.Context, userID uint) ([]dto.BlogDTO, error) {
	blogs, err := f.blogRepo.ListFavouritesOf(ctx, userID)
	if err != nil {
		return nil, NewBusinessError("FAVOURITE_LIST_FAILED", "Failed to list favourites", err)
	}
	return ToBlogDTOs(blogs), nil
}
