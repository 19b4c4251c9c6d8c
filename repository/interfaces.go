// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/amirphl/Kusanagi/models"
	"github.com/google/uuid"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// UserRepository defines operations for users
type UserRepository interface {
	Repository[models.User, models.UserFilter]
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ByUsername(ctx context.Context, username string) (*models.User, error)
	ByUUID(ctx context.Context, uuid uuid.UUID) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdateLastLogin(ctx context.Context, userID uint) error
}

// UserSessionRepository defines operations for user sessions
type UserSessionRepository interface {
	Repository[models.UserSession, models.UserSessionFilter]
	BySessionToken(ctx context.Context, token string) (*models.UserSession, error)
	ByRefreshToken(ctx context.Context, token string) (*models.UserSession, error)
	ExpireSession(ctx context.Context, sessionID uint) error
	ExpireAllUserSessions(ctx context.Context, userID uint) error
	CleanupExpiredSessions(ctx context.Context) error
}

// CategoryRepository defines operations for categories
type CategoryRepository interface {
	Repository[models.Category, models.CategoryFilter]
	ByTitle(ctx context.Context, title string) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
}

// TagRepository defines operations for tags
type TagRepository interface {
	Repository[models.Tag, models.TagFilter]
	// ByTitle looks a tag up by exact title; when foldCase is set the match is
	// case-insensitive.
	ByTitle(ctx context.Context, title string, foldCase bool) (*models.Tag, error)
	List(ctx context.Context) ([]*models.Tag, error)
	// BlogRefCount returns how many blogs still reference the tag.
	BlogRefCount(ctx context.Context, tagID uint) (int64, error)
	Delete(ctx context.Context, tagID uint) error
}

// BlogQuery describes one composed blog listing request. Filters are mutually
// independent; zero values leave the corresponding predicate out.
type BlogQuery struct {
	// ViewerID drives the is_favourited annotation; nil means anonymous and
	// skips the favourites lookup entirely.
	ViewerID *uint

	UserID     *uint    // restrict to one author's blogs
	CategoryID *uint    // exact category match
	TagTitles  []string // at least one tag title must match
	SearchTerm string   // case-insensitive over blog, category and tag titles

	Limit  int
	Offset int
}

// BlogRepository defines operations for blogs, including the composed
// filtered/searched listings and the per-viewer favourite annotation.
type BlogRepository interface {
	Repository[models.Blog, models.BlogFilter]
	BySlug(ctx context.Context, slug string, viewerID *uint) (*models.Blog, error)
	ByIDWithRelations(ctx context.Context, id uint, viewerID *uint) (*models.Blog, error)
	List(ctx context.Context, q BlogQuery) ([]*models.Blog, error)
	// CountList counts the rows List would yield for the same query,
	// ignoring Limit and Offset.
	CountList(ctx context.Context, q BlogQuery) (int64, error)
	ListFavouritesOf(ctx context.Context, userID uint) ([]*models.Blog, error)
	ListRelated(ctx context.Context, categoryID, excludeBlogID uint) ([]*models.Blog, error)
	// SlugExists reports whether any blog other than excludeID already holds
	// the slug. foldCase makes the check case-insensitive.
	SlugExists(ctx context.Context, slug string, excludeID uint, foldCase bool) (bool, error)
	Update(ctx context.Context, blog *models.Blog) error
	Delete(ctx context.Context, blogID uint) error
	// ReplaceTags swaps the blog's tag association for the given set.
	ReplaceTags(ctx context.Context, blog *models.Blog, tags []*models.Tag) error
}

// FavouriteRepository defines operations for favourites
type FavouriteRepository interface {
	Repository[models.Favourite, models.FavouriteFilter]
	ByUserAndBlog(ctx context.Context, userID, blogID uint) (*models.Favourite, error)
	DeleteByUserAndBlog(ctx context.Context, userID, blogID uint) (int64, error)
}

// ReviewRepository defines operations for reviews
type ReviewRepository interface {
	Repository[models.Review, models.ReviewFilter]
	ListByBlog(ctx context.Context, blogID uint) ([]*models.Review, error)
}
